package changeset //nolint:testpackage // testing internal splitting.

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modscope/modscope/pkg/diffstrategy"
)

type fakeRunner struct {
	stdout  string
	stderr  string
	err     error
	gotDir  string
	gotArgs []string
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) ([]byte, []byte, error) {
	f.gotDir = dir
	f.gotArgs = args

	return []byte(f.stdout), []byte(f.stderr), f.err
}

func TestExtract_ReturnsChangedPaths(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: "moduleA/src/main/java/Foo.java\n\nmoduleB/pom.xml\n"}
	extractor := NewExtractor(runner)

	paths, err := extractor.Extract(context.Background(), ".", diffstrategy.Request{Base: "HEAD~1", Head: "HEAD"})
	require.NoError(t, err)
	assert.Equal(t, []string{"moduleA/src/main/java/Foo.java", "moduleB/pom.xml"}, paths)
	assert.Equal(t, []string{"diff", "--name-only", "HEAD~1", "HEAD"}, runner.gotArgs)
	assert.Equal(t, ".", runner.gotDir)
}

func TestExtract_EmptyDiff(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(&fakeRunner{stdout: ""})

	paths, err := extractor.Extract(context.Background(), ".", diffstrategy.Request{Base: "origin/main"})
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestExtract_InvocationFault(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stderr: "fatal: bad revision 'HEAD~1'", err: errors.New("exit status 128")}
	extractor := NewExtractor(runner)

	paths, err := extractor.Extract(context.Background(), ".", diffstrategy.Request{Base: "HEAD~1", Head: "HEAD"})
	require.Error(t, err)
	assert.Nil(t, paths)

	var diffErr *DiffError
	require.ErrorAs(t, err, &diffErr)
	assert.Equal(t, -1, diffErr.ExitCode)
	assert.Contains(t, diffErr.Stderr, "bad revision")
	assert.Equal(t, []string{"diff", "--name-only", "HEAD~1", "HEAD"}, diffErr.Args)
}

func TestGitRunner_LaunchFaultSurfacesAsDiffError(t *testing.T) {
	t.Parallel()

	extractor := NewExtractor(GitRunner{})

	// A nonexistent working directory guarantees a launch fault without
	// depending on repository state.
	_, err := extractor.Extract(context.Background(), "/nonexistent/modscope-test", diffstrategy.Request{Base: "HEAD"})
	require.Error(t, err)

	var diffErr *DiffError
	require.ErrorAs(t, err, &diffErr)
	assert.Equal(t, -1, diffErr.ExitCode)
}
