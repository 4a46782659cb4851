package modscope //nolint:testpackage // exercising pipeline internals.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/modscope/modscope/pkg/changeset"
	"github.com/modscope/modscope/pkg/diffstrategy"
	"github.com/modscope/modscope/pkg/modresolve"
)

type stubRunner struct {
	stdout string
	err    error
}

func (s stubRunner) Run(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
	if s.err != nil {
		return nil, []byte("fatal: simulated"), s.err
	}

	return []byte(s.stdout), nil, nil
}

func runWith(t *testing.T, diff string, prober modresolve.Prober) Result {
	t.Helper()

	result, err := Run(context.Background(), Options{
		Extractor: changeset.NewExtractor(stubRunner{stdout: diff}),
		Prober:    prober,
	})
	require.NoError(t, err)

	return result
}

func TestRun_SingleModule(t *testing.T) {
	t.Parallel()

	result := runWith(t,
		"moduleA/src/main/java/Foo.java\nmoduleA/src/main/java/Bar.java\n",
		modresolve.MapProber{modresolve.RootModule: true, "moduleA": true},
	)

	assert.Equal(t, []string{"moduleA"}, result.Modules)
}

func TestRun_RootManifestOnly(t *testing.T) {
	t.Parallel()

	result := runWith(t, "pom.xml\n", modresolve.MapProber{modresolve.RootModule: true})

	assert.Empty(t, result.Modules)
}

func TestRun_DocumentationOnly(t *testing.T) {
	t.Parallel()

	result := runWith(t, "README.md\n", modresolve.MapProber{modresolve.RootModule: true, "docs": true})

	assert.Empty(t, result.Modules)
	require.Len(t, result.Files, 1)
	assert.False(t, result.Files[0].Relevant)
}

func TestRun_TwoModulesSortedAndDeduplicated(t *testing.T) {
	t.Parallel()

	// Input order is reversed and moduleB appears twice.
	result := runWith(t,
		"moduleB/y.java\nmoduleA/x.java\nmoduleB/z.java\n",
		modresolve.MapProber{"moduleA": true, "moduleB": true},
	)

	assert.Equal(t, []string{"moduleA", "moduleB"}, result.Modules)
}

func TestRun_DiffFailureDegradesToEmpty(t *testing.T) {
	t.Parallel()

	result, err := Run(context.Background(), Options{
		Extractor: changeset.NewExtractor(stubRunner{err: errors.New("exit status 128")}),
		Prober:    modresolve.MapProber{"moduleA": true},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Modules)
	assert.Empty(t, result.Changed)
	assert.NotEmpty(t, result.Degraded)
}

func TestRun_DeepestManifestWins(t *testing.T) {
	t.Parallel()

	result := runWith(t,
		"a/b/c/Foo.java\n",
		modresolve.MapProber{"a": true, "a/b": true},
	)

	assert.Equal(t, []string{"a/b"}, result.Modules)
}

func TestRun_IrrelevantFilesNeverResolve(t *testing.T) {
	t.Parallel()

	// The manifest layout would resolve these paths if they were probed;
	// classification must stop them first.
	result := runWith(t,
		"moduleA/README.md\nmoduleA/notes.txt\n",
		modresolve.MapProber{"moduleA": true},
	)

	assert.Empty(t, result.Modules)

	for _, entry := range result.Files {
		assert.False(t, entry.Relevant)
		assert.Empty(t, entry.Module)
	}
}

func TestRun_OrphanRelevantFileIsDropped(t *testing.T) {
	t.Parallel()

	result := runWith(t, "orphan/Foo.java\n", modresolve.MapProber{})

	assert.Empty(t, result.Modules)
	require.Len(t, result.Files, 1)
	assert.True(t, result.Files[0].Relevant)
	assert.Empty(t, result.Files[0].Module)
}

func TestRun_BranchRuleBeatsExplicitBase(t *testing.T) {
	t.Parallel()

	// Regression pin: on a maintenance branch the auto-detection rule fires
	// even when an explicit base is supplied.
	result, err := Run(context.Background(), Options{
		Extractor: changeset.NewExtractor(stubRunner{stdout: ""}),
		Prober:    modresolve.MapProber{},
		Strategy: diffstrategy.Context{
			RefName:      "1.0.x",
			ExplicitBase: "v0.9.0",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, diffstrategy.LabelIntegrationPush, result.Strategy)
	assert.Equal(t, []string{"git", "diff", "--name-only", "HEAD~1", "HEAD"}, result.DiffArgs)
}

func TestRun_Idempotent(t *testing.T) {
	t.Parallel()

	diff := "moduleB/y.java\nmoduleA/x.java\n"
	prober := modresolve.MapProber{"moduleA": true, "moduleB": true}

	first := runWith(t, diff, prober)
	second := runWith(t, diff, prober)

	assert.Equal(t, first.Modules, second.Modules)
}

func TestRun_NilExtractor(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), Options{})
	require.ErrorIs(t, err, ErrNoExtractor)
}

func TestWriteReport_RoundTrip(t *testing.T) {
	t.Parallel()

	result := runWith(t,
		"moduleA/x.java\nREADME.md\n",
		modresolve.MapProber{"moduleA": true},
	)

	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, WriteReport(path, result))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var report Report
	require.NoError(t, yaml.Unmarshal(data, &report))

	assert.Equal(t, result.Strategy, report.Strategy)
	assert.Equal(t, []string{"moduleA"}, report.Modules)
	assert.Len(t, report.Files, 2)
	assert.Contains(t, report.DiffCommand, "git diff --name-only")
}

func TestListModules_WalksSortedRootExcluded(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, dir := range []string{".", "vector-stores/cassandra", "advisors", "vector-stores"} {
		full := filepath.Join(root, filepath.FromSlash(dir))
		require.NoError(t, os.MkdirAll(full, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(full, "pom.xml"), []byte("<project/>"), 0o644))
	}

	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git", "objects"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git", "pom.xml"), []byte("trap"), 0o644))

	modules, err := ListModules(root, "pom.xml")
	require.NoError(t, err)

	assert.Equal(t, []string{"advisors", "vector-stores", "vector-stores/cassandra"}, modules)
}
