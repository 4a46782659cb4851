// Package changeset extracts the changed-file list between two revisions by
// invoking git. Extraction failures are reported as a typed error so the
// caller can degrade to an empty change set instead of aborting.
package changeset

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/modscope/modscope/pkg/diffstrategy"
)

// gitBinary is the version-control executable invoked for diffs.
const gitBinary = "git"

// Runner executes a git command in dir and returns its output streams.
// Tests substitute a fake to avoid spawning processes.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (stdout, stderr []byte, err error)
}

// GitRunner runs git as a subprocess.
type GitRunner struct{}

// Run executes git with args in dir, capturing stdout and stderr separately.
func (GitRunner) Run(ctx context.Context, dir string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, gitBinary, args...)
	cmd.Dir = dir

	var outBuf, errBuf bytes.Buffer

	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()

	return outBuf.Bytes(), errBuf.Bytes(), err
}

// DiffError describes a failed git diff invocation: the arguments used, the
// exit code (-1 for launch faults), and the captured stderr.
type DiffError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Err      error
}

// Error implements the error interface.
func (e *DiffError) Error() string {
	return fmt.Sprintf("git %s: exit %d: %s", strings.Join(e.Args, " "), e.ExitCode, strings.TrimSpace(e.Stderr))
}

// Unwrap returns the underlying process error.
func (e *DiffError) Unwrap() error {
	return e.Err
}

// Extractor turns a diff request into the list of changed file paths.
type Extractor struct {
	runner Runner
}

// NewExtractor creates an Extractor backed by runner. A nil runner selects
// the real git subprocess.
func NewExtractor(runner Runner) *Extractor {
	if runner == nil {
		runner = GitRunner{}
	}

	return &Extractor{runner: runner}
}

// Extract runs the name-only diff for req rooted at dir and returns the
// non-blank changed paths, repository-relative and slash-separated. On any
// invocation fault it returns a *DiffError; the caller is expected to map
// that to an empty change set.
func (e *Extractor) Extract(ctx context.Context, dir string, req diffstrategy.Request) ([]string, error) {
	args := req.Args()

	stdout, stderr, err := e.runner.Run(ctx, dir, args...)
	if err != nil {
		exitCode := -1

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}

		return nil, &DiffError{
			Args:     args,
			ExitCode: exitCode,
			Stderr:   string(stderr),
			Err:      err,
		}
	}

	return splitPaths(stdout), nil
}

// splitPaths splits name-only diff output into individual paths, dropping
// blank lines. Git already emits repository-relative, slash-separated paths.
func splitPaths(out []byte) []string {
	var paths []string

	for line := range strings.Lines(string(out)) {
		path := strings.TrimSpace(line)
		if path == "" {
			continue
		}

		paths = append(paths, path)
	}

	return paths
}
