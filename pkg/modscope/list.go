package modscope

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/modscope/modscope/pkg/modresolve"
)

// gitDirName is the repository metadata directory skipped during walks.
const gitDirName = ".git"

// ListModules walks the repository tree and returns every directory holding
// a build manifest, root-relative, slash-separated, sorted ascending. The
// root itself is excluded, matching the pipeline's root-exclusion invariant.
func ListModules(root, manifest string) ([]string, error) {
	var modules []string

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() && entry.Name() == gitDirName {
			return filepath.SkipDir
		}

		if entry.IsDir() || entry.Name() != manifest {
			return nil
		}

		rel, relErr := filepath.Rel(root, filepath.Dir(path))
		if relErr != nil {
			return relErr
		}

		dir := filepath.ToSlash(rel)
		if dir != modresolve.RootModule {
			modules = append(modules, dir)
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", root, walkErr)
	}

	sort.Strings(modules)

	return modules, nil
}
