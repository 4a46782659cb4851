// Package modresolve maps a changed file to its owning build module by
// locating the nearest ancestor directory containing a build manifest.
package modresolve

import (
	"os"
	"path/filepath"
	"strings"
)

// RootModule is the sentinel for the repository root. It marks the outermost
// module boundary but is never a valid resolution result.
const RootModule = "."

// Prober answers manifest existence probes. Tests substitute an in-memory
// tree for the real filesystem.
type Prober interface {
	// ManifestExists reports whether dir (root-relative, slash-separated,
	// RootModule for the root) contains a build manifest.
	ManifestExists(dir string) bool
}

// OSProber probes a real repository on disk.
type OSProber struct {
	// Root is the repository root directory.
	Root string

	// Manifest is the build manifest basename.
	Manifest string
}

// ManifestExists reports whether dir holds a regular manifest file. Any
// probe fault counts as absent so resolution keeps walking toward the root.
func (p OSProber) ManifestExists(dir string) bool {
	manifestPath := filepath.Join(p.Root, filepath.FromSlash(dir), p.Manifest)

	info, err := os.Stat(manifestPath)
	if err != nil {
		return false
	}

	return info.Mode().IsRegular()
}

// MapProber is an in-memory Prober holding the set of directories that
// contain a manifest.
type MapProber map[string]bool

// ManifestExists reports whether dir is marked as containing a manifest.
func (m MapProber) ManifestExists(dir string) bool {
	return m[dir]
}

// Resolver resolves changed files to their owning modules.
type Resolver struct {
	prober Prober
}

// New creates a Resolver backed by prober.
func New(prober Prober) *Resolver {
	return &Resolver{prober: prober}
}

// Resolve walks from the file's directory toward the root and returns the
// first directory containing a manifest. A file beside a manifest resolves
// to that directory. A first hit at the root, or no hit at all, yields
// ok=false: the file owns no module and is dropped without error.
func (r *Resolver) Resolve(filePath string) (string, bool) {
	segments := strings.Split(filePath, "/")

	for depth := len(segments) - 1; depth >= 0; depth-- {
		dir := RootModule
		if depth > 0 {
			dir = strings.Join(segments[:depth], "/")
		}

		if !r.prober.ManifestExists(dir) {
			continue
		}

		if dir == RootModule {
			return "", false
		}

		return dir, true
	}

	return "", false
}
