// Package cienv provides injectable access to the CI context values that
// drive diff strategy selection. Lookups go through a Provider so tests can
// substitute a fixed mapping for the real process environment.
package cienv

import "os"

const (
	// KeyPullRequestBase is the pull-request base branch name (GitHub Actions).
	KeyPullRequestBase = "GITHUB_BASE_REF"

	// KeyPullRequestHead is the pull-request head ref name (GitHub Actions).
	KeyPullRequestHead = "GITHUB_HEAD_REF"

	// KeyRefName is the branch or tag name that triggered the workflow.
	KeyRefName = "GITHUB_REF_NAME"
)

// Provider maps fixed context key names to optional string values.
type Provider interface {
	// Lookup returns the value for key and whether it is present.
	Lookup(key string) (string, bool)
}

// OS reads context values from the real process environment.
type OS struct{}

// Lookup returns the environment variable value for key.
func (OS) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Map is a fixed in-memory Provider for tests.
type Map map[string]string

// Lookup returns the mapped value for key.
func (m Map) Lookup(key string) (string, bool) {
	value, ok := m[key]

	return value, ok
}

// Get returns the value for key from p, or empty when absent.
func Get(p Provider, key string) string {
	value, _ := p.Lookup(key)

	return value
}
