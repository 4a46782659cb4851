// Package relevance classifies changed files as build-relevant or not. Only
// files capable of changing a module's compiled artifact or test behavior
// may trigger inclusion of that module; documentation changes never do.
package relevance

import (
	"path"
	"slices"
	"strings"

	"github.com/src-d/enry/v2"
)

// Rule names reported in the classification trace.
const (
	RuleRootManifest       = "root-manifest"
	RuleSource             = "source"
	RuleManifest           = "manifest"
	RuleResources          = "resources"
	RuleResourceConfig     = "resource-config"
	RuleResourceProperties = "resource-properties"
	RuleDocumentation      = "documentation"
	RuleVendored           = "vendored"
	RuleDefault            = "default"
)

// Rules holds the file conventions of the build tree under analysis.
type Rules struct {
	// Manifest is the build manifest basename marking a module boundary.
	Manifest string

	// SourceExtensions are compiled-source file extensions.
	SourceExtensions []string

	// ResourceRoots are directory segment runs holding build resources.
	ResourceRoots []string

	// ConfigExtensions are structured-config extensions under a resource root.
	ConfigExtensions []string

	// PropertiesExtensions are flat-properties extensions under a resource root.
	PropertiesExtensions []string

	// DocExtensions are documentation file extensions.
	DocExtensions []string

	// DocFiles are named top-level documentation and license files.
	DocFiles []string
}

// DefaultRules returns the Maven conventions of the target build trees.
func DefaultRules() Rules {
	return Rules{
		Manifest:             "pom.xml",
		SourceExtensions:     []string{".java"},
		ResourceRoots:        []string{"src/main/resources", "src/test/resources"},
		ConfigExtensions:     []string{".yml", ".yaml"},
		PropertiesExtensions: []string{".properties"},
		DocExtensions:        []string{".md", ".adoc", ".txt"},
		DocFiles: []string{
			"README.md",
			"LICENSE.txt",
			"CONTRIBUTING.adoc",
			"CODE_OF_CONDUCT.adoc",
			"NOTICE.txt",
			"SECURITY.md",
		},
	}
}

// Classification is a relevance verdict plus the rule that produced it.
// The rule name feeds the diagnostic trace only.
type Classification struct {
	Relevant bool
	Rule     string
}

// Classify applies the relevance rules to a repository-relative path,
// first match wins:
//
//  1. the root build manifest itself is irrelevant, so a root version bump
//     never triggers a full rebuild;
//  2. source files are relevant;
//  3. a module manifest at any depth is relevant;
//  4. anything under a resource root is relevant;
//  5. structured config under a resource root is relevant;
//  6. flat properties under a resource root are relevant;
//  7. documentation files are irrelevant;
//  8. everything else is irrelevant.
func (r Rules) Classify(filePath string) Classification {
	if filePath == r.Manifest {
		return Classification{Relevant: false, Rule: RuleRootManifest}
	}

	if hasAnySuffix(filePath, r.SourceExtensions) {
		return Classification{Relevant: true, Rule: RuleSource}
	}

	if path.Base(filePath) == r.Manifest {
		return Classification{Relevant: true, Rule: RuleManifest}
	}

	if r.underResourceRoot(filePath) {
		return Classification{Relevant: true, Rule: RuleResources}
	}

	if hasAnySuffix(filePath, r.ConfigExtensions) && r.underResourceRoot(filePath) {
		return Classification{Relevant: true, Rule: RuleResourceConfig}
	}

	if hasAnySuffix(filePath, r.PropertiesExtensions) && r.underResourceRoot(filePath) {
		return Classification{Relevant: true, Rule: RuleResourceProperties}
	}

	if r.isDocumentation(filePath) {
		return Classification{Relevant: false, Rule: RuleDocumentation}
	}

	if enry.IsVendor(filePath) {
		return Classification{Relevant: false, Rule: RuleVendored}
	}

	return Classification{Relevant: false, Rule: RuleDefault}
}

func (r Rules) isDocumentation(filePath string) bool {
	if hasAnySuffix(filePath, r.DocExtensions) {
		return true
	}

	if slices.Contains(r.DocFiles, filePath) {
		return true
	}

	return enry.IsDocumentation(filePath)
}

// underResourceRoot reports whether filePath contains one of the resource
// root segment runs. Matching is on whole segments, so "mysrc/main/resources"
// does not match "src/main/resources".
func (r Rules) underResourceRoot(filePath string) bool {
	padded := "/" + filePath + "/"

	for _, root := range r.ResourceRoots {
		if strings.Contains(padded, "/"+root+"/") {
			return true
		}
	}

	return false
}

func hasAnySuffix(filePath string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(filePath, suffix) {
			return true
		}
	}

	return false
}
