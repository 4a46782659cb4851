package relevance //nolint:testpackage // testing rule internals.

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_DefaultRules(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()

	tests := []struct {
		path     string
		relevant bool
		rule     string
	}{
		// Root manifest never triggers a rebuild on its own.
		{"pom.xml", false, RuleRootManifest},
		// Sources.
		{"moduleA/src/main/java/Foo.java", true, RuleSource},
		{"moduleA/src/test/java/FooTests.java", true, RuleSource},
		// Module manifests at any depth.
		{"moduleA/pom.xml", true, RuleManifest},
		{"vector-stores/spring-ai-cassandra-store/pom.xml", true, RuleManifest},
		// Resource trees.
		{"moduleA/src/main/resources/application.yml", true, RuleResources},
		{"moduleA/src/test/resources/logback-test.xml", true, RuleResources},
		{"moduleA/src/main/resources/META-INF/spring.factories", true, RuleResources},
		// Documentation.
		{"README.md", false, RuleDocumentation},
		{"CONTRIBUTING.adoc", false, RuleDocumentation},
		{"moduleA/README.md", false, RuleDocumentation},
		{"LICENSE.txt", false, RuleDocumentation},
		// Everything else.
		{"moduleA/src/main/webapp/index.html", false, RuleDefault},
		{"Jenkinsfile", false, RuleDefault},
		{"moduleA/settings.xml", false, RuleDefault},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			got := rules.Classify(tt.path)
			assert.Equal(t, tt.relevant, got.Relevant, "relevance of %s", tt.path)
			assert.Equal(t, tt.rule, got.Rule, "rule for %s", tt.path)
		})
	}
}

func TestClassify_ResourceRootMatchesWholeSegments(t *testing.T) {
	t.Parallel()

	rules := DefaultRules()

	assert.False(t, rules.Classify("moduleA/mysrc/main/resourcesx/app.yml").Relevant)
	assert.True(t, rules.Classify("moduleA/src/main/resources/app.yml").Relevant)
}

func TestClassify_VendoredPaths(t *testing.T) {
	t.Parallel()

	got := DefaultRules().Classify("node_modules/left-pad/index.js")
	assert.False(t, got.Relevant)
	assert.Equal(t, RuleVendored, got.Rule)
}

func TestClassify_CustomConventions(t *testing.T) {
	t.Parallel()

	rules := Rules{
		Manifest:         "BUILD.bazel",
		SourceExtensions: []string{".kt", ".java"},
		ResourceRoots:    []string{"resources"},
		DocExtensions:    []string{".md"},
	}

	assert.False(t, rules.Classify("BUILD.bazel").Relevant)
	assert.True(t, rules.Classify("lib/BUILD.bazel").Relevant)
	assert.True(t, rules.Classify("lib/Main.kt").Relevant)
	assert.True(t, rules.Classify("lib/resources/data.csv").Relevant)
	assert.False(t, rules.Classify("lib/CHANGELOG.md").Relevant)
}
