package modscope

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// reportFileMode is the permission mode for report artifacts.
const reportFileMode = 0o644

// Report is the YAML-serializable form of a pipeline run, written as a CI
// artifact for later inspection.
type Report struct {
	Strategy    string      `yaml:"strategy"`
	DiffCommand string      `yaml:"diff_command"`
	Degraded    string      `yaml:"degraded,omitempty"`
	Changed     []string    `yaml:"changed_files"`
	Files       []FileTrace `yaml:"files"`
	Modules     []string    `yaml:"modules"`
}

// NewReport builds a Report from a pipeline result.
func NewReport(result Result) Report {
	return Report{
		Strategy:    result.Strategy,
		DiffCommand: strings.Join(result.DiffArgs, " "),
		Degraded:    result.Degraded,
		Changed:     result.Changed,
		Files:       result.Files,
		Modules:     result.Modules,
	}
}

// WriteReport marshals the run report to path as YAML.
func WriteReport(path string, result Result) error {
	data, err := yaml.Marshal(NewReport(result))
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	writeErr := os.WriteFile(path, data, reportFileMode)
	if writeErr != nil {
		return fmt.Errorf("write report: %w", writeErr)
	}

	return nil
}
