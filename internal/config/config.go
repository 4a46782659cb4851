// Package config loads modscope settings from file, environment, and defaults.
package config

import (
	"errors"
	"fmt"
	"regexp"
)

// Config is the top-level configuration struct for modscope.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Build     BuildConfig     `mapstructure:"build"`
	Branches  BranchConfig    `mapstructure:"branches"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// BuildConfig holds the file conventions of the build tree under analysis.
type BuildConfig struct {
	Manifest             string   `mapstructure:"manifest"`
	SourceExtensions     []string `mapstructure:"source_extensions"`
	ResourceRoots        []string `mapstructure:"resource_roots"`
	ConfigExtensions     []string `mapstructure:"config_extensions"`
	PropertiesExtensions []string `mapstructure:"properties_extensions"`
	DocExtensions        []string `mapstructure:"doc_extensions"`
	DocFiles             []string `mapstructure:"doc_files"`
}

// BranchConfig holds the branch naming conventions driving strategy selection.
type BranchConfig struct {
	Integration        string `mapstructure:"integration"`
	MaintenancePattern string `mapstructure:"maintenance_pattern"`
}

// TelemetryConfig holds optional OTLP export and logging settings.
type TelemetryConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Headers     string  `mapstructure:"headers"`
	Insecure    bool    `mapstructure:"insecure"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
	LogJSON     bool    `mapstructure:"log_json"`
	LogLevel    string  `mapstructure:"log_level"`
}

// Sentinel errors for configuration validation.
var (
	// ErrEmptyManifest indicates the build manifest name is blank.
	ErrEmptyManifest = errors.New("build manifest name must not be empty")

	// ErrInvalidSampleRatio indicates the sample ratio is outside [0, 1].
	ErrInvalidSampleRatio = errors.New("telemetry sample ratio must be between 0 and 1")
)

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.Build.Manifest == "" {
		return ErrEmptyManifest
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	_, err := c.Branches.MaintenanceRegexp()
	if err != nil {
		return err
	}

	return nil
}

// MaintenanceRegexp compiles the maintenance branch pattern.
func (b BranchConfig) MaintenanceRegexp() (*regexp.Regexp, error) {
	pattern, err := regexp.Compile(b.MaintenancePattern)
	if err != nil {
		return nil, fmt.Errorf("compile maintenance pattern %q: %w", b.MaintenancePattern, err)
	}

	return pattern, nil
}
