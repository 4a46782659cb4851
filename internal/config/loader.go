package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/modscope/modscope/pkg/diffstrategy"
	"github.com/modscope/modscope/pkg/relevance"
)

// configName is the config file name without extension.
const configName = ".modscope"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for modscope settings.
const envPrefix = "MODSCOPE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	rules := relevance.DefaultRules()

	viperCfg.SetDefault("build.manifest", rules.Manifest)
	viperCfg.SetDefault("build.source_extensions", rules.SourceExtensions)
	viperCfg.SetDefault("build.resource_roots", rules.ResourceRoots)
	viperCfg.SetDefault("build.config_extensions", rules.ConfigExtensions)
	viperCfg.SetDefault("build.properties_extensions", rules.PropertiesExtensions)
	viperCfg.SetDefault("build.doc_extensions", rules.DocExtensions)
	viperCfg.SetDefault("build.doc_files", rules.DocFiles)

	viperCfg.SetDefault("branches.integration", diffstrategy.DefaultIntegrationBranch)
	viperCfg.SetDefault("branches.maintenance_pattern", diffstrategy.DefaultMaintenancePattern)

	viperCfg.SetDefault("telemetry.endpoint", "")
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.log_json", false)
	viperCfg.SetDefault("telemetry.log_level", "info")
}

// Rules converts the build section into relevance rules.
func (c *Config) Rules() relevance.Rules {
	return relevance.Rules{
		Manifest:             c.Build.Manifest,
		SourceExtensions:     c.Build.SourceExtensions,
		ResourceRoots:        c.Build.ResourceRoots,
		ConfigExtensions:     c.Build.ConfigExtensions,
		PropertiesExtensions: c.Build.PropertiesExtensions,
		DocExtensions:        c.Build.DocExtensions,
		DocFiles:             c.Build.DocFiles,
	}
}
