// Package commands implements CLI command handlers for modscope.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modscope/modscope/internal/config"
	"github.com/modscope/modscope/pkg/changeset"
	"github.com/modscope/modscope/pkg/cienv"
	"github.com/modscope/modscope/pkg/diffstrategy"
	"github.com/modscope/modscope/pkg/modscope"
	"github.com/modscope/modscope/pkg/observability"
	"github.com/modscope/modscope/pkg/version"
)

// ModulesFromDiffCommand holds configuration and dependencies for the
// modules-from-diff command.
type ModulesFromDiffCommand struct {
	base       string
	repoDir    string
	reportPath string
	configPath string
	verbose    bool

	env    cienv.Provider
	runner changeset.Runner
	stdout io.Writer
	stderr io.Writer
}

// NewModulesFromDiffCommand creates the modules-from-diff cobra command
// wired to the real environment, git subprocess, and output streams.
func NewModulesFromDiffCommand() *cobra.Command {
	return newModulesFromDiffCommand(cienv.OS{}, nil, os.Stdout, os.Stderr)
}

func newModulesFromDiffCommand(env cienv.Provider, runner changeset.Runner, stdout, stderr io.Writer) *cobra.Command {
	handler := &ModulesFromDiffCommand{
		env:    env,
		runner: runner,
		stdout: stdout,
		stderr: stderr,
	}

	cmd := &cobra.Command{
		Use:   "modules-from-diff",
		Short: "Resolve the build modules affected by the changed files of a diff",
		Long: `Resolve which build modules are affected by the files changed between
two revisions, so CI can scope its build instead of rebuilding everything.

Prints exactly one line on stdout: a comma-separated, sorted module list
(usable directly as a module selection for a multi-module build), or an
empty line when no module is affected. Diff failures degrade to an empty
list; the exit code stays zero so the caller falls back to a full build.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handler.run(cmd)
		},
	}

	cmd.Flags().StringVar(&handler.base, "base", "", "explicit diff base ref")
	cmd.Flags().StringVar(&handler.repoDir, "repo", ".", "repository root directory")
	cmd.Flags().StringVar(&handler.reportPath, "report", "", "write a YAML run report to this path")
	cmd.Flags().StringVar(&handler.configPath, "config", "", "explicit config file path")
	cmd.Flags().BoolVar(&handler.verbose, "verbose", false, "emit a diagnostic trace to stderr")

	return cmd
}

func (h *ModulesFromDiffCommand) run(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig(h.configPath)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg)
	if err != nil {
		return err
	}
	defer shutdownProviders(providers, h.stderr)

	maintenance, err := cfg.Branches.MaintenanceRegexp()
	if err != nil {
		return err
	}

	result, err := modscope.Run(cmd.Context(), modscope.Options{
		RepoDir: h.repoDir,
		Rules:   cfg.Rules(),
		Strategy: diffstrategy.Context{
			ExplicitBase:       h.base,
			PullRequestBase:    cienv.Get(h.env, cienv.KeyPullRequestBase),
			PullRequestHead:    cienv.Get(h.env, cienv.KeyPullRequestHead),
			RefName:            cienv.Get(h.env, cienv.KeyRefName),
			IntegrationBranch:  cfg.Branches.Integration,
			MaintenancePattern: maintenance,
		},
		Extractor: changeset.NewExtractor(h.runner),
		Logger:    providers.Logger,
		Tracer:    providers.Tracer,
		Meter:     providers.Meter,
	})
	if err != nil {
		return err
	}

	if h.reportPath != "" {
		writeErr := modscope.WriteReport(h.reportPath, result)
		if writeErr != nil {
			providers.Logger.Warn("failed to write run report", "path", h.reportPath, "error", writeErr)
		}
	}

	if h.verbose {
		renderTrace(h.stderr, result)
	}

	fmt.Fprintln(h.stdout, strings.Join(result.Modules, ","))

	return nil
}

func initObservability(cfg *config.Config) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.OTLPEndpoint = cfg.Telemetry.Endpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.Headers)
	obsCfg.OTLPInsecure = cfg.Telemetry.Insecure
	obsCfg.SampleRatio = cfg.Telemetry.SampleRatio
	obsCfg.LogJSON = cfg.Telemetry.LogJSON
	obsCfg.LogLevel = parseLogLevel(cfg.Telemetry.LogLevel)

	return observability.Init(obsCfg)
}

func shutdownProviders(providers observability.Providers, stderr io.Writer) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		fmt.Fprintf(stderr, "telemetry shutdown: %v\n", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
