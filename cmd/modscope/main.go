// Package main provides the entry point for the modscope CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/modscope/modscope/cmd/modscope/commands"
	"github.com/modscope/modscope/pkg/version"
)

// errMissingSubcommand is returned when modscope is invoked without a subcommand.
var errMissingSubcommand = errors.New("missing subcommand")

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "modscope",
		Short: "Modscope - change-impact module resolver for multi-module builds",
		Long: `Modscope resolves which build modules are affected by the files changed
between two revisions, so CI pipelines can scope their build and test
invocations instead of rebuilding everything.

Commands:
  modules-from-diff  Resolve affected modules from a revision diff
  list-modules       List every build module in the repository`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.ErrOrStderr())
			_ = cmd.Help()

			return errMissingSubcommand
		},
	}

	rootCmd.AddCommand(commands.NewModulesFromDiffCommand())
	rootCmd.AddCommand(commands.NewListModulesCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "modscope %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
