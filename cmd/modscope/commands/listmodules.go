package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modscope/modscope/internal/config"
	"github.com/modscope/modscope/pkg/modscope"
)

// ListModulesCommand holds configuration for the list-modules command.
type ListModulesCommand struct {
	repoDir    string
	configPath string

	stdout io.Writer
}

// NewListModulesCommand creates the list-modules cobra command.
func NewListModulesCommand() *cobra.Command {
	return newListModulesCommand(os.Stdout)
}

func newListModulesCommand(stdout io.Writer) *cobra.Command {
	handler := &ListModulesCommand{stdout: stdout}

	cmd := &cobra.Command{
		Use:   "list-modules",
		Short: "List every build module in the repository tree",
		Long: `Walk the repository for build manifests and print the full module
list, sorted and comma-separated, in the same format as modules-from-diff.
Useful for computing the full-build complement of a scoped build.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handler.run()
		},
	}

	cmd.Flags().StringVar(&handler.repoDir, "repo", ".", "repository root directory")
	cmd.Flags().StringVar(&handler.configPath, "config", "", "explicit config file path")

	return cmd
}

func (h *ListModulesCommand) run() error {
	cfg, err := config.LoadConfig(h.configPath)
	if err != nil {
		return err
	}

	modules, err := modscope.ListModules(h.repoDir, cfg.Build.Manifest)
	if err != nil {
		return err
	}

	fmt.Fprintln(h.stdout, strings.Join(modules, ","))

	return nil
}
