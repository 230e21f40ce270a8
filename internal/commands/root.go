package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cashcopilot-dev/cashcopilot/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "cashcopilot",
		Short:   "Small-business cashflow analysis and forecasting",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newAnalyzeCommand())
	rootCmd.AddCommand(newServeCommand())

	return rootCmd
}
