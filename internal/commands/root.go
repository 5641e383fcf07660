package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockwise-dev/agingprov/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "agingprov",
		Short:   "Inventory aging provision and GL entry builder",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newSeasonCommand())
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
