package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockwise-dev/agingprov/internal/season"
)

func newSeasonCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "season RAW...",
		Short: "Print the standardized season code for each raw season description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, raw := range args {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", raw, season.Standardize(raw))
			}
			return nil
		},
	}
}
