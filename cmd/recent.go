package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/stats"
)

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recent sessions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if recentLimit <= 0 {
			return fmt.Errorf("-n must be positive, got %d", recentLimit)
		}
		return recentTable(stats.Recent(loadRecords(cmd.Context()), recentLimit))
	},
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 10, "Number of sessions to show")
	rootCmd.AddCommand(recentCmd)
}
