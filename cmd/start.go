package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/config"
	"github.com/joescharf/pomo/internal/models"
)

var (
	startLabel   string
	startMinutes int
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Long: `Start a single focus session in the foreground.

Press Ctrl+C (or run 'pomo pause' from another terminal) to pause; you can
then resume, restart, or stop and save the partial session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("minutes") {
			if err := config.ValidateMinutes("minutes", startMinutes); err != nil {
				return err
			}
		}
		return runSingle(cmd.Context(), models.KindFocus, startLabel, startMinutes)
	},
}

func init() {
	startCmd.Flags().StringVarP(&startLabel, "label", "l", "", "What you are working on")
	startCmd.Flags().IntVarP(&startMinutes, "minutes", "m", 0, "Override the configured focus length")
	rootCmd.AddCommand(startCmd)
}
