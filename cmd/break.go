package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/config"
	"github.com/joescharf/pomo/internal/models"
)

var (
	breakLong    bool
	breakMinutes int
)

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Start a short or long break",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("minutes") {
			if err := config.ValidateMinutes("minutes", breakMinutes); err != nil {
				return err
			}
		}
		kind := models.KindShortBreak
		if breakLong {
			kind = models.KindLongBreak
		}
		return runSingle(cmd.Context(), kind, "", breakMinutes)
	},
}

func init() {
	breakCmd.Flags().BoolVar(&breakLong, "long", false, "Take a long break")
	breakCmd.Flags().IntVarP(&breakMinutes, "minutes", "m", 0, "Override the configured break length")
	rootCmd.AddCommand(breakCmd)
}
