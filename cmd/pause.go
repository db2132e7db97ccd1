package cmd

import (
	"github.com/spf13/cobra"
)

var pauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the timer running in another terminal",
	Long: `Pause the running timer as if Ctrl+C had been pressed in its terminal.
The resume/restart/stop choice is made in that terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if dryRun {
			ui.DryRunMsg("Would pause the running timer")
			return nil
		}
		pid, err := pidFile().Pause()
		if err != nil {
			return err
		}
		ui.Success("Paused timer (pid %d)", pid)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pauseCmd)
}
