package cmd

import (
	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/stats"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether a timer is running and today's progress",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pf := pidFile()
		if pid, running := pf.IsRunning(); running {
			ui.Success("Timer running (pid %d)", pid)
		} else {
			ui.Info("No timer running")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sum := stats.Summarize(loadRecords(cmd.Context()), now(), cfg.DailyGoalSessions)
		ui.Info("Today: %s", goalText(sum))
		ui.VerboseLog("PID file: %s", pf.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
