package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/output"
	"github.com/joescharf/pomo/internal/stats"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the statistics dashboard",
	Long: `Show focus totals, completion rate, streaks, a per-day heatmap,
productivity by hour of day, and the most recent sessions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statsRun(cmd.Context(), statsDays)
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsDays, "days", "d", stats.WeekDays, "Number of days in the heatmap")
	rootCmd.AddCommand(statsCmd)
}

func statsRun(ctx context.Context, days int) error {
	if days <= 0 || days > stats.MaxHeatDays {
		return fmt.Errorf("--days must be between 1 and %d, got %d", stats.MaxHeatDays, days)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	records := loadRecords(ctx)
	if len(records) == 0 {
		ui.Info("No sessions logged yet. Start a focus session to see stats!")
		return nil
	}

	today := now()
	sum := stats.Summarize(records, today, cfg.DailyGoalSessions)

	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "  %s\n\n", output.Bold("Statistics Dashboard"))

	table := ui.Table([]string{"Metric", "Value"})
	_ = table.Append([]string{"Total Focus Time", output.FormatDuration(sum.TotalFocusSeconds)})
	_ = table.Append([]string{"Completed Time", output.FormatDuration(sum.CompletedFocusSeconds)})
	_ = table.Append([]string{"Completion Rate", fmt.Sprintf("%s (%d/%d)",
		output.RateColor(sum.CompletionRate), sum.CompletedSessions, sum.FocusSessions)})
	_ = table.Append([]string{"Current Streak", output.Plural(sum.Streaks.Current, "day")})
	_ = table.Append([]string{"Best Streak", output.Plural(sum.Streaks.Best, "day")})
	if !sum.BestDay.IsZero() {
		_ = table.Append([]string{"Best Day", fmt.Sprintf("%s (%s)",
			sum.BestDay.Format("Mon Jan 2"), output.FormatDuration(sum.BestDaySeconds))})
	}
	_ = table.Append([]string{"This Week", fmt.Sprintf("%s across %s",
		output.FormatDuration(sum.WeekFocusSeconds), output.Plural(sum.WeekSessions, "session"))})
	_ = table.Append([]string{"Today", goalText(sum)})
	if !sum.FirstSession.IsZero() {
		_ = table.Append([]string{"Active Since", sum.FirstSession.Format("Jan 2, 2006")})
	}
	if err := table.Render(); err != nil {
		return err
	}

	heat := sum.Heatmap
	if days != stats.WeekDays {
		heat = stats.Heatmap(records, today, days)
	}
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, output.Heatmap(heat, today))
	fmt.Fprintln(ui.Out)
	fmt.Fprintln(ui.Out, output.HourlyChart(sum.Hourly))
	fmt.Fprintln(ui.Out)

	fmt.Fprintf(ui.Out, "  %s\n", output.Bold("Recent Sessions"))
	return recentTable(stats.Recent(records, 10))
}

func goalText(sum stats.Summary) string {
	s := fmt.Sprintf("%d/%d focus sessions", sum.TodayCompleted, sum.DailyGoal)
	if sum.GoalMet() {
		return s + " " + output.Green("✓ goal met")
	}
	return s
}

// printGoalProgress shows today's completed count against the daily goal.
func printGoalProgress(ctx context.Context, goal int) {
	records := loadRecords(context.WithoutCancel(ctx))
	sum := stats.Summarize(records, now(), goal)
	if sum.GoalMet() {
		ui.Success("Today: %s", goalText(sum))
		return
	}
	ui.Info("Today: %s", goalText(sum))
}

// recentTable prints sessions most recent first.
func recentTable(records []*models.Session) error {
	if len(records) == 0 {
		ui.Info("No sessions logged yet.")
		return nil
	}
	table := ui.Table([]string{"", "Started", "Kind", "Duration", "Label"})
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		_ = table.Append([]string{
			output.StatusMark(r.Completed),
			r.StartedAt.Local().Format(time.DateOnly + " 15:04"),
			output.KindColor(r.Kind, r.Kind.Title()),
			fmt.Sprintf("%s / %s", output.FormatClock(r.Actual()), output.FormatClock(r.Planned())),
			r.Label,
		})
	}
	return table.Render()
}
