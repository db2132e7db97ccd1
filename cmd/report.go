package cmd

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/output"
	"github.com/joescharf/pomo/internal/stats"
)

var reportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the session log as JSON, CSV, or Markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return exportRun(cmd.Context())
	},
}

func init() {
	exportCmd.Flags().StringVar(&reportFormat, "format", "json", "Output format: json, csv, markdown")
	rootCmd.AddCommand(exportCmd)
}

func exportRun(ctx context.Context) error {
	s, err := getStore()
	if err != nil {
		return err
	}
	sessions, err := s.List(ctx)
	if err != nil {
		return err
	}
	return exportSessions(ui.Out, sessions, reportFormat)
}

func exportSessions(w io.Writer, sessions []*models.Session, format string) error {
	switch format {
	case "json":
		if sessions == nil {
			sessions = []*models.Session{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	case "csv":
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"ID", "Kind", "PlannedSeconds", "ActualSeconds", "Completed", "Label", "StartedAt"})
		for _, s := range sessions {
			_ = cw.Write([]string{s.ID, string(s.Kind), strconv.Itoa(s.PlannedSeconds), strconv.Itoa(s.ActualSeconds),
				strconv.FormatBool(s.Completed), s.Label, s.StartedAt.Format(time.RFC3339)})
		}
		cw.Flush()
		return cw.Error()
	case "markdown":
		fmt.Fprintln(w, "# Sessions")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "| Started | Kind | Actual | Planned | Completed | Label |")
		fmt.Fprintln(w, "|---------|------|--------|---------|-----------|-------|")
		for _, s := range sessions {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %t | %s |\n",
				s.StartedAt.Format("2006-01-02 15:04"), s.Kind.Title(),
				output.FormatClock(s.Actual()), output.FormatClock(s.Planned()), s.Completed, escapeCell(s.Label))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate reports",
	Long:  "Generate summary reports of focus activity.",
}

var reportWeeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Generate weekly focus summary in Markdown",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return reportWeeklyRun(cmd.Context())
	},
}

func init() {
	reportCmd.AddCommand(reportWeeklyCmd)
	rootCmd.AddCommand(reportCmd)
}

func reportWeeklyRun(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	writeWeeklyReport(ui.Out, loadRecords(ctx), now(), cfg.DailyGoalSessions)
	return nil
}

// writeWeeklyReport renders the last seven days as Markdown: one row per
// day and focus time per label.
func writeWeeklyReport(w io.Writer, records []*models.Session, today time.Time, goal int) {
	sum := stats.Summarize(records, today, goal)

	fmt.Fprintln(w, "# Weekly Report")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- Focus time: %s across %d sessions\n", output.FormatDuration(sum.WeekFocusSeconds), sum.WeekSessions)
	fmt.Fprintf(w, "- Current streak: %d days (best %d)\n", sum.Streaks.Current, sum.Streaks.Best)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Day | Completed | Focus | Goal |")
	fmt.Fprintln(w, "|-----|-----------|-------|------|")
	for _, d := range sum.Heatmap {
		met := ""
		if d.Completed >= goal {
			met = "yes"
		}
		fmt.Fprintf(w, "| %s | %d | %s | %s |\n", d.Date.Format("Mon 2006-01-02"), d.Completed, output.FormatDuration(d.FocusSeconds), met)
	}

	weekStart, weekEnd := sum.Heatmap[0].Date, sum.Heatmap[len(sum.Heatmap)-1].Date
	perLabel := make(map[string]int)
	for _, r := range records {
		if !r.IsFocus() {
			continue
		}
		y, m, d := r.StartedAt.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		if day.Before(weekStart) || day.After(weekEnd) {
			continue
		}
		label := r.Label
		if label == "" {
			label = "(unlabelled)"
		}
		perLabel[label] += r.ActualSeconds
	}
	if len(perLabel) == 0 {
		return
	}

	labels := make([]string, 0, len(perLabel))
	for l := range perLabel {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if perLabel[labels[i]] != perLabel[labels[j]] {
			return perLabel[labels[i]] > perLabel[labels[j]]
		}
		return labels[i] < labels[j]
	})

	fmt.Fprintln(w)
	fmt.Fprintln(w, "## By Label")
	fmt.Fprintln(w)
	for _, l := range labels {
		fmt.Fprintf(w, "- %s: %s\n", l, output.FormatDuration(perLabel[l]))
	}
}
