package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/joescharf/pomo/internal/stats"
)

const (
	heatWidth     = 20
	heatCapSecs   = 2 * 60 * 60
	hourlyWidth   = 24
	chartRuleSize = 58
)

// Heat levels, indexed by HeatLevel.
var heatStyles = []lipgloss.Style{
	lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
	lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
}

var (
	hourlyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	todayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// HeatLevel buckets a day's completed focus count: 0, 1-2, 3-4, 5+.
func HeatLevel(completed int) int {
	switch {
	case completed <= 0:
		return 0
	case completed <= 2:
		return 1
	case completed <= 4:
		return 2
	default:
		return 3
	}
}

func chartHeader(title string) string {
	return "  " + titleStyle.Render(title) + "\n  " + ruleStyle.Render(strings.Repeat("─", chartRuleSize))
}

// Heatmap renders one row per day, oldest first. Bar length tracks focus
// time up to two hours; color tracks completed sessions.
func Heatmap(days []stats.DayCount, today time.Time) string {
	var b strings.Builder
	b.WriteString(chartHeader(fmt.Sprintf("Last %d Days Heatmap", len(days))))

	ty, tm, td := today.Date()
	for _, d := range days {
		filled := heatWidth * min(d.FocusSeconds, heatCapSecs) / heatCapSecs
		if d.FocusSeconds > 0 && filled == 0 {
			filled = 1
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", heatWidth-filled)

		marker := ""
		if y, m, dd := d.Date.Date(); y == ty && m == tm && dd == td {
			marker = todayStyle.Render("◀ today")
		}
		fmt.Fprintf(&b, "\n  %s  %s  %6s  %s  %s",
			d.Date.Format("Mon 01-02"),
			heatStyles[HeatLevel(d.Completed)].Render(bar),
			FormatDuration(d.FocusSeconds),
			Gray(fmt.Sprintf("(%d done)", d.Completed)),
			marker,
		)
	}
	return b.String()
}

// HourlyChart renders completed focus sessions by hour of day, skipping
// empty hours.
func HourlyChart(hist [24]int) string {
	var b strings.Builder
	b.WriteString(chartHeader("Productivity by Hour"))

	peak := 0
	for _, n := range hist {
		peak = max(peak, n)
	}
	if peak == 0 {
		b.WriteString("\n  " + Gray("No data available."))
		return b.String()
	}

	for h, n := range hist {
		if n == 0 {
			continue
		}
		bar := strings.Repeat("█", max(1, hourlyWidth*n/peak))
		fmt.Fprintf(&b, "\n  %02d:00  %s  %d", h, hourlyStyle.Render(bar), n)
	}
	return b.String()
}
