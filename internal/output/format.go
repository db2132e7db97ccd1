package output

import (
	"fmt"
	"time"
)

// FormatClock renders d as MM:SS, or H:MM:SS from one hour up.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatDuration renders a second count the way the dashboard shows totals:
// "2h 05m", "25m", or "40s".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m := seconds/3600, (seconds%3600)/60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

// Plural returns "1 day", "2 days" and so on.
func Plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
