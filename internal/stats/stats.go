// Package stats derives display aggregates from the session log. Every
// function is pure: it reads the records it is given and the supplied date,
// and buckets each record by its own StartedAt, never by log position.
package stats

import (
	"sort"
	"time"

	"github.com/joescharf/pomo/internal/models"
)

// Streaks holds the current and best run of consecutive streak days.
type Streaks struct {
	Current int
	Best    int
}

// DayCount is one heatmap cell.
type DayCount struct {
	Date         time.Time // midnight, UTC-normalized calendar date
	Completed    int       // completed focus sessions
	FocusSeconds int       // actual focus seconds, completed or not
}

// dayOf returns the calendar date of t in t's own location, normalized to
// UTC midnight so day arithmetic is free of DST jumps.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CompletionRate returns completed focus sessions over all focus sessions,
// or 0 when there are none.
func CompletionRate(records []*models.Session) float64 {
	focus, completed := 0, 0
	for _, r := range records {
		if !r.IsFocus() {
			continue
		}
		focus++
		if r.Completed {
			completed++
		}
	}
	if focus == 0 {
		return 0
	}
	return float64(completed) / float64(focus)
}

// TotalFocusSeconds sums actual seconds across focus sessions.
func TotalFocusSeconds(records []*models.Session) int {
	total := 0
	for _, r := range records {
		if r.IsFocus() {
			total += r.ActualSeconds
		}
	}
	return total
}

// streakDays returns the set of dates with at least one completed focus session.
func streakDays(records []*models.Session) map[time.Time]bool {
	days := make(map[time.Time]bool)
	for _, r := range records {
		if r.CompletedFocus() {
			days[dayOf(r.StartedAt)] = true
		}
	}
	return days
}

// ComputeStreaks returns the current and best streaks as of today. A today
// without a completed focus session yet does not break the current streak.
func ComputeStreaks(records []*models.Session, today time.Time) Streaks {
	days := streakDays(records)
	if len(days) == 0 {
		return Streaks{}
	}

	var s Streaks
	d := dayOf(today)
	if !days[d] {
		d = d.AddDate(0, 0, -1)
	}
	for days[d] {
		s.Current++
		d = d.AddDate(0, 0, -1)
	}

	sorted := make([]time.Time, 0, len(days))
	for day := range days {
		sorted = append(sorted, day)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	run := 0
	for i, day := range sorted {
		if i > 0 && sorted[i-1].AddDate(0, 0, 1).Equal(day) {
			run++
		} else {
			run = 1
		}
		if run > s.Best {
			s.Best = run
		}
	}
	return s
}

// MaxHeatDays is the longest heatmap window. Longer requests are clamped.
const MaxHeatDays = 366

// Heatmap returns one entry per calendar day for the days ending at today,
// oldest first.
func Heatmap(records []*models.Session, today time.Time, days int) []DayCount {
	if days <= 0 {
		return []DayCount{}
	}
	days = min(days, MaxHeatDays)
	first := dayOf(today).AddDate(0, 0, -(days - 1))
	cells := make([]DayCount, days)
	index := make(map[time.Time]int, days)
	for i := range cells {
		cells[i].Date = first.AddDate(0, 0, i)
		index[cells[i].Date] = i
	}

	for _, r := range records {
		if !r.IsFocus() {
			continue
		}
		i, ok := index[dayOf(r.StartedAt)]
		if !ok {
			continue
		}
		cells[i].FocusSeconds += r.ActualSeconds
		if r.Completed {
			cells[i].Completed++
		}
	}
	return cells
}

// HourlyHistogram counts completed focus sessions by hour of day.
func HourlyHistogram(records []*models.Session) [24]int {
	var hist [24]int
	for _, r := range records {
		if r.CompletedFocus() {
			hist[r.StartedAt.Hour()]++
		}
	}
	return hist
}

// Recent returns the last n records in log order, most recent last.
func Recent(records []*models.Session, n int) []*models.Session {
	if n <= 0 {
		return []*models.Session{}
	}
	if n > len(records) {
		n = len(records)
	}
	out := make([]*models.Session, n)
	copy(out, records[len(records)-n:])
	return out
}
