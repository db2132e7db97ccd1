package stats

import (
	"time"

	"github.com/joescharf/pomo/internal/models"
)

// WeekDays is the length of the trailing window used for weekly totals and
// the dashboard heatmap.
const WeekDays = 7

// Summary bundles every dashboard figure for one point in time.
type Summary struct {
	FocusSessions         int
	CompletedSessions     int
	TotalFocusSeconds     int
	CompletedFocusSeconds int
	CompletionRate        float64
	Streaks               Streaks

	// BestDay is the date with the most focus seconds; zero when the log has
	// no focus sessions.
	BestDay        time.Time
	BestDaySeconds int

	WeekFocusSeconds int
	WeekSessions     int

	TodayCompleted    int
	TodayFocusSeconds int
	DailyGoal         int

	// FirstSession is the earliest StartedAt in the log; zero for an empty log.
	FirstSession time.Time

	Heatmap []DayCount
	Hourly  [24]int
}

// GoalMet reports whether today's completed sessions reached the daily goal.
func (s Summary) GoalMet() bool {
	return s.DailyGoal > 0 && s.TodayCompleted >= s.DailyGoal
}

// Summarize computes the dashboard summary for today.
func Summarize(records []*models.Session, today time.Time, dailyGoal int) Summary {
	s := Summary{
		TotalFocusSeconds: TotalFocusSeconds(records),
		CompletionRate:    CompletionRate(records),
		Streaks:           ComputeStreaks(records, today),
		Heatmap:           Heatmap(records, today, WeekDays),
		Hourly:            HourlyHistogram(records),
		DailyGoal:         dailyGoal,
	}

	perDay := make(map[time.Time]int)
	for _, r := range records {
		if s.FirstSession.IsZero() || r.StartedAt.Before(s.FirstSession) {
			s.FirstSession = r.StartedAt
		}
		if !r.IsFocus() {
			continue
		}
		s.FocusSessions++
		if r.Completed {
			s.CompletedSessions++
			s.CompletedFocusSeconds += r.ActualSeconds
		}
		perDay[dayOf(r.StartedAt)] += r.ActualSeconds
	}

	for day, secs := range perDay {
		// Earliest date wins a tie so the result does not depend on map order.
		if secs > s.BestDaySeconds || (secs == s.BestDaySeconds && day.Before(s.BestDay)) {
			s.BestDay, s.BestDaySeconds = day, secs
		}
	}

	for _, cell := range s.Heatmap {
		s.WeekFocusSeconds += cell.FocusSeconds
	}
	weekStart := dayOf(today).AddDate(0, 0, -(WeekDays - 1))
	todayDay := dayOf(today)
	for _, r := range records {
		if !r.IsFocus() {
			continue
		}
		d := dayOf(r.StartedAt)
		if !d.Before(weekStart) && !d.After(todayDay) {
			s.WeekSessions++
		}
	}

	if n := len(s.Heatmap); n > 0 {
		s.TodayCompleted = s.Heatmap[n-1].Completed
		s.TodayFocusSeconds = s.Heatmap[n-1].FocusSeconds
	}
	return s
}
