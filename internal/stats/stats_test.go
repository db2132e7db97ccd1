package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/pomo/internal/models"
)

func at(date string, hour, minute int) time.Time {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.UTC)
}

func focus(start time.Time, completed bool) *models.Session {
	s := &models.Session{
		Kind:           models.KindFocus,
		PlannedSeconds: 1500,
		ActualSeconds:  600,
		Completed:      completed,
		StartedAt:      start,
	}
	if completed {
		s.ActualSeconds = 1500
	}
	return s
}

func brk(start time.Time) *models.Session {
	return &models.Session{
		Kind:           models.KindShortBreak,
		PlannedSeconds: 300,
		ActualSeconds:  300,
		Completed:      true,
		StartedAt:      start,
	}
}

func TestEmptyLog(t *testing.T) {
	today := at("2024-01-05", 12, 0)

	assert.Equal(t, 0.0, CompletionRate(nil))
	assert.Equal(t, 0, TotalFocusSeconds(nil))
	assert.Equal(t, Streaks{}, ComputeStreaks(nil, today))
	assert.Equal(t, [24]int{}, HourlyHistogram(nil))
	assert.Empty(t, Recent(nil, 10))

	cells := Heatmap(nil, today, 7)
	require.Len(t, cells, 7)
	for _, c := range cells {
		assert.Zero(t, c.Completed)
	}
}

func TestCompletionRate(t *testing.T) {
	records := []*models.Session{
		focus(at("2024-01-01", 9, 0), true),
		focus(at("2024-01-01", 10, 0), true),
		focus(at("2024-01-01", 11, 0), false),
		brk(at("2024-01-01", 9, 30)),
	}
	assert.InDelta(t, 2.0/3.0, CompletionRate(records), 1e-9)
}

func TestCompletionRate_OnlyBreaks(t *testing.T) {
	records := []*models.Session{brk(at("2024-01-01", 9, 0))}
	assert.Equal(t, 0.0, CompletionRate(records))
}

func TestTotalFocusSeconds(t *testing.T) {
	records := []*models.Session{
		focus(at("2024-01-01", 9, 0), true),   // 1500
		focus(at("2024-01-01", 10, 0), false), // 600
		brk(at("2024-01-01", 9, 30)),
	}
	assert.Equal(t, 2100, TotalFocusSeconds(records))
}

func streakLog() []*models.Session {
	return []*models.Session{
		focus(at("2024-01-01", 9, 0), true),
		focus(at("2024-01-02", 9, 0), true),
		focus(at("2024-01-03", 9, 0), true),
		focus(at("2024-01-05", 9, 0), true),
	}
}

func TestComputeStreaks_GapBreaksCurrent(t *testing.T) {
	s := ComputeStreaks(streakLog(), at("2024-01-05", 18, 0))
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 3, s.Best)
}

func TestComputeStreaks_TodayInProgress(t *testing.T) {
	s := ComputeStreaks(streakLog(), at("2024-01-06", 8, 0))
	assert.Equal(t, 1, s.Current, "walk starts from yesterday when today has no session yet")
	assert.Equal(t, 3, s.Best)

	s = ComputeStreaks(streakLog()[:3], at("2024-01-04", 8, 0))
	assert.Equal(t, 3, s.Current)
}

func TestComputeStreaks_StaleStreak(t *testing.T) {
	s := ComputeStreaks(streakLog(), at("2024-01-08", 8, 0))
	assert.Equal(t, 0, s.Current)
	assert.Equal(t, 3, s.Best)
}

func TestComputeStreaks_AbandonedDaysDoNotCount(t *testing.T) {
	records := []*models.Session{
		focus(at("2024-01-01", 9, 0), true),
		focus(at("2024-01-02", 9, 0), false),
		brk(at("2024-01-02", 10, 0)),
		focus(at("2024-01-03", 9, 0), true),
	}
	s := ComputeStreaks(records, at("2024-01-03", 12, 0))
	assert.Equal(t, 1, s.Current)
	assert.Equal(t, 1, s.Best)
}

func TestComputeStreaks_OutOfOrderLog(t *testing.T) {
	// Appended out of calendar order (clock change); buckets follow timestamps.
	records := []*models.Session{
		focus(at("2024-01-03", 9, 0), true),
		focus(at("2024-01-01", 9, 0), true),
		focus(at("2024-01-02", 9, 0), true),
		focus(at("2024-01-02", 15, 0), true),
	}
	s := ComputeStreaks(records, at("2024-01-03", 20, 0))
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Best)
}

func TestComputeStreaks_AcrossMonthBoundary(t *testing.T) {
	records := []*models.Session{
		focus(at("2024-02-28", 9, 0), true),
		focus(at("2024-02-29", 9, 0), true),
		focus(at("2024-03-01", 9, 0), true),
	}
	s := ComputeStreaks(records, at("2024-03-01", 10, 0))
	assert.Equal(t, 3, s.Current)
	assert.Equal(t, 3, s.Best)
}

func TestComputeStreaks_UsesRecordLocalDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-01-01 23:30 in Tokyo is 14:30 UTC the same day; 2024-01-02 00:30
	// Tokyo is 2024-01-01 15:30 UTC. Buckets follow the recorded local dates.
	records := []*models.Session{
		focus(time.Date(2024, 1, 1, 23, 30, 0, 0, tokyo), true),
		focus(time.Date(2024, 1, 2, 0, 30, 0, 0, tokyo), true),
	}
	s := ComputeStreaks(records, time.Date(2024, 1, 2, 12, 0, 0, 0, tokyo))
	assert.Equal(t, 2, s.Current)
}

func TestHeatmap(t *testing.T) {
	records := []*models.Session{
		focus(at("2023-12-29", 9, 0), true), // outside window
		focus(at("2023-12-30", 9, 0), true),
		focus(at("2024-01-03", 9, 0), true),
		focus(at("2024-01-03", 11, 0), true),
		focus(at("2024-01-03", 13, 0), false),
		brk(at("2024-01-03", 9, 30)),
		focus(at("2024-01-05", 9, 0), true),
	}
	today := at("2024-01-05", 22, 0)

	cells := Heatmap(records, today, 7)
	require.Len(t, cells, 7)
	assert.Equal(t, at("2023-12-30", 0, 0), cells[0].Date)
	assert.Equal(t, at("2024-01-05", 0, 0), cells[6].Date)

	counts := make([]int, len(cells))
	total := 0
	for i, c := range cells {
		counts[i] = c.Completed
		total += c.Completed
	}
	assert.Equal(t, []int{1, 0, 0, 0, 2, 0, 1}, counts)
	assert.Equal(t, 4, total)
	assert.Equal(t, 1500*2+600, cells[4].FocusSeconds)
}

func TestHeatmap_CustomWindow(t *testing.T) {
	cells := Heatmap(streakLog(), at("2024-01-05", 12, 0), 30)
	require.Len(t, cells, 30)
	assert.Empty(t, Heatmap(streakLog(), at("2024-01-05", 12, 0), 0))
}

func TestHeatmap_ClampsLongWindows(t *testing.T) {
	today := at("2024-01-05", 12, 0)
	cells := Heatmap(streakLog(), today, 1<<62)
	require.Len(t, cells, MaxHeatDays)
	assert.Equal(t, dayOf(today), cells[MaxHeatDays-1].Date)
}

func TestHourlyHistogram(t *testing.T) {
	records := []*models.Session{
		focus(at("2024-01-01", 9, 14), true),
		focus(at("2024-01-02", 9, 58), true),
		focus(at("2024-01-02", 14, 0), false),
		brk(at("2024-01-02", 10, 0)),
	}
	hist := HourlyHistogram(records)
	assert.Equal(t, 2, hist[9])
	for h, n := range hist {
		if h != 9 {
			assert.Zero(t, n, "hour %d", h)
		}
	}
}

func TestRecent(t *testing.T) {
	records := streakLog()

	last2 := Recent(records, 2)
	require.Len(t, last2, 2)
	assert.Same(t, records[2], last2[0])
	assert.Same(t, records[3], last2[1])

	assert.Len(t, Recent(records, 10), 4)
	assert.Empty(t, Recent(records, 0))
}
