package timer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/pomo/internal/models"
)

// fakeClock fires every tick immediately and counts them.
type fakeClock struct {
	now   time.Time
	ticks int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) After(time.Duration) <-chan time.Time {
	c.ticks++
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// stuckClock never fires.
type stuckClock struct{ fakeClock }

func (c *stuckClock) After(time.Duration) <-chan time.Time { return make(chan time.Time) }

type memStore struct {
	sessions []*models.Session
	err      error
}

func (m *memStore) Append(_ context.Context, s *models.Session) error {
	if m.err != nil {
		return m.err
	}
	m.sessions = append(m.sessions, s)
	return nil
}

var start = time.Date(2024, 1, 5, 9, 14, 0, 0, time.UTC)

// harness wires an engine whose tick handler can fire interrupts at chosen
// elapsed values and whose pause handler replays scripted choices.
type harness struct {
	t           *testing.T
	store       *memStore
	clock       *fakeClock
	interrupts  chan struct{}
	interruptAt map[int]bool
	choices     []Choice
	pauses      []State
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:           t,
		store:       &memStore{},
		clock:       &fakeClock{now: start},
		interrupts:  make(chan struct{}, 1),
		interruptAt: map[int]bool{},
	}
}

func (h *harness) engine(opts ...Option) *Engine {
	base := []Option{
		WithClock(h.clock),
		WithInterrupts(h.interrupts),
		WithTickHandler(func(st State) {
			assert.Equal(h.t, st.PlannedSeconds, st.ElapsedSeconds+st.RemainingSeconds)
			if h.interruptAt[st.ElapsedSeconds] {
				delete(h.interruptAt, st.ElapsedSeconds)
				h.interrupts <- struct{}{}
			}
		}),
		WithPauseHandler(PauseHandlerFunc(func(_ context.Context, st State) Choice {
			assert.Equal(h.t, Paused, st.Phase)
			assert.Equal(h.t, st.PlannedSeconds, st.ElapsedSeconds+st.RemainingSeconds)
			h.pauses = append(h.pauses, st)
			if len(h.choices) == 0 {
				return Stop
			}
			c := h.choices[0]
			h.choices = h.choices[1:]
			return c
		})),
	}
	return New(h.store, append(base, opts...)...)
}

func TestStart_RunsToCompletion(t *testing.T) {
	h := newHarness(t)
	e := h.engine()

	rec, err := e.Start(context.Background(), models.KindFocus, 10, "deep work")
	require.NoError(t, err)

	assert.True(t, rec.Completed)
	assert.Equal(t, 10, rec.PlannedSeconds)
	assert.Equal(t, 10, rec.ActualSeconds)
	assert.Equal(t, "deep work", rec.Label)
	assert.Equal(t, start, rec.StartedAt)
	assert.Equal(t, 10, h.clock.ticks)
	assert.Empty(t, h.pauses)
	require.Len(t, h.store.sessions, 1)
	assert.Same(t, rec, h.store.sessions[0])
}

func TestStart_PauseThenStop(t *testing.T) {
	h := newHarness(t)
	h.interruptAt[4] = true
	h.choices = []Choice{Stop}
	e := h.engine()

	rec, err := e.Start(context.Background(), models.KindFocus, 10, "")
	require.NoError(t, err)

	require.Len(t, h.pauses, 1)
	assert.Equal(t, 4, h.pauses[0].ElapsedSeconds)
	assert.Equal(t, 6, h.pauses[0].RemainingSeconds)

	assert.False(t, rec.Completed)
	assert.Equal(t, 4, rec.ActualSeconds)
	assert.Equal(t, 10, rec.PlannedSeconds)
	require.Len(t, h.store.sessions, 1)
}

func TestStart_ResumeKeepsRemaining(t *testing.T) {
	h := newHarness(t)
	h.interruptAt[3] = true
	h.interruptAt[7] = true
	h.choices = []Choice{Resume, Resume}
	e := h.engine()

	rec, err := e.Start(context.Background(), models.KindFocus, 10, "")
	require.NoError(t, err)

	require.Len(t, h.pauses, 2)
	assert.Equal(t, 7, h.pauses[0].RemainingSeconds)
	assert.Equal(t, 3, h.pauses[1].RemainingSeconds)
	assert.True(t, rec.Completed)
	assert.Equal(t, 10, h.clock.ticks, "pauses must not add or drop ticks")
}

func TestStart_ResumeMatchesUninterrupted(t *testing.T) {
	plain := newHarness(t)
	want, err := plain.engine().Start(context.Background(), models.KindFocus, 12, "")
	require.NoError(t, err)

	paused := newHarness(t)
	for _, at := range []int{1, 5, 9, 11} {
		paused.interruptAt[at] = true
	}
	paused.choices = []Choice{Resume, Resume, Resume, Resume}
	got, err := paused.engine().Start(context.Background(), models.KindFocus, 12, "")
	require.NoError(t, err)

	assert.Equal(t, want.ActualSeconds, got.ActualSeconds)
	assert.Equal(t, want.Completed, got.Completed)
	assert.Equal(t, plain.clock.ticks, paused.clock.ticks)
}

func TestStart_RestartResetsProgress(t *testing.T) {
	h := newHarness(t)
	h.interruptAt[6] = true
	h.choices = []Choice{Restart}
	e := h.engine()

	var afterRestart []State
	e.onTick = func(st State) {
		afterRestart = append(afterRestart, st)
		if h.interruptAt[st.ElapsedSeconds] {
			delete(h.interruptAt, st.ElapsedSeconds)
			h.interrupts <- struct{}{}
		}
	}

	rec, err := e.Start(context.Background(), models.KindFocus, 8, "")
	require.NoError(t, err)

	// Initial frame, 6 ticks, resumed frame at zero progress, then 8 ticks.
	require.Len(t, afterRestart, 1+6+1+8)
	resumed := afterRestart[7]
	assert.Equal(t, 0, resumed.ElapsedSeconds)
	assert.Equal(t, 8, resumed.RemainingSeconds)
	assert.Equal(t, Running, resumed.Phase)
	assert.Equal(t, start, resumed.StartedAt, "restart keeps the original start time")

	assert.True(t, rec.Completed)
	assert.Equal(t, 8, rec.ActualSeconds)
	assert.Equal(t, start, rec.StartedAt)
}

func TestStart_RestartThenStop(t *testing.T) {
	h := newHarness(t)
	h.interruptAt[5] = true
	e := h.engine()
	h.choices = []Choice{Restart, Stop}

	// Second interrupt fires two ticks after the restart.
	e.onTick = func(st State) {
		if h.interruptAt[st.ElapsedSeconds] {
			delete(h.interruptAt, st.ElapsedSeconds)
			h.interrupts <- struct{}{}
			if len(h.pauses) == 0 {
				h.interruptAt[2] = true
			}
		}
	}

	rec, err := e.Start(context.Background(), models.KindFocus, 10, "")
	require.NoError(t, err)

	require.Len(t, h.pauses, 2)
	assert.Equal(t, 5, h.pauses[0].ElapsedSeconds)
	assert.Equal(t, 2, h.pauses[1].ElapsedSeconds)
	assert.False(t, rec.Completed)
	assert.Equal(t, 2, rec.ActualSeconds)
}

func TestStart_InvariantUnderMixedChoices(t *testing.T) {
	sequences := [][]Choice{
		{Resume, Restart, Resume},
		{Restart, Restart, Resume},
		{Resume, Resume, Stop},
		{Restart, Stop},
	}
	for _, seq := range sequences {
		h := newHarness(t)
		h.choices = append([]Choice(nil), seq...)
		e := h.engine()

		// Pause every third tick; the harness asserts the invariant on every
		// tick and at every pause.
		e.onTick = func(st State) {
			assert.Equal(t, st.PlannedSeconds, st.ElapsedSeconds+st.RemainingSeconds)
			if st.ElapsedSeconds == 3 {
				h.interrupts <- struct{}{}
			}
		}

		rec, err := e.Start(context.Background(), models.KindFocus, 7, "")
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rec.ActualSeconds, 0)
		if rec.Completed {
			assert.Equal(t, rec.PlannedSeconds, rec.ActualSeconds)
		}
		assert.LessOrEqual(t, rec.ActualSeconds, rec.PlannedSeconds)
	}
}

func TestStart_FinishedWinsOverPendingInterrupt(t *testing.T) {
	h := newHarness(t)
	h.interruptAt[5] = true
	e := h.engine()

	rec, err := e.Start(context.Background(), models.KindFocus, 5, "")
	require.NoError(t, err)

	assert.Empty(t, h.pauses, "interrupt at zero must not pause")
	assert.True(t, rec.Completed)
	assert.Equal(t, 5, rec.ActualSeconds)
}

func TestStart_StaleInterruptIsDrained(t *testing.T) {
	h := newHarness(t)
	h.interrupts <- struct{}{}
	e := h.engine()

	rec, err := e.Start(context.Background(), models.KindShortBreak, 3, "")
	require.NoError(t, err)
	assert.Empty(t, h.pauses)
	assert.True(t, rec.Completed)
}

func TestStart_DefaultPauseHandlerStops(t *testing.T) {
	interrupts := make(chan struct{}, 1)
	ms := &memStore{}
	e := New(ms,
		WithClock(&fakeClock{now: start}),
		WithInterrupts(interrupts),
		WithTickHandler(func(st State) {
			if st.ElapsedSeconds == 2 {
				interrupts <- struct{}{}
			}
		}),
	)

	rec, err := e.Start(context.Background(), models.KindFocus, 10, "")
	require.NoError(t, err)
	assert.False(t, rec.Completed)
	assert.Equal(t, 2, rec.ActualSeconds)
}

func TestStart_BreakDropsLabel(t *testing.T) {
	h := newHarness(t)
	rec, err := h.engine().Start(context.Background(), models.KindLongBreak, 2, "ignored")
	require.NoError(t, err)
	assert.Empty(t, rec.Label)
	assert.Equal(t, models.KindLongBreak, rec.Kind)
}

func TestStart_CancelledContextRecordsNothing(t *testing.T) {
	ms := &memStore{}
	e := New(ms, WithClock(&stuckClock{fakeClock{now: start}}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec, err := e.Start(ctx, models.KindFocus, 10, "")
	assert.Nil(t, rec)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, ms.sessions)
}

func TestStart_PersistFailureReturnsRecord(t *testing.T) {
	ms := &memStore{err: errors.New("disk full")}
	e := New(ms, WithClock(&fakeClock{now: start}))

	rec, err := e.Start(context.Background(), models.KindFocus, 3, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Contains(t, err.Error(), "disk full")
	require.NotNil(t, rec)
	assert.True(t, rec.Completed)
}

func TestStart_StartedAtTruncatedToSecond(t *testing.T) {
	ms := &memStore{}
	e := New(ms, WithClock(&fakeClock{now: start.Add(400 * time.Millisecond)}))

	rec, err := e.Start(context.Background(), models.KindFocus, 1, "")
	require.NoError(t, err)
	assert.Equal(t, start, rec.StartedAt)
}

func TestStart_RealClockShortTick(t *testing.T) {
	ms := &memStore{}
	e := New(ms, WithTick(time.Millisecond))

	rec, err := e.Start(context.Background(), models.KindFocus, 3, "")
	require.NoError(t, err)
	assert.True(t, rec.Completed)
}

func TestStatePercent(t *testing.T) {
	assert.Equal(t, 0, State{PlannedSeconds: 100, RemainingSeconds: 100}.Percent())
	assert.Equal(t, 25, State{PlannedSeconds: 100, ElapsedSeconds: 25, RemainingSeconds: 75}.Percent())
	assert.Equal(t, 100, State{PlannedSeconds: 60, ElapsedSeconds: 60}.Percent())
	assert.Equal(t, 100, State{}.Percent())
}

func TestPhaseAndChoiceStrings(t *testing.T) {
	assert.Equal(t, "paused", Paused.String())
	assert.True(t, Finished.Terminal())
	assert.True(t, Abandoned.Terminal())
	assert.False(t, Running.Terminal())
	assert.Equal(t, "restart", Restart.String())
}
