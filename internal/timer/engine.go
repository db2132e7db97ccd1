// Package timer runs one countdown session at a time with pause, resume,
// restart and stop driven by an external interrupt channel.
package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joescharf/pomo/internal/models"
)

// ErrPersist wraps a store failure after a session resolved. The resolved
// record is still returned alongside it.
var ErrPersist = errors.New("persist session")

// Appender is the subset of store.Store the engine writes to.
type Appender interface {
	Append(ctx context.Context, s *models.Session) error
}

// PauseHandler decides what happens to a paused session.
type PauseHandler interface {
	Paused(ctx context.Context, st State) Choice
}

// PauseHandlerFunc adapts a function to PauseHandler.
type PauseHandlerFunc func(ctx context.Context, st State) Choice

func (f PauseHandlerFunc) Paused(ctx context.Context, st State) Choice { return f(ctx, st) }

// Engine runs timer sessions and appends each resolved session to a store.
type Engine struct {
	store      Appender
	clock      Clock
	tick       time.Duration
	interrupts <-chan struct{}
	onPause    PauseHandler
	onTick     func(State)
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the real-time clock.
func WithClock(c Clock) Option { return func(e *Engine) { e.clock = c } }

// WithTick sets the tick length. Defaults to one second.
func WithTick(d time.Duration) Option { return func(e *Engine) { e.tick = d } }

// WithInterrupts sets the channel that requests a pause of the running
// session. The channel must stay open for the engine's lifetime.
func WithInterrupts(ch <-chan struct{}) Option { return func(e *Engine) { e.interrupts = ch } }

// WithPauseHandler sets the handler consulted while paused. Without one, an
// interrupt stops the session.
func WithPauseHandler(h PauseHandler) Option { return func(e *Engine) { e.onPause = h } }

// WithTickHandler sets a callback invoked with the state after every tick and
// once when a session starts or resumes.
func WithTickHandler(fn func(State)) Option { return func(e *Engine) { e.onTick = fn } }

// WithLogger sets the logger for state transitions.
func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

// New creates an Engine that records sessions to store.
func New(store Appender, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		clock:   SystemClock{},
		tick:    time.Second,
		onPause: PauseHandlerFunc(func(context.Context, State) Choice { return Stop }),
		onTick:  func(State) {},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start runs a session of plannedSeconds and blocks until it finishes or is
// stopped. plannedSeconds must be positive. The label is kept only for focus
// sessions.
//
// Exactly one record is appended per resolved session. If ctx is cancelled
// before the session resolves, nothing is recorded and ctx.Err() is returned.
func (e *Engine) Start(ctx context.Context, kind models.Kind, plannedSeconds int, label string) (*models.Session, error) {
	if kind != models.KindFocus {
		label = ""
	}
	e.drainInterrupts()

	st := State{
		Kind:             kind,
		Label:            label,
		PlannedSeconds:   plannedSeconds,
		RemainingSeconds: plannedSeconds,
		Phase:            Running,
		StartedAt:        e.clock.Now().Truncate(time.Second),
	}
	e.logger.Debug("session started", "kind", kind, "planned_seconds", plannedSeconds, "label", label)

	for !st.Phase.Terminal() {
		switch st.Phase {
		case Running:
			e.onTick(st)
			if err := e.run(ctx, &st); err != nil {
				e.logger.Debug("session cancelled", "kind", kind, "elapsed_seconds", st.ElapsedSeconds)
				return nil, err
			}
		case Paused:
			e.pause(ctx, &st)
		}
	}

	rec := st.record()
	e.logger.Debug("session resolved", "kind", kind, "phase", st.Phase,
		"actual_seconds", rec.ActualSeconds, "completed", rec.Completed)

	if err := e.store.Append(ctx, rec); err != nil {
		return rec, fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return rec, nil
}

// run counts down until the session finishes or an interrupt pauses it.
func (e *Engine) run(ctx context.Context, st *State) error {
	for {
		// A countdown that reached zero is finished even with an interrupt pending.
		if st.RemainingSeconds <= 0 {
			st.Phase = Finished
			st.checkInvariant()
			return nil
		}

		select {
		case <-e.interrupts:
			e.interrupt(st)
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-e.interrupts:
			e.interrupt(st)
			return nil
		case <-e.clock.After(e.tick):
			st.advance()
			st.checkInvariant()
			e.onTick(*st)
		}
	}
}

func (e *Engine) interrupt(st *State) {
	st.Phase = Paused
	st.checkInvariant()
	e.logger.Debug("session paused", "kind", st.Kind,
		"elapsed_seconds", st.ElapsedSeconds, "remaining_seconds", st.RemainingSeconds)
}

// pause asks the handler what to do and applies the choice.
func (e *Engine) pause(ctx context.Context, st *State) {
	choice := e.onPause.Paused(ctx, *st)

	switch choice {
	case Resume:
		st.Phase = Running
	case Restart:
		st.restart()
		st.Phase = Running
	default:
		st.Phase = Abandoned
	}
	st.checkInvariant()

	// Interrupts delivered while the choice was being made are consumed by it.
	e.drainInterrupts()

	e.logger.Debug("pause resolved", "choice", choice, "phase", st.Phase,
		"elapsed_seconds", st.ElapsedSeconds, "remaining_seconds", st.RemainingSeconds)
}

func (e *Engine) drainInterrupts() {
	for {
		select {
		case _, ok := <-e.interrupts:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
