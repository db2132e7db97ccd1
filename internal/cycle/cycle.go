// Package cycle sequences focus and break sessions in the classic Pomodoro
// cadence: focus, short break, repeat, and a long break after every N
// completed focus sessions.
package cycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/joescharf/pomo/internal/config"
	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/timer"
)

// Questions put to the Prompter.
const (
	AskShortBreak = "Start a short break?"
	AskNextFocus  = "Continue with next focus session?"
	AskContinue   = "Continue Pomodoro cycle?"
)

// AskLongBreak returns the long-break offer after n completed focus sessions.
func AskLongBreak(n int) string {
	return fmt.Sprintf("You completed %d focus sessions. Start long break?", n)
}

// Runner runs one timer session. *timer.Engine satisfies it.
type Runner interface {
	Start(ctx context.Context, kind models.Kind, plannedSeconds int, label string) (*models.Session, error)
}

// Prompter collects the user's decisions between sessions.
type Prompter interface {
	// Label asks what the next focus session is for; empty means no label.
	Label(ctx context.Context) string
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) bool
}

// Result tallies what happened during a cycle.
type Result struct {
	CompletedFocus int
	AbandonedFocus int
	Breaks         int
}

// Cycle drives repeated timer sessions.
type Cycle struct {
	cfg      config.Config
	runner   Runner
	prompter Prompter
	report   func(*models.Session, error)
}

// Option configures a Cycle.
type Option func(*Cycle)

// WithReporter sets the callback for sessions that resolved but could not be
// saved. The cycle continues after reporting.
func WithReporter(fn func(*models.Session, error)) Option {
	return func(c *Cycle) { c.report = fn }
}

// New validates cfg and returns a Cycle.
func New(cfg config.Config, runner Runner, prompter Prompter, opts ...Option) (*Cycle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Cycle{
		cfg:      cfg,
		runner:   runner,
		prompter: prompter,
		report:   func(*models.Session, error) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Run loops until the user declines to continue or ctx is cancelled.
func (c *Cycle) Run(ctx context.Context) (Result, error) {
	var res Result
	count := 0

	for {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if count > 0 && count%c.cfg.SessionsBeforeLongBreak == 0 {
			if c.prompter.Confirm(ctx, AskLongBreak(count)) {
				if _, err := c.run(ctx, models.KindLongBreak, ""); err != nil {
					return res, err
				}
				res.Breaks++
			}
			count = 0
			continue
		}

		label := c.prompter.Label(ctx)
		rec, err := c.run(ctx, models.KindFocus, label)
		if err != nil {
			return res, err
		}

		if !rec.Completed {
			res.AbandonedFocus++
			if !c.prompter.Confirm(ctx, AskContinue) {
				return res, nil
			}
			continue
		}

		res.CompletedFocus++
		count++
		if c.prompter.Confirm(ctx, AskShortBreak) {
			if _, err := c.run(ctx, models.KindShortBreak, ""); err != nil {
				return res, err
			}
			res.Breaks++
		}
		if !c.prompter.Confirm(ctx, AskNextFocus) {
			return res, nil
		}
	}
}

// run starts one session. A save failure is reported and swallowed so the
// cycle can continue; any other error ends the cycle.
func (c *Cycle) run(ctx context.Context, kind models.Kind, label string) (*models.Session, error) {
	rec, err := c.runner.Start(ctx, kind, c.cfg.Seconds(kind), label)
	if err != nil {
		if rec != nil && errors.Is(err, timer.ErrPersist) {
			c.report(rec, err)
			return rec, nil
		}
		return nil, fmt.Errorf("run %s session: %w", kind, err)
	}
	return rec, nil
}
