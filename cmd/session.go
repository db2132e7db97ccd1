package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joescharf/pomo/internal/daemon"
	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/output"
	"github.com/joescharf/pomo/internal/store"
	"github.com/joescharf/pomo/internal/timer"
)

// interruptRelay turns Ctrl+C and `pomo pause` into timer interrupts.
type interruptRelay struct {
	ch   chan struct{}
	sigs chan os.Signal
	done chan struct{}
}

func newInterruptRelay() *interruptRelay {
	r := &interruptRelay{
		ch:   make(chan struct{}, 1),
		sigs: make(chan os.Signal, 1),
		done: make(chan struct{}),
	}
	r.resume()
	go r.loop()
	return r
}

func (r *interruptRelay) loop() {
	for {
		select {
		case <-r.done:
			return
		case <-r.sigs:
			select {
			case r.ch <- struct{}{}:
			default:
			}
		}
	}
}

// suspend restores the default Ctrl+C behaviour so a prompt between
// sessions can be abandoned. Remote pause signals are still captured.
func (r *interruptRelay) suspend() { signal.Reset(os.Interrupt) }

func (r *interruptRelay) resume() { signal.Notify(r.sigs, os.Interrupt, daemon.PauseSignal()) }

func (r *interruptRelay) close() {
	signal.Stop(r.sigs)
	close(r.done)
}

// sessionRunner owns everything a foreground timer needs: the engine, the
// live frame, the interrupt relay and the PID file claim.
type sessionRunner struct {
	engine *timer.Engine
	relay  *interruptRelay
	frame  *output.TimerFrame
	lock   *daemon.PIDFile
}

func newSessionRunner() (*sessionRunner, error) {
	s, err := getStore()
	if err != nil {
		return nil, err
	}

	lock := pidFile()
	if err := lock.Acquire(); err != nil {
		return nil, err
	}

	r := &sessionRunner{
		relay: newInterruptRelay(),
		frame: output.NewTimerFrame(ui.Out),
		lock:  lock,
	}
	r.engine = timer.New(s,
		timer.WithInterrupts(r.relay.ch),
		timer.WithPauseHandler(timer.PauseHandlerFunc(r.paused)),
		timer.WithTickHandler(r.frame.Render),
		timer.WithLogger(logger),
	)
	return r, nil
}

func (r *sessionRunner) Close() {
	r.relay.close()
	if err := r.lock.Release(); err != nil {
		logger.Warn("failed to remove PID file", "path", r.lock.Path, "error", err)
	}
}

// Start runs one session and prints its outcome.
func (r *sessionRunner) Start(ctx context.Context, kind models.Kind, plannedSeconds int, label string) (*models.Session, error) {
	rec, err := r.engine.Start(ctx, kind, plannedSeconds, label)
	r.frame.Reset()
	if rec == nil {
		if errors.Is(err, context.Canceled) {
			ui.Warning("Session cancelled, nothing recorded")
		}
		return nil, err
	}

	fmt.Fprintln(ui.Out)
	if rec.Completed {
		ui.Success("Session complete! You finished %s of %s.",
			output.FormatDuration(rec.PlannedSeconds), rec.Kind.Title())
	} else {
		ui.Info("Stopped after %s of %s.",
			output.FormatClock(rec.Actual()), output.FormatClock(rec.Planned()))
		if err == nil {
			ui.VerboseLog("Partial session saved")
		}
	}
	return rec, err
}

// paused shows the interruption menu. Empty input or end of input stops
// the session.
func (r *sessionRunner) paused(_ context.Context, st timer.State) timer.Choice {
	r.frame.Reset()
	fmt.Fprintln(ui.Out)
	fmt.Fprintf(ui.Out, "  %s\n", output.Yellow(output.Bold("⏸  Session Interrupted")))
	fmt.Fprintf(ui.Out, "  %s\n\n", output.Gray(fmt.Sprintf("%s completed out of %s.",
		output.FormatClock(st.Elapsed()), output.FormatClock(st.Elapsed()+st.Remaining()))))
	fmt.Fprintln(ui.Out, "  What do you want to do?")
	fmt.Fprintf(ui.Out, "    %s) Continue timer (resume)\n", output.Green("1"))
	fmt.Fprintf(ui.Out, "    %s) Restart timer from scratch\n", output.Yellow("2"))
	fmt.Fprintf(ui.Out, "    %s) Stop & save partial session\n\n", output.Red("3"))

	for {
		ans, err := ui.Ask("Choice [1-3]:")
		if err != nil && ans == "" {
			return timer.Stop
		}
		switch ans {
		case "1":
			return timer.Resume
		case "2":
			return timer.Restart
		case "3", "":
			return timer.Stop
		default:
			ui.Warning("Please enter 1, 2, or 3.")
		}
	}
}

// runSingle runs one session of kind outside a cycle. minutes of zero uses
// the configured length.
func runSingle(ctx context.Context, kind models.Kind, label string, minutes int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if minutes == 0 {
		minutes = cfg.Minutes(kind)
	}
	if len(label) > store.MaxLabelBytes {
		return fmt.Errorf("label is too long (%d bytes, limit %d)", len(label), store.MaxLabelBytes)
	}

	if dryRun {
		ui.DryRunMsg("Would start a %d minute %s session", minutes, kind.Title())
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, terminateSignals()...)
	defer stop()

	r, err := newSessionRunner()
	if err != nil {
		return err
	}
	defer r.Close()

	ui.Info("Starting %s (%d min). Press Ctrl+C to pause.", output.KindColor(kind, kind.Title()), minutes)
	rec, err := r.Start(ctx, kind, minutes*60, label)
	if err != nil {
		return sessionErr(err)
	}

	if rec.CompletedFocus() {
		printGoalProgress(ctx, cfg.DailyGoalSessions)
	}
	return nil
}

// sessionErr maps a failed Start to the command result. The caller prints
// the returned error, so nothing is reported here.
func sessionErr(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, timer.ErrPersist):
		return fmt.Errorf("could not save session: %w", err)
	default:
		return err
	}
}
