package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/joescharf/pomo/internal/cycle"
	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/store"
)

var cycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Run focus and break sessions back to back",
	Long: `Run the Pomodoro cycle: focus, short break, repeat, with a long break
offered after every sessions_before_long_break completed focus sessions.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cycleRun(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(cycleCmd)
}

// cyclePrompter asks between sessions with Ctrl+C restored to its default,
// so it ends the program instead of pausing nothing.
type cyclePrompter struct {
	relay *interruptRelay
}

func (p cyclePrompter) Label(context.Context) string {
	p.relay.suspend()
	defer p.relay.resume()
	fmt.Fprintln(ui.Out)
	ans, _ := ui.Ask("What are you working on? (optional, Enter to skip):")
	if len(ans) > store.MaxLabelBytes {
		ui.Warning("Label is longer than %d bytes, starting without one", store.MaxLabelBytes)
		return ""
	}
	return ans
}

func (p cyclePrompter) Confirm(_ context.Context, question string) bool {
	p.relay.suspend()
	defer p.relay.resume()
	return ui.Confirm(question)
}

func cycleRun(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if dryRun {
		ui.DryRunMsg("Would run a Pomodoro cycle: %d min focus, %d min short break, %d min long break every %d sessions",
			cfg.FocusMinutes, cfg.ShortBreakMinutes, cfg.LongBreakMinutes, cfg.SessionsBeforeLongBreak)
		return nil
	}

	ctx, stop := signal.NotifyContext(ctx, terminateSignals()...)
	defer stop()

	r, err := newSessionRunner()
	if err != nil {
		return err
	}
	defer r.Close()

	c, err := cycle.New(cfg, r, cyclePrompter{relay: r.relay},
		cycle.WithReporter(func(rec *models.Session, err error) {
			ui.Error("Could not save %s session: %v", rec.Kind.Title(), err)
		}))
	if err != nil {
		return err
	}

	ui.Info("Pomodoro cycle: long break after every %d focus sessions", cfg.SessionsBeforeLongBreak)
	res, err := c.Run(ctx)
	fmt.Fprintln(ui.Out)
	ui.Success("Cycle finished: %d focus completed, %d abandoned, %d breaks",
		res.CompletedFocus, res.AbandonedFocus, res.Breaks)
	if res.CompletedFocus > 0 {
		printGoalProgress(ctx, cfg.DailyGoalSessions)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
