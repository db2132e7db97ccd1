package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/joescharf/pomo/internal/config"
	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/output"
	"github.com/joescharf/pomo/internal/quotes"
	"github.com/joescharf/pomo/internal/stats"
)

const nudgeTimeout = 5 * time.Second

// menuRun is the interactive main menu shown by bare `pomo`.
func menuRun(ctx context.Context) error {
	for {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		sum := stats.Summarize(loadRecords(ctx), now(), cfg.DailyGoalSessions)

		printMenu(ctx, cfg, sum)
		choice, err := ui.Ask("Choice [1-7]:")
		if errors.Is(err, io.EOF) && choice == "" {
			return nil
		}

		switch choice {
		case "1":
			label, _ := ui.Ask("What are you working on? (optional, Enter to skip):")
			err = runSingle(ctx, models.KindFocus, label, 0)
		case "2":
			err = runSingle(ctx, models.KindShortBreak, "", 0)
		case "3":
			err = runSingle(ctx, models.KindLongBreak, "", 0)
		case "4":
			err = statsRun(ctx, stats.WeekDays)
		case "5":
			err = configShowRun()
		case "6":
			err = cycleRun(ctx)
		case "7", "q", "quit", "exit":
			ui.Info("Stay focused. See you next time!")
			return nil
		default:
			ui.Warning("Please enter a number from 1 to 7.")
			continue
		}
		if err != nil {
			ui.Error("%v", err)
		}
	}
}

func printMenu(ctx context.Context, cfg config.Config, sum stats.Summary) {
	w := ui.Out
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s  %s  %s\n", output.Red("🍅"), output.Bold("POMODORO FOCUS TIMER"), output.Gray(buildVersion))
	fmt.Fprintf(w, "  %s\n", output.Gray(fmt.Sprintf("🔥 Streak: %s  |  Today: %s",
		output.Plural(sum.Streaks.Current, "day"), goalText(sum))))
	fmt.Fprintln(w)

	if cfg.MotivationalQuotes {
		q := quoteSource(sum).Quote(ctx)
		fmt.Fprintf(w, "  %s\n", output.Gray("“"+q.Text+"”"))
		fmt.Fprintf(w, "  %s\n\n", output.Gray("  - "+q.Author))
	}

	fmt.Fprintln(w, "  "+output.Bold("What do you want to do?"))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    %s)  Start Focus Session   (%d min)\n", output.Red("1"), cfg.FocusMinutes)
	fmt.Fprintf(w, "    %s)  Short Break           (%d min)\n", output.Green("2"), cfg.ShortBreakMinutes)
	fmt.Fprintf(w, "    %s)  Long Break            (%d min)\n", output.Cyan("3"), cfg.LongBreakMinutes)
	fmt.Fprintf(w, "    %s)  Statistics Dashboard\n", output.Yellow("4"))
	fmt.Fprintf(w, "    %s)  Configuration\n", output.Cyan("5"))
	fmt.Fprintf(w, "    %s)  Pomodoro Cycle\n", output.Red("6"))
	fmt.Fprintf(w, "    %s)  Exit\n", output.Gray("7"))
	fmt.Fprintln(w)
}

// quoteSource prefers a generated nudge when an Anthropic key is configured.
func quoteSource(sum stats.Summary) quotes.Source {
	client := newLLMClient()
	if client == nil {
		return quotes.Static{}
	}
	return timeoutSource{
		Source: quotes.LLMSource{
			Client:   client,
			Summary:  sum,
			Fallback: quotes.Static{},
			Logger:   logger,
		},
		timeout: nudgeTimeout,
	}
}

// timeoutSource bounds how long the menu waits for a quote.
type timeoutSource struct {
	quotes.Source
	timeout time.Duration
}

func (s timeoutSource) Quote(ctx context.Context) quotes.Quote {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.Source.Quote(ctx)
}
