package output

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/joescharf/pomo/internal/models"
)

// UI provides colored output and line-oriented prompts, and respects
// verbose/dry-run modes.
type UI struct {
	Verbose bool
	DryRun  bool
	Out     io.Writer
	ErrOut  io.Writer
	In      io.Reader

	reader *bufio.Reader
}

// New creates a UI with default stdin/stdout/stderr.
func New() *UI {
	return &UI{
		Out:    os.Stdout,
		ErrOut: os.Stderr,
		In:     os.Stdin,
	}
}

var (
	infoPrefix    = color.New(color.FgHiBlue).Sprint("i")
	successPrefix = color.New(color.FgHiGreen).Sprint("✓")
	warningPrefix = color.New(color.FgHiYellow).Sprint("⚠")
	errorPrefix   = color.New(color.FgHiRed).Sprint("✗")
	verbosePrefix = color.New(color.FgHiBlue).Sprint("  →")
	promptPrefix  = color.New(color.FgHiCyan).Sprint("▸")
	cyan          = color.New(color.FgHiCyan).SprintFunc()
	green         = color.New(color.FgHiGreen).SprintFunc()
	yellow        = color.New(color.FgHiYellow).SprintFunc()
	red           = color.New(color.FgHiRed).SprintFunc()
	blue          = color.New(color.FgHiBlue).SprintFunc()
	gray          = color.New(color.FgHiBlack).SprintFunc()
	bold          = color.New(color.Bold).SprintFunc()
)

// Cyan returns a cyan-colored string.
func Cyan(s string) string { return cyan(s) }

// Green returns a green-colored string.
func Green(s string) string { return green(s) }

// Yellow returns a yellow-colored string.
func Yellow(s string) string { return yellow(s) }

// Red returns a red-colored string.
func Red(s string) string { return red(s) }

// Gray returns a dimmed string.
func Gray(s string) string { return gray(s) }

// Bold returns a bold string.
func Bold(s string) string { return bold(s) }

// KindColor colors s by session kind: red for focus, green for short
// breaks, blue for long breaks.
func KindColor(kind models.Kind, s string) string {
	switch kind {
	case models.KindFocus:
		return red(s)
	case models.KindShortBreak:
		return green(s)
	case models.KindLongBreak:
		return blue(s)
	default:
		return s
	}
}

// RateColor renders a 0..1 completion rate as a colored percentage.
func RateColor(rate float64) string {
	s := fmt.Sprintf("%.0f%%", rate*100)
	switch {
	case rate >= 0.8:
		return green(s)
	case rate >= 0.5:
		return yellow(s)
	default:
		return red(s)
	}
}

// StatusMark returns a check for completed sessions and a cross otherwise.
func StatusMark(completed bool) string {
	if completed {
		return green("✓")
	}
	return red("✗")
}

func (u *UI) Info(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", infoPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Success(format string, a ...any) {
	fmt.Fprintf(u.Out, "%s %s\n", successPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Warning(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", warningPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) Error(format string, a ...any) {
	fmt.Fprintf(u.ErrOut, "%s %s\n", errorPrefix, fmt.Sprintf(format, a...))
}

func (u *UI) VerboseLog(format string, a ...any) {
	if u.Verbose {
		fmt.Fprintf(u.Out, "%s %s\n", verbosePrefix, fmt.Sprintf(format, a...))
	}
}

func (u *UI) DryRunMsg(format string, a ...any) {
	if u.DryRun {
		u.Warning("[DRY-RUN] "+format, a...)
	}
}

// Ask prints a prompt and reads one trimmed line of input. At end of input
// it returns whatever was read along with io.EOF.
func (u *UI) Ask(prompt string) (string, error) {
	if u.reader == nil {
		in := u.In
		if in == nil {
			in = os.Stdin
		}
		u.reader = bufio.NewReader(in)
	}
	fmt.Fprintf(u.Out, "%s %s ", promptPrefix, prompt)
	line, err := u.reader.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil {
		if err == io.EOF {
			fmt.Fprintln(u.Out)
		}
		return line, err
	}
	return line, nil
}

// Confirm asks a y/n question. Anything other than y or yes, including end
// of input, counts as no.
func (u *UI) Confirm(question string) bool {
	ans, err := u.Ask(question + " [y/N]")
	if err != nil && ans == "" {
		return false
	}
	switch strings.ToLower(ans) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Table creates a new tablewriter configured with consistent styling.
func (u *UI) Table(headers []string) *tablewriter.Table {
	table := tablewriter.NewTable(u.Out,
		tablewriter.WithHeaderAlignment(tw.AlignLeft),
		tablewriter.WithRowAlignment(tw.AlignLeft),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Lines:      tw.LinesNone,
				Separators: tw.SeparatorsNone,
			},
		}),
		tablewriter.WithPadding(tw.Padding{Left: "", Right: "  "}),
	)
	table.Header(headers)
	return table
}
