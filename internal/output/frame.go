package output

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"

	"github.com/joescharf/pomo/internal/timer"
)

const barWidth = 40

// TimerFrame draws the live countdown. On a terminal each frame overwrites
// the previous one in place; elsewhere it prints one plain line per minute
// so piped output stays readable.
type TimerFrame struct {
	Out io.Writer
	TTY bool

	drawn int
}

// NewTimerFrame returns a frame writing to w, redrawing in place when w is
// a terminal.
func NewTimerFrame(w io.Writer) *TimerFrame {
	return &TimerFrame{Out: w, TTY: isTerminal(w)}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Render draws st.
func (f *TimerFrame) Render(st timer.State) {
	if !f.TTY {
		if st.ElapsedSeconds == 0 || st.RemainingSeconds%60 == 0 {
			fmt.Fprintf(f.Out, "%s %s remaining (%d%%)\n",
				st.Kind.Title(), FormatClock(st.Remaining()), st.Percent())
		}
		return
	}

	if f.drawn > 0 {
		// cursor up, then clear to end of screen
		fmt.Fprintf(f.Out, "\033[%dA\033[J", f.drawn)
	}
	lines := frameLines(st)
	fmt.Fprint(f.Out, strings.Join(lines, "\n")+"\n")
	f.drawn = len(lines)
}

// Reset forgets the previous frame so the next Render starts below any
// output printed in between, such as the pause menu.
func (f *TimerFrame) Reset() { f.drawn = 0 }

func frameLines(st timer.State) []string {
	title := "  " + KindColor(st.Kind, Bold(st.Kind.Title()))
	if st.Label != "" {
		title += Gray("  - " + st.Label)
	}
	return []string{
		"",
		title,
		"",
		"       " + KindColor(st.Kind, Bold(FormatClock(st.Remaining()))),
		"",
		fmt.Sprintf("       [%s]  %s", KindColor(st.Kind, ProgressBar(st.Percent(), barWidth)), Gray(fmt.Sprintf("%d%%", st.Percent()))),
		"",
		Gray(fmt.Sprintf("       Elapsed: %s  |  Remaining: %s", FormatClock(st.Elapsed()), FormatClock(st.Remaining()))),
		Gray("       Press Ctrl+C to pause / stop"),
	}
}

// ProgressBar renders percent (clamped to 0..100) as a bar of width cells.
func ProgressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := width * percent / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
