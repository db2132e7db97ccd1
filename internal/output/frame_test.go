package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/pomo/internal/models"
	"github.com/joescharf/pomo/internal/timer"
)

func state(planned, elapsed int) timer.State {
	return timer.State{
		Kind:             models.KindFocus,
		Label:            "write report",
		PlannedSeconds:   planned,
		RemainingSeconds: planned - elapsed,
		ElapsedSeconds:   elapsed,
	}
}

func TestNewTimerFrame_BufferIsNotTTY(t *testing.T) {
	f := NewTimerFrame(&bytes.Buffer{})
	assert.False(t, f.TTY)
}

func TestTimerFrame_PlainPrintsPerMinute(t *testing.T) {
	var buf bytes.Buffer
	f := &TimerFrame{Out: &buf}

	for elapsed := 0; elapsed <= 120; elapsed++ {
		f.Render(state(120, elapsed))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	// start, 01:00 left, 00:00 left
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "02:00 remaining (0%)")
	assert.Contains(t, lines[1], "01:00 remaining (50%)")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestTimerFrame_TTYRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer
	f := &TimerFrame{Out: &buf, TTY: true}

	f.Render(state(1500, 0))
	assert.NotContains(t, buf.String(), "\033[", "first frame has nothing to erase")
	assert.Contains(t, buf.String(), "25:00")
	assert.Contains(t, buf.String(), "write report")

	buf.Reset()
	f.Render(state(1500, 1))
	assert.True(t, strings.HasPrefix(buf.String(), "\033["), "later frames move the cursor up first")
	assert.Contains(t, buf.String(), "24:59")

	buf.Reset()
	f.Reset()
	f.Render(state(1500, 2))
	assert.False(t, strings.HasPrefix(buf.String(), "\033["), "reset frame starts fresh")
}

func TestProgressBar(t *testing.T) {
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(0, 10))
	assert.Equal(t, "█████░░░░░", ProgressBar(50, 10))
	assert.Equal(t, "██████████", ProgressBar(100, 10))
	assert.Equal(t, "██████████", ProgressBar(140, 10))
	assert.Equal(t, "░░░░░░░░░░", ProgressBar(-3, 10))
}
