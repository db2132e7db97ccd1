package timer

import (
	"fmt"
	"time"

	"github.com/joescharf/pomo/internal/models"
)

// Phase is the position of a session in the timer state machine.
type Phase int

const (
	Running Phase = iota
	Paused
	Finished
	Abandoned
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "running"
	case Paused:
		return "paused"
	case Finished:
		return "finished"
	case Abandoned:
		return "abandoned"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Terminal reports whether the phase ends the session.
func (p Phase) Terminal() bool { return p == Finished || p == Abandoned }

// Choice is the user's decision while a session is paused.
type Choice int

const (
	Resume Choice = iota
	Restart
	Stop
)

func (c Choice) String() string {
	switch c {
	case Resume:
		return "resume"
	case Restart:
		return "restart"
	case Stop:
		return "stop"
	default:
		return fmt.Sprintf("choice(%d)", int(c))
	}
}

// State is the transient countdown state of one session. It is owned by the
// engine; handlers receive copies.
type State struct {
	Kind             models.Kind
	Label            string
	PlannedSeconds   int
	RemainingSeconds int
	ElapsedSeconds   int
	Phase            Phase
	StartedAt        time.Time
}

// Percent returns whole-percent progress through the planned duration.
func (s State) Percent() int {
	if s.PlannedSeconds <= 0 {
		return 100
	}
	return s.ElapsedSeconds * 100 / s.PlannedSeconds
}

// Remaining returns the time left as a duration.
func (s State) Remaining() time.Duration {
	return time.Duration(s.RemainingSeconds) * time.Second
}

// Elapsed returns the time counted so far as a duration.
func (s State) Elapsed() time.Duration {
	return time.Duration(s.ElapsedSeconds) * time.Second
}

// checkInvariant panics if elapsed and remaining no longer add up to the
// planned duration.
func (s State) checkInvariant() {
	if s.ElapsedSeconds+s.RemainingSeconds != s.PlannedSeconds {
		panic(fmt.Sprintf("timer: elapsed %d + remaining %d != planned %d",
			s.ElapsedSeconds, s.RemainingSeconds, s.PlannedSeconds))
	}
}

func (s *State) advance() {
	s.RemainingSeconds--
	s.ElapsedSeconds++
}

func (s *State) restart() {
	s.RemainingSeconds = s.PlannedSeconds
	s.ElapsedSeconds = 0
}

// record resolves a terminal state into a session record.
func (s State) record() *models.Session {
	rec := &models.Session{
		Kind:           s.Kind,
		PlannedSeconds: s.PlannedSeconds,
		Label:          s.Label,
		StartedAt:      s.StartedAt,
	}
	if s.Phase == Finished {
		rec.ActualSeconds = s.PlannedSeconds
		rec.Completed = true
	} else {
		rec.ActualSeconds = s.ElapsedSeconds
	}
	return rec
}
