package models

import "time"

// Kind identifies what a timed session was for.
type Kind string

const (
	KindFocus      Kind = "focus"
	KindShortBreak Kind = "short_break"
	KindLongBreak  Kind = "long_break"
)

// Valid reports whether k is one of the known session kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFocus, KindShortBreak, KindLongBreak:
		return true
	}
	return false
}

// Title returns the human-readable name of the kind.
func (k Kind) Title() string {
	switch k {
	case KindFocus:
		return "Focus"
	case KindShortBreak:
		return "Short Break"
	case KindLongBreak:
		return "Long Break"
	default:
		return string(k)
	}
}

// Session is one resolved timer session. Records are append-only and never
// modified once written to the store.
type Session struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	PlannedSeconds int       `json:"planned_seconds"`
	ActualSeconds  int       `json:"actual_seconds"`
	Completed      bool      `json:"completed"`
	Label          string    `json:"label"`
	StartedAt      time.Time `json:"started_at"`
}

// IsFocus reports whether the session is a focus session.
func (s *Session) IsFocus() bool { return s.Kind == KindFocus }

// CompletedFocus reports whether the session is a focus session that ran to zero.
func (s *Session) CompletedFocus() bool { return s.Kind == KindFocus && s.Completed }

// Actual returns the counted time as a duration.
func (s *Session) Actual() time.Duration { return time.Duration(s.ActualSeconds) * time.Second }

// Planned returns the planned length as a duration.
func (s *Session) Planned() time.Duration { return time.Duration(s.PlannedSeconds) * time.Second }
