// Package config holds the timer settings consumed by the timer, cycle and
// statistics screens.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/joescharf/pomo/internal/models"
)

// ErrInvalid is returned when a setting is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Viper keys for the timer settings.
const (
	KeyFocusMinutes            = "focus_minutes"
	KeyShortBreakMinutes       = "short_break_minutes"
	KeyLongBreakMinutes        = "long_break_minutes"
	KeySessionsBeforeLongBreak = "sessions_before_long_break"
	KeyDailyGoalSessions       = "daily_goal_sessions"
	KeyMotivationalQuotes      = "motivational_quotes"
)

// Config is the user's timer configuration.
type Config struct {
	FocusMinutes            int  `yaml:"focus_minutes"`
	ShortBreakMinutes       int  `yaml:"short_break_minutes"`
	LongBreakMinutes        int  `yaml:"long_break_minutes"`
	SessionsBeforeLongBreak int  `yaml:"sessions_before_long_break"`
	DailyGoalSessions       int  `yaml:"daily_goal_sessions"`
	MotivationalQuotes      bool `yaml:"motivational_quotes"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		FocusMinutes:            25,
		ShortBreakMinutes:       5,
		LongBreakMinutes:        20,
		SessionsBeforeLongBreak: 4,
		DailyGoalSessions:       8,
		MotivationalQuotes:      true,
	}
}

// SetDefaults registers the stock values with v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyFocusMinutes, d.FocusMinutes)
	v.SetDefault(KeyShortBreakMinutes, d.ShortBreakMinutes)
	v.SetDefault(KeyLongBreakMinutes, d.LongBreakMinutes)
	v.SetDefault(KeySessionsBeforeLongBreak, d.SessionsBeforeLongBreak)
	v.SetDefault(KeyDailyGoalSessions, d.DailyGoalSessions)
	v.SetDefault(KeyMotivationalQuotes, d.MotivationalQuotes)
}

// FromViper reads the timer settings from v and validates them.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		FocusMinutes:            v.GetInt(KeyFocusMinutes),
		ShortBreakMinutes:       v.GetInt(KeyShortBreakMinutes),
		LongBreakMinutes:        v.GetInt(KeyLongBreakMinutes),
		SessionsBeforeLongBreak: v.GetInt(KeySessionsBeforeLongBreak),
		DailyGoalSessions:       v.GetInt(KeyDailyGoalSessions),
		MotivationalQuotes:      v.GetBool(KeyMotivationalQuotes),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MaxMinutes caps a single session at one day.
const MaxMinutes = 24 * 60

// Validate rejects non-positive durations and counts, and durations longer
// than MaxMinutes.
func (c Config) Validate() error {
	fields := []struct {
		key string
		val int
	}{
		{KeyFocusMinutes, c.FocusMinutes},
		{KeyShortBreakMinutes, c.ShortBreakMinutes},
		{KeyLongBreakMinutes, c.LongBreakMinutes},
		{KeySessionsBeforeLongBreak, c.SessionsBeforeLongBreak},
		{KeyDailyGoalSessions, c.DailyGoalSessions},
	}
	for _, f := range fields {
		if err := ValidateInt(f.key, f.val); err != nil {
			return err
		}
	}
	return nil
}

// ValidateInt checks one integer setting. Duration keys are also bounded by
// MaxMinutes.
func ValidateInt(key string, val int) error {
	switch key {
	case KeyFocusMinutes, KeyShortBreakMinutes, KeyLongBreakMinutes:
		return ValidateMinutes(key, val)
	default:
		return ValidatePositive(key, val)
	}
}

// ValidateMinutes returns ErrInvalid unless val is between 1 and MaxMinutes.
func ValidateMinutes(key string, val int) error {
	if err := ValidatePositive(key, val); err != nil {
		return err
	}
	if val > MaxMinutes {
		return fmt.Errorf("%w: %s must be at most %d, got %d", ErrInvalid, key, MaxMinutes, val)
	}
	return nil
}

// ValidatePositive returns ErrInvalid when val is not a positive integer.
func ValidatePositive(key string, val int) error {
	if val <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalid, key, val)
	}
	return nil
}

// Minutes returns the configured length of a session kind in minutes.
func (c Config) Minutes(kind models.Kind) int {
	switch kind {
	case models.KindShortBreak:
		return c.ShortBreakMinutes
	case models.KindLongBreak:
		return c.LongBreakMinutes
	default:
		return c.FocusMinutes
	}
}

// Seconds returns the configured length of a session kind in seconds.
func (c Config) Seconds(kind models.Kind) int {
	return c.Minutes(kind) * 60
}

// IntKeys lists the integer settings that `config set` accepts.
func IntKeys() []string {
	return []string{
		KeyFocusMinutes,
		KeyShortBreakMinutes,
		KeyLongBreakMinutes,
		KeySessionsBeforeLongBreak,
		KeyDailyGoalSessions,
	}
}
