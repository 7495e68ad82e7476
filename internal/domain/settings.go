package domain

import (
	"fmt"
	"time"
)

// Settings is the validated configuration supplied by the settings provider.
type Settings struct {
	SessionDuration         int    `json:"sessionDuration"`
	BreakDuration           int    `json:"breakDuration"`
	LongBreakDuration       int    `json:"longBreakDuration"`
	SessionsBeforeLongBreak int    `json:"sessionsBeforeLongBreak"`
	DailyGoal               int    `json:"dailyGoal"`
	AutoStartBreaks         bool   `json:"autoStartBreaks"`
	AutoStartSessions       bool   `json:"autoStartSessions"`
	CanPlaySound            bool   `json:"canPlaySound"`
	StartNewDayAt           string `json:"startNewDayAt"`
}

// DefaultSettings returns the standard pomodoro configuration.
func DefaultSettings() Settings {
	return Settings{
		SessionDuration:         25,
		BreakDuration:           5,
		LongBreakDuration:       15,
		SessionsBeforeLongBreak: 4,
		DailyGoal:               8,
		AutoStartBreaks:         false,
		AutoStartSessions:       false,
		CanPlaySound:            true,
		StartNewDayAt:           "04:00",
	}
}

// Validate checks every field against its allowed range.
func (s Settings) Validate() error {
	checks := []struct {
		name     string
		value    int
		min, max int
	}{
		{"session duration", s.SessionDuration, 1, 120},
		{"break duration", s.BreakDuration, 1, 60},
		{"long break duration", s.LongBreakDuration, 1, 60},
		{"sessions before long break", s.SessionsBeforeLongBreak, 1, 10},
		{"daily goal", s.DailyGoal, 1, 16},
	}
	for _, c := range checks {
		if c.value < c.min || c.value > c.max {
			return fmt.Errorf("%w: %s must be between %d and %d, got %d",
				ErrInvalidSettings, c.name, c.min, c.max, c.value)
		}
	}
	if _, _, err := s.DayOffset(); err != nil {
		return err
	}
	return nil
}

// DayOffset parses StartNewDayAt into hours and minutes.
func (s Settings) DayOffset() (hours, minutes int, err error) {
	t, err := time.Parse(ClockLayout, s.StartNewDayAt)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: start new day at %q is not HH:MM", ErrInvalidSettings, s.StartNewDayAt)
	}
	return t.Hour(), t.Minute(), nil
}

// Snapshot copies the fields the state machine needs mid-transition.
func (s Settings) Snapshot() SettingsSnapshot {
	return SettingsSnapshot{
		SessionDuration:         s.SessionDuration,
		BreakDuration:           s.BreakDuration,
		LongBreakDuration:       s.LongBreakDuration,
		SessionsBeforeLongBreak: s.SessionsBeforeLongBreak,
		DailyGoal:               s.DailyGoal,
		AutoStartBreaks:         s.AutoStartBreaks,
		AutoStartSessions:       s.AutoStartSessions,
	}
}

// SettingsSnapshot is the denormalized copy of settings held by TimerState.
type SettingsSnapshot struct {
	SessionDuration         int
	BreakDuration           int
	LongBreakDuration       int
	SessionsBeforeLongBreak int
	DailyGoal               int
	AutoStartBreaks         bool
	AutoStartSessions       bool
}

// DurationFor returns the configured duration in minutes for a session type.
func (s SettingsSnapshot) DurationFor(t SessionType) int {
	switch t {
	case SessionTypeBreak:
		return s.BreakDuration
	case SessionTypeLongBreak:
		return s.LongBreakDuration
	default:
		return s.SessionDuration
	}
}
