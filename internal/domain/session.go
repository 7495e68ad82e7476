package domain

import (
	"fmt"
	"time"
)

// SessionType represents the kind of interval being timed.
type SessionType string

const (
	SessionTypeSession   SessionType = "session"
	SessionTypeBreak     SessionType = "break"
	SessionTypeLongBreak SessionType = "long_break"
)

// SessionStatus represents where the current session is in its lifecycle.
type SessionStatus string

const (
	SessionStatusUnstarted SessionStatus = "unstarted"
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusPaused    SessionStatus = "paused"
)

// Session is the currently active or about-to-start unit of work.
type Session struct {
	Type     SessionType
	Duration int // minutes
}

// Length returns the session duration as a time.Duration.
func (s Session) Length() time.Duration {
	return time.Duration(s.Duration) * time.Minute
}

// IsFocus returns true if this is a focus session rather than a break.
func (s Session) IsFocus() bool {
	return s.Type == SessionTypeSession
}

// IsBreak returns true for both short and long breaks.
func (s Session) IsBreak() bool {
	return s.Type == SessionTypeBreak || s.Type == SessionTypeLongBreak
}

// CompletedRecord is an immutable entry for one finished focus session.
type CompletedRecord struct {
	Duration   int // minutes
	FinishedAt time.Time
}

// Day returns the record's calendar day formatted as YYYY-MM-DD.
func (r CompletedRecord) Day() string {
	return r.FinishedAt.Format(DateLayout)
}

// GetSessionTypeLabel returns a human-readable label for the session type.
func GetSessionTypeLabel(t SessionType) string {
	switch t {
	case SessionTypeSession:
		return "Focus"
	case SessionTypeBreak:
		return "Break"
	case SessionTypeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// GetStatusLabel returns a human-readable label for the session status.
func GetStatusLabel(s SessionStatus) string {
	switch s {
	case SessionStatusUnstarted:
		return "Ready"
	case SessionStatusRunning:
		return "Running"
	case SessionStatusPaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// FormatRemaining renders a duration as MM:SS, clamping negatives to zero.
func FormatRemaining(d time.Duration) string {
	d = d.Round(time.Second)
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	seconds := int((d % time.Minute) / time.Second)
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
