package domain

import (
	"fmt"
	"time"
)

// Calendar layouts used for persisted values. Persisted datetimes carry no
// timezone and are interpreted in the local zone.
const (
	DateTimeLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
	ClockLayout    = "15:04"
)

// FormatDateTime renders t as an ISO calendar datetime without timezone.
func FormatDateTime(t time.Time) string {
	return t.In(time.Local).Format(DateTimeLayout)
}

// ParseDateTime parses an ISO calendar datetime (or bare date) in the
// local zone. Fractional seconds are accepted.
func ParseDateTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateTimeLayout, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid calendar datetime %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay truncates t to midnight of its calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Epoch is the sentinel used when no persisted record exists.
var Epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.Local)
