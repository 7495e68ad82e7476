package stats

import (
	"math"
	"sort"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// Summary aggregates a history of completed sessions.
type Summary struct {
	SessionsFinished int     `json:"sessions_finished" yaml:"sessions_finished"`
	MinutesFocused   int     `json:"minutes_focused" yaml:"minutes_focused"`
	HoursFocused     float64 `json:"hours_focused" yaml:"hours_focused"`
	ActiveDays       int     `json:"active_days" yaml:"active_days"`
}

// GroupByDate sums focused minutes per YYYY-MM-DD day.
func GroupByDate(records []domain.CompletedRecord) map[string]float64 {
	out := make(map[string]float64)
	for _, r := range records {
		out[r.Day()] += float64(r.Duration)
	}
	return out
}

// Dates returns one time per distinct day in records, ascending.
func Dates(records []domain.CompletedRecord) []time.Time {
	seen := make(map[string]struct{})
	var dates []time.Time
	for _, r := range records {
		day := r.Day()
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		dates = append(dates, domain.StartOfDay(r.FinishedAt))
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Summarize counts sessions and focused time. Hours are rounded to one
// decimal place.
func Summarize(records []domain.CompletedRecord) Summary {
	var s Summary
	days := make(map[string]struct{})
	for _, r := range records {
		s.SessionsFinished++
		s.MinutesFocused += r.Duration
		days[r.Day()] = struct{}{}
	}
	s.ActiveDays = len(days)
	s.HoursFocused = math.Round(float64(s.MinutesFocused)/60*10) / 10
	return s
}
