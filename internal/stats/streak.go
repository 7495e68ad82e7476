// Package stats derives streaks and heatmap levels from completed sessions.
package stats

import (
	"sort"
	"time"
)

// Streaks is the result of CountStreaks.
type Streaks struct {
	CurrentStreak   int  `json:"current_streak" yaml:"current_streak"`
	LongestStreak   int  `json:"longest_streak" yaml:"longest_streak"`
	IsAboutToExpire bool `json:"is_about_to_expire" yaml:"is_about_to_expire"`
}

// civilDay numbers a calendar day so that consecutive days differ by one
// regardless of DST or time zone.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// CountStreaks finds the current and the longest run of consecutive days
// among dates, as seen from today. Dates are compared by calendar day only.
func CountStreaks(dates []time.Time, today time.Time) Streaks {
	if len(dates) == 0 {
		return Streaks{}
	}

	seen := make(map[int64]struct{}, len(dates))
	days := make([]int64, 0, len(dates))
	for _, d := range dates {
		n := civilDay(d)
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		days = append(days, n)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i]-days[i-1] == 1 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	last := days[len(days)-1]
	sinceLast := civilDay(today) - last
	if sinceLast > 1 {
		return Streaks{LongestStreak: longest}
	}

	current := 1
	for i := len(days) - 2; i >= 0; i-- {
		if days[i+1]-days[i] != 1 {
			break
		}
		current++
	}

	return Streaks{
		CurrentStreak:   current,
		LongestStreak:   longest,
		IsAboutToExpire: sinceLast != 0,
	}
}
