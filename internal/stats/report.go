package stats

import (
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// Report bundles every statistic derived from a history.
type Report struct {
	Summary Summary            `json:"summary" yaml:"summary"`
	Streaks Streaks            `json:"streaks" yaml:"streaks"`
	Minutes map[string]float64 `json:"minutes_per_day" yaml:"minutes_per_day"`
	Heatmap map[string]int     `json:"heatmap" yaml:"heatmap"`
}

// BuildReport derives a Report from records as seen from today.
func BuildReport(records []domain.CompletedRecord, today time.Time) *Report {
	minutes := GroupByDate(records)
	return &Report{
		Summary: Summarize(records),
		Streaks: CountStreaks(Dates(records), today),
		Minutes: minutes,
		Heatmap: Bucketize(minutes),
	}
}
