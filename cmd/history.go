package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo/internal/domain"
)

var historyDays int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List completed focus sessions",
	Long:  `List completed focus sessions grouped by day, newest day first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := app.stats.History(context.Background(), sinceDays(time.Now(), historyDays))
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(toExportRows(records), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal history: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		}
		printHistory(cmd.OutOrStdout(), records)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyDays, "days", "d", 7, "Number of days to include (0 for all)")
}

// sinceDays returns the start of the window covering the last n days
// including today. n <= 0 means no lower bound.
func sinceDays(now time.Time, n int) time.Time {
	if n <= 0 {
		return time.Time{}
	}
	return domain.StartOfDay(now).AddDate(0, 0, -(n - 1))
}

func printHistory(w io.Writer, records []domain.CompletedRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No completed sessions in this period.")
		return
	}

	// Records are stored oldest first.
	var day string
	var total int
	flush := func() {
		if day != "" {
			fmt.Fprintf(w, "   total %s\n\n", formatMinutes(time.Duration(total)*time.Minute))
		}
	}
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		if r.Day() != day {
			flush()
			day, total = r.Day(), 0
			fmt.Fprintf(w, "📅 %s\n", day)
		}
		total += r.Duration
		fmt.Fprintf(w, "   %s  🍅 %s\n", r.FinishedAt.Format(domain.ClockLayout), formatMinutes(time.Duration(r.Duration)*time.Minute))
	}
	flush()
}
