package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/stats"
)

var statsWeeks int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of session statistics",
	Long:  `Display focused time, streaks, and a calendar heatmap of completed focus sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := app.stats.Report(context.Background())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			jsonData, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal stats: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), report, time.Now(), statsWeeks)
		return nil
	},
}

func init() {
	statsCmd.Flags().IntVarP(&statsWeeks, "weeks", "w", 12, "Number of weeks shown in the heatmap")
}

// heatmapColors maps heatmap levels to colors, from no activity to busiest.
var heatmapColors = [6]lipgloss.Color{"#2D333B", "#0E4429", "#006D32", "#26A641", "#39D353", "#A6F5B5"}

func renderDashboard(w io.Writer, report *stats.Report, today time.Time, weeks int) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E05A47"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F39C6B"))

	// Header
	fmt.Fprintf(w, "  %s\n", titleStyle.Render("Focus statistics"))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	s := report.Summary
	fmt.Fprintf(w, "  Total: %s sessions, %s focused over %s days\n\n",
		valueStyle.Render(fmt.Sprintf("%d", s.SessionsFinished)),
		valueStyle.Render(formatHours(float64(s.MinutesFocused)/60)),
		valueStyle.Render(fmt.Sprintf("%d", s.ActiveDays)),
	)

	if s.SessionsFinished == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed sessions yet."))
		return
	}

	streak := report.Streaks
	fmt.Fprintf(w, "  %s %s   %s %s\n",
		dimStyle.Render("Current streak:"), valueStyle.Render(pluralDays(streak.CurrentStreak)),
		dimStyle.Render("Longest:"), valueStyle.Render(pluralDays(streak.LongestStreak)))
	if streak.IsAboutToExpire {
		fmt.Fprintf(w, "  %s\n", dimStyle.Render("Finish a session today to keep your streak."))
	}
	fmt.Fprintln(w)

	renderHeatmap(w, report.Heatmap, today, weeks, dimStyle)
	renderTopDays(w, report.Minutes, dimStyle, valueStyle)
}

// renderHeatmap draws a weekday-by-week calendar ending with today's week.
func renderHeatmap(w io.Writer, levels map[string]int, today time.Time, weeks int, dimStyle lipgloss.Style) {
	if weeks < 1 {
		weeks = 1
	}
	today = domain.StartOfDay(today)
	// Monday-based weekday index.
	offset := (int(today.Weekday()) + 6) % 7
	start := today.AddDate(0, 0, -offset-7*(weeks-1))

	labels := [7]string{"Mon", "   ", "Wed", "   ", "Fri", "   ", "Sun"}
	for row := 0; row < 7; row++ {
		var b strings.Builder
		for col := 0; col < weeks; col++ {
			day := start.AddDate(0, 0, col*7+row)
			if day.After(today) {
				b.WriteString("  ")
				continue
			}
			level := levels[day.Format(domain.DateLayout)]
			b.WriteString(lipgloss.NewStyle().Foreground(heatmapColors[level]).Render("■") + " ")
		}
		fmt.Fprintf(w, "  %s %s\n", dimStyle.Render(labels[row]), b.String())
	}

	var legend strings.Builder
	for _, c := range heatmapColors {
		legend.WriteString(lipgloss.NewStyle().Foreground(c).Render("■"))
	}
	fmt.Fprintf(w, "  %s %s %s\n\n", dimStyle.Render("    less"), legend.String(), dimStyle.Render("more"))
}

// dayEntry pairs a day with its focused minutes for sorting.
type dayEntry struct {
	Day     string
	Minutes float64
}

func renderTopDays(w io.Writer, minutes map[string]float64, dimStyle, valueStyle lipgloss.Style) {
	entries := make([]dayEntry, 0, len(minutes))
	for d, m := range minutes {
		entries = append(entries, dayEntry{Day: d, Minutes: m})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Minutes != entries[j].Minutes {
			return entries[i].Minutes > entries[j].Minutes
		}
		return entries[i].Day > entries[j].Day
	})

	fmt.Fprintf(w, "  %s\n", dimStyle.Render("Your most focused days"))
	top := 3
	if len(entries) < top {
		top = len(entries)
	}
	for _, e := range entries[:top] {
		fmt.Fprintf(w, "  %s  %s\n", dimStyle.Render(e.Day), valueStyle.Render(formatHours(e.Minutes/60)))
	}
	fmt.Fprintln(w)
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
