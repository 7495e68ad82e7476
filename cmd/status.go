package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo/internal/domain"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current status",
	Long:  `Display the upcoming session and today's progress towards the daily goal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := app.engine.Status(context.Background())

		if jsonOutput {
			return outputStatusJSON(cmd.OutOrStdout(), st)
		}
		printStatusText(cmd.OutOrStdout(), st)
		return nil
	},
}

// statusJSON is the JSON shape of the status command.
type statusJSON struct {
	SessionType      string  `json:"session_type"`
	DurationMinutes  int     `json:"duration_minutes"`
	Status           string  `json:"status"`
	Remaining        string  `json:"remaining"`
	Progress         float64 `json:"progress"`
	CompletedToday   int     `json:"completed_today"`
	DailyGoal        int     `json:"daily_goal"`
	DailyGoalReached bool    `json:"daily_goal_reached"`
}

// outputStatusJSON outputs the status in JSON format
func outputStatusJSON(w io.Writer, st domain.EngineStatus) error {
	jsonData, err := json.MarshalIndent(statusJSON{
		SessionType:      string(st.CurrentSession.Type),
		DurationMinutes:  st.CurrentSession.Duration,
		Status:           string(st.Status),
		Remaining:        domain.FormatRemaining(st.Remaining),
		Progress:         st.Progress,
		CompletedToday:   st.CurrentSessionIdx,
		DailyGoal:        st.DailyGoal,
		DailyGoalReached: st.GoalReached,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// printStatusText prints the status in plain text format
func printStatusText(w io.Writer, st domain.EngineStatus) {
	fmt.Fprintf(w, "🍅 Next: %s (%d min)\n", domain.GetSessionTypeLabel(st.CurrentSession.Type), st.CurrentSession.Duration)
	fmt.Fprintf(w, "   Status: %s\n", domain.GetStatusLabel(st.Status))
	if st.Status != domain.SessionStatusUnstarted {
		fmt.Fprintf(w, "   Remaining: %s\n", domain.FormatRemaining(st.Remaining))
		fmt.Fprintf(w, "   Progress: %.0f%%\n", st.Progress*100)
	}

	fmt.Fprintf(w, "\n📊 Today: %d of %d sessions\n", st.CurrentSessionIdx, st.DailyGoal)
	if st.GoalReached {
		fmt.Fprintln(w, "   🎯 Daily goal reached")
	}
}
