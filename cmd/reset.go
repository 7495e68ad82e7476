package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all completed-session history",
	Long: `Permanently deletes the history of completed sessions and today's
progress. Settings are kept. This cannot be undone. Use --force to skip
the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce && !confirm(cmd.OutOrStdout(), os.Stdin, fmt.Sprintf("This will permanently delete all history in %s.", dbPath)) {
			fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
			return nil
		}

		if err := app.engine.ResetHistory(context.Background()); err != nil {
			return fmt.Errorf("failed to reset history: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "History deleted. Fresh start.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVarP(&resetForce, "force", "f", false, "Skip confirmation prompt")
}

// confirm asks the user to type "yes".
func confirm(w io.Writer, r io.Reader, prompt string) bool {
	fmt.Fprintln(w, prompt)
	fmt.Fprint(w, "Are you sure? Type 'yes' to confirm: ")
	input, _ := bufio.NewReader(r).ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "yes"
}
