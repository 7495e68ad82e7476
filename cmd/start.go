package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start [session|break|long_break]",
	Short: "Start a session and open the timer",
	Long: `Start the next session right away and open the interactive timer.
Pass a session type to cycle to it first; by default the session that is
due next is started.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{string(domain.SessionTypeSession), string(domain.SessionTypeBreak), string(domain.SessionTypeLongBreak)},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		if len(args) == 1 {
			if err := selectSessionType(ctx, app.engine, domain.SessionType(args[0])); err != nil {
				return err
			}
		}

		if _, err := app.engine.Execute(ctx, ports.CmdStart); err != nil {
			return fmt.Errorf("failed to start session: %w", err)
		}
		return launchTUI()
	},
}

// selectSessionType cycles the upcoming session until it has type want.
func selectSessionType(ctx context.Context, c ports.SessionController, want domain.SessionType) error {
	switch want {
	case domain.SessionTypeSession, domain.SessionTypeBreak, domain.SessionTypeLongBreak:
	default:
		return fmt.Errorf("unknown session type %q", want)
	}

	// Skip cycles through the three types, so three steps always suffice.
	for i := 0; i < 3; i++ {
		st := c.Status(ctx)
		if st.CurrentSession.Type == want {
			return nil
		}
		applied, err := c.Execute(ctx, ports.CmdSkip)
		if err != nil {
			return err
		}
		if !applied {
			return fmt.Errorf("a %s is already %s", domain.GetSessionTypeLabel(st.CurrentSession.Type), st.Status)
		}
	}
	if c.Status(ctx).CurrentSession.Type != want {
		return fmt.Errorf("could not switch to %s", want)
	}
	return nil
}
