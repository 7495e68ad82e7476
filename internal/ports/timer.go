package ports

import (
	"context"

	"github.com/xvierd/pomo/internal/domain"
)

// TimerCommand represents a user action against the session engine.
type TimerCommand string

const (
	// CmdStart starts the held session.
	CmdStart TimerCommand = "start"

	// CmdPause pauses the running session.
	CmdPause TimerCommand = "pause"

	// CmdResume resumes a paused session.
	CmdResume TimerCommand = "resume"

	// CmdStop abandons the current session without recording it.
	CmdStop TimerCommand = "stop"

	// CmdSkip cycles the type of the session about to start.
	CmdSkip TimerCommand = "skip"

	// CmdAddMinute extends the current session by one minute.
	CmdAddMinute TimerCommand = "add_minute"
)

// Commands lists every TimerCommand in display order.
var Commands = []TimerCommand{CmdStart, CmdPause, CmdResume, CmdStop, CmdSkip, CmdAddMinute}

// SessionController drives the session engine.
// This is a driving port (implemented by the services layer).
type SessionController interface {
	// Execute applies a command. applied is false when the command was
	// not valid for the current status; err reports persistence failures.
	Execute(ctx context.Context, cmd TimerCommand) (applied bool, err error)

	// Status recomputes the countdown and returns the engine state.
	Status(ctx context.Context) domain.EngineStatus

	// OnSessionFinished registers a listener for finished sessions.
	OnSessionFinished(fn func(finished domain.Session, status domain.TimerSnapshot))

	// OnDailyGoalReached registers a listener for the daily goal signal.
	OnDailyGoalReached(fn func(status domain.TimerSnapshot))
}
