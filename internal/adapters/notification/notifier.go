// Package notification provides desktop notification utilities.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/xvierd/pomo/internal/config"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// Notifier handles desktop notifications.
type Notifier struct {
	cfg    *config.NotificationConfig
	notify func(title, message string, icon any) error
	alert  func(title, message string, icon any) error
}

// New creates a new notifier with the given configuration.
func New(cfg *config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg, notify: beeep.Notify, alert: beeep.Alert}
}

var _ ports.Notifier = (*Notifier)(nil)

// Notify displays a desktop notification if enabled. With sound set the
// notification is raised as an alert so the platform plays its chime.
func (n *Notifier) Notify(title, message string, sound bool) error {
	if !n.IsEnabled() {
		return nil
	}
	if sound {
		return n.alert(title, message, "")
	}
	return n.notify(title, message, "")
}

// NotifySessionFinished announces the end of a session and what comes next.
func (n *Notifier) NotifySessionFinished(finished domain.Session, next domain.TimerSnapshot, sound bool) error {
	var title, message string
	if finished.IsFocus() {
		title = "🍅 Session Complete!"
		message = fmt.Sprintf("Great job! %d of %d sessions done today. Time for a %s.",
			next.CurrentSessionIdx, next.DailyGoal, lowerLabel(next.CurrentSession.Type))
	} else {
		title = "☕ Break Over!"
		message = fmt.Sprintf("Your %s is complete. Ready to focus?", lowerLabel(finished.Type))
	}
	return n.Notify(title, message, sound)
}

// NotifyDailyGoal announces that the daily goal was reached.
func (n *Notifier) NotifyDailyGoal(snap domain.TimerSnapshot, sound bool) error {
	return n.Notify("🎯 Daily Goal Reached!",
		fmt.Sprintf("You finished %d focus sessions today.", snap.DailyGoal),
		sound)
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg != nil && n.cfg.Enabled
}

func lowerLabel(t domain.SessionType) string {
	switch t {
	case domain.SessionTypeBreak:
		return "break"
	case domain.SessionTypeLongBreak:
		return "long break"
	default:
		return "focus session"
	}
}
