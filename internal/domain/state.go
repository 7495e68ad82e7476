package domain

import "time"

// TimerState is the session state machine. All transition methods report
// whether they applied; calls from an incompatible status are no-ops.
type TimerState struct {
	CurrentSession    Session
	CurrentSessionIdx int
	Status            SessionStatus
	History           []CompletedRecord
	Settings          SettingsSnapshot
	GoalReached       bool
}

// NewTimerState returns an unstarted state holding a focus session.
func NewTimerState(settings SettingsSnapshot) *TimerState {
	return &TimerState{
		CurrentSession: Session{
			Type:     SessionTypeSession,
			Duration: settings.SessionDuration,
		},
		Status:   SessionStatusUnstarted,
		Settings: settings,
	}
}

// UpdateDurations rewrites the settings snapshot and the held session's duration.
func (s *TimerState) UpdateDurations(settings SettingsSnapshot) bool {
	s.Settings = settings
	switch s.CurrentSession.Type {
	case SessionTypeSession, SessionTypeBreak, SessionTypeLongBreak:
		s.CurrentSession.Duration = settings.DurationFor(s.CurrentSession.Type)
	}
	return true
}

// Start begins the held session.
func (s *TimerState) Start() bool {
	if s.Status != SessionStatusUnstarted {
		return false
	}
	s.Status = SessionStatusRunning
	return true
}

// Pause suspends a running session.
func (s *TimerState) Pause() bool {
	if s.Status != SessionStatusRunning {
		return false
	}
	s.Status = SessionStatusPaused
	return true
}

// Resume continues a paused session.
func (s *TimerState) Resume() bool {
	if s.Status != SessionStatusPaused {
		return false
	}
	s.Status = SessionStatusRunning
	return true
}

// Stop abandons the current session without recording it.
func (s *TimerState) Stop() bool {
	s.Status = SessionStatusUnstarted
	return true
}

// Finished completes the current session and advances to the next one.
// Completion times are kept at second precision, matching storage.
func (s *TimerState) Finished(now time.Time) bool {
	s.Status = SessionStatusUnstarted

	finished := s.CurrentSession
	next := Session{Type: SessionTypeSession}
	if finished.IsFocus() {
		s.CurrentSessionIdx++
		s.History = append(s.History, CompletedRecord{
			Duration:   finished.Duration,
			FinishedAt: now.Truncate(time.Second),
		})

		next.Type = SessionTypeBreak
		if every := s.Settings.SessionsBeforeLongBreak; every > 0 && s.CurrentSessionIdx%every == 0 {
			next.Type = SessionTypeLongBreak
		}
	}
	next.Duration = s.Settings.DurationFor(next.Type)
	s.CurrentSession = next
	return true
}

// ChangeNextSessionType cycles the held session type before it starts.
func (s *TimerState) ChangeNextSessionType() bool {
	if s.Status != SessionStatusUnstarted {
		return false
	}
	var next SessionType
	switch s.CurrentSession.Type {
	case SessionTypeSession:
		next = SessionTypeBreak
	case SessionTypeBreak:
		next = SessionTypeLongBreak
	default:
		next = SessionTypeSession
	}
	s.CurrentSession = Session{Type: next, Duration: s.Settings.DurationFor(next)}
	return true
}

// ResetProgress clears the daily counter and the local history.
func (s *TimerState) ResetProgress() {
	s.CurrentSessionIdx = 0
	s.History = nil
}

// IsActive returns true while a session is running or paused.
func (s *TimerState) IsActive() bool {
	return s.Status == SessionStatusRunning || s.Status == SessionStatusPaused
}

// Snapshot returns a copy that is safe to hand to other goroutines.
func (s *TimerState) Snapshot() TimerSnapshot {
	history := make([]CompletedRecord, len(s.History))
	copy(history, s.History)
	return TimerSnapshot{
		CurrentSession:    s.CurrentSession,
		CurrentSessionIdx: s.CurrentSessionIdx,
		Status:            s.Status,
		History:           history,
		DailyGoal:         s.Settings.DailyGoal,
		GoalReached:       s.GoalReached,
	}
}

// TimerSnapshot is an immutable view of TimerState.
type TimerSnapshot struct {
	CurrentSession    Session
	CurrentSessionIdx int
	Status            SessionStatus
	History           []CompletedRecord
	DailyGoal         int
	GoalReached       bool
}

// TransitionKind names the operation that produced a transition.
type TransitionKind string

const (
	TransitionStart          TransitionKind = "start"
	TransitionPause          TransitionKind = "pause"
	TransitionResume         TransitionKind = "resume"
	TransitionStop           TransitionKind = "stop"
	TransitionFinished       TransitionKind = "finished"
	TransitionSkip           TransitionKind = "skip"
	TransitionUpdateSettings TransitionKind = "update_settings"
)

// Transition describes one applied state-machine operation.
type Transition struct {
	Kind   TransitionKind
	Before TimerSnapshot
	After  TimerSnapshot
	At     time.Time
}

// EngineStatus combines the state machine with the countdown output.
type EngineStatus struct {
	TimerSnapshot
	Remaining        time.Duration
	Progress         float64
	AnimatedProgress float64
}
