package domain

import (
	"testing"
	"time"
)

func newTestState() *TimerState {
	return NewTimerState(DefaultSettings().Snapshot())
}

func TestTimerState_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    SessionStatus
		apply   func(*TimerState) bool
		applied bool
		want    SessionStatus
	}{
		{"start from unstarted", SessionStatusUnstarted, (*TimerState).Start, true, SessionStatusRunning},
		{"start while running", SessionStatusRunning, (*TimerState).Start, false, SessionStatusRunning},
		{"start while paused", SessionStatusPaused, (*TimerState).Start, false, SessionStatusPaused},
		{"pause running", SessionStatusRunning, (*TimerState).Pause, true, SessionStatusPaused},
		{"pause unstarted", SessionStatusUnstarted, (*TimerState).Pause, false, SessionStatusUnstarted},
		{"pause paused", SessionStatusPaused, (*TimerState).Pause, false, SessionStatusPaused},
		{"resume paused", SessionStatusPaused, (*TimerState).Resume, true, SessionStatusRunning},
		{"resume running", SessionStatusRunning, (*TimerState).Resume, false, SessionStatusRunning},
		{"resume unstarted", SessionStatusUnstarted, (*TimerState).Resume, false, SessionStatusUnstarted},
		{"stop running", SessionStatusRunning, (*TimerState).Stop, true, SessionStatusUnstarted},
		{"stop paused", SessionStatusPaused, (*TimerState).Stop, true, SessionStatusUnstarted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState()
			s.Status = tt.from

			if got := tt.apply(s); got != tt.applied {
				t.Errorf("applied = %v, want %v", got, tt.applied)
			}
			if s.Status != tt.want {
				t.Errorf("Status = %v, want %v", s.Status, tt.want)
			}
		})
	}
}

func TestTimerState_StopDoesNotRecord(t *testing.T) {
	s := newTestState()
	s.Start()
	s.Stop()

	if s.CurrentSessionIdx != 0 {
		t.Errorf("CurrentSessionIdx = %d, want 0", s.CurrentSessionIdx)
	}
	if len(s.History) != 0 {
		t.Errorf("History has %d records, want 0", len(s.History))
	}
	if s.CurrentSession.Type != SessionTypeSession {
		t.Errorf("CurrentSession.Type = %v, want session", s.CurrentSession.Type)
	}
}

func TestTimerState_FinishedFocusSession(t *testing.T) {
	s := newTestState()
	now := time.Date(2023, 7, 6, 10, 25, 0, 0, time.Local)

	s.Start()
	s.Finished(now)

	if s.Status != SessionStatusUnstarted {
		t.Errorf("Status = %v, want unstarted", s.Status)
	}
	if s.CurrentSessionIdx != 1 {
		t.Errorf("CurrentSessionIdx = %d, want 1", s.CurrentSessionIdx)
	}
	if len(s.History) != 1 {
		t.Fatalf("History has %d records, want 1", len(s.History))
	}
	if s.History[0].Duration != 25 || !s.History[0].FinishedAt.Equal(now) {
		t.Errorf("History[0] = %+v, want {25 %v}", s.History[0], now)
	}
	if s.CurrentSession.Type != SessionTypeBreak || s.CurrentSession.Duration != 5 {
		t.Errorf("CurrentSession = %+v, want 5 minute break", s.CurrentSession)
	}
}

func TestTimerState_FinishedBreakDoesNotCount(t *testing.T) {
	s := newTestState()
	s.CurrentSession = Session{Type: SessionTypeLongBreak, Duration: 15}
	s.CurrentSessionIdx = 4

	s.Start()
	s.Finished(time.Now())

	if s.CurrentSessionIdx != 4 {
		t.Errorf("CurrentSessionIdx = %d, want 4", s.CurrentSessionIdx)
	}
	if len(s.History) != 0 {
		t.Errorf("History has %d records, want 0", len(s.History))
	}
	if s.CurrentSession.Type != SessionTypeSession || s.CurrentSession.Duration != 25 {
		t.Errorf("CurrentSession = %+v, want 25 minute session", s.CurrentSession)
	}
}

func TestTimerState_LongBreakCadence(t *testing.T) {
	s := newTestState()
	now := time.Now()

	for i := 1; i <= 12; i++ {
		// Focus session.
		s.Start()
		s.Finished(now)

		want := SessionTypeBreak
		if i%4 == 0 {
			want = SessionTypeLongBreak
		}
		if s.CurrentSession.Type != want {
			t.Fatalf("after focus session %d: next type = %v, want %v", i, s.CurrentSession.Type, want)
		}

		// The break in between.
		s.Start()
		s.Finished(now)
		if s.CurrentSession.Type != SessionTypeSession {
			t.Fatalf("after break %d: next type = %v, want session", i, s.CurrentSession.Type)
		}
	}

	if s.CurrentSessionIdx != 12 {
		t.Errorf("CurrentSessionIdx = %d, want 12", s.CurrentSessionIdx)
	}
}

func TestTimerState_ChangeNextSessionType(t *testing.T) {
	s := newTestState()

	want := []Session{
		{Type: SessionTypeBreak, Duration: 5},
		{Type: SessionTypeLongBreak, Duration: 15},
		{Type: SessionTypeSession, Duration: 25},
	}
	for i, w := range want {
		if !s.ChangeNextSessionType() {
			t.Fatalf("step %d: ChangeNextSessionType() not applied", i)
		}
		if s.CurrentSession != w {
			t.Errorf("step %d: CurrentSession = %+v, want %+v", i, s.CurrentSession, w)
		}
	}

	s.Start()
	if s.ChangeNextSessionType() {
		t.Error("ChangeNextSessionType() should be a no-op while running")
	}
	if s.CurrentSession.Type != SessionTypeSession {
		t.Errorf("CurrentSession.Type = %v, want session", s.CurrentSession.Type)
	}
}

func TestTimerState_UpdateDurations(t *testing.T) {
	s := newTestState()
	s.CurrentSession = Session{Type: SessionTypeBreak, Duration: 5}
	s.Status = SessionStatusPaused

	settings := DefaultSettings()
	settings.BreakDuration = 7
	s.UpdateDurations(settings.Snapshot())

	if s.CurrentSession.Duration != 7 {
		t.Errorf("CurrentSession.Duration = %d, want 7", s.CurrentSession.Duration)
	}
	if s.Status != SessionStatusPaused {
		t.Errorf("Status = %v, want paused", s.Status)
	}
	if s.Settings.BreakDuration != 7 {
		t.Errorf("Settings.BreakDuration = %d, want 7", s.Settings.BreakDuration)
	}
}

func TestTimerState_ResetProgress(t *testing.T) {
	s := newTestState()
	s.Start()
	s.Finished(time.Now())

	s.ResetProgress()

	if s.CurrentSessionIdx != 0 || len(s.History) != 0 {
		t.Errorf("after reset: idx = %d, history = %d, want 0 and 0", s.CurrentSessionIdx, len(s.History))
	}
}

func TestTimerState_SnapshotIsCopy(t *testing.T) {
	s := newTestState()
	s.Start()
	s.Finished(time.Now())

	snap := s.Snapshot()
	s.ResetProgress()

	if len(snap.History) != 1 {
		t.Errorf("snapshot history = %d records, want 1", len(snap.History))
	}
	if snap.DailyGoal != 8 {
		t.Errorf("snapshot DailyGoal = %d, want 8", snap.DailyGoal)
	}
}
