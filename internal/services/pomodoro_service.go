package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"

	"github.com/xvierd/pomo/internal/countdown"
	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// Hook observes applied transitions. Hooks run synchronously, under the
// engine lock, with the mutation already visible in state, and may mutate
// state further.
type Hook interface {
	AfterTransition(ctx context.Context, t domain.Transition, state *domain.TimerState) error
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, t domain.Transition, state *domain.TimerState) error

// AfterTransition calls f.
func (f HookFunc) AfterTransition(ctx context.Context, t domain.Transition, state *domain.TimerState) error {
	return f(ctx, t, state)
}

// PomodoroConfig configures a PomodoroService.
type PomodoroConfig struct {
	Settings          domain.Settings
	Clock             clockwork.Clock
	Countdown         countdown.Options
	Logger            hclog.Logger
	StrictTransitions bool
}

// PomodoroService owns the session state machine and drives the countdown.
// Every operation is serialised; listeners run after the lock is released.
type PomodoroService struct {
	storage   ports.Storage
	clock     clockwork.Clock
	logger    hclog.Logger
	strict    bool
	countdown *countdown.Countdown
	progress  *ProgressStore
	day       *DayBoundaryTracker

	mu                sync.Mutex
	state             *domain.TimerState
	settings          domain.Settings
	hooks             []Hook
	finishedListeners []func(domain.Session, domain.TimerSnapshot)
	goalListeners     []func(domain.TimerSnapshot)
	pending           []func()
}

// Ensure PomodoroService implements ports.SessionController.
var _ ports.SessionController = (*PomodoroService)(nil)

// NewPomodoroService creates the engine. Call Bootstrap before use.
func NewPomodoroService(storage ports.Storage, cfg PomodoroConfig) *PomodoroService {
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	cdOpts := cfg.Countdown
	cdOpts.Clock = cfg.Clock

	s := &PomodoroService{
		storage:   storage,
		clock:     cfg.Clock,
		logger:    cfg.Logger.Named("engine"),
		strict:    cfg.StrictTransitions,
		countdown: countdown.New(cdOpts),
		progress:  NewProgressStore(storage.History(), cfg.Logger.Named("progress")),
		day:       NewDayBoundaryTracker(storage.Anchors(), cfg.Clock, cfg.Settings.StartNewDayAt, cfg.Logger.Named("daybound")),
		state:     domain.NewTimerState(cfg.Settings.Snapshot()),
		settings:  cfg.Settings,
	}
	s.progress.onGoalReached = s.emitGoalReachedLocked
	// The progress store must merge before a day reset clears history.
	s.hooks = []Hook{s.progress, s.day}
	s.countdown.OnTick(s.handleTick)
	return s
}

// Bootstrap restores today's progress from storage and reconciles the day
// boundary. Storage failures are logged and the engine starts empty.
func (s *PomodoroService) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	var errs []error
	prev, ok, err := s.storage.Settings().Load(ctx)
	if err != nil {
		s.logger.Warn("failed to read stored settings", "error", err)
	}
	if ok && prev.StartNewDayAt != s.settings.StartNewDayAt {
		s.logger.Info("day start changed", "from", prev.StartNewDayAt, "to", s.settings.StartNewDayAt)
		if err := s.day.Rebase(ctx, s.state); err != nil {
			errs = append(errs, err)
		}
	}

	anchor, err := s.day.Anchor(ctx)
	if err != nil {
		errs = append(errs, err)
	}
	records, err := s.progress.LoadSince(ctx, anchor.AddDate(0, 0, -1))
	if err != nil {
		s.logger.Warn("failed to load history", "error", err)
	}
	s.state.History = records
	s.state.CurrentSessionIdx = 0
	if goal := s.settings.DailyGoal; goal > 0 {
		s.state.CurrentSessionIdx = len(records) % goal
	}

	if _, err := s.day.Reconcile(ctx, s.state); err != nil {
		errs = append(errs, err)
	}
	if err := s.storage.Settings().Save(ctx, s.settings); err != nil {
		errs = append(errs, fmt.Errorf("failed to save settings: %w", err))
	}

	s.logger.Debug("bootstrapped", "completed_today", s.state.CurrentSessionIdx, "anchor", domain.FormatDateTime(anchor))
	return errors.Join(errs...)
}

// AddHook registers an extra hook that runs after the built-in ones.
func (s *PomodoroService) AddHook(h Hook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, h)
}

// OnSessionFinished implements ports.SessionController.
func (s *PomodoroService) OnSessionFinished(fn func(finished domain.Session, status domain.TimerSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishedListeners = append(s.finishedListeners, fn)
}

// OnDailyGoalReached implements ports.SessionController.
func (s *PomodoroService) OnDailyGoalReached(fn func(status domain.TimerSnapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goalListeners = append(s.goalListeners, fn)
}

// Start begins the held session.
func (s *PomodoroService) Start(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.unlock()
	return s.startLocked(ctx)
}

func (s *PomodoroService) startLocked(ctx context.Context) (bool, error) {
	return s.apply(ctx, domain.TransitionStart, func() bool {
		if !s.state.Start() {
			return false
		}
		s.countdown.Start(s.state.CurrentSession.Length())
		return true
	})
}

// Pause suspends the running session.
func (s *PomodoroService) Pause(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.unlock()

	return s.apply(ctx, domain.TransitionPause, func() bool {
		if !s.state.Pause() {
			return false
		}
		s.countdown.Pause()
		return true
	})
}

// Resume continues a paused session.
func (s *PomodoroService) Resume(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.unlock()

	return s.apply(ctx, domain.TransitionResume, func() bool {
		if !s.state.Resume() {
			return false
		}
		s.countdown.Resume()
		return true
	})
}

// Stop abandons the current session without recording it.
func (s *PomodoroService) Stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.unlock()

	return s.apply(ctx, domain.TransitionStop, func() bool {
		s.countdown.Stop()
		return s.state.Stop()
	})
}

// Skip cycles the type of the session about to start.
func (s *PomodoroService) Skip(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.unlock()
	return s.apply(ctx, domain.TransitionSkip, s.state.ChangeNextSessionType)
}

// AddOneMinute extends the running or paused session by a minute.
func (s *PomodoroService) AddOneMinute(ctx context.Context) bool {
	s.mu.Lock()
	defer s.unlock()

	if !s.state.IsActive() {
		s.reject("add_minute")
		return false
	}
	s.countdown.AddOneMinute()
	return true
}

// UpdateSettings validates and applies new settings. A changed day start
// moves the anchor; the new settings are persisted.
func (s *PomodoroService) UpdateSettings(ctx context.Context, settings domain.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.unlock()

	var errs []error
	old := s.settings
	s.settings = settings
	if old.StartNewDayAt != settings.StartNewDayAt {
		s.day.SetStartNewDayAt(settings.StartNewDayAt)
		if err := s.day.Rebase(ctx, s.state); err != nil {
			errs = append(errs, err)
		}
	}

	if _, err := s.apply(ctx, domain.TransitionUpdateSettings, func() bool {
		return s.state.UpdateDurations(settings.Snapshot())
	}); err != nil {
		errs = append(errs, err)
	}
	if err := s.storage.Settings().Save(ctx, settings); err != nil {
		errs = append(errs, fmt.Errorf("failed to save settings: %w", err))
	}
	return errors.Join(errs...)
}

// Settings returns the settings in effect.
func (s *PomodoroService) Settings() domain.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// ResetHistory deletes all persisted history and today's progress.
func (s *PomodoroService) ResetHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.unlock()

	s.state.ResetProgress()
	s.state.GoalReached = false
	return s.progress.Clear(ctx)
}

// Execute implements ports.SessionController.
func (s *PomodoroService) Execute(ctx context.Context, cmd ports.TimerCommand) (bool, error) {
	switch cmd {
	case ports.CmdStart:
		return s.Start(ctx)
	case ports.CmdPause:
		return s.Pause(ctx)
	case ports.CmdResume:
		return s.Resume(ctx)
	case ports.CmdStop:
		return s.Stop(ctx)
	case ports.CmdSkip:
		return s.Skip(ctx)
	case ports.CmdAddMinute:
		return s.AddOneMinute(ctx), nil
	}
	return false, fmt.Errorf("unknown command %q", cmd)
}

// Status implements ports.SessionController. A running session whose
// countdown has elapsed is finished before the status is returned.
func (s *PomodoroService) Status(ctx context.Context) domain.EngineStatus {
	s.mu.Lock()
	defer s.unlock()

	if s.state.Status == domain.SessionStatusRunning {
		if snap := s.countdown.Refresh(); snap.Progress >= 1 {
			s.finishLocked(ctx)
		}
	}
	return s.statusLocked()
}

// Snapshot returns the state machine without touching the countdown.
func (s *PomodoroService) Snapshot() domain.TimerSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Snapshot()
}

// Close stops the countdown ticker.
func (s *PomodoroService) Close() {
	s.countdown.Stop()
}

func (s *PomodoroService) statusLocked() domain.EngineStatus {
	st := domain.EngineStatus{TimerSnapshot: s.state.Snapshot()}
	if !s.state.IsActive() {
		st.Remaining = s.state.CurrentSession.Length()
		return st
	}
	cd := s.countdown.Snapshot()
	st.Remaining = cd.Remaining
	st.Progress = cd.Progress
	st.AnimatedProgress = cd.Animated
	return st
}

func (s *PomodoroService) handleTick(snap countdown.Snapshot) {
	s.mu.Lock()
	defer s.unlock()

	if s.state.Status != domain.SessionStatusRunning || snap.Generation != s.countdown.Generation() {
		return
	}
	if snap.Progress >= 1 {
		s.finishLocked(context.Background())
	}
}

// finishLocked records the completed session and auto-starts the next one
// when configured to.
func (s *PomodoroService) finishLocked(ctx context.Context) {
	finished := s.state.CurrentSession
	_, err := s.apply(ctx, domain.TransitionFinished, func() bool {
		s.countdown.Stop()
		return s.state.Finished(s.clock.Now())
	})
	if err != nil {
		s.logger.Warn("finished session not fully persisted", "error", err)
	}

	snap := s.state.Snapshot()
	for _, fn := range s.finishedListeners {
		s.pending = append(s.pending, func() { fn(finished, snap) })
	}

	next := s.state.CurrentSession
	if (next.IsBreak() && s.settings.AutoStartBreaks) || (next.IsFocus() && s.settings.AutoStartSessions) {
		s.logger.Debug("auto-starting", "type", next.Type)
		if _, err := s.startLocked(ctx); err != nil {
			s.logger.Warn("auto-start hooks failed", "error", err)
		}
	}
}

// apply runs one transition and its hooks. Hook failures are logged and
// joined into the returned error; the transition itself stays applied.
func (s *PomodoroService) apply(ctx context.Context, kind domain.TransitionKind, fn func() bool) (bool, error) {
	before := s.state.Snapshot()
	if !fn() {
		s.reject(string(kind))
		return false, nil
	}

	t := domain.Transition{
		Kind:   kind,
		Before: before,
		After:  s.state.Snapshot(),
		At:     s.clock.Now(),
	}
	s.logger.Debug("transition", "kind", kind, "status", t.After.Status, "session", t.After.CurrentSession.Type)

	var errs []error
	for _, h := range s.hooks {
		if err := h.AfterTransition(ctx, t, s.state); err != nil {
			s.logger.Warn("transition hook failed", "kind", kind, "error", err)
			errs = append(errs, err)
		}
	}
	return true, errors.Join(errs...)
}

func (s *PomodoroService) reject(op string) {
	err := fmt.Errorf("%w: %s while %s", domain.ErrInvalidTransition, op, s.state.Status)
	if s.strict {
		s.logger.Warn("ignored call", "error", err)
		return
	}
	s.logger.Trace("ignored call", "error", err)
}

func (s *PomodoroService) emitGoalReachedLocked() {
	snap := s.state.Snapshot()
	for _, fn := range s.goalListeners {
		s.pending = append(s.pending, func() { fn(snap) })
	}
}

// unlock releases the engine lock and then runs queued listeners.
func (s *PomodoroService) unlock() {
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}
