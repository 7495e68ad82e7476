package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// ComputeNextAnchor returns the start of the day after now, shifted by
// hours:minutes, in now's location.
func ComputeNextAnchor(now time.Time, hours, minutes int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, hours, minutes, 0, 0, now.Location())
}

// DayBoundaryTracker resets daily progress when the persisted anchor has
// passed.
type DayBoundaryTracker struct {
	repo   ports.AnchorRepository
	clock  clockwork.Clock
	logger hclog.Logger

	startNewDayAt string
}

// NewDayBoundaryTracker creates a tracker for the given "HH:MM" day start.
func NewDayBoundaryTracker(repo ports.AnchorRepository, clock clockwork.Clock, startNewDayAt string, logger hclog.Logger) *DayBoundaryTracker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &DayBoundaryTracker{
		repo:          repo,
		clock:         clock,
		logger:        logger,
		startNewDayAt: startNewDayAt,
	}
}

// SetStartNewDayAt changes the day start used for future anchors.
func (d *DayBoundaryTracker) SetStartNewDayAt(startNewDayAt string) {
	d.startNewDayAt = startNewDayAt
}

func (d *DayBoundaryTracker) next(now time.Time) time.Time {
	s := domain.Settings{StartNewDayAt: d.startNewDayAt}
	h, m, err := s.DayOffset()
	if err != nil {
		d.logger.Warn("invalid day start, using midnight", "error", err)
		h, m = 0, 0
	}
	return ComputeNextAnchor(now.In(time.Local), h, m)
}

// Anchor returns the persisted anchor, computing and persisting a fresh one
// when none can be read.
func (d *DayBoundaryTracker) Anchor(ctx context.Context) (time.Time, error) {
	anchor, ok, err := d.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		d.logger.Warn("discarding unreadable anchor", "error", err)
	case err != nil:
		d.logger.Warn("failed to read anchor", "error", err)
	case ok:
		return anchor, nil
	}

	anchor = d.next(d.clock.Now())
	if err := d.repo.Save(ctx, anchor); err != nil {
		return anchor, fmt.Errorf("failed to save anchor: %w", err)
	}
	d.logger.Debug("anchor initialised", "anchor", domain.FormatDateTime(anchor))
	return anchor, nil
}

// Reconcile resets progress if the anchor has passed and advances the
// anchor. Calling it again without time passing is a no-op.
func (d *DayBoundaryTracker) Reconcile(ctx context.Context, state *domain.TimerState) (bool, error) {
	anchor, err := d.Anchor(ctx)
	if err != nil {
		return false, err
	}
	now := d.clock.Now()
	if anchor.After(now) {
		return false, nil
	}

	next := d.next(now)
	d.logger.Info("new day", "previous", domain.FormatDateTime(anchor), "next", domain.FormatDateTime(next))
	state.ResetProgress()
	state.GoalReached = false
	if err := d.repo.Save(ctx, next); err != nil {
		return true, fmt.Errorf("failed to save anchor: %w", err)
	}
	return true, nil
}

// Rebase recomputes the anchor after the day start changed. Progress is
// only reset when the old anchor had already passed.
func (d *DayBoundaryTracker) Rebase(ctx context.Context, state *domain.TimerState) error {
	if reset, err := d.Reconcile(ctx, state); err != nil || reset {
		return err
	}
	next := d.next(d.clock.Now())
	if err := d.repo.Save(ctx, next); err != nil {
		return fmt.Errorf("failed to save anchor: %w", err)
	}
	d.logger.Debug("anchor rebased", "next", domain.FormatDateTime(next))
	return nil
}

// AfterTransition reconciles after start, finished and settings updates.
func (d *DayBoundaryTracker) AfterTransition(ctx context.Context, t domain.Transition, state *domain.TimerState) error {
	switch t.Kind {
	case domain.TransitionStart, domain.TransitionFinished, domain.TransitionUpdateSettings:
		_, err := d.Reconcile(ctx, state)
		return err
	}
	return nil
}
