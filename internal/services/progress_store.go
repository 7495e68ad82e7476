package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// ProgressStore persists completed sessions and enforces the daily goal.
type ProgressStore struct {
	repo   ports.HistoryRepository
	logger hclog.Logger

	// onGoalReached runs, under the engine lock, each time the goal resets
	// the daily counter.
	onGoalReached func()
}

// NewProgressStore creates a progress store over repo.
func NewProgressStore(repo ports.HistoryRepository, logger hclog.Logger) *ProgressStore {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ProgressStore{repo: repo, logger: logger}
}

// WasSessionFinished reports whether a transition completed a focus session.
func WasSessionFinished(before, after domain.TimerSnapshot) bool {
	return before.CurrentSession.Type == domain.SessionTypeSession && after.CurrentSession.IsBreak()
}

// AfterTransition merges history after a finished focus session and resets
// the daily counter once the goal is met.
func (p *ProgressStore) AfterTransition(ctx context.Context, t domain.Transition, state *domain.TimerState) error {
	if !WasSessionFinished(t.Before, t.After) {
		return nil
	}

	_, err := p.Merge(ctx, state.History)

	if goal := state.Settings.DailyGoal; goal > 0 && state.CurrentSessionIdx == goal {
		p.logger.Info("daily goal reached", "goal", goal)
		state.ResetProgress()
		state.GoalReached = true
		if p.onGoalReached != nil {
			p.onGoalReached()
		}
	}
	return err
}

// Merge appends the records of history that are newer than the newest
// persisted record. Records are never appended twice because only strictly
// newer timestamps are taken.
func (p *ProgressStore) Merge(ctx context.Context, history []domain.CompletedRecord) (int, error) {
	persisted, err := p.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load history: %w", err)
	}

	newest := domain.Epoch
	if n := len(persisted); n > 0 {
		newest = persisted[n-1].FinishedAt
	}

	var fresh []domain.CompletedRecord
	for _, r := range history {
		if r.FinishedAt.After(newest) {
			fresh = append(fresh, r)
		}
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	if err := p.repo.Save(ctx, append(persisted, fresh...)); err != nil {
		return 0, fmt.Errorf("failed to save history: %w", err)
	}
	p.logger.Debug("history merged", "appended", len(fresh), "total", len(persisted)+len(fresh))
	return len(fresh), nil
}

// All returns every persisted record. Corrupt history reads as empty.
func (p *ProgressStore) All(ctx context.Context) ([]domain.CompletedRecord, error) {
	records, err := p.repo.Load(ctx)
	if errors.Is(err, domain.ErrCorruptRecord) {
		p.logger.Warn("discarding unreadable history", "error", err)
		return nil, nil
	}
	return records, err
}

// LoadSince returns records finished at or after since.
func (p *ProgressStore) LoadSince(ctx context.Context, since time.Time) ([]domain.CompletedRecord, error) {
	all, err := p.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []domain.CompletedRecord
	for _, r := range all {
		if !r.FinishedAt.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Clear removes every persisted record.
func (p *ProgressStore) Clear(ctx context.Context) error {
	if err := p.repo.Save(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}
