package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/jonboulle/clockwork"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
	"github.com/xvierd/pomo/internal/stats"
)

// StatsService derives statistics from the persisted history.
type StatsService struct {
	progress *ProgressStore
	clock    clockwork.Clock
}

// Ensure StatsService implements ports.StatsProvider.
var _ ports.StatsProvider = (*StatsService)(nil)

// NewStatsService creates a stats service over storage.
func NewStatsService(storage ports.Storage, clock clockwork.Clock, logger hclog.Logger) *StatsService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &StatsService{
		progress: NewProgressStore(storage.History(), logger.Named("progress")),
		clock:    clock,
	}
}

// Report implements ports.StatsProvider.
func (s *StatsService) Report(ctx context.Context) (*stats.Report, error) {
	records, err := s.progress.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return stats.BuildReport(records, s.clock.Now()), nil
}

// History implements ports.StatsProvider.
func (s *StatsService) History(ctx context.Context, since time.Time) ([]domain.CompletedRecord, error) {
	records, err := s.progress.LoadSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}
