package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/pomo/internal/domain"
)

func rec(minute int) domain.CompletedRecord {
	return domain.CompletedRecord{
		Duration:   25,
		FinishedAt: time.Date(2023, 7, 6, 10, minute, 0, 0, time.Local),
	}
}

// stubHistory is an in-memory HistoryRepository with injectable errors.
type stubHistory struct {
	records []domain.CompletedRecord
	loadErr error
	saves   int
}

func (s *stubHistory) Load(context.Context) ([]domain.CompletedRecord, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return append([]domain.CompletedRecord(nil), s.records...), nil
}

func (s *stubHistory) Save(_ context.Context, records []domain.CompletedRecord) error {
	s.saves++
	s.records = append([]domain.CompletedRecord(nil), records...)
	return nil
}

func TestWasSessionFinished(t *testing.T) {
	snap := func(st domain.SessionType) domain.TimerSnapshot {
		return domain.TimerSnapshot{CurrentSession: domain.Session{Type: st}}
	}

	tests := []struct {
		name          string
		before, after domain.SessionType
		want          bool
	}{
		{"focus to break", domain.SessionTypeSession, domain.SessionTypeBreak, true},
		{"focus to long break", domain.SessionTypeSession, domain.SessionTypeLongBreak, true},
		{"break to focus", domain.SessionTypeBreak, domain.SessionTypeSession, false},
		{"focus unchanged", domain.SessionTypeSession, domain.SessionTypeSession, false},
		{"break to long break", domain.SessionTypeBreak, domain.SessionTypeLongBreak, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WasSessionFinished(snap(tt.before), snap(tt.after)))
		})
	}
}

func TestProgressStore_MergeIsDedupSafe(t *testing.T) {
	ctx := context.Background()
	store := setupTestStorage(t)
	require.NoError(t, store.History().Save(ctx, []domain.CompletedRecord{rec(1)}))

	p := NewProgressStore(store.History(), nil)
	history := []domain.CompletedRecord{rec(1), rec(2)}

	n, err := p.Merge(ctx, history)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = p.Merge(ctx, history)
	require.NoError(t, err)
	assert.Zero(t, n)

	got := persisted(t, store)
	require.Len(t, got, 2)
	assert.True(t, got[0].FinishedAt.Equal(rec(1).FinishedAt))
	assert.True(t, got[1].FinishedAt.Equal(rec(2).FinishedAt))
}

func TestProgressStore_MergeSkipsWriteWhenNothingNew(t *testing.T) {
	repo := &stubHistory{records: []domain.CompletedRecord{rec(5)}}
	p := NewProgressStore(repo, nil)

	n, err := p.Merge(context.Background(), []domain.CompletedRecord{rec(3), rec(5)})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, repo.saves)
}

func TestProgressStore_CorruptHistoryReadsEmpty(t *testing.T) {
	repo := &stubHistory{loadErr: fmt.Errorf("%w: bad json", domain.ErrCorruptRecord)}
	p := NewProgressStore(repo, nil)

	n, err := p.Merge(context.Background(), []domain.CompletedRecord{rec(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, repo.records, 1)
}

func TestProgressStore_LoadFailureDoesNotOverwrite(t *testing.T) {
	repo := &stubHistory{
		records: []domain.CompletedRecord{rec(1)},
		loadErr: errors.New("disk on fire"),
	}
	p := NewProgressStore(repo, nil)

	_, err := p.Merge(context.Background(), []domain.CompletedRecord{rec(2)})
	require.Error(t, err)
	assert.Zero(t, repo.saves)
}

func TestProgressStore_AfterTransitionGoal(t *testing.T) {
	repo := &stubHistory{}
	p := NewProgressStore(repo, nil)
	signals := 0
	p.onGoalReached = func() { signals++ }

	settings := domain.DefaultSettings()
	settings.DailyGoal = 1
	state := domain.NewTimerState(settings.Snapshot())

	before := state.Snapshot()
	state.Start()
	state.Finished(rec(25).FinishedAt)
	tr := domain.Transition{Kind: domain.TransitionFinished, Before: before, After: state.Snapshot()}

	require.NoError(t, p.AfterTransition(context.Background(), tr, state))
	assert.Equal(t, 1, signals)
	assert.Equal(t, 0, state.CurrentSessionIdx)
	assert.True(t, state.GoalReached)
	assert.Len(t, repo.records, 1)

	// A non-finishing transition is ignored.
	skip := domain.Transition{Kind: domain.TransitionSkip, Before: state.Snapshot(), After: state.Snapshot()}
	require.NoError(t, p.AfterTransition(context.Background(), skip, state))
	assert.Equal(t, 1, signals)
}

func TestProgressStore_LoadSince(t *testing.T) {
	repo := &stubHistory{records: []domain.CompletedRecord{rec(1), rec(10), rec(20)}}
	p := NewProgressStore(repo, nil)

	got, err := p.LoadSince(context.Background(), rec(10).FinishedAt)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
