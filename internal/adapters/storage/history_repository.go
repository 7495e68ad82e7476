package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// historyRepository implements ports.HistoryRepository on the kv table.
type historyRepository struct {
	kv *kvStore
}

func newHistoryRepository(kv *kvStore) ports.HistoryRepository {
	return &historyRepository{kv: kv}
}

// recordJSON is the persisted form of a completed session.
type recordJSON struct {
	Duration   int    `json:"duration"`
	FinishedAt string `json:"finishedAt"`
}

// Load returns every persisted record in append order.
func (r *historyRepository) Load(ctx context.Context) ([]domain.CompletedRecord, error) {
	raw, ok, err := r.kv.get(ctx, KeyHistory)
	if err != nil || !ok {
		return nil, err
	}

	var rows []recordJSON
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, r.kv.quarantine(ctx, KeyHistory, raw, err)
	}

	records := make([]domain.CompletedRecord, 0, len(rows))
	for i, row := range rows {
		finishedAt, err := domain.ParseDateTime(row.FinishedAt)
		if err != nil {
			return nil, r.kv.quarantine(ctx, KeyHistory, raw, fmt.Errorf("record %d: %w", i, err))
		}
		records = append(records, domain.CompletedRecord{
			Duration:   row.Duration,
			FinishedAt: finishedAt,
		})
	}
	return records, nil
}

// Save replaces the persisted list.
func (r *historyRepository) Save(ctx context.Context, records []domain.CompletedRecord) error {
	rows := make([]recordJSON, 0, len(records))
	for _, rec := range records {
		rows = append(rows, recordJSON{
			Duration:   rec.Duration,
			FinishedAt: domain.FormatDateTime(rec.FinishedAt),
		})
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	return r.kv.put(ctx, KeyHistory, string(data))
}
