package storage

import (
	"context"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// anchorRepository implements ports.AnchorRepository on the kv table.
type anchorRepository struct {
	kv *kvStore
}

func newAnchorRepository(kv *kvStore) ports.AnchorRepository {
	return &anchorRepository{kv: kv}
}

// Load returns the persisted anchor.
func (r *anchorRepository) Load(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := r.kv.get(ctx, KeyAnchor)
	if err != nil || !ok {
		return time.Time{}, false, err
	}
	anchor, err := domain.ParseDateTime(raw)
	if err != nil {
		return time.Time{}, false, r.kv.quarantine(ctx, KeyAnchor, raw, err)
	}
	return anchor, true, nil
}

// Save persists the anchor as an ISO datetime without timezone.
func (r *anchorRepository) Save(ctx context.Context, anchor time.Time) error {
	return r.kv.put(ctx, KeyAnchor, domain.FormatDateTime(anchor))
}
