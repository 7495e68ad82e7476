package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
)

// settingsRepository implements ports.SettingsRepository on the kv table.
type settingsRepository struct {
	kv *kvStore
}

func newSettingsRepository(kv *kvStore) ports.SettingsRepository {
	return &settingsRepository{kv: kv}
}

// Load returns the last applied settings. Fields absent from the stored
// blob keep their default values.
func (r *settingsRepository) Load(ctx context.Context) (domain.Settings, bool, error) {
	raw, ok, err := r.kv.get(ctx, KeySettings)
	if err != nil || !ok {
		return domain.Settings{}, false, err
	}
	settings := domain.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return domain.Settings{}, false, r.kv.quarantine(ctx, KeySettings, raw, err)
	}
	return settings, true, nil
}

// Save persists the settings blob.
func (r *settingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return r.kv.put(ctx, KeySettings, string(data))
}
