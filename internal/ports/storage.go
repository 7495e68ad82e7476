// Package ports defines the interfaces (driven and driving ports)
// between the session engine and external infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/pomo/internal/domain"
)

// HistoryRepository persists the list of completed focus sessions.
// This is a driven port (implemented by adapters).
type HistoryRepository interface {
	// Load returns every persisted record in append order.
	// A missing key yields an empty list.
	Load(ctx context.Context) ([]domain.CompletedRecord, error)

	// Save replaces the persisted list.
	Save(ctx context.Context, records []domain.CompletedRecord) error
}

// AnchorRepository persists the next day-boundary instant.
// This is a driven port (implemented by adapters).
type AnchorRepository interface {
	// Load returns the persisted anchor. ok is false when none exists.
	Load(ctx context.Context) (anchor time.Time, ok bool, err error)

	// Save persists the anchor.
	Save(ctx context.Context, anchor time.Time) error
}

// SettingsRepository persists the last applied settings blob.
// This is a driven port (implemented by adapters).
type SettingsRepository interface {
	// Load returns the stored settings. ok is false when none exist.
	Load(ctx context.Context) (settings domain.Settings, ok bool, err error)

	// Save persists the settings.
	Save(ctx context.Context, settings domain.Settings) error
}

// Storage is the combined durable key-value interface.
// This is a driven port (implemented by adapters).
type Storage interface {
	// History provides access to the completed session list.
	History() HistoryRepository

	// Anchors provides access to the day-boundary anchor.
	Anchors() AnchorRepository

	// Settings provides access to the settings blob.
	Settings() SettingsRepository

	// Close closes the storage connection.
	Close() error

	// Migrate runs database migrations.
	Migrate() error
}
