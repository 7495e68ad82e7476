// Package storage provides SQLite implementations of the storage ports.
//
// Every value lives in a single key/value table; the payloads are JSON
// documents (or ISO datetime strings) so the file stays readable with the
// sqlite3 shell.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xvierd/pomo/internal/domain"
	"github.com/xvierd/pomo/internal/ports"
	_ "modernc.org/sqlite"
)

// Keys of the persisted values.
const (
	KeyHistory  = "progressHistory"
	KeyAnchor   = "next_midnight"
	KeySettings = "settings"

	corruptSuffix = ".corrupt"
)

// sqliteStorage implements the ports.Storage interface using SQLite.
type sqliteStorage struct {
	db           *sql.DB
	historyRepo  ports.HistoryRepository
	anchorRepo   ports.AnchorRepository
	settingsRepo ports.SettingsRepository
}

// Ensure sqliteStorage implements ports.Storage.
var _ ports.Storage = (*sqliteStorage)(nil)

// New creates a new SQLite storage instance.
func New(dbPath string) (ports.Storage, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	store := &kvStore{db: db}
	storage := &sqliteStorage{
		db:           db,
		historyRepo:  newHistoryRepository(store),
		anchorRepo:   newAnchorRepository(store),
		settingsRepo: newSettingsRepository(store),
	}

	if err := storage.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return storage, nil
}

// NewMemory creates a new in-memory SQLite storage instance for testing.
func NewMemory() (ports.Storage, error) {
	return New(":memory:")
}

// History returns the completed session repository.
func (s *sqliteStorage) History() ports.HistoryRepository {
	return s.historyRepo
}

// Anchors returns the day-boundary anchor repository.
func (s *sqliteStorage) Anchors() ports.AnchorRepository {
	return s.anchorRepo
}

// Settings returns the settings blob repository.
func (s *sqliteStorage) Settings() ports.SettingsRepository {
	return s.settingsRepo
}

// Close closes the database connection.
func (s *sqliteStorage) Close() error {
	return s.db.Close()
}

// Migrate creates the database schema.
func (s *sqliteStorage) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	return nil
}

// kvStore is the raw key/value access shared by the repositories.
type kvStore struct {
	db *sql.DB
}

func (s *kvStore) get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *kvStore) put(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// quarantine moves an unreadable value to <key>.corrupt so the key reads
// as missing from now on. The returned error wraps domain.ErrCorruptRecord.
func (s *kvStore) quarantine(ctx context.Context, key, raw string, cause error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query, key+corruptSuffix, raw, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to back up %s: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to clear %s: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	return fmt.Errorf("%w: %s moved to %s%s: %v", domain.ErrCorruptRecord, key, key, corruptSuffix, cause)
}
