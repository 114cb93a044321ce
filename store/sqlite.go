package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dkrape/modelink/uml"
)

// SQLiteStore is a SQLite implementation of Store.
//
// It keeps model snapshots in a single-file database, which makes it the
// zero-setup choice for local sessions and tests. WAL mode is enabled so
// readers do not block behind the writer.
//
// Schema:
//   - model_snapshots: one row per saved version, JSON-encoded snapshot
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
	path   string
}

// NewSQLiteStore opens or creates a SQLite-backed store at path. Use
// ":memory:" for an in-memory database that vanishes on Close.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite connection: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS model_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			model_id TEXT NOT NULL,
			snapshot TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := s.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("failed to create model_snapshots table: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS idx_snapshots_model_id ON model_snapshots(model_id)"); err != nil {
		return fmt.Errorf("failed to create idx_snapshots_model_id: %w", err)
	}
	return nil
}

// SaveSnapshot persists a new version of the model.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, modelID string, snap uml.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO model_snapshots (model_id, snapshot) VALUES (?, ?)",
		modelID, string(data))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the latest saved version of the model.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context, modelID string) (uml.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return uml.Snapshot{}, fmt.Errorf("store is closed")
	}
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT snapshot FROM model_snapshots WHERE model_id = ? ORDER BY id DESC LIMIT 1",
		modelID).Scan(&data)
	if err == sql.ErrNoRows {
		return uml.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return uml.Snapshot{}, fmt.Errorf("failed to query snapshot: %w", err)
	}
	var snap uml.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return uml.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snap, nil
}

// ListModels returns the known model IDs in lexical order.
func (s *SQLiteStore) ListModels(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, fmt.Errorf("store is closed")
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT model_id FROM model_snapshots ORDER BY model_id")
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan model id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteSnapshots removes every stored version of the model.
func (s *SQLiteStore) DeleteSnapshots(ctx context.Context, modelID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("store is closed")
	}
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM model_snapshots WHERE model_id = ?", modelID)
	if err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
