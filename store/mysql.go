package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dkrape/modelink/uml"
)

// MySQLStore is a MySQL/MariaDB implementation of Store, for deployments
// where models are shared between machines or must survive the workstation.
//
// The DSN format follows go-sql-driver/mysql:
//
//	user:password@tcp(localhost:3306)/models?parseTime=true
//
// Never hardcode credentials; read the DSN from the environment:
//
//	store, err := store.NewMySQLStore(os.Getenv("MODELINK_MYSQL_DSN"))
type MySQLStore struct {
	db     *sql.DB
	mu     sync.Mutex
	closed bool
}

// NewMySQLStore opens a MySQL-backed store, creating the schema on first
// use.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *MySQLStore) createTables(ctx context.Context) error {
	table := `
		CREATE TABLE IF NOT EXISTS model_snapshots (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			model_id VARCHAR(255) NOT NULL,
			snapshot LONGTEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_snapshots_model_id (model_id)
		)
	`
	if _, err := s.db.ExecContext(ctx, table); err != nil {
		return fmt.Errorf("failed to create model_snapshots table: %w", err)
	}
	return nil
}

// SaveSnapshot persists a new version of the model.
func (s *MySQLStore) SaveSnapshot(ctx context.Context, modelID string, snap uml.Snapshot) error {
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
func (s *MySQLStore) LoadSnapshot(ctx context.Context, modelID string) (uml.Snapshot, error) {
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
func (s *MySQLStore) ListModels(ctx context.Context) ([]string, error) {
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
func (s *MySQLStore) DeleteSnapshots(ctx context.Context, modelID string) error {
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
func (s *MySQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
