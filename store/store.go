// Package store provides persistence for semantic-model snapshots.
//
// The diagram file format of the host application is out of scope here;
// what the store persists is the uml.Snapshot representation of a Factory,
// versioned per model ID. Implementations cover in-memory use (MemStore),
// single-file local persistence (SQLiteStore) and shared relational storage
// (MySQLStore).
package store

import (
	"context"
	"errors"

	"github.com/dkrape/modelink/uml"
)

// ErrNotFound is returned when a requested model ID does not exist.
var ErrNotFound = errors.New("not found")

// Store persists semantic-model snapshots.
//
// Saving the same model ID again creates a new version; LoadSnapshot always
// returns the latest one. All implementations are safe for concurrent use,
// although the connection layer itself is single-threaded.
type Store interface {
	// SaveSnapshot persists a new version of the model.
	SaveSnapshot(ctx context.Context, modelID string, snap uml.Snapshot) error

	// LoadSnapshot returns the latest saved version of the model, or
	// ErrNotFound.
	LoadSnapshot(ctx context.Context, modelID string) (uml.Snapshot, error)

	// ListModels returns the known model IDs in lexical order.
	ListModels(ctx context.Context) ([]string, error)

	// DeleteSnapshots removes every stored version of the model. Deleting
	// an unknown model is not an error.
	DeleteSnapshots(ctx context.Context, modelID string) error
}
