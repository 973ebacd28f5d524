// Package store persists batch run history in SQLite or Postgres.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/credi-research/econ-cli/internal/model"
)

// ErrNotFound marks a lookup for a run that does not exist.
var ErrNotFound = eris.New("store: run not found")

// Store defines the run-history persistence interface.
type Store interface {
	// SaveRun persists a batch result and returns the stored run with its
	// generated ID.
	SaveRun(ctx context.Context, result model.BatchResult) (*model.Run, error)
	// GetRun returns one run by ID, or ErrNotFound.
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]model.Run, error)
	// LatestRun returns the newest run, or ErrNotFound when none exist.
	LatestRun(ctx context.Context) (*model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
