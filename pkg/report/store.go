package report

import (
	"context"
	"fmt"
	"time"

	"drools-graph/drlx/pkg/config"
)

// Store persists parse reports.
type Store interface {
	// Save stores r, replacing any report with the same ID.
	Save(ctx context.Context, r *Report) error

	// Get returns the report with the given ID or ErrNotFound.
	Get(ctx context.Context, id string) (*Report, error)

	// List returns up to limit reports, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]*Report, error)

	// Prune deletes reports started before cutoff and returns how many
	// were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases the store.
	Close() error
}

// Open creates the store selected by cfg.Backend.
func Open(cfg *config.ReportsConfig) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite", "":
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown report backend %q", cfg.Backend)
	}
}
