package report

import (
	"context"
	"log/slog"
	"time"
)

// Pruner deletes reports older than the retention period.
type Pruner struct {
	store         Store
	retentionDays int
	logger        *slog.Logger
	now           func() time.Time
}

// NewPruner creates a pruner. retentionDays <= 0 keeps reports forever.
func NewPruner(store Store, retentionDays int, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:         store,
		retentionDays: retentionDays,
		logger:        logger.With("component", "report.pruner"),
		now:           time.Now,
	}
}

// Prune runs one pruning pass and returns the number of deleted reports.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.retentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.now().AddDate(0, 0, -p.retentionDays)
	deleted, err := p.store.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("pruned parse reports", "deleted", deleted, "cutoff", cutoff)
	} else {
		p.logger.Debug("no parse reports to prune", "cutoff", cutoff)
	}
	return deleted, nil
}

// Job adapts Prune to a scheduler callback, logging failures.
func (p *Pruner) Job() func(ctx context.Context) {
	return func(ctx context.Context) {
		if _, err := p.Prune(ctx); err != nil {
			p.logger.Error("report pruning failed", "error", err)
		}
	}
}
