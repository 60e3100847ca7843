package source

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handler receives the changed map files of a pull that moved HEAD.
type Handler func(ctx context.Context, result *SyncResult)

// Poller pulls a repository on a fixed interval.
type Poller struct {
	repo     *Repository
	interval time.Duration
	logger   *slog.Logger
}

// NewPoller creates a poller for repo. logger may be nil.
func NewPoller(repo *Repository, interval time.Duration, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		repo:     repo,
		interval: interval,
		logger:   logger.With("component", "source_poller"),
	}
}

// Run pulls every interval until ctx is cancelled, calling handler when a
// pull changed map files. Failed pulls are logged and retried on the next
// tick. Run returns nil when ctx is cancelled.
func (p *Poller) Run(ctx context.Context, handler Handler) error {
	if p.interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", p.interval)
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info("polling started", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("polling stopped")
			return nil
		case <-ticker.C:
			p.poll(ctx, handler)
		}
	}
}

func (p *Poller) poll(ctx context.Context, handler Handler) {
	result, err := p.repo.Sync(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Warn("pull failed", "error", err)
		}
		return
	}
	if !result.HadChanges() {
		return
	}
	if len(result.ChangedMaps) == 0 {
		p.logger.Info("no map files changed, skipping re-index",
			"from", shortSHA(result.FromSHA),
			"to", shortSHA(result.ToSHA))
		return
	}
	handler(ctx, result)
}
