package usecase

import (
	"context"
	"log/slog"
	"time"
)

// SweeperConfig holds sweeper configuration.
type SweeperConfig struct {
	Interval      time.Duration
	LeaseDuration time.Duration
}

// Sweeper reconciles items stuck in posting status. A worker that crashes
// between claiming an item and writing its terminal status leaves the item
// posting forever; the sweeper returns such items to queued once their lease
// is stale. A duplicate post is possible in that window, which is the
// accepted trade-off against items silently disappearing.
type Sweeper struct {
	config SweeperConfig
	repo   WorkItemRepository
	logger *slog.Logger
}

// NewSweeper creates a new Sweeper.
func NewSweeper(config SweeperConfig, repo WorkItemRepository, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		config: config,
		repo:   repo,
		logger: logger,
	}
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	if s.logger != nil {
		s.logger.Info("starting posting lease sweeper",
			slog.Duration("interval", s.config.Interval),
			slog.Duration("lease_duration", s.config.LeaseDuration),
		)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if s.logger != nil {
				s.logger.Info("stopping posting lease sweeper")
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				if s.logger != nil {
					s.logger.Error("sweep failed", slog.Any("error", err))
				}
			}
		}
	}
}

// Sweep requeues all posting items whose lease expired before now minus the
// lease duration.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.config.LeaseDuration)

	n, err := s.repo.RequeueExpired(ctx, cutoff)
	if err != nil {
		return err
	}

	if n > 0 && s.logger != nil {
		s.logger.Warn("requeued work items with expired posting leases",
			slog.Int64("count", n),
			slog.Time("lease_cutoff", cutoff),
		)
	}
	return nil
}
