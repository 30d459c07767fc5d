package usecase

import (
	"context"
	"log/slog"
	"time"

	dispatchDomain "github.com/brandwire/dispatch/internal/dispatch/domain"
)

// Worker polls the queue and dispatches claimed items. Multiple workers are
// safe against the same queue: the conditional claim means a lost race is
// silent, not an error.
type Worker struct {
	store      WorkItemStore
	dispatcher DispatchUseCase
	config     WorkerConfig
	logger     *slog.Logger
}

// NewWorker creates a dispatch worker.
func NewWorker(
	store WorkItemStore,
	dispatcher DispatchUseCase,
	config WorkerConfig,
	logger *slog.Logger,
) *Worker {
	if config.Interval <= 0 {
		config.Interval = 10 * time.Second
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 5
	}
	return &Worker{
		store:      store,
		dispatcher: dispatcher,
		config:     config,
		logger:     logger,
	}
}

// Start runs the poll loop until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("dispatch worker started",
		"interval", w.config.Interval.String(),
		"batch_size", w.config.BatchSize,
	)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("dispatch worker stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := w.RunOnce(ctx); err != nil {
				w.logger.Error("dispatch poll failed", "error", err)
			}
		}
	}
}

// RunOnce claims and dispatches up to one batch of queued items.
func (w *Worker) RunOnce(ctx context.Context) error {
	items, err := w.store.GetQueued(ctx, w.config.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		claimed, err := w.store.Claim(ctx, item.ID)
		if err != nil {
			w.logger.Error("claim failed", "work_item_id", item.ID.String(), "error", err)
			continue
		}
		if !claimed {
			// Another worker won the race for this item.
			continue
		}

		outcome, err := w.dispatcher.DispatchClaimed(ctx, item)
		if err != nil {
			w.logger.Error("dispatch failed to record outcome",
				"work_item_id", item.ID.String(),
				"outcome", string(outcome),
				"error", err,
			)
		}
		if outcome == dispatchDomain.OutcomeAdmissionDenied {
			// The tenant is out of budget; later items in this batch for
			// the same tenant would burn admission checks for nothing,
			// but other tenants' items still deserve the attempt.
			continue
		}
	}
	return nil
}
