// Package usecase implements the dispatch pipeline: admission, connection
// and tool resolution, execution, and the single terminal write per
// attempt.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/brandwire/dispatch/internal/catalog/domain"
	catalogUseCase "github.com/brandwire/dispatch/internal/catalog/usecase"
	dispatchDomain "github.com/brandwire/dispatch/internal/dispatch/domain"
	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/metrics"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
)

// Dispatcher runs the full pipeline for one work item at a time. Every
// handled attempt ends in exactly one queue write: posted, failed, or a
// requeue when admission is denied. Retries are never automatic.
type Dispatcher struct {
	store       WorkItemStore
	admitter    Admitter
	connections ConnectionResolver
	tools       ToolResolver
	executor    Executor
	profiles    map[queueDomain.Platform]*dispatchDomain.Profile
	metrics     metrics.BusinessMetrics
	logger      *slog.Logger
}

// NewDispatcher creates a Dispatcher over the default platform profiles.
func NewDispatcher(
	store WorkItemStore,
	admitter Admitter,
	connections ConnectionResolver,
	tools ToolResolver,
	executor Executor,
	businessMetrics metrics.BusinessMetrics,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:       store,
		admitter:    admitter,
		connections: connections,
		tools:       tools,
		executor:    executor,
		profiles:    dispatchDomain.Profiles(),
		metrics:     businessMetrics,
		logger:      logger,
	}
}

// DispatchByID claims a queued item and runs the pipeline synchronously.
// Admission denial is surfaced as a rate-limited error carrying the denial
// note, after the item has been requeued.
func (d *Dispatcher) DispatchByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	item, err := d.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	claimed, err := d.store.Claim(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, apperrors.Wrapf(
			apperrors.ErrInvalidTransition,
			"cannot dispatch work item in status %s", item.Status,
		)
	}

	outcome, err := d.DispatchClaimed(ctx, item)
	if err != nil {
		return nil, err
	}

	updated, err := d.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if outcome == dispatchDomain.OutcomeAdmissionDenied {
		note := ""
		if updated.LastError != nil {
			note = *updated.LastError
		}
		return nil, apperrors.Wrap(apperrors.ErrRateLimited, note)
	}
	return updated, nil
}

// DispatchClaimed runs the pipeline for an item already claimed into
// posting. The returned error only covers queue-write failures; pipeline
// failures are recorded on the item itself.
func (d *Dispatcher) DispatchClaimed(
	ctx context.Context, item *queueDomain.WorkItem,
) (dispatchDomain.Outcome, error) {
	start := time.Now()
	outcome, err := d.run(ctx, item)

	d.metrics.RecordOperation(ctx, "dispatch", "dispatch", string(outcome))
	d.metrics.RecordDuration(ctx, "dispatch", "dispatch", time.Since(start), string(outcome))

	return outcome, err
}

func (d *Dispatcher) run(ctx context.Context, item *queueDomain.WorkItem) (dispatchDomain.Outcome, error) {
	logger := d.logger.With(
		"work_item_id", item.ID.String(),
		"tenant_id", item.TenantID,
		"platform", string(item.Platform),
	)

	decision := d.admitter.Admit(ctx, item.TenantID)
	if !decision.Allowed {
		logger.Info("admission denied, requeueing", "note", decision.Note)
		if err := d.store.Requeue(ctx, item.ID, decision.Note); err != nil {
			return dispatchDomain.OutcomeAdmissionDenied, err
		}
		return dispatchDomain.OutcomeAdmissionDenied, nil
	}

	profile, ok := d.profiles[item.Platform]
	if !ok {
		return d.fail(ctx, logger, item, fmt.Sprintf("unsupported platform: %s", item.Platform))
	}

	connection, err := d.connections.Resolve(
		ctx, item.TenantID, string(item.Platform), profile.ConnectionKeywords,
	)
	if err != nil {
		return d.fail(ctx, logger, item, err.Error())
	}

	toolName, err := d.tools.Resolve(ctx, item.TenantID, catalogUseCase.ToolSpec{
		Toolkits: profile.Toolkits,
		Exact:    profile.ExactTools,
		Include:  profile.FuzzyInclude,
		Exclude:  profile.FuzzyExclude,
	})
	if err != nil {
		return d.fail(ctx, logger, item, err.Error())
	}

	arguments, err := profile.BuildArguments(item.Payload)
	if err != nil {
		return d.fail(ctx, logger, item, err.Error())
	}

	result, err := d.executor.Execute(ctx, catalogDomain.ExecuteRequest{
		TenantID:     item.TenantID,
		ConnectionID: connection.ID,
		Tool:         toolName,
		Arguments:    arguments,
	})
	if err != nil {
		return d.fail(ctx, logger, item, err.Error())
	}

	viewURL := profile.ViewURL(result.ExternalRef, result.Response)
	if err := d.store.MarkPosted(ctx, item.ID, result.ExternalRef, viewURL); err != nil {
		return dispatchDomain.OutcomePosted, err
	}

	logger.Info("work item posted",
		"tool", toolName,
		"external_ref", result.ExternalRef,
		"external_url", viewURL,
	)
	return dispatchDomain.OutcomePosted, nil
}

// fail records the terminal failure with the reason preserved verbatim for
// the dashboard.
func (d *Dispatcher) fail(
	ctx context.Context,
	logger *slog.Logger,
	item *queueDomain.WorkItem,
	reason string,
) (dispatchDomain.Outcome, error) {
	logger.Warn("work item failed", "reason", reason)
	if err := d.store.MarkFailed(ctx, item.ID, reason); err != nil {
		return dispatchDomain.OutcomeFailed, err
	}
	return dispatchDomain.OutcomeFailed, nil
}
