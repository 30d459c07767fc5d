package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brandwire/dispatch/internal/metrics"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	"github.com/brandwire/dispatch/internal/queue/repository"
)

// workItemUseCaseWithMetrics decorates WorkItemUseCase with metrics instrumentation.
type workItemUseCaseWithMetrics struct {
	next    WorkItemUseCase
	metrics metrics.BusinessMetrics
}

// NewWorkItemUseCaseWithMetrics wraps a WorkItemUseCase with metrics recording.
func NewWorkItemUseCaseWithMetrics(useCase WorkItemUseCase, m metrics.BusinessMetrics) WorkItemUseCase {
	return &workItemUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Enqueue records metrics for work item creation.
func (w *workItemUseCaseWithMetrics) Enqueue(
	ctx context.Context,
	tenantID string,
	platform queueDomain.Platform,
	payload queueDomain.PostPayload,
) (*queueDomain.WorkItem, error) {
	start := time.Now()
	item, err := w.next.Enqueue(ctx, tenantID, platform, payload)

	status := "success"
	if err != nil {
		status = "error"
	}

	w.metrics.RecordOperation(ctx, "queue", "enqueue", status)
	w.metrics.RecordDuration(ctx, "queue", "enqueue", time.Since(start), status)

	return item, err
}

// Get retrieves a work item by ID.
func (w *workItemUseCaseWithMetrics) Get(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	return w.next.Get(ctx, id)
}

// List retrieves work items matching the filter.
func (w *workItemUseCaseWithMetrics) List(
	ctx context.Context,
	filter repository.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	return w.next.List(ctx, filter)
}

// Pause records metrics for pause transitions.
func (w *workItemUseCaseWithMetrics) Pause(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	return w.recordTransition(ctx, "pause", id, w.next.Pause)
}

// Resume records metrics for resume transitions.
func (w *workItemUseCaseWithMetrics) Resume(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	return w.recordTransition(ctx, "resume", id, w.next.Resume)
}

// Cancel records metrics for cancel transitions.
func (w *workItemUseCaseWithMetrics) Cancel(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	return w.recordTransition(ctx, "cancel", id, w.next.Cancel)
}

func (w *workItemUseCaseWithMetrics) recordTransition(
	ctx context.Context,
	operation string,
	id uuid.UUID,
	call func(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error),
) (*queueDomain.WorkItem, error) {
	start := time.Now()
	item, err := call(ctx, id)

	status := "success"
	if err != nil {
		status = "error"
	}

	w.metrics.RecordOperation(ctx, "queue", operation, status)
	w.metrics.RecordDuration(ctx, "queue", operation, time.Since(start), status)

	return item, err
}
