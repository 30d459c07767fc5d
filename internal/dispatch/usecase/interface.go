package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	catalogDomain "github.com/brandwire/dispatch/internal/catalog/domain"
	catalogUseCase "github.com/brandwire/dispatch/internal/catalog/usecase"
	dispatchDomain "github.com/brandwire/dispatch/internal/dispatch/domain"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	ratelimitDomain "github.com/brandwire/dispatch/internal/ratelimit/domain"
)

// WorkItemStore is the queue surface the dispatcher drives: claiming,
// terminal writes, and the requeue path for denied admissions.
type WorkItemStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	GetQueued(ctx context.Context, limit int) ([]*queueDomain.WorkItem, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPosted(ctx context.Context, id uuid.UUID, externalRef, externalURL string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	Requeue(ctx context.Context, id uuid.UUID, note string) error
}

// Admitter decides whether a tenant may post right now.
type Admitter interface {
	Admit(ctx context.Context, tenantID string) ratelimitDomain.Decision
}

// ConnectionResolver finds the tenant's active connection for a platform.
type ConnectionResolver interface {
	Resolve(ctx context.Context, tenantID, platform string, keywords []string) (*catalogDomain.Connection, error)
}

// ToolResolver locates an executable tool in the tenant's live catalog.
type ToolResolver interface {
	Resolve(ctx context.Context, tenantID string, spec catalogUseCase.ToolSpec) (string, error)
}

// Executor performs the external posting call.
type Executor interface {
	Execute(ctx context.Context, req catalogDomain.ExecuteRequest) (*dispatchDomain.ExecutionResult, error)
}

// DispatchUseCase runs the dispatch pipeline.
type DispatchUseCase interface {
	// DispatchByID claims and dispatches one queued item synchronously.
	DispatchByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	// DispatchClaimed runs the pipeline for an item already in posting.
	DispatchClaimed(ctx context.Context, item *queueDomain.WorkItem) (dispatchDomain.Outcome, error)
}

// WorkerConfig tunes the dispatch worker's poll loop.
type WorkerConfig struct {
	Interval  time.Duration
	BatchSize int
}
