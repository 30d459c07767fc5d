// Package usecase implements the work item queue business logic: enqueue
// validation, lifecycle transitions, and the posting-lease sweeper.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	"github.com/brandwire/dispatch/internal/queue/repository"
)

// WorkItemRepository defines the interface for work item persistence operations.
type WorkItemRepository interface {
	Create(ctx context.Context, item *queueDomain.WorkItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*queueDomain.WorkItem, error)
	GetQueued(ctx context.Context, limit int) ([]*queueDomain.WorkItem, error)
	Claim(ctx context.Context, id uuid.UUID) (bool, error)
	MarkPosted(ctx context.Context, id uuid.UUID, externalRef, externalURL string) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
	Requeue(ctx context.Context, id uuid.UUID, note string) error
	RequeueExpired(ctx context.Context, leaseBefore time.Time) (int64, error)
	Pause(ctx context.Context, id uuid.UUID) (bool, error)
	Resume(ctx context.Context, id uuid.UUID) (bool, error)
	Cancel(ctx context.Context, id uuid.UUID) (bool, error)
}

// WorkItemUseCase defines the interface for work item queue business logic.
type WorkItemUseCase interface {
	Enqueue(ctx context.Context, tenantID string, platform queueDomain.Platform, payload queueDomain.PostPayload) (*queueDomain.WorkItem, error)
	Get(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*queueDomain.WorkItem, error)
	Pause(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	Resume(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
	Cancel(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error)
}
