// Package repository implements work item persistence for PostgreSQL and MySQL.
// Status transitions are enforced with conditional updates so that concurrent
// workers and API calls can never double-claim or resurrect a terminal item.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/brandwire/dispatch/internal/database"
	apperrors "github.com/brandwire/dispatch/internal/errors"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
)

// ListFilter narrows List results. Zero values mean "no filter".
type ListFilter struct {
	TenantID string
	Status   queueDomain.WorkItemStatus
	Offset   int
	Limit    int
}

// PostgreSQLWorkItemRepository implements work item persistence for PostgreSQL.
type PostgreSQLWorkItemRepository struct {
	db *sql.DB
}

// NewPostgreSQLWorkItemRepository creates a new PostgreSQLWorkItemRepository.
func NewPostgreSQLWorkItemRepository(db *sql.DB) *PostgreSQLWorkItemRepository {
	return &PostgreSQLWorkItemRepository{db: db}
}

const postgresWorkItemColumns = `id, tenant_id, platform, payload, status, attempts, last_error,
		claimed_at, posted_at, external_ref, external_url, created_at, updated_at`

// Create inserts a new work item.
func (r *PostgreSQLWorkItemRepository) Create(ctx context.Context, item *queueDomain.WorkItem) error {
	querier := database.GetTx(ctx, r.db)

	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item payload")
	}

	query := `INSERT INTO work_items (id, tenant_id, platform, payload, status, attempts, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())`

	_, err = querier.ExecContext(ctx, query,
		item.ID, item.TenantID, item.Platform, payload, item.Status, item.Attempts)
	if err != nil {
		return apperrors.Wrap(err, "failed to create work item")
	}
	return nil
}

// GetByID retrieves a work item by its ID.
func (r *PostgreSQLWorkItemRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresWorkItemColumns + ` FROM work_items WHERE id = $1`

	item, err := scanWorkItem(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get work item")
	}
	return item, nil
}

// List retrieves work items ordered by creation time, newest first.
func (r *PostgreSQLWorkItemRepository) List(
	ctx context.Context,
	filter ListFilter,
) ([]*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresWorkItemColumns + ` FROM work_items WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if filter.TenantID != "" {
		query += ` AND tenant_id = $` + itoa(argPos)
		args = append(args, filter.TenantID)
		argPos++
	}
	if filter.Status != "" {
		query += ` AND status = $` + itoa(argPos)
		args = append(args, filter.Status)
		argPos++
	}

	query += ` ORDER BY created_at DESC LIMIT $` + itoa(argPos) + ` OFFSET $` + itoa(argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list work items")
	}
	defer rows.Close() //nolint:errcheck

	return scanWorkItems(rows)
}

// GetQueued retrieves the oldest queued items up to limit.
func (r *PostgreSQLWorkItemRepository) GetQueued(
	ctx context.Context,
	limit int,
) ([]*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + postgresWorkItemColumns + ` FROM work_items
			  WHERE status = $1
			  ORDER BY created_at ASC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, queueDomain.WorkItemStatusQueued, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get queued work items")
	}
	defer rows.Close() //nolint:errcheck

	return scanWorkItems(rows)
}

// Claim atomically moves a queued item to posting and stamps the lease.
// Returns false when the item was not in queued status, which is how
// concurrent workers lose the race without error.
func (r *PostgreSQLWorkItemRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = $1, claimed_at = NOW(), attempts = attempts + 1, updated_at = NOW()
			  WHERE id = $2 AND status = $3`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusPosting, id, queueDomain.WorkItemStatusQueued)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to claim work item")
	}
	return rowsAffected(result)
}

// MarkPosted finalizes a posting item as posted with its external reference.
func (r *PostgreSQLWorkItemRepository) MarkPosted(
	ctx context.Context,
	id uuid.UUID,
	externalRef, externalURL string,
) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = $1, posted_at = NOW(), external_ref = $2, external_url = NULLIF($3, ''),
			      claimed_at = NULL, last_error = NULL, updated_at = NOW()
			  WHERE id = $4 AND status = $5`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusPosted, externalRef, externalURL, id, queueDomain.WorkItemStatusPosting)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark work item posted")
	}
	return requireTransition(result)
}

// MarkFailed finalizes a posting item as failed, preserving the reason verbatim.
func (r *PostgreSQLWorkItemRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = $1, last_error = $2, claimed_at = NULL, updated_at = NOW()
			  WHERE id = $3 AND status = $4`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusFailed, reason, id, queueDomain.WorkItemStatusPosting)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark work item failed")
	}
	return requireTransition(result)
}

// Requeue returns a posting item to queued, clearing its lease and recording
// why it went back (admission denial, lease expiry).
func (r *PostgreSQLWorkItemRepository) Requeue(ctx context.Context, id uuid.UUID, note string) error {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = $1, claimed_at = NULL, last_error = $2, updated_at = NOW()
			  WHERE id = $3 AND status = $4`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusQueued, note, id, queueDomain.WorkItemStatusPosting)
	if err != nil {
		return apperrors.Wrap(err, "failed to requeue work item")
	}
	return requireTransition(result)
}

// RequeueExpired returns all posting items whose lease was stamped before the
// cutoff to queued. Used by the sweeper to recover items orphaned by a worker
// crash. Returns the number of items recovered.
func (r *PostgreSQLWorkItemRepository) RequeueExpired(
	ctx context.Context,
	leaseBefore time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = $1, claimed_at = NULL, last_error = $2, updated_at = NOW()
			  WHERE status = $3 AND claimed_at < $4`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusQueued, "requeued after expired posting lease",
		queueDomain.WorkItemStatusPosting, leaseBefore)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to requeue expired work items")
	}
	return result.RowsAffected()
}

// Pause moves a queued item to paused. Returns false when the item was not queued.
func (r *PostgreSQLWorkItemRepository) Pause(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, queueDomain.WorkItemStatusPaused, queueDomain.WorkItemStatusQueued)
}

// Resume moves a paused item back to queued. Returns false when the item was not paused.
func (r *PostgreSQLWorkItemRepository) Resume(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, queueDomain.WorkItemStatusQueued, queueDomain.WorkItemStatusPaused)
}

// Cancel moves a queued or paused item to cancelled. Returns false when the
// item was already handed to a worker or in a terminal status.
func (r *PostgreSQLWorkItemRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = $1, updated_at = NOW()
			  WHERE id = $2 AND status IN ($3, $4)`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusCancelled, id,
		queueDomain.WorkItemStatusQueued, queueDomain.WorkItemStatusPaused)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to cancel work item")
	}
	return rowsAffected(result)
}

// transition performs a single guarded status update.
func (r *PostgreSQLWorkItemRepository) transition(
	ctx context.Context,
	id uuid.UUID,
	to, from queueDomain.WorkItemStatus,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`

	result, err := querier.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to transition work item")
	}
	return rowsAffected(result)
}
