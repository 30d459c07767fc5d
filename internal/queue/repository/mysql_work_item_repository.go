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

// MySQLWorkItemRepository implements work item persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLWorkItemRepository struct {
	db *sql.DB
}

// NewMySQLWorkItemRepository creates a new MySQLWorkItemRepository.
func NewMySQLWorkItemRepository(db *sql.DB) *MySQLWorkItemRepository {
	return &MySQLWorkItemRepository{db: db}
}

const mysqlWorkItemColumns = `id, tenant_id, platform, payload, status, attempts, last_error,
		claimed_at, posted_at, external_ref, external_url, created_at, updated_at`

// Create inserts a new work item.
func (r *MySQLWorkItemRepository) Create(ctx context.Context, item *queueDomain.WorkItem) error {
	querier := database.GetTx(ctx, r.db)

	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item payload")
	}

	id, err := item.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `INSERT INTO work_items (id, tenant_id, platform, payload, status, attempts, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(ctx, query,
		id, item.TenantID, item.Platform, payload, item.Status, item.Attempts)
	if err != nil {
		return apperrors.Wrap(err, "failed to create work item")
	}
	return nil
}

// GetByID retrieves a work item by its ID.
func (r *MySQLWorkItemRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `SELECT ` + mysqlWorkItemColumns + ` FROM work_items WHERE id = ?`

	item, err := scanWorkItemBinaryID(querier.QueryRowContext(ctx, query, idValue))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get work item")
	}
	return item, nil
}

// List retrieves work items ordered by creation time, newest first.
func (r *MySQLWorkItemRepository) List(
	ctx context.Context,
	filter ListFilter,
) ([]*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlWorkItemColumns + ` FROM work_items WHERE 1=1`
	args := []interface{}{}

	if filter.TenantID != "" {
		query += ` AND tenant_id = ?`
		args = append(args, filter.TenantID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}

	query += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, filter.Limit, filter.Offset)

	rows, err := querier.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list work items")
	}
	defer rows.Close() //nolint:errcheck

	return scanWorkItemsBinaryID(rows)
}

// GetQueued retrieves the oldest queued items up to limit.
func (r *MySQLWorkItemRepository) GetQueued(
	ctx context.Context,
	limit int,
) ([]*queueDomain.WorkItem, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT ` + mysqlWorkItemColumns + ` FROM work_items
			  WHERE status = ?
			  ORDER BY created_at ASC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, queueDomain.WorkItemStatusQueued, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to get queued work items")
	}
	defer rows.Close() //nolint:errcheck

	return scanWorkItemsBinaryID(rows)
}

// Claim atomically moves a queued item to posting and stamps the lease.
func (r *MySQLWorkItemRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE work_items
			  SET status = ?, claimed_at = NOW(), attempts = attempts + 1, updated_at = NOW()
			  WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusPosting, idValue, queueDomain.WorkItemStatusQueued)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to claim work item")
	}
	return rowsAffected(result)
}

// MarkPosted finalizes a posting item as posted with its external reference.
func (r *MySQLWorkItemRepository) MarkPosted(
	ctx context.Context,
	id uuid.UUID,
	externalRef, externalURL string,
) error {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE work_items
			  SET status = ?, posted_at = NOW(), external_ref = ?, external_url = NULLIF(?, ''),
			      claimed_at = NULL, last_error = NULL, updated_at = NOW()
			  WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusPosted, externalRef, externalURL, idValue, queueDomain.WorkItemStatusPosting)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark work item posted")
	}
	return requireTransition(result)
}

// MarkFailed finalizes a posting item as failed, preserving the reason verbatim.
func (r *MySQLWorkItemRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE work_items
			  SET status = ?, last_error = ?, claimed_at = NULL, updated_at = NOW()
			  WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusFailed, reason, idValue, queueDomain.WorkItemStatusPosting)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark work item failed")
	}
	return requireTransition(result)
}

// Requeue returns a posting item to queued, clearing its lease.
func (r *MySQLWorkItemRepository) Requeue(ctx context.Context, id uuid.UUID, note string) error {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE work_items
			  SET status = ?, claimed_at = NULL, last_error = ?, updated_at = NOW()
			  WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusQueued, note, idValue, queueDomain.WorkItemStatusPosting)
	if err != nil {
		return apperrors.Wrap(err, "failed to requeue work item")
	}
	return requireTransition(result)
}

// RequeueExpired returns all posting items with an expired lease to queued.
func (r *MySQLWorkItemRepository) RequeueExpired(
	ctx context.Context,
	leaseBefore time.Time,
) (int64, error) {
	querier := database.GetTx(ctx, r.db)

	query := `UPDATE work_items
			  SET status = ?, claimed_at = NULL, last_error = ?, updated_at = NOW()
			  WHERE status = ? AND claimed_at < ?`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusQueued, "requeued after expired posting lease",
		queueDomain.WorkItemStatusPosting, leaseBefore)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to requeue expired work items")
	}
	return result.RowsAffected()
}

// Pause moves a queued item to paused.
func (r *MySQLWorkItemRepository) Pause(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, queueDomain.WorkItemStatusPaused, queueDomain.WorkItemStatusQueued)
}

// Resume moves a paused item back to queued.
func (r *MySQLWorkItemRepository) Resume(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.transition(ctx, id, queueDomain.WorkItemStatusQueued, queueDomain.WorkItemStatusPaused)
}

// Cancel moves a queued or paused item to cancelled.
func (r *MySQLWorkItemRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE work_items
			  SET status = ?, updated_at = NOW()
			  WHERE id = ? AND status IN (?, ?)`

	result, err := querier.ExecContext(ctx, query,
		queueDomain.WorkItemStatusCancelled, idValue,
		queueDomain.WorkItemStatusQueued, queueDomain.WorkItemStatusPaused)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to cancel work item")
	}
	return rowsAffected(result)
}

func (r *MySQLWorkItemRepository) transition(
	ctx context.Context,
	id uuid.UUID,
	to, from queueDomain.WorkItemStatus,
) (bool, error) {
	querier := database.GetTx(ctx, r.db)

	idValue, err := id.MarshalBinary()
	if err != nil {
		return false, apperrors.Wrap(err, "failed to marshal work item id")
	}

	query := `UPDATE work_items SET status = ?, updated_at = NOW() WHERE id = ? AND status = ?`

	result, err := querier.ExecContext(ctx, query, to, idValue, from)
	if err != nil {
		return false, apperrors.Wrap(err, "failed to transition work item")
	}
	return rowsAffected(result)
}
