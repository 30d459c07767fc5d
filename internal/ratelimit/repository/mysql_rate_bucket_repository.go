package repository

import (
	"context"
	"database/sql"

	"github.com/brandwire/dispatch/internal/database"
	apperrors "github.com/brandwire/dispatch/internal/errors"
	ratelimitDomain "github.com/brandwire/dispatch/internal/ratelimit/domain"
)

// MySQLRateBucketRepository implements rate bucket persistence for MySQL.
// MySQL has no table-returning functions, so the atomic increment-and-compare
// uses INSERT ... ON DUPLICATE KEY UPDATE with a guarded increment: an
// affected-rows count of zero means the guard held the counter at the limit.
type MySQLRateBucketRepository struct {
	db *sql.DB
}

// NewMySQLRateBucketRepository creates a new MySQLRateBucketRepository.
func NewMySQLRateBucketRepository(db *sql.DB) *MySQLRateBucketRepository {
	return &MySQLRateBucketRepository{db: db}
}

// Check atomically admits one post against the tenant's bucket.
func (r *MySQLRateBucketRepository) Check(
	ctx context.Context,
	tenantID string,
	bucket ratelimitDomain.Bucket,
	limit int,
) (bool, int, error) {
	querier := database.GetTx(ctx, r.db)

	// ROW_COUNT semantics: 1 for a fresh insert, 2 for a changed update,
	// 0 when the guarded update left the row untouched (limit reached).
	query := `INSERT INTO rate_buckets (tenant_id, bucket, window_start, count)
			  VALUES (?, ?, IF(? = 'hourly',
			                   DATE_FORMAT(NOW(), '%Y-%m-%d %H:00:00'),
			                   DATE_FORMAT(NOW(), '%Y-%m-%d 00:00:00')), 1)
			  ON DUPLICATE KEY UPDATE count = IF(count < ?, count + 1, count)`

	result, err := querier.ExecContext(ctx, query, tenantID, bucket, bucket, limit)
	if err != nil {
		return false, 0, apperrors.Wrap(err, "failed to check rate bucket")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, 0, apperrors.Wrap(err, "failed to read rows affected")
	}
	allowed := affected > 0

	count, err := r.Status(ctx, tenantID, bucket)
	if err != nil {
		return allowed, 0, err
	}
	return allowed, count, nil
}

// Status returns the used count for the tenant's current window.
func (r *MySQLRateBucketRepository) Status(
	ctx context.Context,
	tenantID string,
	bucket ratelimitDomain.Bucket,
) (int, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT count FROM rate_buckets
			  WHERE tenant_id = ? AND bucket = ?
			    AND window_start = IF(? = 'hourly',
			                          DATE_FORMAT(NOW(), '%Y-%m-%d %H:00:00'),
			                          DATE_FORMAT(NOW(), '%Y-%m-%d 00:00:00'))`

	var count int
	err := querier.QueryRowContext(ctx, query, tenantID, bucket, bucket).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "failed to read rate bucket status")
	}
	return count, nil
}
