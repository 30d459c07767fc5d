// Package repository implements rate bucket persistence. The admission check
// is a single statement calling a stored SQL function so the
// increment-and-compare is atomic at the store; no session state or
// application lock is involved.
package repository

import (
	"context"
	"database/sql"

	"github.com/brandwire/dispatch/internal/database"
	apperrors "github.com/brandwire/dispatch/internal/errors"
	ratelimitDomain "github.com/brandwire/dispatch/internal/ratelimit/domain"
)

// PostgreSQLRateBucketRepository implements rate bucket persistence for PostgreSQL.
type PostgreSQLRateBucketRepository struct {
	db *sql.DB
}

// NewPostgreSQLRateBucketRepository creates a new PostgreSQLRateBucketRepository.
func NewPostgreSQLRateBucketRepository(db *sql.DB) *PostgreSQLRateBucketRepository {
	return &PostgreSQLRateBucketRepository{db: db}
}

// Check atomically admits one post against the tenant's bucket. The stored
// function truncates the window start server-side (hour or day), creates the
// bucket row on first use, and only increments when the count is below the
// limit. Returns the post-check count either way.
func (r *PostgreSQLRateBucketRepository) Check(
	ctx context.Context,
	tenantID string,
	bucket ratelimitDomain.Bucket,
	limit int,
) (bool, int, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT allowed, current_count FROM rate_limit_check($1, $2, $3)`

	var allowed bool
	var count int
	err := querier.QueryRowContext(ctx, query, tenantID, bucket, limit).Scan(&allowed, &count)
	if err != nil {
		return false, 0, apperrors.Wrap(err, "failed to check rate bucket")
	}
	return allowed, count, nil
}

// Status returns the used count for the tenant's current window, zero when
// the bucket has not been touched this window.
func (r *PostgreSQLRateBucketRepository) Status(
	ctx context.Context,
	tenantID string,
	bucket ratelimitDomain.Bucket,
) (int, error) {
	querier := database.GetTx(ctx, r.db)

	query := `SELECT count FROM rate_buckets
			  WHERE tenant_id = $1 AND bucket = $2
			    AND window_start = CASE WHEN $2 = 'hourly'
			                            THEN date_trunc('hour', now())
			                            ELSE date_trunc('day', now()) END`

	var count int
	err := querier.QueryRowContext(ctx, query, tenantID, bucket).Scan(&count)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, nil
		}
		return 0, apperrors.Wrap(err, "failed to read rate bucket status")
	}
	return count, nil
}
