// Package usecase implements the store-side posting rate limiter. Admission
// is a single atomic check per bucket; on store failure the limiter fails
// open so that a rate-limiter outage degrades posting accuracy, not posting.
package usecase

import (
	"context"
	"fmt"
	"log/slog"

	ratelimitDomain "github.com/brandwire/dispatch/internal/ratelimit/domain"
)

// RateBucketRepository defines the interface for rate bucket persistence operations.
type RateBucketRepository interface {
	// Check admits one post against the bucket when its count is below the
	// limit, creating the window row on first use. Atomic at the store.
	Check(ctx context.Context, tenantID string, bucket ratelimitDomain.Bucket, limit int) (allowed bool, count int, err error)
	// Status returns the used count for the tenant's current window.
	Status(ctx context.Context, tenantID string, bucket ratelimitDomain.Bucket) (int, error)
}

// RateLimitUseCase defines the interface for posting budget admission control.
type RateLimitUseCase interface {
	// Admit checks the tenant's hourly and daily budgets. The decision is
	// never an error: store failures fail open with a diagnostic note.
	Admit(ctx context.Context, tenantID string) ratelimitDomain.Decision
	// Status returns the tenant's current usage per bucket for the dashboard.
	Status(ctx context.Context, tenantID string) ([]ratelimitDomain.BucketStatus, error)
}

// Config holds the per-window posting limits.
type Config struct {
	HourlyLimit int
	DailyLimit  int
}

// rateLimitUseCase implements the RateLimitUseCase interface.
type rateLimitUseCase struct {
	config Config
	repo   RateBucketRepository
	logger *slog.Logger
}

// NewRateLimitUseCase creates a new RateLimitUseCase.
func NewRateLimitUseCase(config Config, repo RateBucketRepository, logger *slog.Logger) RateLimitUseCase {
	return &rateLimitUseCase{
		config: config,
		repo:   repo,
		logger: logger,
	}
}

// Admit checks the hourly bucket first, then the daily bucket. A denial on
// either bucket denies the admission with a note naming the exhausted budget.
func (u *rateLimitUseCase) Admit(ctx context.Context, tenantID string) ratelimitDomain.Decision {
	checks := []struct {
		bucket ratelimitDomain.Bucket
		limit  int
	}{
		{ratelimitDomain.BucketHourly, u.config.HourlyLimit},
		{ratelimitDomain.BucketDaily, u.config.DailyLimit},
	}

	for _, check := range checks {
		allowed, count, err := u.repo.Check(ctx, tenantID, check.bucket, check.limit)
		if err != nil {
			// Fail open: a limiter outage must not stop posting.
			if u.logger != nil {
				u.logger.Warn("rate limiter unavailable, failing open",
					slog.String("tenant_id", tenantID),
					slog.String("bucket", string(check.bucket)),
					slog.Any("error", err),
				)
			}
			return ratelimitDomain.Decision{
				Allowed: true,
				Note:    fmt.Sprintf("rate limiter unavailable, failing open: %v", err),
			}
		}

		if !allowed {
			return ratelimitDomain.Decision{
				Allowed: false,
				Note:    fmt.Sprintf("%s post limit reached (%d/%d)", check.bucket, count, check.limit),
			}
		}
	}

	return ratelimitDomain.Decision{Allowed: true}
}

// Status returns the tenant's used/remaining counts per bucket.
func (u *rateLimitUseCase) Status(
	ctx context.Context,
	tenantID string,
) ([]ratelimitDomain.BucketStatus, error) {
	buckets := []struct {
		bucket ratelimitDomain.Bucket
		limit  int
	}{
		{ratelimitDomain.BucketHourly, u.config.HourlyLimit},
		{ratelimitDomain.BucketDaily, u.config.DailyLimit},
	}

	statuses := make([]ratelimitDomain.BucketStatus, 0, len(buckets))
	for _, b := range buckets {
		used, err := u.repo.Status(ctx, tenantID, b.bucket)
		if err != nil {
			return nil, err
		}

		remaining := b.limit - used
		if remaining < 0 {
			remaining = 0
		}

		statuses = append(statuses, ratelimitDomain.BucketStatus{
			Bucket:    b.bucket,
			Limit:     b.limit,
			Used:      used,
			Remaining: remaining,
		})
	}
	return statuses, nil
}
