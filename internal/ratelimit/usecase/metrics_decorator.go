package usecase

import (
	"context"
	"time"

	"github.com/brandwire/dispatch/internal/metrics"
	ratelimitDomain "github.com/brandwire/dispatch/internal/ratelimit/domain"
)

// rateLimitUseCaseWithMetrics decorates RateLimitUseCase with metrics instrumentation.
type rateLimitUseCaseWithMetrics struct {
	next    RateLimitUseCase
	metrics metrics.BusinessMetrics
}

// NewRateLimitUseCaseWithMetrics wraps a RateLimitUseCase with metrics recording.
func NewRateLimitUseCaseWithMetrics(useCase RateLimitUseCase, m metrics.BusinessMetrics) RateLimitUseCase {
	return &rateLimitUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Admit records admission decisions: the status label distinguishes admitted
// from denied so the dashboard can graph denial rates per window.
func (r *rateLimitUseCaseWithMetrics) Admit(
	ctx context.Context,
	tenantID string,
) ratelimitDomain.Decision {
	start := time.Now()
	decision := r.next.Admit(ctx, tenantID)

	status := "admitted"
	if !decision.Allowed {
		status = "denied"
	}

	r.metrics.RecordOperation(ctx, "ratelimit", "admit", status)
	r.metrics.RecordDuration(ctx, "ratelimit", "admit", time.Since(start), status)

	return decision
}

// Status returns the tenant's current usage per bucket.
func (r *rateLimitUseCaseWithMetrics) Status(
	ctx context.Context,
	tenantID string,
) ([]ratelimitDomain.BucketStatus, error) {
	return r.next.Status(ctx, tenantID)
}
