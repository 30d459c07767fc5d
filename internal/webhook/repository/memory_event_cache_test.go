package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/webhook/domain"
)

func testEvent(tenantKey, status string) domain.ConnectionEvent {
	return domain.ConnectionEvent{
		Event: "connection.status_changed",
		Payload: domain.ConnectionEventPayload{
			ConnectedAccountID: "conn-1",
			IntegrationID:      "int-1",
			ClientUniqueUserID: tenantKey,
			Status:             status,
		},
		Timestamp: time.Now().UTC(),
	}
}

func TestMemoryEventCache_SetAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		cache := NewMemoryEventCache(time.Minute, 10)

		require.NoError(t, cache.Set(ctx, "tenant-1", testEvent("tenant-1", "ACTIVE")))

		event, err := cache.Get(ctx, "tenant-1")
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", event.Payload.Status)
	})

	t.Run("LatestEventWins", func(t *testing.T) {
		cache := NewMemoryEventCache(time.Minute, 10)

		require.NoError(t, cache.Set(ctx, "tenant-1", testEvent("tenant-1", "INITIATED")))
		require.NoError(t, cache.Set(ctx, "tenant-1", testEvent("tenant-1", "ACTIVE")))

		event, err := cache.Get(ctx, "tenant-1")
		require.NoError(t, err)
		assert.Equal(t, "ACTIVE", event.Payload.Status)
	})

	t.Run("MissingKeyIsNotFound", func(t *testing.T) {
		cache := NewMemoryEventCache(time.Minute, 10)

		_, err := cache.Get(ctx, "unknown")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("ExpiredEntryIsNotFound", func(t *testing.T) {
		cache := NewMemoryEventCache(time.Minute, 10)

		current := time.Now()
		cache.now = func() time.Time { return current }
		require.NoError(t, cache.Set(ctx, "tenant-1", testEvent("tenant-1", "ACTIVE")))

		current = current.Add(2 * time.Minute)

		_, err := cache.Get(ctx, "tenant-1")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("CapacityEvictsOldestEntry", func(t *testing.T) {
		cache := NewMemoryEventCache(time.Hour, 3)

		current := time.Now()
		cache.now = func() time.Time { return current }

		for i := 0; i < 3; i++ {
			key := fmt.Sprintf("tenant-%d", i)
			require.NoError(t, cache.Set(ctx, key, testEvent(key, "ACTIVE")))
			current = current.Add(time.Second)
		}

		require.NoError(t, cache.Set(ctx, "tenant-new", testEvent("tenant-new", "ACTIVE")))

		_, err := cache.Get(ctx, "tenant-0")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)

		_, err = cache.Get(ctx, "tenant-new")
		assert.NoError(t, err)
	})

	t.Run("UpdateDoesNotEvict", func(t *testing.T) {
		cache := NewMemoryEventCache(time.Hour, 2)

		require.NoError(t, cache.Set(ctx, "tenant-1", testEvent("tenant-1", "INITIATED")))
		require.NoError(t, cache.Set(ctx, "tenant-2", testEvent("tenant-2", "ACTIVE")))
		require.NoError(t, cache.Set(ctx, "tenant-1", testEvent("tenant-1", "ACTIVE")))

		_, err := cache.Get(ctx, "tenant-2")
		assert.NoError(t, err)
	})
}
