// Package repository implements the connection-event cache backends. The
// cache holds only the latest event per tenant key and is best-effort:
// connection resolution always consults the live catalog.
package repository

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/webhook/domain"
)

// MemoryEventCache is a TTL- and capacity-bounded in-process cache. When
// full, the entry with the oldest write wins eviction.
type MemoryEventCache struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	ttl      time.Duration
	capacity int
	now      func() time.Time
}

type memoryEntry struct {
	event    domain.ConnectionEvent
	storedAt time.Time
}

// NewMemoryEventCache creates a memory-backed event cache.
func NewMemoryEventCache(ttl time.Duration, capacity int) *MemoryEventCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if capacity <= 0 {
		capacity = 1024
	}
	return &MemoryEventCache{
		entries:  make(map[string]memoryEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
}

// Set stores the latest event for the tenant key.
func (c *MemoryEventCache) Set(_ context.Context, tenantKey string, event domain.ConnectionEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.evictExpiredLocked(now)

	if _, exists := c.entries[tenantKey]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}

	c.entries[tenantKey] = memoryEntry{event: event, storedAt: now}
	return nil
}

// Get returns the latest event for the tenant key, or ErrNotFound when none
// is cached or the entry has expired.
func (c *MemoryEventCache) Get(_ context.Context, tenantKey string) (*domain.ConnectionEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[tenantKey]
	if !ok || c.now().Sub(entry.storedAt) > c.ttl {
		delete(c.entries, tenantKey)
		return nil, apperrors.Wrapf(apperrors.ErrNotFound, "no connection event for %s", tenantKey)
	}

	event := entry.event
	return &event, nil
}

func (c *MemoryEventCache) evictExpiredLocked(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryEventCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.storedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.storedAt
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
