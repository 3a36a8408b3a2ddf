package cache

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/induparts/catalog/internal/domain"
)

type entry struct {
	schema    *domain.FilterSchema
	expiresAt time.Time
}

// SchemaCache holds built filter schemas per category with a TTL and
// explicit invalidation. Concurrent misses for the same category share one
// recomputation; failed computations are never stored.
type SchemaCache struct {
	mu    sync.RWMutex
	items map[uuid.UUID]entry
	ttl   time.Duration
	group singleflight.Group
}

func New(ttl time.Duration) *SchemaCache {
	c := &SchemaCache{items: make(map[uuid.UUID]entry), ttl: ttl}
	go c.cleanupExpired()
	return c
}

func (c *SchemaCache) GetOrCompute(categoryID uuid.UUID, compute func() (*domain.FilterSchema, error)) (*domain.FilterSchema, error) {
	if s := c.lookup(categoryID); s != nil {
		return s, nil
	}
	v, err, _ := c.group.Do(categoryID.String(), func() (any, error) {
		// a writer may have filled the slot while we queued
		if s := c.lookup(categoryID); s != nil {
			return s, nil
		}
		s, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.items[categoryID] = entry{schema: s, expiresAt: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.FilterSchema), nil
}

func (c *SchemaCache) lookup(categoryID uuid.UUID) *domain.FilterSchema {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[categoryID]
	if !ok || time.Now().After(e.expiresAt) {
		return nil
	}
	return e.schema
}

func (c *SchemaCache) Invalidate(categoryID uuid.UUID) {
	c.mu.Lock()
	delete(c.items, categoryID)
	c.mu.Unlock()
}

func (c *SchemaCache) InvalidateAll() {
	c.mu.Lock()
	c.items = make(map[uuid.UUID]entry)
	c.mu.Unlock()
}

func (c *SchemaCache) cleanupExpired() {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()
	for range t.C {
		now := time.Now()
		c.mu.Lock()
		for k, e := range c.items {
			if now.After(e.expiresAt) {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
