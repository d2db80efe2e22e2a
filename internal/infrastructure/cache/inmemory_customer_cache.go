package cache

import (
	"context"
	"sync"
	"time"

	"github.com/crm/backend/internal/domain/customer"
)

// InMemoryCustomerCache is a process-local customer cache for development
// and single-instance deployments
type InMemoryCustomerCache struct {
	mu        sync.RWMutex
	entries   map[string]*inMemoryEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

type inMemoryEntry struct {
	customer  *customer.Customer
	expiresAt time.Time
}

// NewInMemoryCustomerCache creates an in-memory customer cache and starts
// a background goroutine that sweeps expired entries
func NewInMemoryCustomerCache(ttl time.Duration) *InMemoryCustomerCache {
	c := &InMemoryCustomerCache{
		entries:  make(map[string]*inMemoryEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	c.wg.Add(1)
	go c.cleanupLoop()

	return c
}

// Get returns the cached customer for the id, if present and fresh
func (c *InMemoryCustomerCache) Get(ctx context.Context, id string) (*customer.Customer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.customer, true
}

// Put caches the customer under the given id
func (c *InMemoryCustomerCache) Put(ctx context.Context, id string, cust *customer.Customer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[id] = &inMemoryEntry{
		customer:  cust,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Evict drops the cached customer for the id
func (c *InMemoryCustomerCache) Evict(ctx context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, id)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (c *InMemoryCustomerCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

// cleanupLoop periodically removes expired entries
func (c *InMemoryCustomerCache) cleanupLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

func (c *InMemoryCustomerCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}

var _ customer.Cache = (*InMemoryCustomerCache)(nil)
