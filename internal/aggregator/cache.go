package aggregator

import (
	"sync"
	"time"

	"github.com/dolarscope/backend/internal/contracts"
)

// BundleCache is the single-entry in-memory cache fronting the whole
// pipeline. Concurrent misses right after expiry may redundantly re-run
// the pipeline; the merge is idempotent so that is duplication, not a
// correctness hazard.
type BundleCache struct {
	mu        sync.RWMutex
	bundle    *contracts.ScoreBundle
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewBundleCache creates a cache with the given TTL.
func NewBundleCache(ttl time.Duration) *BundleCache {
	return &BundleCache{
		ttl: ttl,
		now: time.Now,
	}
}

// Get returns the cached bundle if it has not expired.
func (c *BundleCache) Get() (*contracts.ScoreBundle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.bundle == nil || c.now().After(c.expiresAt) {
		return nil, false
	}
	return c.bundle, true
}

// Set stores a bundle and restarts the TTL window.
func (c *BundleCache) Set(bundle *contracts.ScoreBundle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.bundle = bundle
	c.expiresAt = c.now().Add(c.ttl)
}
