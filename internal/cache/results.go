package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"liquidation-planner/internal/execution"
	"liquidation-planner/internal/model"
	"liquidation-planner/internal/solver"
)

// Entry is one cached solve together with its executed ledger.
type Entry struct {
	ID        string
	Key       string
	Result    *solver.Result
	Execution *execution.Result
	ExpiresAt time.Time
}

// ResultCache keeps recent solves in memory so ledgers and tables can be fetched by ID
// after the solve request returned. Identical problems map to the same entry via Key.
type ResultCache struct {
	mu    sync.RWMutex
	byID  map[string]*Entry
	byKey map[string]string
	ttl   time.Duration
	now   func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		byID:  make(map[string]*Entry),
		byKey: make(map[string]string),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves an entry by ID if present and not expired.
func (c *ResultCache) Get(id string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.byID[id]
	if !ok || c.now().After(e.ExpiresAt) {
		return nil, false
	}
	return e, true
}

// Lookup finds an unexpired entry by problem key.
func (c *ResultCache) Lookup(key string) (*Entry, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	id, ok := c.byKey[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return c.Get(id)
}

// Set stores e under e.ID (and e.Key when non-empty), stamping its expiry.
func (c *ResultCache) Set(e *Entry) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e.ExpiresAt = c.now().Add(c.ttl)
	c.byID[e.ID] = e
	if e.Key != "" {
		c.byKey[e.Key] = e.ID
	}
}

func (c *ResultCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}

// Run removes expired entries every interval until ctx is done.
func (c *ResultCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.evictExpired()
		}
	}
}

func (c *ResultCache) evictExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for id, e := range c.byID {
		if now.After(e.ExpiresAt) {
			delete(c.byID, id)
			if c.byKey[e.Key] == id {
				delete(c.byKey, e.Key)
			}
		}
	}
}

// ProblemKey creates a deterministic key from everything that changes a solve's output.
func ProblemKey(p model.Problem, strategy string, logSpace, replayFromZero bool) string {
	pp := p.Params.WithDefaults()
	keyStr := fmt.Sprintf("%d:%d:%g:%g:%g:%g:%g:%g:%g:%s:%t:%t",
		p.Periods, p.Inventory,
		pp.Alpha, pp.Beta, pp.Gamma, pp.Eta, pp.Psi, pp.Sigma, pp.Tau,
		strategy, logSpace, replayFromZero,
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
