package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/memora-care/memora/internal/clock"
	"github.com/memora-care/memora/internal/metrics"
	"github.com/memora-care/memora/internal/transfer"
)

type entry struct {
	caregiver transfer.Caregiver
	expiresAt time.Time
}

// CaregiverCache keeps GetByID results for a TTL. GetByEmail always reads
// through so recipient lookups see fresh registrations.
type CaregiverCache struct {
	mu     sync.RWMutex
	cache  map[string]entry
	repo   transfer.CaregiverDirectory
	ttl    time.Duration
	clock  clock.Clock
	logger *zap.Logger
}

func NewCaregiverCache(repo transfer.CaregiverDirectory, ttl time.Duration, clk clock.Clock, logger *zap.Logger) *CaregiverCache {
	return &CaregiverCache{
		cache:  make(map[string]entry),
		repo:   repo,
		ttl:    ttl,
		clock:  clk,
		logger: logger.With(zap.String("component", "caregiver_cache")),
	}
}

func (c *CaregiverCache) GetByID(ctx context.Context, id string) (transfer.Caregiver, error) {
	if cg, ok := c.Get(id); ok {
		return cg, nil
	}
	cg, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return transfer.Caregiver{}, err
	}
	c.Set(cg)
	return cg, nil
}

func (c *CaregiverCache) GetByEmail(ctx context.Context, email string) (transfer.Caregiver, error) {
	cg, err := c.repo.GetByEmail(ctx, email)
	if err != nil {
		return transfer.Caregiver{}, err
	}
	c.Set(cg)
	return cg, nil
}

func (c *CaregiverCache) Get(id string) (transfer.Caregiver, bool) {
	c.mu.RLock()
	e, found := c.cache[id]
	c.mu.RUnlock()
	if !found {
		return transfer.Caregiver{}, false
	}
	if !c.clock.Now().Before(e.expiresAt) {
		c.Delete(id)
		return transfer.Caregiver{}, false
	}
	return e.caregiver, true
}

func (c *CaregiverCache) Set(cg transfer.Caregiver) {
	if c.ttl <= 0 {
		return
	}
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()
	// Expired entries are swept on every write.
	for id, e := range c.cache {
		if !now.Before(e.expiresAt) {
			delete(c.cache, id)
		}
	}
	c.cache[cg.ID] = entry{caregiver: cg, expiresAt: now.Add(c.ttl)}
	metrics.CaregiverCacheItems.Set(float64(len(c.cache)))
	c.logger.Debug("cached caregiver", zap.String("caregiver_id", cg.ID))
}

func (c *CaregiverCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, found := c.cache[id]; found {
		delete(c.cache, id)
		metrics.CaregiverCacheItems.Set(float64(len(c.cache)))
		c.logger.Debug("evicted caregiver", zap.String("caregiver_id", id))
	}
}

func (c *CaregiverCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}
