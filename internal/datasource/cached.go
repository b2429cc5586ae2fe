package datasource

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-odds/internal/metrics"
	"github.com/yourusername/match-odds/internal/models"
)

// CachedSupplier wraps a MatchSupplier with an in-memory TTL cache of team histories
type CachedSupplier struct {
	supplier MatchSupplier
	cache    *cache.Cache
	ttl      time.Duration
	maxSize  int
	logger   *logrus.Logger

	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// CacheStats is a snapshot of cache effectiveness
type CacheStats struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	HitRatio float64 `json:"hit_ratio"`
	Items    int     `json:"items"`
}

// NewCachedSupplier creates a caching wrapper around supplier
func NewCachedSupplier(supplier MatchSupplier, ttl time.Duration, maxSize int, logger *logrus.Logger) *CachedSupplier {
	if logger == nil {
		logger = logrus.New()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CachedSupplier{
		supplier: supplier,
		cache:    cache.New(ttl, ttl*2),
		ttl:      ttl,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// Name returns the wrapped source name
func (c *CachedSupplier) Name() string {
	return c.supplier.Name()
}

// TeamMatches returns the cached history or fetches and caches it
func (c *CachedSupplier) TeamMatches(ctx context.Context, team string) ([]models.MatchResult, error) {
	key := cacheKey(team)
	if cached, found := c.cache.Get(key); found {
		if matches, ok := cached.([]models.MatchResult); ok {
			c.record(true)
			return copyMatches(matches), nil
		}
	}
	c.record(false)

	matches, err := c.fetch(ctx, team)
	if err != nil {
		return nil, err
	}
	c.store(key, matches)
	return copyMatches(matches), nil
}

// HeadToHead delegates to the wrapped supplier when it supports head-to-head listings
func (c *CachedSupplier) HeadToHead(ctx context.Context, home, away string, limit int) ([]models.HeadToHead, error) {
	h2h, ok := c.supplier.(HeadToHeadSupplier)
	if !ok {
		return nil, NewDataSourceError(c.supplier.Name(), ErrCodeNotFound, "head-to-head not supported", nil)
	}
	return h2h.HeadToHead(ctx, home, away, limit)
}

// Teams delegates to the wrapped supplier and caches the listing alongside team histories
func (c *CachedSupplier) Teams(ctx context.Context) ([]string, error) {
	lister, ok := c.supplier.(TeamLister)
	if !ok {
		return nil, NewDataSourceError(c.supplier.Name(), ErrCodeNotFound, "team listing not supported", nil)
	}
	if cached, found := c.cache.Get(teamsCacheKey); found {
		if teams, ok := cached.([]string); ok {
			c.record(true)
			return append([]string(nil), teams...), nil
		}
	}
	c.record(false)

	teams, err := lister.Teams(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	c.cache.Set(teamsCacheKey, append([]string(nil), teams...), c.ttl)
	return teams, nil
}

// Refresh fetches the team's history again and replaces the cached entry
func (c *CachedSupplier) Refresh(ctx context.Context, team string) error {
	matches, err := c.fetch(ctx, team)
	if err != nil {
		return err
	}
	c.store(cacheKey(team), matches)
	return nil
}

// Invalidate drops the cached history for a team
func (c *CachedSupplier) Invalidate(team string) {
	c.cache.Delete(cacheKey(team))
}

// Flush drops every cached history
func (c *CachedSupplier) Flush() {
	c.cache.Flush()
}

// Stats returns cache statistics
func (c *CachedSupplier) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Hits:     c.hitCount,
		Misses:   c.missCount,
		HitRatio: c.hitRatio(),
		Items:    c.cache.ItemCount(),
	}
}

func (c *CachedSupplier) fetch(ctx context.Context, team string) ([]models.MatchResult, error) {
	start := time.Now()
	matches, err := c.supplier.TeamMatches(ctx, team)
	duration := time.Since(start).Seconds()

	if err != nil {
		metrics.RecordSupplierRequest(c.supplier.Name(), ErrorCode(err), duration)
		c.logger.WithFields(logrus.Fields{
			"source": c.supplier.Name(),
			"team":   team,
		}).WithError(err).Warn("Failed to fetch team matches")
		return nil, fmt.Errorf("fetch matches for %s: %w", team, err)
	}

	metrics.RecordSupplierRequest(c.supplier.Name(), "success", duration)
	return matches, nil
}

func (c *CachedSupplier) store(key string, matches []models.MatchResult) {
	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.cache.DeleteExpired()
		if c.cache.ItemCount() >= c.maxSize {
			c.logger.WithField("max_size", c.maxSize).Debug("Match cache full, entry not stored")
			return
		}
	}
	c.cache.Set(key, copyMatches(matches), c.ttl)
}

func (c *CachedSupplier) record(hit bool) {
	c.mu.Lock()
	if hit {
		c.hitCount++
	} else {
		c.missCount++
	}
	ratio := c.hitRatio()
	c.mu.Unlock()

	metrics.UpdateCacheHitRatio(ratio)
}

// hitRatio requires mu to be held
func (c *CachedSupplier) hitRatio() float64 {
	total := c.hitCount + c.missCount
	if total == 0 {
		return 0
	}
	return float64(c.hitCount) / float64(total)
}

const teamsCacheKey = "teams"

func cacheKey(team string) string {
	return "matches:" + strings.ToLower(strings.TrimSpace(team))
}

func copyMatches(in []models.MatchResult) []models.MatchResult {
	if in == nil {
		return nil
	}
	out := make([]models.MatchResult, len(in))
	copy(out, in)
	return out
}
