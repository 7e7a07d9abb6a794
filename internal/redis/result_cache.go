package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/EfraimFeinstein/find-the-expert/internal/domain"
	"github.com/EfraimFeinstein/find-the-expert/internal/metrics"
)

const rankingCachePrefix = "ranking:"

// ResultCache stores finished expert rankings keyed by normalized query
// text. It is a pure optimization: every method degrades to a miss on
// Redis failure and the caller scores directly against PostgreSQL.
type ResultCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewResultCache creates a ranking cache with the given entry TTL.
func NewResultCache(rdb goredis.Cmdable, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Get returns the cached ranking for a query, or (nil, false) on miss.
// Redis errors and corrupt entries count as misses.
func (c *ResultCache) Get(ctx context.Context, query string) (*domain.Ranking, bool) {
	key := rankingKey(query)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("Ranking cache GET failed, scoring directly", "error", err)
		}
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var ranking domain.Ranking
	if err := json.Unmarshal(data, &ranking); err != nil {
		slog.Warn("Failed to unmarshal cached ranking, scoring directly", "error", err)
		metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
	return &ranking, true
}

// Set stores a ranking under the query's key. Best-effort: failures are
// logged and swallowed.
func (c *ResultCache) Set(ctx context.Context, query string, ranking *domain.Ranking) {
	encoded, err := json.Marshal(ranking)
	if err != nil {
		slog.Warn("Failed to marshal ranking for cache", "error", err)
		return
	}

	if err := c.rdb.Set(ctx, rankingKey(query), encoded, c.ttl).Err(); err != nil {
		slog.Warn("Failed to populate ranking cache", "error", err)
	}
}

// Invalidate removes a query's cached ranking, used after prescoring refresh.
func (c *ResultCache) Invalidate(ctx context.Context, query string) error {
	if err := c.rdb.Del(ctx, rankingKey(query)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ranking cache: %w", err)
	}
	return nil
}

// NormalizeQuery canonicalizes free-text queries so trivially different
// spellings share one cache entry and one in-flight scoring run.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}

func rankingKey(query string) string {
	sum := sha256.Sum256([]byte(NormalizeQuery(query)))
	return rankingCachePrefix + hex.EncodeToString(sum[:])
}
