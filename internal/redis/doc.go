// Package redis provides the Redis-backed result cache.
//
// The cache holds finished expert rankings keyed by normalized query text.
// It is a pure optimization: every cache failure degrades to direct scoring,
// so a Redis outage never affects correctness. A circuit breaker hook keeps a
// flapping Redis from adding latency to every query.
package redis
