// Package cache provides cache-aside orchestration over a shared key-value
// store for expensive, idempotent remote calls.
//
// The Store interface abstracts the backing store (Redis in production,
// memory for tests); GetOrSet is the single entry point for avoiding
// duplicate expensive work. Infrastructure failures never surface to
// callers: reads degrade to misses and writes are best-effort, so a store
// outage means "always compute fresh" rather than an error.
package cache
