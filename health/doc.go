// Package health provides health checks and probe endpoints for the
// caching core's single external dependency: the backing store.
//
// It exposes a Checker interface with an Aggregator for composing checks,
// an HTTP surface for liveness/readiness probes, and a stats endpoint
// reading the cache hit/miss collector.
package health
