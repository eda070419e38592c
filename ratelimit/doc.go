// Package ratelimit enforces fixed-window request budgets over the shared
// store.
//
// Counters live in the same store as cached values, keyed by
// (identifier, endpoint, window bucket), so a single budget holds across
// stateless application replicas. Rejection is a structured Result rather
// than an error; WithRateLimit turns it into a 429 response with standard
// rate-limit headers. Store outages fail open: blocking all traffic on an
// infrastructure failure is worse than briefly losing enforcement.
package ratelimit
