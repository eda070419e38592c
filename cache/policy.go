package cache

import "time"

// TTL presets for the namespaces this module serves.
const (
	// TTLAnalysis is the retention for generative-AI analysis results.
	// Identical inputs within this window are answered from cache.
	TTLAnalysis = 30 * 24 * time.Hour

	// TTLTest is the retention for short-lived test entries.
	TTLTest = 30 * time.Second
)

// Policy configures caching behavior.
type Policy struct {
	// DefaultTTL is the TTL to use when none is specified.
	// If zero, caching is disabled by default.
	DefaultTTL time.Duration

	// MaxTTL is the maximum allowed TTL. Override TTLs are clamped to this.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns the default caching policy: analysis-length
// retention with no override exceeding it.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTTL: TTLAnalysis,
		MaxTTL:     TTLAnalysis,
	}
}

// NoCachePolicy returns a policy that disables caching entirely.
func NoCachePolicy() Policy {
	return Policy{}
}

// ShouldCache returns true if caching is enabled by this policy.
func (p Policy) ShouldCache() bool {
	return p.DefaultTTL > 0
}

// EffectiveTTL returns the TTL to use, applying defaults and clamping.
func (p Policy) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = p.DefaultTTL
	}

	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		ttl = p.MaxTTL
	}

	return ttl
}
