package cache

import "sync/atomic"

// Collector records cache lookup outcomes.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Lifecycle: counters are process-scoped and reset on restart; no
//   persistence is guaranteed.
type Collector interface {
	// RecordHit increments the hit counter.
	RecordHit()

	// RecordMiss increments the miss counter.
	RecordMiss()

	// Snapshot returns the current counter values.
	Snapshot() StatsSnapshot
}

// StatsSnapshot is a point-in-time view of the collector.
type StatsSnapshot struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"`
}

// Stats is the default Collector backed by atomic counters.
type Stats struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// NewStats creates a new Stats collector.
func NewStats() *Stats {
	return &Stats{}
}

// RecordHit increments the hit counter.
func (s *Stats) RecordHit() {
	s.hits.Add(1)
}

// RecordMiss increments the miss counter.
func (s *Stats) RecordMiss() {
	s.misses.Add(1)
}

// Snapshot returns the current counter values. HitRate is 0 when there have
// been no observations.
func (s *Stats) Snapshot() StatsSnapshot {
	hits := s.hits.Load()
	misses := s.misses.Load()

	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}

	return StatsSnapshot{
		Hits:    hits,
		Misses:  misses,
		HitRate: rate,
	}
}

// Ensure Stats implements Collector
var _ Collector = (*Stats)(nil)
