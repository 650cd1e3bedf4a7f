// Package profiler implements C12: nested, microsecond-precision stage
// timing plus a cache-operation tracker, grounded on the teacher's own
// atomic-counter-plus-latency-stats metrics shape (internal/metrics) for
// the tracker half. The profiler never affects functional behavior and may
// be disabled at construction.
package profiler

import "time"

// Stage records one timed span, possibly nested under a parent.
type Stage struct {
	Name      string
	StartUs   int64
	EndUs     int64
	Parent    string
	Metadata  map[string]any
}

// Profile is the per-document stack of stages collected during one
// process_document call. Never shared across documents.
type Profile struct {
	enabled bool
	stages  []Stage
	active  []string // stack of active stage names, innermost last
}

// New builds a Profile. When enabled is false, Start/End are no-ops and
// Stages returns nil — the cost of profiling is opt-out at construction,
// not per-call.
func New(enabled bool) *Profile {
	return &Profile{enabled: enabled}
}

// Start begins timing a stage named name, nested under the currently active
// stage if any, and returns an End function the caller defers.
func (p *Profile) Start(name string) func() {
	if !p.enabled {
		return func() {}
	}
	parent := ""
	if len(p.active) > 0 {
		parent = p.active[len(p.active)-1]
	}
	idx := len(p.stages)
	p.stages = append(p.stages, Stage{
		Name:    name,
		StartUs: time.Now().UnixMicro(),
		Parent:  parent,
	})
	p.active = append(p.active, name)

	return func() {
		p.stages[idx].EndUs = time.Now().UnixMicro()
		p.active = p.active[:len(p.active)-1]
	}
}

// Stages returns the collected stage timings, in start order.
func (p *Profile) Stages() []Stage {
	return p.stages
}

// CacheTracker accumulates cache-operation counts and latencies separated
// by tier (L1, L2), mirroring the teacher's latencyStats accumulator.
type CacheTracker struct {
	tiers map[string]*tierStats
}

type tierStats struct {
	hits, misses int64
	totalUs      int64
}

// NewCacheTracker builds an empty tracker.
func NewCacheTracker() *CacheTracker {
	return &CacheTracker{tiers: make(map[string]*tierStats)}
}

// Record logs one cache operation against tier ("l1" or "l2"): whether it
// hit, and how long it took.
func (t *CacheTracker) Record(tier string, hit bool, d time.Duration) {
	ts, ok := t.tiers[tier]
	if !ok {
		ts = &tierStats{}
		t.tiers[tier] = ts
	}
	if hit {
		ts.hits++
	} else {
		ts.misses++
	}
	ts.totalUs += d.Microseconds()
}

// TierSummary is the derived hit rate and mean latency for one tier.
type TierSummary struct {
	Hits          int64
	Misses        int64
	HitRatePct    float64
	MeanLatencyUs float64
}

// Summary returns a snapshot for tier, zero-valued if nothing was recorded.
func (t *CacheTracker) Summary(tier string) TierSummary {
	ts, ok := t.tiers[tier]
	if !ok {
		return TierSummary{}
	}
	total := ts.hits + ts.misses
	s := TierSummary{Hits: ts.hits, Misses: ts.misses}
	if total > 0 {
		s.HitRatePct = float64(ts.hits) / float64(total) * 100
		s.MeanLatencyUs = float64(ts.totalUs) / float64(total)
	}
	return s
}
