// Package metrics provides lightweight, lock-minimal performance counters
// for a running anonymization engine.
//
// Counters use sync/atomic so hot paths (document processing, cache lookup)
// incur no mutex contention. Latency statistics use a single mutex per
// dimension; they are updated at most once per document.
package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds all runtime counters for a running engine instance.
// The zero value is valid and ready to use; prefer New() for clarity.
type Metrics struct {
	// Document counters
	DocumentsTotal     atomic.Int64
	DocumentsSucceeded atomic.Int64
	DocumentsFailed    atomic.Int64
	BatchesTotal       atomic.Int64

	// Cache counters
	CacheL1Hits atomic.Int64
	CacheL2Hits atomic.Int64
	CacheMisses atomic.Int64

	// Recognizer counters
	RecognizerFallbacks atomic.Int64
	RecognizerErrors    atomic.Int64

	// PII span volume
	SpansDetected atomic.Int64
	SpansReplaced atomic.Int64

	// Latency statistics (mutex-guarded because they accumulate floats)
	docMu   sync.Mutex
	docStat latencyStats

	detectMu   sync.Mutex
	detectStat latencyStats

	startTime time.Time
}

// New returns a new Metrics with the start time recorded.
func New() *Metrics {
	return &Metrics{startTime: time.Now()}
}

// RecordDocumentLatency records the duration of one full document pass,
// from RECEIVED to DONE or FAILED.
func (m *Metrics) RecordDocumentLatency(d time.Duration) {
	m.docMu.Lock()
	m.docStat.record(float64(d.Microseconds()) / 1000.0)
	m.docMu.Unlock()
}

// RecordDetectionLatency records the duration of the recognizer stage alone.
func (m *Metrics) RecordDetectionLatency(d time.Duration) {
	m.detectMu.Lock()
	m.detectStat.record(float64(d.Microseconds()) / 1000.0)
	m.detectMu.Unlock()
}

// Snapshot returns a point-in-time copy of all metrics, safe for JSON encoding.
func (m *Metrics) Snapshot() Snapshot {
	m.docMu.Lock()
	doc := m.docStat.snapshot()
	m.docMu.Unlock()

	m.detectMu.Lock()
	detect := m.detectStat.snapshot()
	m.detectMu.Unlock()

	return Snapshot{
		Documents: DocumentSnapshot{
			Total:     m.DocumentsTotal.Load(),
			Succeeded: m.DocumentsSucceeded.Load(),
			Failed:    m.DocumentsFailed.Load(),
			Batches:   m.BatchesTotal.Load(),
		},
		Cache: CacheSnapshot{
			L1Hits: m.CacheL1Hits.Load(),
			L2Hits: m.CacheL2Hits.Load(),
			Misses: m.CacheMisses.Load(),
		},
		Recognizer: RecognizerSnapshot{
			Fallbacks: m.RecognizerFallbacks.Load(),
			Errors:    m.RecognizerErrors.Load(),
		},
		Spans: SpanSnapshot{
			Detected: m.SpansDetected.Load(),
			Replaced: m.SpansReplaced.Load(),
		},
		Latency: LatencyGroup{
			DocumentMs:  doc,
			DetectionMs: detect,
		},
		UptimeSecs: time.Since(m.startTime).Seconds(),
	}
}

// --- JSON-serialisable snapshot types ---

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Documents  DocumentSnapshot   `json:"documents"`
	Cache      CacheSnapshot      `json:"cache"`
	Recognizer RecognizerSnapshot `json:"recognizer"`
	Spans      SpanSnapshot       `json:"spans"`
	Latency    LatencyGroup       `json:"latency"`
	UptimeSecs float64            `json:"uptimeSecs"`
}

// DocumentSnapshot holds document- and batch-level counters.
type DocumentSnapshot struct {
	Total     int64 `json:"total"`
	Succeeded int64 `json:"succeeded"`
	Failed    int64 `json:"failed"`
	Batches   int64 `json:"batches"`
}

// CacheSnapshot holds cache-tier hit/miss counters.
type CacheSnapshot struct {
	L1Hits int64 `json:"l1Hits"`
	L2Hits int64 `json:"l2Hits"`
	Misses int64 `json:"misses"`
}

// RecognizerSnapshot holds recognizer fallback/error counters.
type RecognizerSnapshot struct {
	Fallbacks int64 `json:"fallbacks"`
	Errors    int64 `json:"errors"`
}

// SpanSnapshot holds PII span volume counters.
type SpanSnapshot struct {
	Detected int64 `json:"detected"`
	Replaced int64 `json:"replaced"`
}

// LatencyGroup groups the two latency dimensions.
type LatencyGroup struct {
	DocumentMs  LatencySnapshot `json:"documentMs"`
	DetectionMs LatencySnapshot `json:"detectionMs"`
}

// LatencySnapshot is a min/mean/max summary for one latency dimension.
type LatencySnapshot struct {
	Count  int64   `json:"count"`
	MinMs  float64 `json:"minMs"`
	MeanMs float64 `json:"meanMs"`
	MaxMs  float64 `json:"maxMs"`
}

// --- internal accumulator ---

type latencyStats struct {
	count int64
	sum   float64
	min   float64
	max   float64
}

func (s *latencyStats) record(ms float64) {
	s.count++
	s.sum += ms
	if s.count == 1 || ms < s.min {
		s.min = ms
	}
	if ms > s.max {
		s.max = ms
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func (s *latencyStats) snapshot() LatencySnapshot {
	if s.count == 0 {
		return LatencySnapshot{}
	}
	return LatencySnapshot{
		Count:  s.count,
		MinMs:  round2(s.min),
		MeanMs: round2(s.sum / float64(s.count)),
		MaxMs:  round2(s.max),
	}
}
