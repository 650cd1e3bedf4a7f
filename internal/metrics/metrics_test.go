package metrics

import (
	"testing"
	"time"
)

func TestNew_StartTimeSet(t *testing.T) {
	before := time.Now()
	m := New()
	after := time.Now()

	if m.startTime.Before(before) || m.startTime.After(after) {
		t.Errorf("startTime %v not in expected range [%v, %v]", m.startTime, before, after)
	}
}

func TestZeroValue_SnapshotSafe(t *testing.T) {
	var m Metrics
	s := m.Snapshot()
	if s.Documents.Total != 0 {
		t.Errorf("expected 0 total documents, got %d", s.Documents.Total)
	}
}

func TestDocumentCounters(t *testing.T) {
	m := New()
	m.DocumentsTotal.Add(10)
	m.DocumentsSucceeded.Add(7)
	m.DocumentsFailed.Add(2)
	m.BatchesTotal.Add(1)

	s := m.Snapshot()
	if s.Documents.Total != 10 {
		t.Errorf("Total: got %d, want 10", s.Documents.Total)
	}
	if s.Documents.Succeeded != 7 {
		t.Errorf("Succeeded: got %d, want 7", s.Documents.Succeeded)
	}
	if s.Documents.Failed != 2 {
		t.Errorf("Failed: got %d, want 2", s.Documents.Failed)
	}
	if s.Documents.Batches != 1 {
		t.Errorf("Batches: got %d, want 1", s.Documents.Batches)
	}
}

func TestCacheCounters(t *testing.T) {
	m := New()
	m.CacheL1Hits.Add(3)
	m.CacheL2Hits.Add(2)
	m.CacheMisses.Add(5)

	s := m.Snapshot()
	if s.Cache.L1Hits != 3 {
		t.Errorf("L1Hits: got %d, want 3", s.Cache.L1Hits)
	}
	if s.Cache.L2Hits != 2 {
		t.Errorf("L2Hits: got %d, want 2", s.Cache.L2Hits)
	}
	if s.Cache.Misses != 5 {
		t.Errorf("Misses: got %d, want 5", s.Cache.Misses)
	}
}

func TestRecognizerCounters(t *testing.T) {
	m := New()
	m.RecognizerFallbacks.Add(4)
	m.RecognizerErrors.Add(1)

	s := m.Snapshot()
	if s.Recognizer.Fallbacks != 4 {
		t.Errorf("Fallbacks: got %d, want 4", s.Recognizer.Fallbacks)
	}
	if s.Recognizer.Errors != 1 {
		t.Errorf("Errors: got %d, want 1", s.Recognizer.Errors)
	}
}

func TestSpanCounters(t *testing.T) {
	m := New()
	m.SpansDetected.Add(50)
	m.SpansReplaced.Add(45)

	s := m.Snapshot()
	if s.Spans.Detected != 50 {
		t.Errorf("Detected: got %d, want 50", s.Spans.Detected)
	}
	if s.Spans.Replaced != 45 {
		t.Errorf("Replaced: got %d, want 45", s.Spans.Replaced)
	}
}

func TestRecordDocumentLatency_SingleSample(t *testing.T) {
	m := New()
	m.RecordDocumentLatency(100 * time.Millisecond)

	s := m.Snapshot()
	if s.Latency.DocumentMs.Count != 1 {
		t.Errorf("Count: got %d, want 1", s.Latency.DocumentMs.Count)
	}
	// 100ms should be recorded as ~100ms
	if s.Latency.DocumentMs.MinMs < 90 || s.Latency.DocumentMs.MinMs > 110 {
		t.Errorf("MinMs: got %f, want ~100", s.Latency.DocumentMs.MinMs)
	}
}

func TestRecordDetectionLatency_MinMaxMean(t *testing.T) {
	m := New()
	m.RecordDetectionLatency(50 * time.Millisecond)
	m.RecordDetectionLatency(150 * time.Millisecond)
	m.RecordDetectionLatency(100 * time.Millisecond)

	s := m.Snapshot()
	ls := s.Latency.DetectionMs
	if ls.Count != 3 {
		t.Errorf("Count: got %d, want 3", ls.Count)
	}
	if ls.MinMs > 60 {
		t.Errorf("MinMs too high: %f", ls.MinMs)
	}
	if ls.MaxMs < 140 {
		t.Errorf("MaxMs too low: %f", ls.MaxMs)
	}
	// mean ~100ms
	if ls.MeanMs < 90 || ls.MeanMs > 110 {
		t.Errorf("MeanMs: got %f, want ~100", ls.MeanMs)
	}
}

func TestSnapshotLatency_EmptyIsZeroValue(t *testing.T) {
	m := New()
	s := m.Snapshot()
	if s.Latency.DocumentMs.Count != 0 {
		t.Errorf("empty document latency count should be 0")
	}
	if s.Latency.DetectionMs.Count != 0 {
		t.Errorf("empty detection latency count should be 0")
	}
}

func TestSnapshot_UptimePositive(t *testing.T) {
	m := New()
	time.Sleep(5 * time.Millisecond)
	s := m.Snapshot()
	if s.UptimeSecs <= 0 {
		t.Errorf("UptimeSecs should be positive, got %f", s.UptimeSecs)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		input float64
		want  float64
	}{
		{1.236, 1.24},
		{1.234, 1.23},
		{100.0, 100.0},
		{0.0, 0.0},
	}
	for _, c := range cases {
		got := round2(c.input)
		if got != c.want {
			t.Errorf("round2(%f) = %f, want %f", c.input, got, c.want)
		}
	}
}

func TestLatencyStats_Record(t *testing.T) {
	var s latencyStats
	s.record(10)
	s.record(20)
	s.record(15)

	snap := s.snapshot()
	if snap.Count != 3 {
		t.Errorf("Count: got %d, want 3", snap.Count)
	}
	if snap.MinMs != 10 {
		t.Errorf("MinMs: got %f, want 10", snap.MinMs)
	}
	if snap.MaxMs != 20 {
		t.Errorf("MaxMs: got %f, want 20", snap.MaxMs)
	}
	if snap.MeanMs != 15 {
		t.Errorf("MeanMs: got %f, want 15", snap.MeanMs)
	}
}

func TestLatencyStats_Empty(t *testing.T) {
	var s latencyStats
	snap := s.snapshot()
	if snap.Count != 0 || snap.MinMs != 0 || snap.MaxMs != 0 || snap.MeanMs != 0 {
		t.Errorf("empty stats snapshot should be zero, got %+v", snap)
	}
}
