package benchmark

import (
	"math"
	"testing"

	"legal-anonymizer/internal/domain"
)

func span(kind domain.EntityKind, start, end int, confidence float64) domain.DetectedSpan {
	return domain.DetectedSpan{Kind: kind, Start: start, End: end, Confidence: confidence}
}

func TestCalculate_PerfectMatch(t *testing.T) {
	runs := []DocumentRun{
		{
			Document: Document{
				ID:          "doc-1",
				GroundTruth: []GroundTruthSpan{{Kind: domain.KindPerson, Start: 0, End: 10}},
			},
			Predicted: domain.SpanSet{span(domain.KindPerson, 0, 10, 0.9)},
			LatencyUs: 1000,
		},
	}

	result := NewCalculator("ds-1", "presidio", "1.0").Calculate(runs)

	if result.Overall.TP != 1 || result.Overall.FP != 0 || result.Overall.FN != 0 {
		t.Fatalf("confusion counts: got %+v", result.Overall)
	}
	if result.Precision != 1 || result.Recall != 1 || result.F1 != 1 {
		t.Errorf("expected perfect precision/recall/f1, got P=%f R=%f F1=%f", result.Precision, result.Recall, result.F1)
	}
}

func TestCalculate_FalsePositiveAndNegative(t *testing.T) {
	runs := []DocumentRun{
		{
			Document: Document{
				GroundTruth: []GroundTruthSpan{
					{Kind: domain.KindPerson, Start: 0, End: 10},
					{Kind: domain.KindFiscalCode, Start: 20, End: 36},
				},
			},
			Predicted: domain.SpanSet{
				span(domain.KindPerson, 0, 10, 0.9),  // TP
				span(domain.KindEmail, 50, 60, 0.8),  // FP, wrong kind/location entirely
			},
			LatencyUs: 500,
		},
	}

	result := NewCalculator("ds-1", "presidio", "1.0").Calculate(runs)

	if result.Overall.TP != 1 {
		t.Errorf("TP: got %d, want 1", result.Overall.TP)
	}
	if result.Overall.FP != 1 {
		t.Errorf("FP: got %d, want 1", result.Overall.FP)
	}
	if result.Overall.FN != 1 {
		t.Errorf("FN: got %d, want 1 (missed fiscal code)", result.Overall.FN)
	}
}

func TestCalculate_ExactTripleMatchRequired(t *testing.T) {
	// Same kind, overlapping but not identical offsets: must count as both
	// a miss and a spurious detection, since matching is exact on all
	// three fields.
	runs := []DocumentRun{
		{
			Document: Document{
				GroundTruth: []GroundTruthSpan{{Kind: domain.KindPerson, Start: 0, End: 10}},
			},
			Predicted: domain.SpanSet{span(domain.KindPerson, 0, 11, 0.9)},
		},
	}

	result := NewCalculator("ds-1", "presidio", "1.0").Calculate(runs)
	if result.Overall.TP != 0 {
		t.Errorf("TP: got %d, want 0 (off-by-one end offset must not match)", result.Overall.TP)
	}
	if result.Overall.FP != 1 || result.Overall.FN != 1 {
		t.Errorf("expected one FP and one FN, got FP=%d FN=%d", result.Overall.FP, result.Overall.FN)
	}
}

func TestCalculate_EmptyRunsZeroDenominatorGuard(t *testing.T) {
	result := NewCalculator("ds-1", "presidio", "1.0").Calculate(nil)
	if result.Precision != 0 || result.Recall != 0 || result.F1 != 0 {
		t.Errorf("expected zero metrics on empty input, got P=%f R=%f F1=%f", result.Precision, result.Recall, result.F1)
	}
	if result.Latency != (LatencyStats{}) {
		t.Errorf("expected zero-value latency stats, got %+v", result.Latency)
	}
}

func TestCalculate_PerKindBreakdown(t *testing.T) {
	runs := []DocumentRun{
		{
			Document: Document{
				GroundTruth: []GroundTruthSpan{
					{Kind: domain.KindPerson, Start: 0, End: 10},
					{Kind: domain.KindEmail, Start: 20, End: 30},
				},
			},
			Predicted: domain.SpanSet{
				span(domain.KindPerson, 0, 10, 0.9),
			},
		},
	}

	result := NewCalculator("ds-1", "presidio", "1.0").Calculate(runs)
	person := result.PerKind[domain.KindPerson]
	if person.TP != 1 {
		t.Errorf("PERSON TP: got %d, want 1", person.TP)
	}
	email := result.PerKind[domain.KindEmail]
	if email.FN != 1 {
		t.Errorf("EMAIL FN: got %d, want 1", email.FN)
	}
}

func TestLatencyStats_KnownPercentiles(t *testing.T) {
	samples := make([]float64, 0, 100)
	for i := 1; i <= 100; i++ {
		samples = append(samples, float64(i))
	}
	stats := calculateLatencyStats(samples)

	if stats.Min != 1 || stats.Max != 100 {
		t.Errorf("min/max: got %f/%f, want 1/100", stats.Min, stats.Max)
	}
	if math.Abs(stats.Mean-50.5) > 0.001 {
		t.Errorf("mean: got %f, want 50.5", stats.Mean)
	}
	if stats.P95 < 94 || stats.P95 > 96 {
		t.Errorf("p95: got %f, want ~95", stats.P95)
	}
}

func TestLatencyStats_Empty(t *testing.T) {
	stats := calculateLatencyStats(nil)
	if stats != (LatencyStats{}) {
		t.Errorf("expected zero value for empty input, got %+v", stats)
	}
}

func TestConfidenceStats_MeanMinMax(t *testing.T) {
	stats := calculateConfidenceStats([]float64{0.5, 0.9, 0.7})
	if stats.Min != 0.5 || stats.Max != 0.9 {
		t.Errorf("min/max: got %f/%f, want 0.5/0.9", stats.Min, stats.Max)
	}
	if math.Abs(stats.Mean-0.7) > 0.001 {
		t.Errorf("mean: got %f, want 0.7", stats.Mean)
	}
}

func TestPercentile_SingleValue(t *testing.T) {
	if got := percentile([]float64{42}, 95); got != 42 {
		t.Errorf("percentile of single-element slice: got %f, want 42", got)
	}
}
