package benchmark

import (
	"fmt"
	"math"
	"sort"
)

// Weights assigns the relative importance of each scoring dimension in
// winner selection. Defaults mirror WinnerSelector's: F1 matters most,
// latency next, precision and recall split the remainder evenly.
type Weights struct {
	F1        float64
	P95Latency float64
	Precision float64
	Recall    float64
}

// DefaultWeights returns the weighting used when none is supplied.
func DefaultWeights() Weights {
	return Weights{F1: 0.5, P95Latency: 0.3, Precision: 0.1, Recall: 0.1}
}

func (w Weights) sum() float64 {
	return w.F1 + w.P95Latency + w.Precision + w.Recall
}

// Selector picks a winner among a set of BenchmarkResults using weighted
// scoring. Construction fails if the weights don't sum to 1.0 within the
// same 0.01 tolerance the Python selector enforces.
type Selector struct {
	weights         Weights
	latencyTargetMs float64
}

// NewSelector builds a Selector. Pass a zero Weights to use DefaultWeights.
func NewSelector(weights Weights, latencyTargetMs float64) (*Selector, error) {
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	if math.Abs(weights.sum()-1.0) > 0.01 {
		return nil, fmt.Errorf("benchmark: weights must sum to 1.0, got %.4f", weights.sum())
	}
	if latencyTargetMs <= 0 {
		latencyTargetMs = 500
	}
	return &Selector{weights: weights, latencyTargetMs: latencyTargetMs}, nil
}

// Score is one engine's weighted score and its components, returned by
// Compare for every candidate.
type Score struct {
	Engine            string
	Total             float64
	F1                float64
	P95LatencyMs      float64
	LatencyNormalized float64
	Precision         float64
	Recall            float64
}

// normalizeLatency maps a p95 latency in milliseconds to a [0,1] score,
// 1.0 at or below target and exponential decay above it — the same curve
// as _normalize_latency: ~0.37 at 2x target, ~0.14 at 3x target.
func (s *Selector) normalizeLatency(p95Ms float64) float64 {
	if p95Ms <= s.latencyTargetMs {
		return 1.0
	}
	excess := (p95Ms - s.latencyTargetMs) / s.latencyTargetMs
	score := math.Exp(-excess)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func (s *Selector) score(r BenchmarkResult) Score {
	latNorm := s.normalizeLatency(r.P95LatencyMs)
	total := r.F1*s.weights.F1 +
		latNorm*s.weights.P95Latency +
		r.Precision*s.weights.Precision +
		r.Recall*s.weights.Recall
	return Score{
		Engine:            r.Engine,
		Total:             total,
		F1:                r.F1,
		P95LatencyMs:      r.P95LatencyMs,
		LatencyNormalized: latNorm,
		Precision:         r.Precision,
		Recall:            r.Recall,
	}
}

// Compare scores every result and returns them sorted highest score first.
// Ties are broken by higher F1, then lower p95 latency, then lexicographic
// engine id, matching the selection algorithm's tie-break order.
func (s *Selector) Compare(results []BenchmarkResult) []Score {
	scores := make([]Score, 0, len(results))
	for _, r := range results {
		scores = append(scores, s.score(r))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i], scores[j]
		if a.Total != b.Total {
			return a.Total > b.Total
		}
		if a.F1 != b.F1 {
			return a.F1 > b.F1
		}
		if a.P95LatencyMs != b.P95LatencyMs {
			return a.P95LatencyMs < b.P95LatencyMs
		}
		return a.Engine < b.Engine
	})
	return scores
}

// SelectWinner returns the id of the highest-scoring engine.
func (s *Selector) SelectWinner(results []BenchmarkResult) (string, error) {
	if len(results) == 0 {
		return "", fmt.Errorf("benchmark: cannot select a winner from an empty result set")
	}
	scores := s.Compare(results)
	return scores[0].Engine, nil
}

// Significant reports whether two engines' F1 scores differ enough to call
// the difference significant: |ΔF1| > 0.05. A richer paired per-document
// test is a permitted refinement but isn't required by the selection rule.
func Significant(a, b BenchmarkResult) bool {
	return math.Abs(a.F1-b.F1) > 0.05
}
