// Package benchmark scores a recognizer against an annotated corpus and
// selects a winner among several scored engines.
//
// Grounded on original_source/benchmarking/metrics.py and selector.py: the
// same triple-set comparison, the same aggregate formulae, the same
// weighted winner score. The Python implementation leans on numpy for the
// latency/confidence array math; nothing in the example pack reaches for a
// numerical library at this scale, so that half is a deliberate stdlib leaf
// built on sort.Float64s and a manual percentile/stddev pass.
package benchmark

import (
	"math"
	"sort"

	"legal-anonymizer/internal/domain"
)

// GroundTruthSpan is one annotated span in a benchmark corpus document.
// It carries the same three fields a DetectedSpan is compared on —
// kind, start, end — and nothing else, since benchmark ground truth never
// flows through the live pipeline's metadata.
type GroundTruthSpan struct {
	Kind  domain.EntityKind
	Start int
	End   int
}

// Document is one corpus entry: input text plus its ground-truth spans.
type Document struct {
	ID          string
	Text        string
	GroundTruth []GroundTruthSpan
}

// DocumentRun is the outcome of running a recognizer over one corpus
// Document: the spans it predicted and how long detection took.
type DocumentRun struct {
	Document  Document
	Predicted domain.SpanSet
	LatencyUs float64
}

// comparable is the exact-match triple predicted and ground-truth spans are
// compared on — matching is exact on all three fields, per the corpus
// comparison rule.
type comparable struct {
	kind  domain.EntityKind
	start int
	end   int
}

func toComparableSet(spans []GroundTruthSpan) map[comparable]struct{} {
	set := make(map[comparable]struct{}, len(spans))
	for _, s := range spans {
		set[comparable{s.Kind, s.Start, s.End}] = struct{}{}
	}
	return set
}

func predictedToComparableSet(spans domain.SpanSet) map[comparable]struct{} {
	set := make(map[comparable]struct{}, len(spans))
	for _, s := range spans {
		set[comparable{s.Kind, s.Start, s.End}] = struct{}{}
	}
	return set
}

// ConfusionCounts holds raw true/false positive/negative counts.
type ConfusionCounts struct {
	TP int
	FP int
	FN int
}

// PRF1 computes precision, recall, and F1 from confusion counts, returning
// zero for any ratio whose denominator is zero.
func (c ConfusionCounts) PRF1() (precision, recall, f1 float64) {
	if c.TP+c.FP > 0 {
		precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// LatencyStats summarizes a set of per-document latency measurements in
// microseconds.
type LatencyStats struct {
	Mean   float64
	Median float64
	P50    float64
	P95    float64
	P99    float64
	Min    float64
	Max    float64
	StdDev float64
}

// ConfidenceStats summarizes the confidence scores attached to predicted
// spans across a corpus run.
type ConfidenceStats struct {
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// BenchmarkResult is the complete scorecard for one recognizer run over one
// corpus.
type BenchmarkResult struct {
	DatasetID       string
	Engine          string
	EngineVersion   string
	Overall         ConfusionCounts
	Precision       float64
	Recall          float64
	F1              float64
	PerKind         map[domain.EntityKind]ConfusionCounts
	PerKindPRF1     map[domain.EntityKind][3]float64 // [precision, recall, f1]
	Latency         LatencyStats
	Confidence      ConfidenceStats
	TotalDocuments  int
	TotalEntities   int
	P95LatencyMs    float64
	AvgLatencyMs    float64
}

// Calculator runs a recognizer's predictions against corpus ground truth
// and produces a BenchmarkResult. It holds no state of its own; every
// method is a pure function of its arguments, mirroring
// MetricsCalculator.calculate_metrics's stateless shape.
type Calculator struct {
	DatasetID     string
	Engine        string
	EngineVersion string
}

// NewCalculator returns a Calculator identifying the dataset and engine
// under test.
func NewCalculator(datasetID, engine, engineVersion string) *Calculator {
	return &Calculator{DatasetID: datasetID, Engine: engine, EngineVersion: engineVersion}
}

// Calculate aggregates per-document confusion counts, latency, and
// confidence across runs into a single BenchmarkResult.
func (c *Calculator) Calculate(runs []DocumentRun) BenchmarkResult {
	result := BenchmarkResult{
		DatasetID:     c.DatasetID,
		Engine:        c.Engine,
		EngineVersion: c.EngineVersion,
		PerKind:       make(map[domain.EntityKind]ConfusionCounts),
		PerKindPRF1:   make(map[domain.EntityKind][3]float64),
	}

	var latenciesUs []float64
	var confidences []float64
	perKindTP := make(map[domain.EntityKind]int)
	perKindFP := make(map[domain.EntityKind]int)
	perKindFN := make(map[domain.EntityKind]int)
	seenKinds := make(map[domain.EntityKind]struct{})

	for _, run := range runs {
		truth := toComparableSet(run.Document.GroundTruth)
		predicted := predictedToComparableSet(run.Predicted)

		for key := range predicted {
			seenKinds[key.kind] = struct{}{}
			if _, ok := truth[key]; ok {
				result.Overall.TP++
				perKindTP[key.kind]++
			} else {
				result.Overall.FP++
				perKindFP[key.kind]++
			}
		}
		for key := range truth {
			seenKinds[key.kind] = struct{}{}
			if _, ok := predicted[key]; !ok {
				result.Overall.FN++
				perKindFN[key.kind]++
			}
		}

		latenciesUs = append(latenciesUs, run.LatencyUs)
		for _, s := range run.Predicted {
			confidences = append(confidences, s.Confidence)
		}
		result.TotalEntities += len(run.Predicted)
	}

	result.Precision, result.Recall, result.F1 = result.Overall.PRF1()

	for kind := range seenKinds {
		counts := ConfusionCounts{TP: perKindTP[kind], FP: perKindFP[kind], FN: perKindFN[kind]}
		result.PerKind[kind] = counts
		p, r, f1 := counts.PRF1()
		result.PerKindPRF1[kind] = [3]float64{p, r, f1}
	}

	result.TotalDocuments = len(runs)
	result.Latency = calculateLatencyStats(latenciesUs)
	result.Confidence = calculateConfidenceStats(confidences)
	result.P95LatencyMs = result.Latency.P95 / 1000.0
	result.AvgLatencyMs = result.Latency.Mean / 1000.0

	return result
}

// calculateLatencyStats computes mean/median/p50/p95/p99/min/max/stddev
// over a set of microsecond latency measurements. Returns the zero value
// for an empty input, matching calculate_latency_stats's empty-dict case.
func calculateLatencyStats(samples []float64) LatencyStats {
	if len(samples) == 0 {
		return LatencyStats{}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	variance := 0.0
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(sorted))

	return LatencyStats{
		Mean:   mean,
		Median: percentile(sorted, 50),
		P50:    percentile(sorted, 50),
		P95:    percentile(sorted, 95),
		P99:    percentile(sorted, 99),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		StdDev: math.Sqrt(variance),
	}
}

// calculateConfidenceStats computes mean/median/min/max over a set of
// per-span confidence scores.
func calculateConfidenceStats(scores []float64) ConfidenceStats {
	if len(scores) == 0 {
		return ConfidenceStats{}
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	return ConfidenceStats{
		Mean:   sum / float64(len(sorted)),
		Median: percentile(sorted, 50),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
	}
}

// percentile returns the linearly-interpolated p-th percentile (0-100) of
// an already-sorted slice, matching numpy.percentile's default
// interpolation so the ported formulae agree at the boundary values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := (p / 100.0) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
