package recognize

import "legal-anonymizer/internal/domain"

// DefaultConfidenceThreshold is the default confidence floor for
// ApplyConfidenceFloor. The orchestrator applies the floor after C6 scoring,
// so it compares boosted confidences, not raw recognizer output.
const DefaultConfidenceThreshold = 0.7

// Merge combines spans from multiple recognizers (NER and pattern-based)
// into one non-overlapping set. When two spans overlap, the one with the
// higher confidence wins; ties go to the earlier start, then the longer
// span. The result satisfies domain.NonOverlapping.
func Merge(spanSets ...domain.SpanSet) domain.SpanSet {
	var all domain.SpanSet
	for _, s := range spanSets {
		all = append(all, s...)
	}
	domain.SortByStart(all)

	var kept domain.SpanSet
	for _, candidate := range all {
		overlapIdx := -1
		for i, k := range kept {
			if candidate.Start < k.End && k.Start < candidate.End {
				overlapIdx = i
				break
			}
		}
		if overlapIdx == -1 {
			kept = append(kept, candidate)
			continue
		}
		if wins(candidate, kept[overlapIdx]) {
			kept[overlapIdx] = candidate
		}
	}
	return kept
}

// wins reports whether a should replace b as the kept span for an
// overlapping region: higher confidence wins; ties go to the earlier
// start, then the longer span.
func wins(a, b domain.DetectedSpan) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Start != b.Start {
		return a.Start < b.Start
	}
	return (a.End - a.Start) > (b.End - b.Start)
}

// ApplyConfidenceFloor drops spans whose confidence is strictly below
// threshold.
func ApplyConfidenceFloor(spans domain.SpanSet, threshold float64) domain.SpanSet {
	kept := make(domain.SpanSet, 0, len(spans))
	for _, s := range spans {
		if s.Confidence >= threshold {
			kept = append(kept, s)
		}
	}
	return kept
}
