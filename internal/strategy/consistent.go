package strategy

import (
	"strings"

	"legal-anonymizer/internal/domain"
)

// consistencyKey is (kind, casefolded text) — the identity the wrapper
// treats as "the same mention" within one document.
type consistencyKey struct {
	kind domain.EntityKind
	text string
}

// Consistent wraps a base Strategy with a per-document map so repeated
// mentions of the same (kind, text) pair always receive the same
// placeholder, even under a non-deterministic base strategy: the first
// placeholder generated for a first-seen text wins on every later
// occurrence.
//
// The wrapper owns the reset: callers must build a fresh Consistent (or
// call Reset) at the start of every document, never share one across
// concurrent document tasks, per §5's prohibition on sharing
// replacement-strategy state.
type Consistent struct {
	base Strategy
	seen map[consistencyKey]string
}

// NewConsistent wraps base with a fresh, empty consistency map.
func NewConsistent(base Strategy) *Consistent {
	return &Consistent{base: base, seen: make(map[consistencyKey]string)}
}

// Reset clears the consistency map, as if NewConsistent had just been
// called.
func (c *Consistent) Reset() {
	c.seen = make(map[consistencyKey]string)
}

func (c *Consistent) Replace(span domain.DetectedSpan) string {
	key := consistencyKey{kind: span.Kind, text: strings.ToLower(span.Text)}
	if placeholder, ok := c.seen[key]; ok {
		return placeholder
	}
	placeholder := c.base.Replace(span)
	c.seen[key] = placeholder
	return placeholder
}

// Annotate assigns each span its placeholder via s.Replace, writing it into
// span.Replacement in place, in descending-start order so a stateful
// strategy (Consistent in particular) sees spans in the same order C8 will
// later splice them. It returns the same slice for chaining.
//
// This is C7's "derived replace_all": placeholder assignment only. The
// actual text splicing is C8's responsibility (internal/rewrite.Splice),
// kept separate so a caller can inspect assigned placeholders before
// committing to the rewrite.
func Annotate(s Strategy, spans domain.SpanSet) domain.SpanSet {
	ordered := make(domain.SpanSet, len(spans))
	copy(ordered, spans)
	domain.SortByStartDesc(ordered)

	byIndex := make(map[int]string, len(ordered))
	for i, span := range ordered {
		byIndex[i] = s.Replace(span)
	}
	for i := range ordered {
		ordered[i].Replacement = byIndex[i]
	}

	domain.SortByStart(ordered)
	copy(spans, ordered)
	return spans
}

// ReplaceAll is a convenience that annotates spans with placeholders via s
// and splices them into text in one step — equivalent to calling Annotate
// followed by rewrite.Splice, provided here so a strategy can be exercised
// end-to-end without importing the rewrite package.
func ReplaceAll(s Strategy, text string, spans domain.SpanSet) string {
	ordered := make(domain.SpanSet, len(spans))
	copy(ordered, spans)
	domain.SortByStartDesc(ordered)

	result := text
	for _, span := range ordered {
		placeholder := s.Replace(span)
		result = result[:span.Start] + placeholder + result[span.End:]
	}
	return result
}
