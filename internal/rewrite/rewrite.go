// Package rewrite implements C8: given normalized text and a span set
// already annotated with placeholder strings (by C7), produce the
// anonymized text. This is a pure string operation with no knowledge of
// how placeholders were chosen.
package rewrite

import "legal-anonymizer/internal/domain"

// Splice walks spans in descending start order and replaces each
// text[span.Start:span.End] with span.Replacement. spans must satisfy
// domain.NonOverlapping on input; output length need not equal input
// length.
func Splice(text string, spans domain.SpanSet) string {
	ordered := make(domain.SpanSet, len(spans))
	copy(ordered, spans)
	domain.SortByStartDesc(ordered)

	result := text
	for _, span := range ordered {
		result = result[:span.Start] + span.Replacement + result[span.End:]
	}
	return result
}
