// Package domain holds the record types and span arithmetic shared by every
// stage of the detection and anonymization pipeline: entity kinds, spans,
// document context, pipeline/batch results, cache keys, and audit records.
//
// Nothing in this package performs I/O. It exists so that every other
// internal package can speak the same vocabulary without importing each
// other.
package domain

import "sort"

// EntityKind is the closed set of PII categories the pipeline recognizes.
// It is a string type (not an iota) because the tag is persisted in cache
// keys, audit records, and benchmark datasets, and must stay stable across
// versions — the same reasoning behind the teacher's PIIType in
// internal/anonymizer/anonymizer.go.
type EntityKind string

// Supported entity kinds, closed enumeration per the data model.
const (
	KindPerson       EntityKind = "PERSON"
	KindOrganization EntityKind = "ORGANIZATION"
	KindLocation     EntityKind = "LOCATION"
	KindDate         EntityKind = "DATE"
	KindFiscalCode   EntityKind = "FISCAL_CODE"
	KindVATNumber    EntityKind = "VAT_NUMBER"
	KindEmail        EntityKind = "EMAIL"
	KindPhone        EntityKind = "PHONE"
	KindAddress      EntityKind = "ADDRESS"
	KindCourt        EntityKind = "COURT"
	KindJudge        EntityKind = "JUDGE"
	KindLawyer       EntityKind = "LAWYER"
	KindIDCard       EntityKind = "ID_CARD"
	KindPassport     EntityKind = "PASSPORT"
	KindIBAN         EntityKind = "IBAN"
	KindOther        EntityKind = "OTHER"
)

// AllKinds lists every entity kind, for exhaustiveness checks in tests and
// for iterating fixed per-kind tables (reliability, context keywords,
// redaction labels).
func AllKinds() []EntityKind {
	return []EntityKind{
		KindPerson, KindOrganization, KindLocation, KindDate,
		KindFiscalCode, KindVATNumber, KindEmail, KindPhone,
		KindAddress, KindCourt, KindJudge, KindLawyer,
		KindIDCard, KindPassport, KindIBAN, KindOther,
	}
}

// SensitivityLevel is the GDPR-risk classification attached to a span by the
// filter chain's sensitivity-annotation pass.
type SensitivityLevel string

// Sensitivity levels, highest risk first.
const (
	SensitivityHigh   SensitivityLevel = "HIGH"
	SensitivityMedium SensitivityLevel = "MEDIUM"
	SensitivityLow    SensitivityLevel = "LOW"
)

// SpanMetadata carries the fields the core reads explicitly, typed on the
// record rather than hidden in a dynamic bag — per the REDESIGN FLAGS
// guidance on dataclass "metadata" dictionaries. Extra is the escape hatch
// for anything a recognizer wants to attach that the core doesn't need to
// reason about.
type SpanMetadata struct {
	RecognizerID       string
	ValidationPassed   bool
	Sensitivity        SensitivityLevel
	OriginalConfidence *float64
	MultiplePatterns   bool
	PatternComplexity  float64
	Extra              map[string]any
}

// DetectedSpan is a single PII mention found in normalized text.
//
// Start and End are half-open byte offsets [Start, End) into the normalized
// text — this package picks byte offsets (not rune offsets) because every
// consumer (the rewriter, the cache fingerprint, audit truncation) already
// operates on Go strings as byte slices, and picking runes would force a
// second indexing scheme for no benefit given Go string semantics.
type DetectedSpan struct {
	Kind          EntityKind
	Text          string
	Start         int
	End           int
	Confidence    float64
	ContextBefore string
	ContextAfter  string
	Metadata      SpanMetadata

	// Replacement is the placeholder text a replacement strategy assigned
	// to this span. Empty until C7 has run; C8 reads it, never computes it.
	Replacement string
}

// Valid reports whether the span's invariants hold against text, the
// normalized text it was detected in: 0 <= Start < End <= len(text) and
// text[Start:End] == Text.
func (s DetectedSpan) Valid(text string) bool {
	if s.Start < 0 || s.Start >= s.End || s.End > len(text) {
		return false
	}
	return text[s.Start:s.End] == s.Text
}

// SpanSet is an ordered collection of spans. Non-overlap is an invariant the
// pipeline must restore after merging (§4.4) and after filtering (§4.5);
// SpanSet itself is a plain slice — free functions below operate on it
// rather than hanging methods off a wrapper type, since no invariant needs
// enforcing beyond what the pipeline stages already guarantee by
// construction.
type SpanSet []DetectedSpan

// NonOverlapping reports whether every pair of spans in s satisfies
// a.End <= b.Start or b.End <= a.Start.
func NonOverlapping(s SpanSet) bool {
	for i := range s {
		for j := i + 1; j < len(s); j++ {
			a, b := s[i], s[j]
			if a.End > b.Start && b.End > a.Start {
				return false
			}
		}
	}
	return true
}

// SortByStart sorts spans ascending by start offset, in place.
func SortByStart(s SpanSet) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Start < s[j].Start })
}

// SortByStartDesc sorts spans descending by start offset, in place — the
// order C7/C8 require so earlier offsets stay valid while later ones are
// rewritten.
func SortByStartDesc(s SpanSet) {
	sort.SliceStable(s, func(i, j int) bool { return s[i].Start > s[j].Start })
}
