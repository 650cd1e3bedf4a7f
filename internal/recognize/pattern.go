// Package recognize implements C4: pattern-based and NER-based recognizers,
// their merge/tie-break logic, kind mapping, confidence floor, and language
// detection. Pattern recognizers here follow the teacher's own
// pattern{regexp, piiType, confidence} shape in its compilePatterns, widened
// with an optional validator and context-keyword boost.
package recognize

import (
	"regexp"

	"legal-anonymizer/internal/domain"
	"legal-anonymizer/internal/validators"
)

// RecognizerID is the stable string tag recorded on every span's metadata
// and used as part of the cache fingerprint.
type RecognizerID string

// Recognizer ids in scope. "hybrid" is deliberately omitted until a hybrid
// strategy exists.
const (
	RecognizerPresidio RecognizerID = "presidio"
	RecognizerSpacy    RecognizerID = "spacy"
)

// patternSpec describes one regex-based recognizer: the pattern to match,
// the entity kind it produces, its base confidence, an optional validator
// that must pass for the match to survive, and optional context keywords
// that earn a boost when present nearby (handled by C6, not here).
type patternSpec struct {
	id         string
	kind       domain.EntityKind
	re         *regexp.Regexp
	confidence float64
	validate   func(string) bool
	context    []string
}

// patternRecognizers is the custom pattern recognizer table from §4.4.
var patternRecognizers = []patternSpec{
	{
		id:         "cf",
		kind:       domain.KindFiscalCode,
		re:         regexp.MustCompile(`\b[A-Za-z]{6}\d{2}[A-Za-z]\d{2}[A-Za-z]\d{3}[A-Za-z]\b`),
		confidence: 0.9,
		validate:   validators.FiscalCodeValid,
		context:    []string{"codice fiscale", "c.f.", "cf", "nato a", "residente in"},
	},
	{
		id:         "piva",
		kind:       domain.KindVATNumber,
		re:         regexp.MustCompile(`\b\d{11}\b`),
		confidence: 0.8,
		validate:   validators.VATNumberValid,
		context:    []string{"p.iva", "partita iva", "vat", "p.i."},
	},
	{
		id:         "legal_entity",
		kind:       domain.KindOrganization,
		re:         legalEntityPattern,
		confidence: 0.9,
		validate:   nil,
		context:    nil,
	},
	{
		id:         "iban",
		kind:       domain.KindIBAN,
		re:         regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`),
		confidence: 0.85,
		validate:   validators.IBANValid,
		context:    []string{"iban", "conto corrente", "bonifico", "c/c", "coordinate bancarie"},
	},
}

// legalEntityPattern is the union of the court/ministry/authority regex
// family, translated from the Presidio recognizer's Pattern list into a
// single alternation so one compiled regexp can find every occurrence.
var legalEntityPattern = regexp.MustCompile(
	`\bTribunale\s+di\s+[A-Z][a-zà-ù]+\b` +
		`|\bCorte\s+d['’]Appello\s+di\s+[A-Z][a-zà-ù]+\b` +
		`|\bCorte\s+di\s+Cassazione\b` +
		`|\bTAR\s+[A-Z][a-zà-ù]+\b` +
		`|\bConsiglio\s+di\s+Stato\b` +
		`|\bMinistero\s+dell[ae]\s+[A-Z][a-zà-ù]+(?:\s+[A-Z][a-zà-ù]+)?\b` +
		`|\bAgenzia\s+delle\s+Entrate\b` +
		`|\bINPS\b` +
		`|\bGuardia\s+di\s+Finanza\b`,
)

// DetectPatterns runs every pattern recognizer over text and returns the
// surviving spans: a validator, when present, must pass for a match to be
// kept (a failing validator drops the candidate outright rather than
// lowering its confidence — that tradeoff belongs to the filter chain).
func DetectPatterns(text string) domain.SpanSet {
	var spans domain.SpanSet
	for _, spec := range patternRecognizers {
		for _, loc := range spec.re.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			matched := text[start:end]
			if spec.validate != nil && !spec.validate(matched) {
				continue
			}
			spans = append(spans, domain.DetectedSpan{
				Kind:       spec.kind,
				Text:       matched,
				Start:      start,
				End:        end,
				Confidence: spec.confidence,
				Metadata: domain.SpanMetadata{
					RecognizerID:     spec.id,
					ValidationPassed: spec.validate != nil,
				},
			})
		}
	}
	return spans
}

// ContextKeywordsFor returns the context-keyword boost list for the named
// pattern recognizer. C6 scores context boosts from its own per-kind
// keyword table and does not read this list.
func ContextKeywordsFor(recognizerID string) []string {
	for _, spec := range patternRecognizers {
		if spec.id == recognizerID {
			return spec.context
		}
	}
	return nil
}
