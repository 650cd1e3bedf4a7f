// Package confidence implements C6: the boost-table scorer applied to a
// span after filtering, adding to (never lowering) its current confidence.
package confidence

import (
	"strings"

	"legal-anonymizer/internal/domain"
)

const (
	boostContextKeywords  = 0.10
	boostValidationPassed = 0.15
	boostMultiplePatterns = 0.10
	boostPatternComplex   = 0.05
	boostHighReliability  = 0.10

	highReliabilityFloor = 0.85
	patternComplexFloor  = 0.8
)

// reliability is the fixed per-kind table; a kind absent from this map uses
// defaultReliability.
var reliability = map[domain.EntityKind]float64{
	domain.KindFiscalCode:   0.95,
	domain.KindVATNumber:    0.90,
	domain.KindIBAN:         0.90,
	domain.KindEmail:        0.85,
	domain.KindPhone:        0.75,
	domain.KindPassport:     0.80,
	domain.KindIDCard:       0.80,
	domain.KindDate:         0.70,
	domain.KindPerson:       0.65,
	domain.KindOrganization: 0.65,
	domain.KindLocation:     0.60,
	domain.KindCourt:        0.75,
	domain.KindJudge:        0.70,
	domain.KindLawyer:       0.70,
	domain.KindAddress:      0.65,
	domain.KindOther:        0.50,
}

const defaultReliability = 0.60

// contextKeywords boost confidence when present in the surrounding text.
var contextKeywords = map[domain.EntityKind][]string{
	domain.KindFiscalCode: {
		"codice fiscale", "c.f.", "cf", "nato a", "nata a",
		"residente in", "domiciliato in", "domiciliata in",
	},
	domain.KindVATNumber: {"p.iva", "p. iva", "partita iva", "vat", "vat number", "p.i."},
	domain.KindPerson: {
		"nome", "cognome", "sig.", "sig.ra", "dott.", "dott.ssa",
		"avv.", "ing.", "prof.",
	},
	domain.KindEmail:        {"email", "e-mail", "pec", "contatto", "scrivere a"},
	domain.KindPhone:        {"tel.", "telefono", "cell.", "cellulare", "fax", "contattare"},
	domain.KindOrganization: {"società", "s.r.l.", "s.p.a.", "ditta", "azienda", "impresa"},
	domain.KindCourt:        {"tribunale", "corte", "giudice", "sentenza", "ordinanza"},
	domain.KindIBAN:         {"iban", "conto corrente", "bonifico", "c/c", "coordinate bancarie"},
}

// Reliability returns the fixed type-reliability score for kind.
func Reliability(kind domain.EntityKind) float64 {
	if r, ok := reliability[kind]; ok {
		return r
	}
	return defaultReliability
}

// Score computes the boosted confidence for span, given an explicit context
// string (used when the caller has one beyond the span's own
// ContextBefore/ContextAfter). Confidence is only ever added to, then
// clamped to 1.0.
func Score(span domain.DetectedSpan, context string) float64 {
	c := span.Confidence

	if Reliability(span.Kind) >= highReliabilityFloor {
		c += boostHighReliability
	}

	surrounding := context
	if surrounding == "" {
		surrounding = span.ContextBefore + " " + span.ContextAfter
	}
	if hasContextKeyword(span.Kind, surrounding) {
		c += boostContextKeywords
	}

	if span.Metadata.ValidationPassed {
		c += boostValidationPassed
	}
	if span.Metadata.MultiplePatterns {
		c += boostMultiplePatterns
	}
	if span.Metadata.PatternComplexity >= patternComplexFloor {
		c += boostPatternComplex
	}

	if c > 1.0 {
		c = 1.0
	}
	return c
}

func hasContextKeyword(kind domain.EntityKind, surrounding string) bool {
	kws, ok := contextKeywords[kind]
	if !ok {
		return false
	}
	lower := strings.ToLower(surrounding)
	for _, kw := range kws {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ScoreAll scores every span in place and returns the same slice.
func ScoreAll(spans domain.SpanSet) domain.SpanSet {
	for i := range spans {
		spans[i].Confidence = Score(spans[i], "")
	}
	return spans
}

// MeetsThreshold reports whether confidence clears threshold (inclusive).
// The orchestrator does not call it: after scoring it drops spans with
// recognize.ApplyConfidenceFloor and the confidence_threshold setting; in
// the pipeline the meets_threshold setting only feeds the cache fingerprint.
func MeetsThreshold(confidence, threshold float64) bool {
	return confidence >= threshold
}
