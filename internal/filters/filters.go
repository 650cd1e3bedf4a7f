// Package filters implements C5: the validate / legal-formula / sensitivity
// chain applied to a span set after detection, in declared order. Every
// pass is a pure function over (spans, text) — the chain is order-sensitive
// but each step is deterministic and stateless, so callers may run them
// independently in tests.
package filters

import (
	"regexp"

	"legal-anonymizer/internal/domain"
	"legal-anonymizer/internal/validators"
)

// contextWindow is how many characters on each side of a span the
// legal-formula filter inspects, per §4.5.
const contextWindow = 50

// legalFormulae are phrases whose presence in a span's surrounding window
// marks it as part of a citation or boilerplate clause rather than PII.
var legalFormulae = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ai sensi dell['’]art`),
	regexp.MustCompile(`(?i)visto il`),
	regexp.MustCompile(`(?i)considerato che`),
	regexp.MustCompile(`(?i)in conformità a`),
}

// kindValidators maps an entity kind to the validator that must pass for a
// span of that kind to survive the Validate pass. Kinds absent from this
// map have no validator and are never dropped here.
var kindValidators = map[domain.EntityKind]func(string) bool{
	domain.KindFiscalCode: validators.FiscalCodeValid,
	domain.KindVATNumber:  validators.VATNumberValid,
}

// Validate drops spans whose kind has a validator and whose text fails it.
func Validate(spans domain.SpanSet) domain.SpanSet {
	kept := make(domain.SpanSet, 0, len(spans))
	for _, s := range spans {
		if v, ok := kindValidators[s.Kind]; ok && !v(s.Text) {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// FilterLegalFormulae drops any span whose ±contextWindow surroundings in
// text contain a legal-formula pattern, so citation numbers and boilerplate
// clauses are never mistaken for PII.
func FilterLegalFormulae(spans domain.SpanSet, text string) domain.SpanSet {
	kept := make(domain.SpanSet, 0, len(spans))
	for _, s := range spans {
		windowStart := s.Start - contextWindow
		if windowStart < 0 {
			windowStart = 0
		}
		windowEnd := s.End + contextWindow
		if windowEnd > len(text) {
			windowEnd = len(text)
		}
		window := text[windowStart:windowEnd]

		matched := false
		for _, re := range legalFormulae {
			if re.MatchString(window) {
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// highSensitivityKinds get HIGH; lowSensitivityKinds get LOW; everything
// else gets MEDIUM, per §4.5's sensitivity table.
var highSensitivityKinds = map[domain.EntityKind]bool{
	domain.KindFiscalCode: true,
	domain.KindIDCard:     true,
	domain.KindPassport:   true,
}

var lowSensitivityKinds = map[domain.EntityKind]bool{
	domain.KindOrganization: true,
	domain.KindCourt:        true,
}

// Annotate decorates each span's metadata with its sensitivity level, in
// place, and returns the same slice for chaining.
func Annotate(spans domain.SpanSet) domain.SpanSet {
	for i := range spans {
		switch {
		case highSensitivityKinds[spans[i].Kind]:
			spans[i].Metadata.Sensitivity = domain.SensitivityHigh
		case lowSensitivityKinds[spans[i].Kind]:
			spans[i].Metadata.Sensitivity = domain.SensitivityLow
		default:
			spans[i].Metadata.Sensitivity = domain.SensitivityMedium
		}
	}
	return spans
}

// Chain runs Validate, FilterLegalFormulae, and Annotate in declared order.
func Chain(spans domain.SpanSet, text string) domain.SpanSet {
	spans = Validate(spans)
	spans = FilterLegalFormulae(spans, text)
	spans = Annotate(spans)
	return spans
}
