// Package doccontext implements C3: an advisory classifier that looks at
// the opening window of a normalized document and infers its kind,
// jurisdiction, and court name from tag-phrase sets, mirroring the
// teacher's own compile-once regex construction in its pattern table.
package doccontext

import (
	"regexp"
	"strings"

	"legal-anonymizer/internal/domain"
)

// defaultWindow is how many leading characters of the normalized text the
// classifier inspects, per §4.3's default.
const defaultWindow = 2000

type kindRule struct {
	kind       domain.DocumentKind
	phrases    []string
	confidence float64
}

// kindRules is priority-ordered: the first rule whose phrase set matches
// wins.
var kindRules = []kindRule{
	{domain.DocSentenza, []string{"sentenza", "corte", "tribunale", "giudice"}, 0.9},
	{domain.DocContratto, []string{"contratto", "le parti convengono", "tra le sottoscritte parti"}, 0.85},
	{domain.DocVerbale, []string{"verbale di", "si dà atto che", "presenti all'adunanza"}, 0.8},
	{domain.DocParere, []string{"parere pro veritate", "si esprime parere", "quesito"}, 0.8},
	{domain.DocRicorso, []string{"ricorso", "il ricorrente", "ricorre avverso"}, 0.85},
	{domain.DocCitazione, []string{"atto di citazione", "cita a comparire"}, 0.85},
	{domain.DocAtto, []string{"atto notarile", "repertorio n.", "raccolta n."}, 0.8},
}

type jurisdictionRule struct {
	jurisdiction domain.Jurisdiction
	tokens       []string
}

var jurisdictionRules = []jurisdictionRule{
	{domain.JurisdictionCivile, []string{"civile", "c.c."}},
	{domain.JurisdictionPenale, []string{"penale", "c.p."}},
	{domain.JurisdictionAmministrativo, []string{"amministrativo", "tar"}},
}

// courtPatterns is the court-name regex family from §4.3, in priority
// order; the first capture wins.
var courtPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Corte di Cassazione`),
	regexp.MustCompile(`(?i)Consiglio di Stato`),
	regexp.MustCompile(`(?i)Tribunale di [A-ZÀ-Ù][\wÀ-ÿ'’\-]*`),
	regexp.MustCompile(`(?i)Corte d['’]Appello di [A-ZÀ-Ù][\wÀ-ÿ'’\-]*`),
	regexp.MustCompile(`(?i)TAR [A-ZÀ-Ù][\wÀ-ÿ'’\-]*`),
}

// Classify returns the DocumentContext inferred from the leading window of
// normalized text. It never errors: an unrecognized document yields
// DocUnknown with confidence 0.
func Classify(normalizedText string) domain.DocumentContext {
	window := normalizedText
	if len(window) > defaultWindow {
		window = window[:defaultWindow]
	}
	lower := strings.ToLower(window)

	ctx := domain.DocumentContext{DocumentKind: domain.DocUnknown}
	for _, rule := range kindRules {
		if containsAny(lower, rule.phrases) {
			ctx.DocumentKind = rule.kind
			ctx.Confidence = rule.confidence
			break
		}
	}

	for _, rule := range jurisdictionRules {
		if containsAny(lower, rule.tokens) {
			ctx.Jurisdiction = rule.jurisdiction
			break
		}
	}

	for _, re := range courtPatterns {
		if m := re.FindString(window); m != "" {
			ctx.Court = m
			break
		}
	}

	return ctx
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
