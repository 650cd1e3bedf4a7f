package strategy

import (
	"strconv"
	"strings"

	"legal-anonymizer/internal/domain"
)

// Deterministic assigns each kind a monotonic counter and renders
// "{kind}_{index}" by default. When UseLettersForNames is set, PERSON and
// ORGANIZATION indices render as A, B, … Z, then decimal from 27 — the
// sequence property 7 in §8 specifies.
type Deterministic struct {
	cfg      Config
	counters map[domain.EntityKind]int
}

// NewDeterministic builds a fresh counter set; counters must never be
// shared across concurrent document tasks (§5).
func NewDeterministic(cfg Config) *Deterministic {
	return &Deterministic{cfg: cfg, counters: make(map[domain.EntityKind]int)}
}

func (d *Deterministic) Replace(span domain.DetectedSpan) string {
	d.counters[span.Kind]++
	index := d.counters[span.Kind]

	var indexStr string
	if d.cfg.UseLettersForNames && (span.Kind == domain.KindPerson || span.Kind == domain.KindOrganization) {
		indexStr = letterIndex(index)
	} else {
		indexStr = strconv.Itoa(index)
	}

	tmpl := d.cfg.Template
	if tmpl == "" {
		tmpl = "{kind}_{index}"
	}
	out := strings.ReplaceAll(tmpl, "{kind}", string(span.Kind))
	out = strings.ReplaceAll(out, "{index}", indexStr)
	return out
}

// letterIndex renders a 1-based index as A, B, …, Z, 27, 28, … — letters
// only cover the first 26 values, after which decimal digits resume.
func letterIndex(index int) string {
	if index >= 1 && index <= 26 {
		return string(rune('A' + index - 1))
	}
	return strconv.Itoa(index)
}
