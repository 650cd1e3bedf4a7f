package domain

// SpanAuditRecord is the per-span slice of an AuditRecord: which strategy
// produced the replacement placeholder for this span, kept separately from
// DetectedSpan because it is only meaningful after C7 has run.
type SpanAuditRecord struct {
	Kind                EntityKind
	Start               int
	End                 int
	Confidence          float64
	ReplacementStrategy string
}

// AuditRecord is the durable event emitted once per processed document, for
// the external audit/benchmark sink named in §6. EngineVersion and the
// per-span ReplacementStrategy tag are carried over from the original
// implementation's PIIEvent/AnonymizationLog models; the distillation into
// spec.md dropped them, but they cost nothing to keep and make it possible
// to tell which strategy produced which placeholder after the fact.
type AuditRecord struct {
	DocumentFingerprint string
	EngineVersion       string
	Language            string
	LanguageFallback    bool
	DocumentKind        DocumentKind
	Spans               []SpanAuditRecord
	Success             bool
	ErrorKind           ErrorKind
	ProcessingTimeMs    int64
	CreatedAtUnix       int64
}
