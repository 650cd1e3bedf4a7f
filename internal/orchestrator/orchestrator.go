// Package orchestrator implements C10: the per-document state machine and
// the bounded-concurrency batch scheduler sitting on top of every other
// pipeline package, grounded on original_source/pipeline/orchestrator.py's
// PipelineOrchestrator.process_document/process_batch shape and on the
// teacher's own semaphore-gated goroutine dispatch (dispatchOllamaAsync's
// ollamaSem channel).
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"legal-anonymizer/internal/cache"
	"legal-anonymizer/internal/confidence"
	"legal-anonymizer/internal/config"
	"legal-anonymizer/internal/doccontext"
	"legal-anonymizer/internal/domain"
	"legal-anonymizer/internal/filters"
	"legal-anonymizer/internal/logger"
	"legal-anonymizer/internal/metrics"
	"legal-anonymizer/internal/normalize"
	"legal-anonymizer/internal/profiler"
	"legal-anonymizer/internal/recognize"
	"legal-anonymizer/internal/rewrite"
	"legal-anonymizer/internal/strategy"

	"golang.org/x/sync/errgroup"
)

// EngineVersion is stamped on every audit record so a later reader can tell
// which build produced a given placeholder assignment.
const EngineVersion = "1.0.0"

// AuditSink receives one AuditRecord per processed document. Emission is
// fire-and-forget: a failing sink must never fail or delay the document
// that triggered it, mirroring the original implementation's
// _track_anonymization_event placeholder (itself a stand-in for its own
// monitoring-database writer).
type AuditSink interface {
	Emit(ctx context.Context, record domain.AuditRecord) error
}

// NullSink discards every record. Used when no external sink is configured.
type NullSink struct{}

// Emit implements AuditSink by doing nothing.
func (NullSink) Emit(context.Context, domain.AuditRecord) error { return nil }

// Document is one unit of batch input: caller-supplied id, raw text, and an
// optional language override.
type Document struct {
	ID       string
	Text     string
	Language string
}

// DetectOptions carries the per-call overrides §6's detect/anonymize
// operations accept.
type DetectOptions struct {
	Language            string
	ConfidenceThreshold float64 // 0 means "use configured default"
}

// Orchestrator wires every pipeline package together behind the state
// machine and batch scheduler named in §4.10. One instance is shared across
// concurrent document tasks; everything it touches that is not safe for
// that (replacement-strategy instances, the profiler stack) is allocated
// fresh per call.
type Orchestrator struct {
	cfg    *config.Config
	cache  *cache.Manager
	ner    *recognize.NERClient
	m      *metrics.Metrics
	log    *logger.Logger
	sink   AuditSink
	docSem chan struct{}
}

// New builds an Orchestrator. sink may be nil, in which case audit records
// are discarded.
func New(cfg *config.Config, cacheMgr *cache.Manager, ner *recognize.NERClient, m *metrics.Metrics, log *logger.Logger, sink AuditSink) *Orchestrator {
	if sink == nil {
		sink = NullSink{}
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Orchestrator{
		cfg:    cfg,
		cache:  cacheMgr,
		ner:    ner,
		m:      m,
		log:    log,
		sink:   sink,
		docSem: make(chan struct{}, maxConcurrent),
	}
}

// Detect runs C2-C6 only (no replacement) and returns the surviving spans,
// per §6's detect(text, language?, options?) operation.
func (o *Orchestrator) Detect(ctx context.Context, text string, opts DetectOptions) (domain.SpanSet, domain.ResultMetadata, error) {
	normalized := normalize.Text(text)
	language := opts.Language
	if language == "" {
		language = recognize.DetectLanguage(normalized)
	}
	language, languageFallback := o.resolveLanguage(language)

	spans, fallbackTriggered, err := o.recognizeSpans(ctx, normalized, language)
	if err != nil {
		return nil, domain.ResultMetadata{}, err
	}

	spans = filters.Chain(spans, normalized)
	spans = confidence.ScoreAll(spans)

	threshold := opts.ConfidenceThreshold
	if threshold == 0 {
		threshold = o.cfg.ConfidenceThreshold
	}
	spans = recognize.ApplyConfidenceFloor(spans, threshold)

	meta := domain.ResultMetadata{
		PrimaryRecognizer: o.cfg.DefaultRecognizer,
		FallbackTriggered: fallbackTriggered,
		LanguageFallback:  languageFallback,
		Language:          language,
		DocumentContext:   doccontext.Classify(normalized),
	}
	return spans, meta, nil
}

// resolveLanguage substitutes recognize.DefaultLanguage for any language the
// recognizer stack cannot serve. Per §7, LANGUAGE_UNSUPPORTED is never
// raised to the caller: the core falls back to Italian and records
// language_fallback=true instead of failing the document.
func (o *Orchestrator) resolveLanguage(language string) (resolved string, fellBack bool) {
	if recognize.IsSupported(language) {
		return language, false
	}
	o.log.Warnf("RECOGNIZE", "language %q not supported, falling back to %q", language, recognize.DefaultLanguage)
	return recognize.DefaultLanguage, true
}

// ProcessDocument runs the full §4.10 state machine for one document:
// RECEIVED → NORMALIZED → CACHE_LOOKUP → {HIT → DONE, MISS → DETECTING →
// FILTERING → SCORING → REWRITING → CACHED → DONE}, with any stage able to
// fail into FAILED. It never lets a panic or bare error escape: every
// failure path returns a PipelineResult carrying a closed ErrorKind.
func (o *Orchestrator) ProcessDocument(ctx context.Context, text string, opts DetectOptions) (result domain.PipelineResult) {
	start := time.Now()
	prof := profiler.New(false)

	defer func() {
		if r := recover(); r != nil {
			result = domain.PipelineResult{
				OriginalText:     text,
				AnonymizedText:   text,
				Success:          false,
				ErrorKind:        domain.ErrInternal,
				ErrorMessage:     fmt.Sprintf("panic: %v", r),
				ProcessingTimeMs: time.Since(start).Milliseconds(),
			}
		}
		o.m.DocumentsTotal.Add(1)
		if result.Success {
			o.m.DocumentsSucceeded.Add(1)
		} else {
			o.m.DocumentsFailed.Add(1)
		}
		o.m.RecordDocumentLatency(time.Since(start))
		o.emitAudit(result)
	}()

	timeout := time.Duration(o.cfg.PerDocTimeoutSeconds) * time.Second
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	end := prof.Start("normalize")
	normalized := normalize.Text(text)
	end()

	language := opts.Language
	if language == "" {
		language = recognize.DetectLanguage(normalized)
	}
	language, languageFallback := o.resolveLanguage(language)

	fingerprint, err := cache.Fingerprint(normalized, o.cfg.DefaultRecognizer, o.fingerprintConfig())
	if err != nil {
		return o.failure(text, start, domain.ErrInternal, fmt.Sprintf("compute fingerprint: %v", err))
	}

	end = prof.Start("cache_lookup")
	entry, hit := o.cache.Get(ctx, fingerprint)
	end()
	if hit {
		o.m.CacheL1Hits.Add(1)
		return domain.PipelineResult{
			OriginalText:     text,
			AnonymizedText:   entry.AnonymizedText,
			Spans:            entry.Spans,
			Success:          true,
			ProcessingTimeMs: time.Since(start).Milliseconds(),
			Metadata: domain.ResultMetadata{
				Language:   entry.Language,
				CacheHitL1: true,
			},
		}
	}
	o.m.CacheMisses.Add(1)

	if ctx.Err() != nil {
		return o.failure(text, start, domain.ErrTimeout, "per-document timeout exceeded before detection")
	}

	end = prof.Start("detect")
	spans, fallbackTriggered, err := o.recognizeSpans(ctx, normalized, language)
	end()
	if err != nil {
		if ctx.Err() != nil {
			return o.failure(text, start, domain.ErrTimeout, "per-document timeout exceeded during detection")
		}
		return o.failure(text, start, domain.ErrDetection, err.Error())
	}
	o.m.SpansDetected.Add(int64(len(spans)))

	end = prof.Start("filter")
	spans = filters.Chain(spans, normalized)
	end()

	end = prof.Start("score")
	spans = confidence.ScoreAll(spans)
	threshold := opts.ConfidenceThreshold
	if threshold == 0 {
		threshold = o.cfg.ConfidenceThreshold
	}
	spans = recognize.ApplyConfidenceFloor(spans, threshold)
	end()

	end = prof.Start("rewrite")
	strat := o.buildStrategy()
	spans = strategy.Annotate(strat, spans)
	anonymized := rewrite.Splice(normalized, spans)
	end()
	o.m.SpansReplaced.Add(int64(len(spans)))

	docCtx := doccontext.Classify(normalized)
	result = domain.PipelineResult{
		OriginalText:     text,
		AnonymizedText:   anonymized,
		Spans:            spans,
		Success:          true,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
		Metadata: domain.ResultMetadata{
			PrimaryRecognizer: o.cfg.DefaultRecognizer,
			FallbackTriggered: fallbackTriggered,
			LanguageFallback:  languageFallback,
			Language:          language,
			DocumentContext:   docCtx,
		},
	}

	o.cache.Set(ctx, fingerprint, domain.CacheEntry{
		Spans:          spans,
		AnonymizedText: anonymized,
		Language:       language,
		CreatedAtUnix:  time.Now().Unix(),
	})

	return result
}

// failure builds a non-destructive failed PipelineResult: anonymized text
// always equals the original, per §7's requirement that the pipeline never
// destroys input on error.
func (o *Orchestrator) failure(text string, start time.Time, kind domain.ErrorKind, msg string) domain.PipelineResult {
	return domain.PipelineResult{
		OriginalText:     text,
		AnonymizedText:   text,
		Success:          false,
		ErrorKind:        kind,
		ErrorMessage:     msg,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

// recognizeSpans runs the pattern recognizer (always) plus the NER
// recognizer bound to language, merging the two. language is assumed
// already resolved by resolveLanguage — this never sees an unsupported
// code. On NER error, or on a suspiciously empty result for a large
// document, it falls back to pattern-only detection and reports that the
// fallback engaged — the Go realization of §4.10's "on error or
// empty-large-document, run fallback recognizer".
func (o *Orchestrator) recognizeSpans(ctx context.Context, normalized, language string) (domain.SpanSet, bool, error) {
	patternSpans := recognize.DetectPatterns(normalized)

	nerSpans, err := o.ner.Detect(ctx, normalized, language)
	fallback := false
	if err != nil {
		o.m.RecognizerErrors.Add(1)
		o.m.RecognizerFallbacks.Add(1)
		o.log.Warnf("RECOGNIZE", "ner detect failed, falling back to pattern-only: %v", err)
		return recognize.Merge(patternSpans), true, nil
	}
	if len(nerSpans) == 0 && len(normalized) > o.cfg.LargeThreshold {
		o.m.RecognizerFallbacks.Add(1)
		fallback = true
		o.log.Warnf("RECOGNIZE", "empty ner result on large document (%d bytes), proceeding pattern-only", len(normalized))
	}

	return recognize.Merge(patternSpans, nerSpans), fallback, nil
}

// buildStrategy constructs a fresh replacement strategy for one document
// call, wrapped in the consistency layer when configured. Per §5, strategy
// instances and their consistency maps must never be shared across
// concurrent document tasks — a fresh value every call satisfies that by
// construction.
func (o *Orchestrator) buildStrategy() strategy.Strategy {
	cfg := strategy.DefaultConfig()
	cfg.Locale = o.cfg.SyntheticLocale
	cfg.HashAlgorithm = o.cfg.HashAlgorithm
	cfg.HashTruncate = o.cfg.HashTruncate

	base := strategy.New(o.cfg.ReplacementStrategy, cfg)
	if o.cfg.ReplacementConsistent {
		return strategy.NewConsistent(base)
	}
	return base
}

// fingerprintConfig is the semantic configuration surface hashed into the
// cache key: anything that changes the shape of a detection/replacement
// run must appear here, per §4.9's correctness requirement.
func (o *Orchestrator) fingerprintConfig() map[string]any {
	return map[string]any{
		"confidenceThreshold": o.cfg.ConfidenceThreshold,
		"meetsThreshold":      o.cfg.MeetsThreshold,
		"replacementStrategy": o.cfg.ReplacementStrategy,
		"consistent":          o.cfg.ReplacementConsistent,
		"syntheticLocale":     o.cfg.SyntheticLocale,
		"hashAlgorithm":       o.cfg.HashAlgorithm,
		"hashTruncate":        o.cfg.HashTruncate,
	}
}

// emitAudit fires the audit record for result on a detached goroutine,
// swallowing any sink error — fire-and-forget per §4.10 step 5.
func (o *Orchestrator) emitAudit(result domain.PipelineResult) {
	record := domain.AuditRecord{
		EngineVersion:    EngineVersion,
		Language:         result.Metadata.Language,
		LanguageFallback: result.Metadata.LanguageFallback,
		DocumentKind:     result.Metadata.DocumentContext.DocumentKind,
		Success:          result.Success,
		ErrorKind:        result.ErrorKind,
		ProcessingTimeMs: result.ProcessingTimeMs,
		CreatedAtUnix:    time.Now().Unix(),
	}
	for _, s := range result.Spans {
		record.Spans = append(record.Spans, domain.SpanAuditRecord{
			Kind:                s.Kind,
			Start:               s.Start,
			End:                 s.End,
			Confidence:          s.Confidence,
			ReplacementStrategy: o.cfg.ReplacementStrategy,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := o.sink.Emit(ctx, record); err != nil {
			o.log.Warnf("AUDIT", "sink emit failed: %v", err)
		}
	}()
}

// ProcessBatch processes documents concurrently under a semaphore of size
// maxConcurrent (0 uses the configured default), preserving result order by
// writing into a preallocated slice by index rather than by append — the
// hard correctness requirement §4.10/§5 both name.
func (o *Orchestrator) ProcessBatch(ctx context.Context, documents []Document, maxConcurrent int) domain.BatchResult {
	start := time.Now()
	if maxConcurrent < 1 {
		maxConcurrent = o.cfg.MaxConcurrent
	}
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	results := make([]domain.PipelineResult, len(documents))
	sem := make(chan struct{}, maxConcurrent)

	g, gctx := errgroup.WithContext(ctx)
	for i, doc := range documents {
		i, doc := i, doc
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return nil
			}
			defer func() { <-sem }()

			results[i] = o.ProcessDocument(gctx, doc.Text, DetectOptions{Language: doc.Language})
			return nil
		})
	}
	_ = g.Wait() // ProcessDocument never returns an error; it encodes failure in the result

	var successful, failed, totalEntities int
	for _, r := range results {
		if r.Success {
			successful++
			totalEntities += len(r.Spans)
		} else {
			failed++
		}
	}

	o.m.BatchesTotal.Add(1)
	return domain.BatchResult{
		Results:           results,
		TotalDocuments:    len(documents),
		Successful:        successful,
		Failed:            failed,
		TotalEntities:     totalEntities,
		TotalProcessingMs: time.Since(start).Milliseconds(),
	}
}

// CacheStats exposes the cache manager's advisory counters, per §6's
// cache_stats operation.
func (o *Orchestrator) CacheStats(ctx context.Context) cache.Stats {
	return o.cache.Stats(ctx)
}
