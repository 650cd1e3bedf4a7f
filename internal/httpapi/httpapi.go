// Package httpapi exposes the anonymization engine over HTTP.
//
// Endpoints:
//
//	POST /v1/detect     - {"text","language"}            -> detected spans, no rewrite
//	POST /v1/anonymize  - {"text","language"}             -> anonymized text + spans
//	POST /v1/batch      - {"documents":[...],"maxConcurrent"} -> ordered batch results
//	GET  /v1/config     - the running engine's configuration
//	GET  /v1/languages  - supported language codes
//	GET  /health        - liveness + cache/metrics snapshot
//
// The mux/bearer-auth/writeJSON shape is the teacher's internal/management
// server generalized from domain-registry administration to document
// anonymization: same auth middleware, same JSON envelope helper, endpoints
// renamed and re-bodied for this domain.
package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"legal-anonymizer/internal/config"
	"legal-anonymizer/internal/domain"
	"legal-anonymizer/internal/logger"
	"legal-anonymizer/internal/metrics"
	"legal-anonymizer/internal/orchestrator"
	"legal-anonymizer/internal/recognize"
)

// Server is the anonymization engine's HTTP API server.
type Server struct {
	cfg       *config.Config
	orch      *orchestrator.Orchestrator
	metrics   *metrics.Metrics
	log       *logger.Logger
	token     string // bearer token for auth; empty = no auth
	startTime time.Time
}

// New creates an httpapi Server bound to a running orchestrator.
func New(cfg *config.Config, orch *orchestrator.Orchestrator, m *metrics.Metrics, log *logger.Logger) *Server {
	s := &Server{cfg: cfg, orch: orch, metrics: m, log: log, token: cfg.ManagementToken, startTime: time.Now()}
	if s.token != "" {
		s.log.Info("AUTH", "bearer token authentication enabled")
	}
	return s
}

// Handler returns the HTTP handler for the full API surface.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/detect", s.handleDetect)
	mux.HandleFunc("/v1/anonymize", s.handleAnonymize)
	mux.HandleFunc("/v1/batch", s.handleBatch)
	mux.HandleFunc("/v1/config", s.handleConfig)
	mux.HandleFunc("/v1/languages", s.handleLanguages)
	return s.authMiddleware(mux)
}

// authMiddleware checks for a valid Bearer token if one is configured.
// /health is always reachable, unauthenticated, so load balancers can
// probe liveness without a credential.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" || r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) ||
			subtle.ConstantTimeCompare([]byte(strings.TrimSpace(auth[len(prefix):])), []byte(s.token)) != 1 {
			s.log.Warnf("AUTH", "unauthorized access attempt from %s to %s", r.RemoteAddr, r.URL.Path)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// maxBodyBytes bounds request bodies this API will decode, protecting the
// process from unbounded memory growth on a malicious or malformed client.
const maxBodyBytes = 10 << 20 // 10 MiB

type detectRequest struct {
	Text                string  `json:"text"`
	Language            string  `json:"language"`
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
}

type detectResponse struct {
	Spans    domain.SpanSet          `json:"spans"`
	Metadata domain.ResultMetadata   `json:"metadata"`
}

func (s *Server) handleDetect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req detectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, `invalid request: need {"text":"...","language":"..."}`, http.StatusBadRequest)
		return
	}

	spans, meta, err := s.orch.Detect(r.Context(), req.Text, orchestrator.DetectOptions{
		Language:            req.Language,
		ConfidenceThreshold:  req.ConfidenceThreshold,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detectResponse{Spans: spans, Metadata: meta})
}

type anonymizeRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (s *Server) handleAnonymize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req anonymizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		http.Error(w, `invalid request: need {"text":"...","language":"..."}`, http.StatusBadRequest)
		return
	}

	result := s.orch.ProcessDocument(r.Context(), req.Text, orchestrator.DetectOptions{Language: req.Language})
	writeJSON(w, http.StatusOK, result)
}

type batchRequestDoc struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

type batchRequest struct {
	Documents     []batchRequestDoc `json:"documents"`
	MaxConcurrent int               `json:"maxConcurrent"`
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Documents) == 0 {
		http.Error(w, `invalid request: need {"documents":[{"text":"..."}]}`, http.StatusBadRequest)
		return
	}
	if len(req.Documents) > s.cfg.MaxBatchSize {
		http.Error(w, "batch exceeds maxBatchSize", http.StatusBadRequest)
		return
	}

	docs := make([]orchestrator.Document, len(req.Documents))
	for i, d := range req.Documents {
		id := d.ID
		if id == "" {
			id = uuid.NewString()
		}
		docs[i] = orchestrator.Document{ID: id, Text: d.Text, Language: d.Language}
	}

	maxConcurrent := req.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = s.cfg.MaxConcurrent
	}

	result := s.orch.ProcessBatch(r.Context(), docs, maxConcurrent)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleLanguages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"languages": recognize.SupportedLanguages()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	type response struct {
		Status     string           `json:"status"`
		Uptime     string           `json:"uptime"`
		CacheStats any              `json:"cache"`
		Metrics    metrics.Snapshot `json:"metrics"`
	}
	resp := response{
		Status: "running",
		Uptime: time.Since(s.startTime).Round(time.Second).String(),
	}
	resp.CacheStats = s.orch.CacheStats(r.Context())
	if s.metrics != nil {
		resp.Metrics = s.metrics.Snapshot()
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeError maps a domain.PipelineError to an HTTP status and writes the
// JSON error envelope; any other error is reported as 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	kind := domain.ErrInternal
	status := http.StatusInternalServerError
	var pipeErr *domain.PipelineError
	if errors.As(err, &pipeErr) {
		kind = pipeErr.Kind
		status = statusForKind(kind)
	}
	writeJSON(w, status, map[string]string{"error": string(kind), "message": err.Error()})
}

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrLanguageUnsupported, domain.ErrValidation:
		return http.StatusBadRequest
	case domain.ErrTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ListenAndServe starts the HTTP API server.
func (s *Server) ListenAndServe(addr string) error {
	s.log.Infof("HTTP", "listening on %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
