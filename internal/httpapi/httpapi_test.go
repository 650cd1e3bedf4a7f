package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"legal-anonymizer/internal/cache"
	"legal-anonymizer/internal/config"
	"legal-anonymizer/internal/domain"
	"legal-anonymizer/internal/logger"
	"legal-anonymizer/internal/metrics"
	"legal-anonymizer/internal/orchestrator"
	"legal-anonymizer/internal/recognize"
)

func emptyNERServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"entities": []any{}})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testServer(t *testing.T, token string) *Server {
	t.Helper()
	ner := emptyNERServer(t)

	cfg := &config.Config{
		DefaultRecognizer:     "presidio",
		FallbackRecognizer:    "spacy",
		ConfidenceThreshold:   0.7,
		MeetsThreshold:        0.6,
		MaxConcurrent:         4,
		PerDocTimeoutSeconds:  5,
		ReplacementStrategy:   "deterministic",
		ReplacementConsistent: true,
		SyntheticLocale:       "it_IT",
		HashAlgorithm:         "sha256",
		HashTruncate:          16,
		MaxBatchSize:          32,
		SmallThreshold:        500,
		LargeThreshold:        2000,
		AdaptiveBatches:       true,
		ManagementToken:       token,
	}

	cacheMgr := cache.New(cache.Config{L1MaxSize: 100, TTL: time.Hour}, logger.New("CACHE", "error"))
	nerClient := recognize.NewNERClient(ner.URL)
	m := metrics.New()
	log := logger.New("HTTPAPI", "error")
	orch := orchestrator.New(cfg, cacheMgr, nerClient, m, log, nil)

	return New(cfg, orch, m, log)
}

func doRequest(t *testing.T, s *Server, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth_NoAuthRequired(t *testing.T) {
	s := testServer(t, "secret")
	rec := doRequest(t, s, http.MethodGet, "/health", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuth_RejectsMissingToken(t *testing.T) {
	s := testServer(t, "secret")
	rec := doRequest(t, s, http.MethodPost, "/v1/anonymize", anonymizeRequest{Text: "hi", Language: "it"}, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_AcceptsValidToken(t *testing.T) {
	s := testServer(t, "secret")
	rec := doRequest(t, s, http.MethodPost, "/v1/anonymize", anonymizeRequest{Text: "Mario Rossi", Language: "it"}, "secret")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDetect_ReturnsSpans(t *testing.T) {
	s := testServer(t, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/detect", detectRequest{Text: "Il codice fiscale RSSMRA85M01H501Q.", Language: "it"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Spans) == 0 {
		t.Error("expected at least one detected span")
	}
}

func TestAnonymize_InvalidBodyRejected(t *testing.T) {
	s := testServer(t, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/anonymize", anonymizeRequest{Text: "", Language: "it"}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty text, got %d", rec.Code)
	}
}

func TestDetect_UnsupportedLanguageFallsBackToItalian(t *testing.T) {
	s := testServer(t, "")
	rec := doRequest(t, s, http.MethodPost, "/v1/detect", detectRequest{Text: "hello", Language: "xx"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for an unsupported language (falls back, never fails), got %d: %s", rec.Code, rec.Body.String())
	}
	var resp detectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Metadata.LanguageFallback {
		t.Error("expected metadata.languageFallback=true for an unsupported language")
	}
	if resp.Metadata.Language != recognize.DefaultLanguage {
		t.Errorf("metadata.language: got %s, want fallback %s", resp.Metadata.Language, recognize.DefaultLanguage)
	}
}

func TestBatch_RejectsOversizeBatch(t *testing.T) {
	s := testServer(t, "")
	docs := make([]batchRequestDoc, 0, 33)
	for i := 0; i < 33; i++ {
		docs = append(docs, batchRequestDoc{ID: "x", Text: "testo", Language: "it"})
	}
	rec := doRequest(t, s, http.MethodPost, "/v1/batch", batchRequest{Documents: docs}, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversize batch, got %d", rec.Code)
	}
}

func TestBatch_ProcessesOrderedDocuments(t *testing.T) {
	s := testServer(t, "")
	docs := []batchRequestDoc{
		{ID: "1", Text: "Primo documento.", Language: "it"},
		{ID: "2", Text: "Secondo documento.", Language: "it"},
	}
	rec := doRequest(t, s, http.MethodPost, "/v1/batch", batchRequest{Documents: docs}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result domain.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if result.TotalDocuments != 2 {
		t.Errorf("TotalDocuments: got %d, want 2", result.TotalDocuments)
	}
}

func TestBatch_GeneratesIDForDocumentsMissingOne(t *testing.T) {
	s := testServer(t, "")
	docs := []batchRequestDoc{{Text: "Documento senza id.", Language: "it"}}
	rec := doRequest(t, s, http.MethodPost, "/v1/batch", batchRequest{Documents: docs}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result domain.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
}

func TestLanguages_ListsSupportedCodes(t *testing.T) {
	s := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/v1/languages", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body["languages"]) == 0 {
		t.Error("expected at least one supported language")
	}
}

func TestConfig_ReturnsRunningConfig(t *testing.T) {
	s := testServer(t, "")
	rec := doRequest(t, s, http.MethodGet, "/v1/config", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
