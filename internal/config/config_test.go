package config

import (
	"encoding/json"
	"os"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := defaults()

	if cfg.HTTPPort != 8090 {
		t.Errorf("HTTPPort: got %d, want 8090", cfg.HTTPPort)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel: got %s", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat: got %s, want text", cfg.LogFormat)
	}
	if cfg.DefaultRecognizer != "presidio" {
		t.Errorf("DefaultRecognizer: got %s", cfg.DefaultRecognizer)
	}
	if cfg.FallbackRecognizer != "spacy" {
		t.Errorf("FallbackRecognizer: got %s", cfg.FallbackRecognizer)
	}
	if cfg.ConfidenceThreshold != 0.7 {
		t.Errorf("ConfidenceThreshold: got %f, want 0.7", cfg.ConfidenceThreshold)
	}
	if !cfg.CacheEnabled {
		t.Error("CacheEnabled should default to true")
	}
	if cfg.CacheL1MaxSize != 1000 {
		t.Errorf("CacheL1MaxSize: got %d, want 1000", cfg.CacheL1MaxSize)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr: got %s, want empty (L2 disabled by default)", cfg.RedisAddr)
	}
	if cfg.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent: got %d, want 10", cfg.MaxConcurrent)
	}
	if cfg.PerDocTimeoutSeconds != 300 {
		t.Errorf("PerDocTimeoutSeconds: got %d, want 300", cfg.PerDocTimeoutSeconds)
	}
	if cfg.ReplacementStrategy != "deterministic" {
		t.Errorf("ReplacementStrategy: got %s", cfg.ReplacementStrategy)
	}
	if !cfg.ReplacementConsistent {
		t.Error("ReplacementConsistent should default to true")
	}
	if cfg.MaxBatchSize != 32 {
		t.Errorf("MaxBatchSize: got %d, want 32", cfg.MaxBatchSize)
	}
	if !cfg.AdaptiveBatches {
		t.Error("AdaptiveBatches should default to true")
	}
}

func TestLoadEnv_HTTPPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.HTTPPort != 9090 {
		t.Errorf("HTTPPort: got %d, want 9090", cfg.HTTPPort)
	}
}

func TestLoadEnv_DefaultRecognizer(t *testing.T) {
	t.Setenv("DEFAULT_RECOGNIZER", "spacy")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.DefaultRecognizer != "spacy" {
		t.Errorf("DefaultRecognizer: got %s", cfg.DefaultRecognizer)
	}
}

func TestLoadEnv_NEREndpoint(t *testing.T) {
	t.Setenv("NER_ENDPOINT", "http://remote:8501/ner")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.NEREndpoint != "http://remote:8501/ner" {
		t.Errorf("NEREndpoint: got %s", cfg.NEREndpoint)
	}
}

func TestLoadEnv_ConfidenceThreshold(t *testing.T) {
	t.Setenv("CONFIDENCE_THRESHOLD", "0.9")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.ConfidenceThreshold != 0.9 {
		t.Errorf("ConfidenceThreshold: got %f, want 0.9", cfg.ConfidenceThreshold)
	}
}

func TestLoadEnv_DisableCache(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.CacheEnabled {
		t.Error("CacheEnabled should be false")
	}
}

func TestLoadEnv_RedisAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr: got %s", cfg.RedisAddr)
	}
}

func TestLoadEnv_MaxConcurrent(t *testing.T) {
	t.Setenv("MAX_CONCURRENT", "4")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.MaxConcurrent != 4 {
		t.Errorf("MaxConcurrent: got %d, want 4", cfg.MaxConcurrent)
	}
}

func TestLoadEnv_MaxConcurrent_Zero_Ignored(t *testing.T) {
	t.Setenv("MAX_CONCURRENT", "0")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.MaxConcurrent != 10 {
		t.Errorf("MaxConcurrent: got %d, want 10 (zero should be ignored)", cfg.MaxConcurrent)
	}
}

func TestLoadEnv_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %s", cfg.LogLevel)
	}
}

func TestLoadEnv_LogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "json")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat: got %s", cfg.LogFormat)
	}
}

func TestLoadEnv_ReplacementStrategy(t *testing.T) {
	t.Setenv("REPLACEMENT_STRATEGY", "synthetic")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.ReplacementStrategy != "synthetic" {
		t.Errorf("ReplacementStrategy: got %s", cfg.ReplacementStrategy)
	}
}

func TestLoadEnv_ReplacementConsistent_Disabled(t *testing.T) {
	t.Setenv("REPLACEMENT_CONSISTENT", "false")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.ReplacementConsistent {
		t.Error("ReplacementConsistent should be false")
	}
}

func TestLoadEnv_HashAlgorithm(t *testing.T) {
	t.Setenv("HASH_ALGORITHM", "sha1")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.HashAlgorithm != "sha1" {
		t.Errorf("HashAlgorithm: got %s", cfg.HashAlgorithm)
	}
}

func TestLoadEnv_MaxBatchSize(t *testing.T) {
	t.Setenv("MAX_BATCH_SIZE", "64")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.MaxBatchSize != 64 {
		t.Errorf("MaxBatchSize: got %d, want 64", cfg.MaxBatchSize)
	}
}

func TestLoadEnv_AdaptiveBatches_Disabled(t *testing.T) {
	t.Setenv("ADAPTIVE_BATCHES", "false")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.AdaptiveBatches {
		t.Error("AdaptiveBatches should be false")
	}
}

func TestLoadEnv_ManagementToken(t *testing.T) {
	t.Setenv("MANAGEMENT_TOKEN", "secret-token")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.ManagementToken != "secret-token" {
		t.Errorf("ManagementToken: got %s", cfg.ManagementToken)
	}
}

func TestLoadEnv_AuditContextMaxChars(t *testing.T) {
	t.Setenv("AUDIT_CONTEXT_MAX_CHARS", "400")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.AuditContextMaxChars != 400 {
		t.Errorf("AuditContextMaxChars: got %d, want 400", cfg.AuditContextMaxChars)
	}
}

func TestLoadEnv_InvalidPort_Ignored(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")
	cfg := defaults()
	loadEnv(cfg)
	if cfg.HTTPPort != 8090 {
		t.Errorf("HTTPPort: got %d, want 8090 (invalid env should be ignored)", cfg.HTTPPort)
	}
}

func TestLoadFile_ValidJSON(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	if err != nil {
		t.Fatal(err)
	}

	data, marshalErr := json.Marshal(map[string]any{
		"httpPort":            9999,
		"replacementStrategy": "hash",
		"cacheEnabled":        false,
	})
	if marshalErr != nil {
		t.Fatal(marshalErr)
	}
	if _, err := f.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := defaults()
	loadFile(cfg, f.Name())

	if cfg.HTTPPort != 9999 {
		t.Errorf("HTTPPort: got %d, want 9999", cfg.HTTPPort)
	}
	if cfg.ReplacementStrategy != "hash" {
		t.Errorf("ReplacementStrategy: got %s", cfg.ReplacementStrategy)
	}
	if cfg.CacheEnabled {
		t.Error("CacheEnabled should be false after file load")
	}
}

func TestLoadFile_Missing_IsNoOp(t *testing.T) {
	cfg := defaults()
	loadFile(cfg, "/nonexistent/path/config.json")
	if cfg.HTTPPort != 8090 {
		t.Errorf("HTTPPort changed unexpectedly: %d", cfg.HTTPPort)
	}
}

func TestLoadFile_InvalidJSON_PreservesDefaults(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "config-bad-*.json")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{this is not json}"); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	cfg := defaults()
	loadFile(cfg, f.Name())
	if cfg.HTTPPort != 8090 {
		t.Errorf("HTTPPort changed on bad JSON: %d", cfg.HTTPPort)
	}
}

func TestLoad_ReturnsNonNil(t *testing.T) {
	cfg := Load()
	if cfg == nil {
		t.Fatal("Load() returned nil")
	}
	if cfg.HTTPPort <= 0 {
		t.Errorf("HTTPPort should be positive, got %d", cfg.HTTPPort)
	}
}
