// Package config loads and holds all engine configuration. Settings are
// layered: defaults → anonymizer-config.json → environment variables (env
// vars win), the same three-stage discipline the original proxy config
// used.
package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds the full engine configuration, per the configuration
// surface in SPEC_FULL.md §6.
type Config struct {
	HTTPPort  int    `json:"httpPort"`
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"` // "text" or "json"; json is meant for the HTTP API's audit trail

	DefaultRecognizer  string `json:"defaultRecognizer"`
	FallbackRecognizer string `json:"fallbackRecognizer"`
	NEREndpoint        string `json:"nerEndpoint"`

	ConfidenceThreshold float64 `json:"confidenceThreshold"`
	MeetsThreshold      float64 `json:"meetsThreshold"`

	CacheEnabled   bool   `json:"cacheEnabled"`
	CacheTTLSec    int    `json:"cacheTtlSeconds"`
	CacheL1MaxSize int    `json:"cacheL1MaxSize"`
	RedisAddr      string `json:"redisAddr"`

	MaxConcurrent        int `json:"maxConcurrent"`
	PerDocTimeoutSeconds int `json:"perDocTimeoutSeconds"`

	ReplacementStrategy   string `json:"replacementStrategy"`
	ReplacementConsistent bool   `json:"replacementConsistent"`
	SyntheticLocale       string `json:"syntheticLocale"`
	HashAlgorithm         string `json:"hashAlgorithm"`
	HashTruncate          int    `json:"hashTruncate"`

	MaxBatchSize    int  `json:"maxBatchSize"`
	SmallThreshold  int  `json:"smallThreshold"`
	LargeThreshold  int  `json:"largeThreshold"`
	AdaptiveBatches bool `json:"adaptiveBatches"`

	ManagementToken string `json:"managementToken"`

	AuditContextMaxChars int `json:"auditContextMaxChars"`
}

// Load returns config with defaults overridden by anonymizer-config.json
// and environment variables.
func Load() *Config {
	cfg := defaults()
	loadFile(cfg, "anonymizer-config.json")
	loadEnv(cfg)
	return cfg
}

func defaults() *Config {
	return &Config{
		HTTPPort:  8090,
		LogLevel:  "info",
		LogFormat: "text",

		DefaultRecognizer:  "presidio",
		FallbackRecognizer: "spacy",
		NEREndpoint:        "http://localhost:8501/ner",

		ConfidenceThreshold: 0.7,
		MeetsThreshold:      0.6,

		CacheEnabled:   true,
		CacheTTLSec:    86400,
		CacheL1MaxSize: 1000,
		RedisAddr:      "",

		MaxConcurrent:        10,
		PerDocTimeoutSeconds: 300,

		ReplacementStrategy:   "deterministic",
		ReplacementConsistent: true,
		SyntheticLocale:       "it_IT",
		HashAlgorithm:         "sha256",
		HashTruncate:          16,

		MaxBatchSize:    32,
		SmallThreshold:  500,
		LargeThreshold:  2000,
		AdaptiveBatches: true,

		AuditContextMaxChars: 200,
	}
}

func loadFile(cfg *Config, path string) {
	data, err := os.ReadFile(path) //nolint:gosec // controlled config file path, not user input
	if err != nil {
		return // file is optional
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Printf("[CONFIG] Warning: could not parse %s: %v", path, err)
	} else {
		log.Printf("[CONFIG] Loaded %s", path)
	}
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HTTPPort = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("DEFAULT_RECOGNIZER"); v != "" {
		cfg.DefaultRecognizer = v
	}
	if v := os.Getenv("FALLBACK_RECOGNIZER"); v != "" {
		cfg.FallbackRecognizer = v
	}
	if v := os.Getenv("NER_ENDPOINT"); v != "" {
		cfg.NEREndpoint = v
	}
	if v := os.Getenv("CONFIDENCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.ConfidenceThreshold = f
		}
	}
	if v := os.Getenv("MEETS_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.MeetsThreshold = f
		}
	}
	if v := os.Getenv("CACHE_ENABLED"); v == "false" {
		cfg.CacheEnabled = false
	}
	if v := os.Getenv("CACHE_TTL_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheTTLSec = n
		}
	}
	if v := os.Getenv("CACHE_L1_MAX_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheL1MaxSize = n
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.RedisAddr = v
	}
	if v := os.Getenv("MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxConcurrent = n
		}
	}
	if v := os.Getenv("PER_DOC_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PerDocTimeoutSeconds = n
		}
	}
	if v := os.Getenv("REPLACEMENT_STRATEGY"); v != "" {
		cfg.ReplacementStrategy = v
	}
	if v := os.Getenv("REPLACEMENT_CONSISTENT"); v == "false" {
		cfg.ReplacementConsistent = false
	}
	if v := os.Getenv("SYNTHETIC_LOCALE"); v != "" {
		cfg.SyntheticLocale = v
	}
	if v := os.Getenv("HASH_ALGORITHM"); v != "" {
		cfg.HashAlgorithm = v
	}
	if v := os.Getenv("HASH_TRUNCATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.HashTruncate = n
		}
	}
	if v := os.Getenv("MAX_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxBatchSize = n
		}
	}
	if v := os.Getenv("SMALL_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.SmallThreshold = n
		}
	}
	if v := os.Getenv("LARGE_THRESHOLD"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.LargeThreshold = n
		}
	}
	if v := os.Getenv("ADAPTIVE_BATCHES"); v == "false" {
		cfg.AdaptiveBatches = false
	}
	if v := os.Getenv("MANAGEMENT_TOKEN"); v != "" {
		cfg.ManagementToken = v
	}
	if v := os.Getenv("AUDIT_CONTEXT_MAX_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AuditContextMaxChars = n
		}
	}
}
