// Command anonymizer runs the legal-document PII detection and
// anonymization engine as an HTTP service.
//
// Usage:
//
//	./anonymizer
//
//	# Custom port, external NER sidecar, Redis-backed L2 cache
//	HTTP_PORT=9090 NER_ENDPOINT=http://ner:8501/ner REDIS_ADDR=localhost:6379 ./anonymizer
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"legal-anonymizer/internal/cache"
	"legal-anonymizer/internal/config"
	"legal-anonymizer/internal/httpapi"
	"legal-anonymizer/internal/logger"
	"legal-anonymizer/internal/metrics"
	"legal-anonymizer/internal/orchestrator"
	"legal-anonymizer/internal/recognize"
)

func main() {
	cfg := config.Load()
	log := logger.New("MAIN", cfg.LogLevel)

	printBanner(cfg)

	m := metrics.New()

	cacheTTL := time.Duration(cfg.CacheTTLSec) * time.Second
	redisAddr := cfg.RedisAddr
	if !cfg.CacheEnabled {
		redisAddr = ""
	}
	cacheMgr := cache.New(cache.Config{
		L1MaxSize: cfg.CacheL1MaxSize,
		TTL:       cacheTTL,
		RedisAddr: redisAddr,
	}, logger.New("CACHE", cfg.LogLevel))

	nerClient := recognize.NewNERClient(cfg.NEREndpoint)

	orch := orchestrator.New(cfg, cacheMgr, nerClient, m, logger.New("ORCHESTRATOR", cfg.LogLevel), orchestrator.NullSink{})

	api := httpapi.New(cfg, orch, m, httpapiLogger(cfg))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Infof("MAIN", "listening on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("MAIN", "shutting down…")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("MAIN", "shutdown error: %v", err)
		}
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("MAIN", "fatal: %v", err)
	}
}

func printBanner(cfg *config.Config) {
	fmt.Printf(`
╔══════════════════════════════════════════════════════╗
║       Legal Document Anonymization Engine (Go)       ║
╚══════════════════════════════════════════════════════╝
  HTTP port         : %d
  Default recognizer: %s
  Fallback recognizer: %s
  NER endpoint       : %s
  Replacement        : %s (consistent=%v)
  Cache              : L1 size=%d, L2=%s
  Max concurrent docs: %d

  Check health:
    curl http://localhost:%d/health
`, cfg.HTTPPort, cfg.DefaultRecognizer, cfg.FallbackRecognizer, cfg.NEREndpoint,
		cfg.ReplacementStrategy, cfg.ReplacementConsistent,
		cfg.CacheL1MaxSize, redisDescription(cfg),
		cfg.MaxConcurrent, cfg.HTTPPort)
}

func redisDescription(cfg *config.Config) string {
	if cfg.RedisAddr == "" {
		return "disabled"
	}
	return cfg.RedisAddr
}

// httpapiLogger builds the HTTPAPI module's logger in JSON-line mode when
// cfg.LogFormat requests it, so the API's audit trail can be shipped to a
// log collector instead of read as columns on a terminal.
func httpapiLogger(cfg *config.Config) *logger.Logger {
	if strings.EqualFold(cfg.LogFormat, "json") {
		return logger.NewJSON("HTTPAPI", cfg.LogLevel)
	}
	return logger.New("HTTPAPI", cfg.LogLevel)
}
