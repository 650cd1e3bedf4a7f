package cache

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"legal-anonymizer/internal/domain"
	"legal-anonymizer/internal/logger"
)

// Stats mirrors the advisory counters §4.9 names.
type Stats struct {
	L1Hits      int64
	L2Hits      int64
	Misses      int64
	L1Sets      int64
	L2Sets      int64
	L1Size      int
	L1MaxSize   int
	L2Connected bool
}

// HitRatePct returns the hit rate as a percentage, 0 when there have been
// no lookups yet.
func (s Stats) HitRatePct() float64 {
	total := s.L1Hits + s.L2Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.L1Hits+s.L2Hits) / float64(total) * 100
}

// Manager is the two-tier cache manager: an in-process L1 and a
// distributed L2. L2 failures are recovered locally and never fail an
// operation, per §4.9's failure mode — the manager always remains usable
// from L1 alone even if L2 was never reachable.
//
// go-redis/v9 fills the L2 role here instead of the teacher's own bbolt
// store: bbolt is an embedded, single-process file store and cannot serve
// as the cross-instance, "distributed" tier §4.9 requires — a different
// technology for a different job, not a style choice.
type Manager struct {
	l1  *l1Cache
	rdb *redis.Client
	ttl time.Duration
	log *logger.Logger

	l1Hits, l2Hits, misses, l1Sets, l2Sets int64
}

// Config configures the manager's two tiers.
type Config struct {
	L1MaxSize int
	TTL       time.Duration
	RedisAddr string // empty disables L2
}

// New builds a Manager. When cfg.RedisAddr is empty, L2 is disabled and the
// manager serves from L1 only.
func New(cfg Config, log *logger.Logger) *Manager {
	m := &Manager{
		l1:  newL1Cache(cfg.L1MaxSize, cfg.TTL),
		ttl: cfg.TTL,
		log: log,
	}
	if cfg.RedisAddr != "" {
		m.rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	}
	return m
}

// Fingerprint computes the cache key for normalizedText detected by
// recognizerID under config, per §6: the first 16 lowercase hex characters
// of sha256(normalized_text || "|" || recognizer_id || "|" || config_hash).
func Fingerprint(normalizedText, recognizerID string, config any) (domain.CacheKey, error) {
	configHash, err := ConfigHash(config)
	if err != nil {
		return domain.CacheKey{}, err
	}
	sum := sha256.Sum256([]byte(normalizedText + "|" + recognizerID + "|" + configHash))
	return domain.CacheKey{
		Fingerprint: hex.EncodeToString(sum[:])[:16],
		ConfigHash:  configHash,
	}, nil
}

// ConfigHash returns the 8-hex-character md5 prefix of the canonical
// (key-sorted, whitespace-free) JSON encoding of config. Any change in how
// config serializes changes the hash, which is the point: two different
// configurations must never share a fingerprint.
func ConfigHash(config any) (string, error) {
	canon, err := canonicalJSON(config)
	if err != nil {
		return "", err
	}
	sum := md5.Sum(canon) //nolint:gosec // fingerprinting, not a security boundary
	return hex.EncodeToString(sum[:])[:8], nil
}

// canonicalJSON marshals v to JSON with object keys sorted, by round
// tripping through a generic map — encoding/json already sorts map keys on
// marshal, so decoding into map[string]any and re-encoding yields a
// canonical form for any JSON-shaped config value.
func canonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, err
	}
	return marshalSorted(generic)
}

func marshalSorted(v any) ([]byte, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return json.Marshal(v)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	buf := []byte{'{'}
	for i, k := range keys {
		if i > 0 {
			buf = append(buf, ',')
		}
		kb, _ := json.Marshal(k)
		buf = append(buf, kb...)
		buf = append(buf, ':')
		vb, err := marshalSorted(m[k])
		if err != nil {
			return nil, err
		}
		buf = append(buf, vb...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// Get returns the entry for key, checking L1 then L2. An L2 hit populates
// L1 before returning.
func (m *Manager) Get(ctx context.Context, key domain.CacheKey) (domain.CacheEntry, bool) {
	raw, ok := m.l1.get(key.String())
	if ok {
		m.l1Hits++
		var entry domain.CacheEntry
		if err := json.Unmarshal(raw, &entry); err == nil {
			return entry, true
		}
	}

	if m.rdb == nil {
		m.misses++
		return domain.CacheEntry{}, false
	}

	raw, err := m.rdb.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			m.log.Warnf("CACHE_GET", "l2 unavailable: %v", err)
		}
		m.misses++
		return domain.CacheEntry{}, false
	}

	var entry domain.CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		m.log.Warnf("CACHE_GET", "l2 payload corrupt for %s: %v", key, err)
		m.misses++
		return domain.CacheEntry{}, false
	}
	m.l2Hits++
	m.l1.set(key.String(), raw)
	return entry, true
}

// Set writes entry to both tiers. L2 failures are logged and swallowed;
// L1 writes always succeed.
func (m *Manager) Set(ctx context.Context, key domain.CacheKey, entry domain.CacheEntry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		m.log.Warnf("CACHE_SET", "marshal entry for %s: %v", key, err)
		return
	}

	m.l1.set(key.String(), raw)
	m.l1Sets++

	if m.rdb == nil {
		return
	}
	if err := m.rdb.Set(ctx, key.String(), raw, m.ttl).Err(); err != nil {
		m.log.Warnf("CACHE_SET", "l2 unavailable: %v", err)
		return
	}
	m.l2Sets++
}

// Invalidate removes key from both tiers. L2 errors are logged and
// swallowed.
func (m *Manager) Invalidate(ctx context.Context, key domain.CacheKey) {
	m.l1.delete(key.String())
	if m.rdb == nil {
		return
	}
	if err := m.rdb.Del(ctx, key.String()).Err(); err != nil {
		m.log.Warnf("CACHE_INVALIDATE", "l2 unavailable: %v", err)
	}
}

// ClearAll empties L1 and prefix-deletes every key under "privacy:*" in L2.
func (m *Manager) ClearAll(ctx context.Context) {
	m.l1.clear()
	if m.rdb == nil {
		return
	}
	iter := m.rdb.Scan(ctx, 0, "privacy:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := m.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			m.log.Warnf("CACHE_CLEAR", "l2 delete %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		m.log.Warnf("CACHE_CLEAR", "l2 scan: %v", err)
	}
}

// Stats returns a snapshot of the cache manager's advisory counters.
func (m *Manager) Stats(ctx context.Context) Stats {
	connected := false
	if m.rdb != nil {
		connected = m.rdb.Ping(ctx).Err() == nil
	}
	return Stats{
		L1Hits:      m.l1Hits,
		L2Hits:      m.l2Hits,
		Misses:      m.misses,
		L1Sets:      m.l1Sets,
		L2Sets:      m.l2Sets,
		L1Size:      m.l1.size(),
		L1MaxSize:   m.l1.capacity,
		L2Connected: connected,
	}
}
