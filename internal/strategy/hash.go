package strategy

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"

	"legal-anonymizer/internal/domain"
)

// Hash replaces a span with a truncated hex digest of its original text
// plus a salt, prefixed by a fixed label. No collision handling — per
// §4.7, acceptable for this domain.
type Hash struct {
	cfg Config
}

func NewHash(cfg Config) *Hash {
	return &Hash{cfg: cfg}
}

func (h *Hash) Replace(span domain.DetectedSpan) string {
	digest := h.digest(span.Text + h.cfg.HashSalt)

	truncate := h.cfg.HashTruncate
	if truncate > 0 && truncate < len(digest) {
		digest = digest[:truncate]
	}

	prefix := h.cfg.HashPrefix
	if prefix == "" {
		prefix = "HASH_"
	}
	return prefix + digest
}

func (h *Hash) digest(s string) string {
	switch h.cfg.HashAlgorithm {
	case "sha1":
		sum := sha1.Sum([]byte(s))
		return hex.EncodeToString(sum[:])
	case "md5":
		sum := md5.Sum([]byte(s))
		return hex.EncodeToString(sum[:])
	default:
		sum := sha256.Sum256([]byte(s))
		return hex.EncodeToString(sum[:])
	}
}
