// Package strategy implements C7: replacement strategies. Strategy is a
// closed interface with four variants (Deterministic, Synthetic, Redaction,
// Hash) plus a Consistent wrapper — a trait with a closed set of variants,
// not a class hierarchy, per the guidance on replacing abstract-base
// hierarchies with interfaces.
package strategy

import "legal-anonymizer/internal/domain"

// Strategy replaces a single detected span with a placeholder. ReplaceAll
// applies Replace to every span in a set, producing the rewritten text.
type Strategy interface {
	// Replace returns the placeholder text for span; the span is its only
	// input.
	Replace(span domain.DetectedSpan) string
}

// New constructs the named strategy with cfg.
// Unknown names fall back to Deterministic, matching the configuration
// surface's own default.
func New(name string, cfg Config) Strategy {
	switch name {
	case "synthetic":
		return NewSynthetic(cfg)
	case "redaction":
		return NewRedaction(cfg)
	case "hash":
		return NewHash(cfg)
	default:
		return NewDeterministic(cfg)
	}
}

// Config bundles the per-strategy knobs from §6's configuration surface.
// Fields unrelated to the selected strategy are ignored.
type Config struct {
	// Deterministic
	UseLettersForNames bool
	Template           string // default "{kind}_{index}"

	// Synthetic
	Locale string // default "it_IT"
	Seed   int64

	// Redaction
	RedactionTemplate string // default "[{label}]"

	// Hash
	HashAlgorithm string // one of sha256, sha1, md5; default sha256
	HashTruncate  int    // default 16; 0 means full digest
	HashPrefix    string // default "HASH_"
	HashSalt      string
}

// DefaultConfig returns the configuration surface's documented defaults.
func DefaultConfig() Config {
	return Config{
		UseLettersForNames: true,
		Template:           "{kind}_{index}",
		Locale:             "it_IT",
		RedactionTemplate:  "[{label}]",
		HashAlgorithm:      "sha256",
		HashTruncate:       16,
		HashPrefix:         "HASH_",
	}
}
