package domain

// CacheKey identifies a cached pipeline result. Fingerprint is the 16-hex
// sha256 prefix of the normalized document text, recognizer id and
// ConfigHash joined by "|" (see cache.Fingerprint); ConfigHash is the 8-hex md5
// prefix of the canonical JSON encoding of the recognizer/filter/strategy
// configuration that produced the cached result, so a config change never
// serves a stale anonymization.
type CacheKey struct {
	Fingerprint string
	ConfigHash  string
}

// String renders the key in the wire/storage format: privacy:doc:<fp>.
// ConfigHash is already folded into Fingerprint (it is part of the sha256
// input in cache.Fingerprint) and is not repeated here — the persisted key
// is exactly the 16 lowercase hex characters, per §6.
func (k CacheKey) String() string {
	return "privacy:doc:" + k.Fingerprint
}

// CacheEntry is the value stored under a CacheKey in both cache tiers.
type CacheEntry struct {
	Spans          SpanSet
	AnonymizedText string
	Language       string
	CreatedAtUnix  int64
}
