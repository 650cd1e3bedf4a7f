package recognize

import "strings"

// DefaultLanguage is the fallback language for legal documents — Italian —
// used whenever detection is skipped or inconclusive.
const DefaultLanguage = "it"

// shortTextGuard is the minimum trimmed-text length below which detection
// is skipped outright and DefaultLanguage is returned.
const shortTextGuard = 20

// stopwords is a small per-language frequency table of common function
// words. No statistical language-detection library appears anywhere in the
// retrieved corpus, so this is a deliberate stdlib-only leaf: a short list
// of closed-class words is static data, not a library concern, and is
// sufficient to distinguish the six supported languages on legal prose.
var stopwords = map[string][]string{
	"it": {"il", "la", "di", "che", "non", "per", "con", "del", "della", "dei", "ai", "sensi", "tribunale", "sentenza", "articolo"},
	"en": {"the", "of", "and", "to", "in", "that", "for", "is", "shall", "court", "plaintiff", "defendant"},
	"fr": {"le", "la", "de", "et", "que", "pour", "les", "des", "tribunal", "cour"},
	"es": {"el", "la", "de", "que", "los", "las", "para", "tribunal", "sentencia"},
	"de": {"der", "die", "das", "und", "nicht", "gericht", "urteil", "für"},
	"pt": {"o", "a", "de", "que", "para", "não", "tribunal", "sentença"},
}

// DetectLanguage returns the ISO 639-1 code of the language text appears to
// be written in, falling back to DefaultLanguage under the same conditions
// the original implementation did: text under shortTextGuard characters
// trimmed, or no supported language scoring above zero.
func DetectLanguage(text string) string {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < shortTextGuard {
		return DefaultLanguage
	}

	lower := strings.ToLower(trimmed)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && r != 'à' && r != 'è' && r != 'é' && r != 'ì' && r != 'ò' && r != 'ù'
	})
	if len(words) == 0 {
		return DefaultLanguage
	}
	present := make(map[string]bool, len(words))
	for _, w := range words {
		present[w] = true
	}

	best := DefaultLanguage
	bestScore := 0
	for lang, sw := range stopwords {
		score := 0
		for _, w := range sw {
			if present[w] {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = lang
		}
	}
	if bestScore == 0 {
		return DefaultLanguage
	}
	if !IsSupported(best) {
		return DefaultLanguage
	}
	return best
}

// IsSupported reports whether lang has an NER-model binding.
func IsSupported(lang string) bool {
	_, ok := languageModels[lang]
	return ok
}

// SupportedLanguages returns the full ISO 639-1 code list in the stable
// order it's documented in.
func SupportedLanguages() []string {
	return []string{"it", "en", "fr", "es", "de", "pt"}
}
