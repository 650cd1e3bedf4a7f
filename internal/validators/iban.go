package validators

import "strings"

// ibanCountryLength pins the total IBAN length (country code + check digits
// + BBAN) for the countries this engine is expected to see in Italian legal
// documents: domestic IBANs and the other common EU counterparties. An
// unlisted country code is rejected rather than guessed.
var ibanCountryLength = map[string]int{
	"IT": 27, "FR": 27, "DE": 22, "ES": 24, "PT": 25,
	"NL": 18, "BE": 16, "AT": 20, "CH": 21, "GB": 22,
}

// IBANValid reports whether s is a structurally valid IBAN: a known country
// length and a mod-97 checksum of 1, per ISO 7064 (MOD 97-10). Spaces are
// stripped before checking, since IBANs are conventionally printed in
// 4-character groups.
func IBANValid(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	if len(s) < 4 {
		return false
	}
	country := s[:2]
	wantLen, known := ibanCountryLength[country]
	if !known || len(s) != wantLen {
		return false
	}
	for _, c := range s[2:4] {
		if c < '0' || c > '9' {
			return false
		}
	}
	for _, c := range s {
		if !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return false
		}
	}
	return ibanMod97(s[4:]+s[:4]) == 1
}

// ibanMod97 computes the rearranged IBAN string mod 97, expanding each
// letter to its two-digit numeric value (A=10 .. Z=35) and folding the
// accumulator at every digit so the intermediate value never overflows a
// machine int, per the standard IBAN validation algorithm.
func ibanMod97(rearranged string) int {
	remainder := 0
	for _, c := range rearranged {
		var value int
		switch {
		case c >= '0' && c <= '9':
			value = int(c - '0')
			remainder = (remainder*10 + value) % 97
		case c >= 'A' && c <= 'Z':
			value = int(c-'A') + 10
			remainder = (remainder*100 + value) % 97
		default:
			return -1
		}
	}
	return remainder
}
