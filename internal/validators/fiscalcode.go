// Package validators implements the checksum and format checks C1 runs
// against candidate PII matches before they are allowed to carry a
// validation-passed boost downstream. Every function here is pure: no I/O,
// nothing that needs a constructor; the regexps are compiled once at
// package init.
package validators

import (
	"regexp"
	"strings"
)

// fiscalCodeShape is the Codice Fiscale's positional character classes:
// 6 surname/name consonant-derived letters, 2 birth-year digits, 1 month
// letter, 2 day-of-birth digits, 1 cadastral-code letter, 3 cadastral-code
// digits, 1 checksum letter.
var fiscalCodeShape = regexp.MustCompile(`^[A-Z]{6}\d{2}[A-Z]\d{2}[A-Z]\d{3}[A-Z]$`)

// oddMap and evenMap are the Italian Codice Fiscale checksum tables, taken
// verbatim from the Presidio recognizer (not its spaCy duplicate, which the
// open questions name as the non-authoritative copy).
var oddMap = map[byte]int{
	'0': 1, '1': 0, '2': 5, '3': 7, '4': 9, '5': 13, '6': 15, '7': 17, '8': 19, '9': 21,
	'A': 1, 'B': 0, 'C': 5, 'D': 7, 'E': 9, 'F': 13, 'G': 15, 'H': 17, 'I': 19, 'J': 21,
	'K': 2, 'L': 4, 'M': 18, 'N': 20, 'O': 11, 'P': 3, 'Q': 6, 'R': 8, 'S': 12, 'T': 14,
	'U': 16, 'V': 10, 'W': 22, 'X': 25, 'Y': 24, 'Z': 23,
}

var evenMap = map[byte]int{
	'0': 0, '1': 1, '2': 2, '3': 3, '4': 4, '5': 5, '6': 6, '7': 7, '8': 8, '9': 9,
	'A': 0, 'B': 1, 'C': 2, 'D': 3, 'E': 4, 'F': 5, 'G': 6, 'H': 7, 'I': 8, 'J': 9,
	'K': 10, 'L': 11, 'M': 12, 'N': 13, 'O': 14, 'P': 15, 'Q': 16, 'R': 17, 'S': 18,
	'T': 19, 'U': 20, 'V': 21, 'W': 22, 'X': 23, 'Y': 24, 'Z': 25,
}

const checksumLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// FiscalCodeValid reports whether cf is a 16-character Italian Codice
// Fiscale matching the documented positional shape with a valid checksum
// letter. cf is upper-cased before checking; callers do not need to
// normalize case themselves.
func FiscalCodeValid(cf string) bool {
	cf = strings.ToUpper(cf)
	if !fiscalCodeShape.MatchString(cf) {
		return false
	}
	total := 0
	for i := 0; i < 15; i++ {
		c := cf[i]
		if i%2 == 0 {
			total += oddMap[c]
		} else {
			total += evenMap[c]
		}
	}
	expected := checksumLetters[total%26]
	return cf[15] == expected
}
