package validators

import "regexp"

// emailFormat is the whole-string shape EmailValid accepts: a local part of
// letters, digits and ._%+-, an @, and a dotted domain ending in a
// letters-only label of two or more characters.
var emailFormat = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// EmailValid reports whether s is a well-formed email address.
func EmailValid(s string) bool {
	return emailFormat.MatchString(s)
}

// phoneSeparators are stripped from the candidate before matching, so a
// number formatted with spaces, hyphens, or parentheses validates the same
// as its digits-only form.
var phoneSeparators = regexp.MustCompile(`[ \-()]`)

// italianPhone accepts a 9-10 digit Italian number after separator
// stripping, optionally prefixed by +39 or the 0039 international dial
// prefix.
var italianPhone = regexp.MustCompile(`^(0039|\+39)?\d{9,10}$`)

// PhoneValid reports whether s is a well-formed Italian phone number once
// spaces, hyphens, and parentheses are stripped.
func PhoneValid(s string) bool {
	return italianPhone.MatchString(phoneSeparators.ReplaceAllString(s, ""))
}
