package onboarding

import (
	"strings"
	"unicode"
)

// nameSeparator splits "first | last" onboarding names.
const nameSeparator = " | "

// ParseName splits an onboarding name into first and last name. Without
// a separator the whole trimmed name is the first name.
func ParseName(name string) (first, last string) {
	parts := strings.Split(name, nameSeparator)
	if len(parts) >= 2 {
		return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	return strings.TrimSpace(name), ""
}

// CleanEmailText keeps ASCII letters and digits, lower-cased.
func CleanEmailText(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ExpectedEmail derives the address a staff user is expected to have.
func ExpectedEmail(first, last, domain string) string {
	return CleanEmailText(first) + CleanEmailText(last) + "@" + domain
}
