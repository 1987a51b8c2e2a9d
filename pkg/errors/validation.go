package errors

import (
	"regexp"
	"strings"
	"unicode"
)

var supportURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://chat\.whatsapp\.com/`),
	regexp.MustCompile(`^https://wa\.me/`),
	regexp.MustCompile(`^whatsapp://send`),
}

// ValidateTenantSlug validates a tenant slug typed by the operator.
//
// Slugs end up inside database names (tenant-{id}) and file names, so
// the rules are strict:
//   - No empty slugs
//   - No control characters or whitespace
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateTenantSlug(slug string) error {
	if slug == "" {
		return New(ErrCodeInvalidInput, "tenant slug cannot be empty")
	}
	if len(slug) > 128 {
		return New(ErrCodeInvalidInput, "tenant slug too long (max 128 characters)")
	}
	for _, r := range slug {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "tenant slug contains whitespace or control characters")
		}
	}
	if strings.Contains(slug, "..") || strings.ContainsAny(slug, "/\\") {
		return New(ErrCodeInvalidInput, "tenant slug contains path characters")
	}
	return nil
}

// ValidateSupportURL checks that a support link points at a WhatsApp
// group or chat. An empty link is valid and disables the support block.
func ValidateSupportURL(url string) error {
	if url == "" {
		return nil
	}
	for _, p := range supportURLPatterns {
		if p.MatchString(url) {
			return nil
		}
	}
	return New(ErrCodeInvalidURL, "support link must be a WhatsApp group or chat link: %s", url)
}

var (
	runOfSpaces = regexp.MustCompile(`\s+`)
	runOfDots   = regexp.MustCompile(`\.+`)
)

// SanitizeFilename replaces characters that are invalid on common
// filesystems, collapses whitespace into underscores and trims leading
// and trailing dots and underscores.
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
	name = runOfSpaces.ReplaceAllString(name, "_")
	name = runOfDots.ReplaceAllString(name, ".")
	return strings.Trim(name, "._")
}
