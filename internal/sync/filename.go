package sync

import (
	"strings"
	"unicode"
)

// SanitizeTitle converts a page title into a safe file name. Letters,
// digits, spaces, dashes and underscores pass through; every other rune
// becomes an underscore.
func SanitizeTitle(title string) string {
	var sb strings.Builder
	sb.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

// normalizeID strips the dashes from a page id. Frontmatter headers store
// ids without dashes while the API returns them dashed; the ledger accepts
// both forms by keying on the normalized one.
func normalizeID(id string) string {
	return strings.ReplaceAll(id, "-", "")
}

// shortID returns the id prefix used to disambiguate colliding file names.
func shortID(id string) string {
	id = normalizeID(id)
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
