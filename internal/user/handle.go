package user

import (
	"strings"

	"github.com/gosimple/slug"
)

// NormalizeHandle reduces a user-supplied handle to its canonical form:
// lowercased, transliterated to ASCII, with whitespace and separators
// removed. Registration, profile updates and lookups all normalize before
// touching the store, so comparisons always run against the same form.
// "Ana B", "ana-b" and "AnaB" normalize to "anab".
func NormalizeHandle(raw string) string {
	normalized := slug.Make(raw)
	normalized = strings.ReplaceAll(normalized, "-", "")
	return strings.ReplaceAll(normalized, "_", "")
}
