package xlcodec

import (
	"strings"

	"golang.org/x/text/cases"
)

// canonicalKey is the single matching key for user-supplied names that
// compare case-insensitively: border styles, enumerations and merge ranges.
func canonicalKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// lookupCanonical returns the vocabulary entry matching s, in its stored
// spelling.
func lookupCanonical(vocab []string, s string) (string, bool) {
	key := canonicalKey(s)
	for _, v := range vocab {
		if canonicalKey(v) == key {
			return v, true
		}
	}
	return "", false
}

// indexCanonical is lookupCanonical returning the position in vocab, or -1.
func indexCanonical(vocab []string, s string) int {
	key := canonicalKey(s)
	for i, v := range vocab {
		if canonicalKey(v) == key {
			return i
		}
	}
	return -1
}

// camelize turns a snake, kebab or space separated name into lower camel
// case: "greater_than_or_equal" → "greaterThanOrEqual". Names without
// separators are returned trimmed.
func camelize(s string) string {
	parts := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	if len(parts) <= 1 {
		return strings.TrimSpace(s)
	}
	var b strings.Builder
	for i, p := range parts {
		if i == 0 {
			b.WriteString(strings.ToLower(p))
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

// normalizeEnum matches a caller-supplied enumeration value against vocab,
// accepting snake case and any letter case.
func normalizeEnum(vocab []string, s string) (string, bool) {
	return lookupCanonical(vocab, camelize(s))
}
