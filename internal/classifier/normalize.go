package classifier

import (
	"strings"
	"unicode"
)

// NormalizeText trims the text and collapses runs of whitespace.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// NormalizeQuery prepares free text for case-insensitive matching.
func NormalizeQuery(query string) string {
	return strings.ToLower(NormalizeText(query))
}

// NormalizeQueryASCII is NormalizeQuery with ASCII-only case folding. It
// matches SQL engines whose LOWER() leaves non-ASCII letters untouched, such as
// SQLite, so "É" in a query still matches "É" in stored text.
func NormalizeQueryASCII(query string) string {
	b := []byte(NormalizeText(query))
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// NormalizeTags lowercases, trims and de-duplicates tags, dropping empties.
// Order of first occurrence is kept.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(NormalizeText(tag))
		tag = strings.ReplaceAll(tag, " ", "-")
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		result = append(result, tag)
	}
	return result
}

// words splits text into lowercase words, dropping punctuation.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})
}
