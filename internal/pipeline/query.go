package pipeline

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// genericQueries are single terms too broad to search for a specific part.
var genericQueries = map[string]bool{
	"part":      true,
	"parts":     true,
	"product":   true,
	"products":  true,
	"datasheet": true,
	"spec":      true,
	"specs":     true,
	"pdf":       true,
	"search":    true,
	"test":      true,
}

// queryPunctuation are the non-alphanumeric characters that occur in real
// part numbers and descriptions. Anything else marks a malformed query.
var queryPunctuation = map[rune]bool{
	'-': true,
	'_': true,
	'.': true,
	'/': true,
	'+': true,
	'(': true,
	')': true,
	',': true,
	'&': true,
	'#': true,
}

// IsDegenerateQuery reports whether the query cannot identify a part: shorter
// than three runes, a known generic term, opening with a character that is
// neither letter nor digit, or containing characters that never appear in a
// part number.
func IsDegenerateQuery(query string) bool {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < 3 {
		return true
	}
	if genericQueries[strings.ToLower(trimmed)] {
		return true
	}
	first, _ := utf8.DecodeRuneInString(trimmed)
	if !unicode.IsLetter(first) && !unicode.IsDigit(first) {
		return true
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || queryPunctuation[r] {
			continue
		}
		return true
	}
	return false
}
