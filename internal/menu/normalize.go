package menu

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer decomposes to NFD, drops combining marks and recomposes,
// so "Açaí" folds to "Acai".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases s, strips diacritics and collapses whitespace.
// Used for accent-insensitive lookup and token comparison.
func Normalize(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}

// Words both languages the menus come in use as glue between dish-name tokens.
var stopwords = map[string]bool{
	"di": true, "e": true, "con": true, "al": true, "alla": true, "alle": true,
	"ai": true, "la": true, "il": true, "lo": true, "le": true, "i": true,
	"un": true, "una": true, "in": true, "su": true, "del": true, "della": true,
	"the": true, "of": true, "with": true, "and": true, "a": true, "an": true,
	"on": true, "to": true,
}

// SignificantTokens returns the normalized non-stopword tokens of s
func SignificantTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(Normalize(s)) {
		if !stopwords[tok] && len(tok) > 1 {
			out = append(out, tok)
		}
	}
	return out
}

// SharedTokenCount counts significant tokens present in both strings
func SharedTokenCount(a, b string) int {
	set := make(map[string]bool)
	for _, tok := range SignificantTokens(a) {
		set[tok] = true
	}
	count := 0
	for _, tok := range SignificantTokens(b) {
		if set[tok] {
			count++
			set[tok] = false
		}
	}
	return count
}
