package identity

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nameSuffixes = map[string]struct{}{
	"jr": {}, "sr": {}, "ii": {}, "iii": {}, "iv": {}, "v": {},
}

// ExactKey lowercases and collapses whitespace.
func ExactKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// SuffixKey is ExactKey with a trailing generational suffix removed.
func SuffixKey(name string) string {
	fields := strings.Fields(ExactKey(name))
	if len(fields) > 1 {
		last := strings.Trim(fields[len(fields)-1], ".,")
		if _, ok := nameSuffixes[last]; ok {
			fields = fields[:len(fields)-1]
		}
	}
	for i := range fields {
		fields[i] = strings.TrimRight(fields[i], ",")
	}
	return strings.Join(fields, " ")
}

// NormalizedKey folds diacritics, drops punctuation and the suffix.
// "Luka Dončić" and "Luka Doncic" share a key, as do "P.J. Washington" and
// "PJ Washington".
func NormalizedKey(name string) string {
	folded, _, err := transform.String(foldChain(), name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range folded {
		switch {
		case r == '-':
			b.WriteRune(' ')
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return SuffixKey(b.String())
}

// FirstLastKey keeps the first and last token of the normalized name.
func FirstLastKey(name string) string {
	fields := strings.Fields(NormalizedKey(name))
	if len(fields) < 2 {
		return ""
	}
	return fields[0] + " " + fields[len(fields)-1]
}

// LastNameKey keeps only the last token of the normalized name.
func LastNameKey(name string) string {
	fields := strings.Fields(NormalizedKey(name))
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// transform.Chain is stateful, so each call builds its own.
func foldChain() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
