// Package textnorm normalizes free text coming from spreadsheets and ledgers so
// that account names, headings and header cells can be compared regardless of
// case, accents and stray whitespace.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks: "Remuneración" becomes "Remuneracion".
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// CollapseSpaces trims s and replaces every run of whitespace (NBSP included)
// with a single ASCII space.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Fold is the comparison key used across the module: accents stripped,
// whitespace collapsed, lower-cased.
func Fold(s string) string {
	return strings.ToLower(CollapseSpaces(StripAccents(s)))
}

// Upper is Fold in upper case, used for month names and heading labels.
func Upper(s string) string {
	return strings.ToUpper(CollapseSpaces(StripAccents(s)))
}

// Equal reports whether a and b fold to the same key.
func Equal(a, b string) bool {
	return Fold(a) == Fold(b)
}

// ContainsAny reports whether the folded text contains any of the folded keywords.
func ContainsAny(text string, keywords ...string) bool {
	folded := Fold(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(folded, Fold(kw)) {
			return true
		}
	}
	return false
}

// JoinRow concatenates the folded cells of a spreadsheet row with spaces,
// which is how section and header rows are detected.
func JoinRow(cells []string) string {
	parts := make([]string, 0, len(cells))
	for _, c := range cells {
		if f := Fold(c); f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " ")
}
