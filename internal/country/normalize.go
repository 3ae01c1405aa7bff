// Package country resolves free-text country names to the economic series'
// canonical country codes.
package country

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics strips combining marks so accented and plain spellings
// compare equal ("Côte d'Ivoire" vs "Cote d'Ivoire").
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lower-cases, trims, collapses internal whitespace, and folds
// diacritics. Both alias-table keys and lookup queries go through this, so
// matching stays consistent regardless of which side is messy.
func Normalize(name string) string {
	folded, _, err := transform.String(foldDiacritics, name)
	if err != nil {
		folded = name
	}
	// Curly apostrophes show up in boundary property bags.
	folded = strings.ReplaceAll(folded, "’", "'")
	return strings.Join(strings.Fields(strings.ToLower(folded)), " ")
}
