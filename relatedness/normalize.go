package relatedness

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// CompoundSeparator joins the sub-tokens of a multi-word term.
const CompoundSeparator = "_"

// NormalizeTerm prepares a dataset term for vocabulary lookup: NFKC, lower case,
// hyphens replaced by the compound separator.
func NormalizeTerm(term string) string {
	normed := norm.NFKC.String(term)
	normed = strings.TrimSpace(normed)
	// A Caser keeps state between calls, so each call gets its own.
	normed = cases.Lower(language.Und).String(normed)
	return strings.ReplaceAll(normed, "-", CompoundSeparator)
}

// IsCompound reports whether a normalized term is a multi-word token.
func IsCompound(term string) bool {
	return strings.Contains(term, CompoundSeparator)
}
