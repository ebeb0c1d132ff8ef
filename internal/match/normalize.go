package match

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalize folds an annotation string into a stable matching form: NFKC
// normalization, full-width to half-width folding, and whitespace collapse.
// Engineering annotations freely mix full- and half-width digits and
// punctuation (Ｘ vs x, ，vs ,), and the rest of the pipeline must treat
// those spellings as identical.
func Normalize(s string) string {
	s = width.Narrow.String(s)
	s = norm.NFKC.String(s)
	s = strings.TrimSpace(s)
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeDimension canonicalizes a cross-section string for use in a
// dedup identity key: lower-case, no whitespace, unit suffixes stripped,
// and every separator variant folded to "x".
func NormalizeDimension(s string) string {
	s = strings.ToLower(Normalize(s))
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "×", "x")
	s = strings.ReplaceAll(s, "*", "x")
	for _, suffix := range []string{"mm", "cm", "m"} {
		s = strings.TrimSuffix(s, suffix)
	}
	return s
}

// DimensionSides splits a cross-section string like "300×600" or
// "300x600x3000" into its numeric sides in mm. Unparsable parts are
// skipped; an empty or unusable string yields nil.
func DimensionSides(dim string) []float64 {
	dim = NormalizeDimension(dim)
	if dim == "" {
		return nil
	}

	var sides []float64
	for _, part := range strings.Split(dim, "x") {
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			continue
		}
		sides = append(sides, v)
	}
	return sides
}
