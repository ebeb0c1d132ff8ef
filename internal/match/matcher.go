package match

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cadgauge/takeoff/internal/model"
	"github.com/cadgauge/takeoff/internal/rules"
)

// Shared field extractors, used whenever a rule carries no override. Each is
// applied to the normalized content; a failed parse leaves the field unset
// rather than discarding the candidate.
var (
	// "共12根", "x12", "×12", "12根", "12个", "3 pcs"
	quantityRe = regexp.MustCompile(`(?i)共\s*(\d+(?:\.\d+)?)\s*(?:根|个|件|樘|块|道|榀|套)?|[x×]\s*(\d+(?:\.\d+)?)(?:\s|$|根|个|件|樘)|(\d+(?:\.\d+)?)\s*(?:根|个|件|樘|块|道|榀|套|pcs|nos?)(?:\s|$|[,.;，。])`)

	// "600×600", "300x600x3000", "600*600"
	dimensionRe = regexp.MustCompile(`(\d{2,5})\s*[x×*]\s*(\d{2,5})(?:\s*[x×*]\s*(\d{2,5}))?`)

	// "φ25", "Φ600", "直径25", "DN100", "d=16"
	diameterRe = regexp.MustCompile(`(?i)(?:φ|Φ|ф|直径|DN|d\s*=)\s*(\d+(?:\.\d+)?)`)

	// Concrete and steel grades: "C30", "Q355", "HRB400", "HPB300"
	gradeRe = regexp.MustCompile(`(?i)\b(C\d{2,3}|Q\d{3}[A-Z]?|HRB\d{3}|HPB\d{3})\b`)
)

// Matcher applies a rule catalog to individual text entities. It is purely
// functional over its inputs and safe for concurrent use.
type Matcher struct {
	catalog *rules.Catalog
}

// NewMatcher creates a matcher over the given catalog
func NewMatcher(catalog *rules.Catalog) *Matcher {
	return &Matcher{catalog: catalog}
}

// Match applies every catalog rule to the entity's content and returns one
// raw candidate per matching rule. An entity mentioning both a beam and a
// slab yields two independent candidates. A non-matching entity yields nil,
// never an error.
func (m *Matcher) Match(entityIdx int, entity model.TextEntity) []model.RawCandidate {
	text := Normalize(entity.Content)
	if text == "" {
		return nil
	}

	dimension := extractDimension(text)
	// The quantity extractor must not see any dimension-shaped substring,
	// or a trailing "×600" would read as a count of 600. Schedule rows can
	// restate the cross-section, so every occurrence is stripped.
	qtyText := dimensionRe.ReplaceAllString(text, " ")

	var candidates []model.RawCandidate
	for _, rule := range m.catalog.Rules() {
		if !rule.Matches(text) {
			continue
		}

		cand := model.RawCandidate{
			Category:   rule.Category,
			RuleName:   rule.Name,
			Entity:     entityIdx,
			SourceText: text,
			Layer:      entity.Layer,
		}

		cand.Dimension = dimension
		cand.Quantity = extractQuantity(qtyText, rule.QuantityRegexp())
		cand.Diameter = extractDiameter(text, rule.DiameterRegexp())
		cand.Grade = extractGrade(text)

		candidates = append(candidates, cand)
	}

	return candidates
}

// extractQuantity finds the first stated count. The override regexp, when
// present, is tried first; its first non-empty capture group wins.
func extractQuantity(text string, override *regexp.Regexp) *float64 {
	if override != nil {
		if q := firstGroupFloat(override, text); q != nil {
			return q
		}
	}
	return firstGroupFloat(quantityRe, text)
}

// extractDimension returns the raw cross-section substring, e.g. "600×600"
func extractDimension(text string) string {
	loc := dimensionRe.FindString(text)
	return strings.TrimSpace(loc)
}

// extractDiameter finds a number following a diameter-indicating token
func extractDiameter(text string, override *regexp.Regexp) *float64 {
	if override != nil {
		if d := firstGroupFloat(override, text); d != nil {
			return d
		}
	}
	return firstGroupFloat(diameterRe, text)
}

// extractGrade returns the material grade as written, upper-cased
func extractGrade(text string) string {
	return strings.ToUpper(gradeRe.FindString(text))
}

// firstGroupFloat returns the first parseable capture group of the first
// match, or nil when nothing matched or nothing parsed.
func firstGroupFloat(re *regexp.Regexp, text string) *float64 {
	groups := re.FindStringSubmatch(text)
	if groups == nil {
		return nil
	}
	for _, g := range groups[1:] {
		if g == "" {
			continue
		}
		v, err := strconv.ParseFloat(g, 64)
		if err != nil {
			continue
		}
		return &v
	}
	return nil
}
