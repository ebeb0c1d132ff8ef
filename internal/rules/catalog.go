package rules

import (
	"fmt"
	"regexp"
)

// Measure units a category can be billed in
const (
	MeasureCount  = "count"
	MeasureArea   = "area"
	MeasureVolume = "volume"
)

// Rule is one declarative recognition rule: a category, a pattern that
// decides whether a fragment mentions that category, and scoring/pricing
// metadata. Adding a component category means adding a record here, never
// touching the matcher.
type Rule struct {
	Name           string  `yaml:"name"`
	Category       string  `yaml:"category"`
	Pattern        string  `yaml:"pattern"`
	BaseConfidence float64 `yaml:"base_confidence"`
	UnitPriceKey   string  `yaml:"unit_price_key"`
	Measure        string  `yaml:"measure"` // count, area, volume

	// Optional per-rule capture overrides; the matcher falls back to its
	// shared extractors when these are empty.
	QuantityPattern string `yaml:"quantity_pattern,omitempty"`
	DiameterPattern string `yaml:"diameter_pattern,omitempty"`

	re         *regexp.Regexp
	quantityRe *regexp.Regexp
	diameterRe *regexp.Regexp
}

// Matches reports whether the rule's pattern matches the normalized text
func (r *Rule) Matches(text string) bool {
	return r.re.MatchString(text)
}

// QuantityRegexp returns the per-rule quantity override, or nil
func (r *Rule) QuantityRegexp() *regexp.Regexp { return r.quantityRe }

// DiameterRegexp returns the per-rule diameter override, or nil
func (r *Rule) DiameterRegexp() *regexp.Regexp { return r.diameterRe }

// compile compiles the rule's patterns. All matching is case-insensitive.
func (r *Rule) compile() error {
	re, err := regexp.Compile("(?i)" + r.Pattern)
	if err != nil {
		return fmt.Errorf("rule %q: pattern: %w", r.Name, err)
	}
	r.re = re

	if r.QuantityPattern != "" {
		if r.quantityRe, err = regexp.Compile("(?i)" + r.QuantityPattern); err != nil {
			return fmt.Errorf("rule %q: quantity_pattern: %w", r.Name, err)
		}
	}
	if r.DiameterPattern != "" {
		if r.diameterRe, err = regexp.Compile("(?i)" + r.DiameterPattern); err != nil {
			return fmt.Errorf("rule %q: diameter_pattern: %w", r.Name, err)
		}
	}

	if r.BaseConfidence < 0 || r.BaseConfidence > 1 {
		return fmt.Errorf("rule %q: base_confidence %v outside [0,1]", r.Name, r.BaseConfidence)
	}
	switch r.Measure {
	case MeasureCount, MeasureArea, MeasureVolume:
	case "":
		r.Measure = MeasureCount
	default:
		return fmt.Errorf("rule %q: unknown measure %q", r.Name, r.Measure)
	}
	return nil
}

// Catalog is the static set of recognition rules for a run
type Catalog struct {
	rules []*Rule
}

// NewCatalog compiles the given rules into a catalog. Invalid patterns fail
// here, at load time, never during matching.
func NewCatalog(rules []*Rule) (*Catalog, error) {
	for _, r := range rules {
		if err := r.compile(); err != nil {
			return nil, err
		}
	}
	return &Catalog{rules: rules}, nil
}

// Rules returns the catalog's rules in declaration order
func (c *Catalog) Rules() []*Rule {
	return c.rules
}

// Len returns the number of rules in the catalog
func (c *Catalog) Len() int {
	return len(c.rules)
}
