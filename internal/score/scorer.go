// Package score turns raw candidates into scored candidates. Confidence is
// a strict left-to-right fold: rule base, extraction bonuses, one penalty
// per distinct code flag, clamped after every step. Verification deltas are
// applied later, exactly once, by the verify package.
package score

import (
	"github.com/cadgauge/takeoff/internal/model"
	"github.com/cadgauge/takeoff/internal/rules"
)

// Extraction completeness bonuses and the per-flag penalty
const (
	BonusQuantity  = 0.05
	BonusDimension = 0.03
	BonusDiameter  = 0.02
	FlagPenalty    = 0.10
)

// Scorer computes pre-verification confidence
type Scorer struct {
	base map[string]float64 // rule name -> base confidence
}

// NewScorer creates a scorer over the catalog the candidates were matched
// against.
func NewScorer(catalog *rules.Catalog) *Scorer {
	base := make(map[string]float64, catalog.Len())
	for _, r := range catalog.Rules() {
		base[r.Name] = r.BaseConfidence
	}
	return &Scorer{base: base}
}

// Score combines a raw candidate and its code flags into a scored candidate.
// The result's confidence is always within [0,1].
func (s *Scorer) Score(raw model.RawCandidate, flags []string) model.ScoredCandidate {
	conf := s.base[raw.RuleName]

	if raw.Quantity != nil {
		conf = model.ClampConfidence(conf + BonusQuantity)
	}
	if raw.Dimension != "" {
		conf = model.ClampConfidence(conf + BonusDimension)
	}
	if raw.Diameter != nil {
		conf = model.ClampConfidence(conf + BonusDiameter)
	}

	uniq := distinct(flags)
	for range uniq {
		conf = model.ClampConfidence(conf - FlagPenalty)
	}

	return model.ScoredCandidate{
		RawCandidate: raw,
		Confidence:   conf,
		CodeFlags:    uniq,
		Status:       model.StatusUnverified,
	}
}

// distinct preserves order while dropping repeated flags
func distinct(flags []string) []string {
	if len(flags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(flags))
	var out []string
	for _, f := range flags {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
