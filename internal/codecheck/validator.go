// Package codecheck validates candidate attributes against building-code
// style constraints. Validation is advisory and fail-open: flags lower a
// candidate's confidence downstream but never remove it, and a category
// without a constraint entry passes untouched.
package codecheck

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cadgauge/takeoff/internal/match"
	"github.com/cadgauge/takeoff/internal/model"
)

// Flag values returned by Validate
const (
	FlagGradeBelowMinimum   = "grade-below-minimum"
	FlagDimensionOutOfRange = "dimension-out-of-range"
	FlagDiameterOutOfRange  = "diameter-out-of-range"
)

// Constraint holds the typical attribute ranges for one category. Zero
// values mean "no constraint on this attribute".
type Constraint struct {
	MinConcreteGrade int     // e.g. 25 for C25
	MinDimensionMM   float64 // Smallest plausible cross-section side
	MaxDimensionMM   float64
	MinDiameterMM    float64
	MaxDiameterMM    float64
}

// Validator checks candidates against a per-category constraint table
type Validator struct {
	constraints map[string]Constraint
}

// NewValidator creates a validator with the default constraint table
func NewValidator() *Validator {
	return &Validator{constraints: defaultConstraints()}
}

// NewValidatorWithTable creates a validator over a custom table
func NewValidatorWithTable(table map[string]Constraint) *Validator {
	return &Validator{constraints: table}
}

// defaultConstraints reflects common Chinese concrete-structure practice:
// load-bearing cast-in-place members want C25 or better, and member
// cross-sections below ~150mm or above a few meters are almost always a
// mis-parsed annotation rather than a real component.
func defaultConstraints() map[string]Constraint {
	return map[string]Constraint{
		"concrete_column": {MinConcreteGrade: 25, MinDimensionMM: 200, MaxDimensionMM: 2000},
		"concrete_beam":   {MinConcreteGrade: 25, MinDimensionMM: 150, MaxDimensionMM: 3000},
		"shear_wall":      {MinConcreteGrade: 25, MinDimensionMM: 160, MaxDimensionMM: 5000},
		"floor_slab":      {MinConcreteGrade: 20},
		"foundation":      {MinConcreteGrade: 25},
		"pile":            {MinConcreteGrade: 25, MinDiameterMM: 300, MaxDiameterMM: 2500},
		"rebar":           {MinDiameterMM: 6, MaxDiameterMM: 50},
	}
}

var concreteGradeRe = regexp.MustCompile(`^C(\d{2,3})$`)

// Validate returns the set of constraint flags for a raw candidate. The
// result is deterministic and the candidate is never mutated. Unknown
// categories and absent attributes produce no flags.
func (v *Validator) Validate(cand model.RawCandidate) []string {
	c, ok := v.constraints[cand.Category]
	if !ok {
		return nil
	}

	var flags []string

	if c.MinConcreteGrade > 0 && cand.Grade != "" {
		if g, ok := parseConcreteGrade(cand.Grade); ok && g < c.MinConcreteGrade {
			flags = append(flags, FlagGradeBelowMinimum)
		}
	}

	if c.MinDimensionMM > 0 || c.MaxDimensionMM > 0 {
		if sides := match.DimensionSides(cand.Dimension); len(sides) > 0 {
			for _, side := range sides {
				if (c.MinDimensionMM > 0 && side < c.MinDimensionMM) ||
					(c.MaxDimensionMM > 0 && side > c.MaxDimensionMM) {
					flags = append(flags, FlagDimensionOutOfRange)
					break
				}
			}
		}
	}

	if cand.Diameter != nil && (c.MinDiameterMM > 0 || c.MaxDiameterMM > 0) {
		d := *cand.Diameter
		if (c.MinDiameterMM > 0 && d < c.MinDiameterMM) ||
			(c.MaxDiameterMM > 0 && d > c.MaxDiameterMM) {
			flags = append(flags, FlagDiameterOutOfRange)
		}
	}

	return flags
}

// parseConcreteGrade reads the numeric strength class out of "C30".
// Steel grades (Q355, HRB400) are not concrete grades and return false.
func parseConcreteGrade(grade string) (int, bool) {
	m := concreteGradeRe.FindStringSubmatch(strings.ToUpper(grade))
	if m == nil {
		return 0, false
	}
	g, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return g, true
}
