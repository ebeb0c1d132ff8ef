package codecheck

import (
	"testing"

	"github.com/cadgauge/takeoff/internal/model"
)

func TestValidator_Validate_GradeBelowMinimum(t *testing.T) {
	v := NewValidator()

	flags := v.Validate(model.RawCandidate{
		Category:  "concrete_column",
		Grade:     "C20",
		Dimension: "600×600",
	})

	if len(flags) != 1 || flags[0] != FlagGradeBelowMinimum {
		t.Errorf("Expected [%s], got %v", FlagGradeBelowMinimum, flags)
	}
}

func TestValidator_Validate_GradeOK(t *testing.T) {
	v := NewValidator()

	flags := v.Validate(model.RawCandidate{
		Category:  "concrete_column",
		Grade:     "C30",
		Dimension: "600×600",
	})

	if len(flags) != 0 {
		t.Errorf("Expected no flags, got %v", flags)
	}
}

func TestValidator_Validate_SteelGradeNotConcrete(t *testing.T) {
	v := NewValidator()

	// Q355 is a steel grade; the concrete minimum must not apply to it
	flags := v.Validate(model.RawCandidate{
		Category: "concrete_column",
		Grade:    "Q355",
	})

	if len(flags) != 0 {
		t.Errorf("Expected no flags for a non-concrete grade, got %v", flags)
	}
}

func TestValidator_Validate_DimensionOutOfRange(t *testing.T) {
	v := NewValidator()

	flags := v.Validate(model.RawCandidate{
		Category:  "concrete_column",
		Dimension: "100×100",
	})

	if len(flags) != 1 || flags[0] != FlagDimensionOutOfRange {
		t.Errorf("Expected [%s], got %v", FlagDimensionOutOfRange, flags)
	}
}

func TestValidator_Validate_DiameterOutOfRange(t *testing.T) {
	v := NewValidator()

	d := 60.0
	flags := v.Validate(model.RawCandidate{
		Category: "rebar",
		Diameter: &d,
	})

	if len(flags) != 1 || flags[0] != FlagDiameterOutOfRange {
		t.Errorf("Expected [%s], got %v", FlagDiameterOutOfRange, flags)
	}
}

func TestValidator_Validate_UnknownCategoryFailsOpen(t *testing.T) {
	v := NewValidator()

	flags := v.Validate(model.RawCandidate{
		Category:  "ornamental_fountain",
		Grade:     "C10",
		Dimension: "1×1",
	})

	if len(flags) != 0 {
		t.Errorf("Expected unknown categories to pass untouched, got %v", flags)
	}
}

func TestValidator_Validate_MissingAttributes(t *testing.T) {
	v := NewValidator()

	// No grade, dimension, or diameter: nothing to check, nothing flagged
	flags := v.Validate(model.RawCandidate{Category: "concrete_column"})
	if len(flags) != 0 {
		t.Errorf("Expected no flags for missing attributes, got %v", flags)
	}
}

func TestValidator_Validate_MultipleFlags(t *testing.T) {
	v := NewValidator()

	flags := v.Validate(model.RawCandidate{
		Category:  "concrete_column",
		Grade:     "C15",
		Dimension: "50×50",
	})

	if len(flags) != 2 {
		t.Errorf("Expected 2 flags, got %v", flags)
	}
}
