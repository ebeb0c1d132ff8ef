package match

import (
	"testing"

	"github.com/cadgauge/takeoff/internal/model"
	"github.com/cadgauge/takeoff/internal/rules"
)

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	return NewMatcher(rules.DefaultCatalog())
}

func TestMatcher_Match_ColumnAnnotation(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{
		Content: "C30混凝土柱 600×600，共12根",
		Layer:   "S-COL",
	})

	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d: %+v", len(cands), cands)
	}

	c := cands[0]
	if c.Category != "concrete_column" {
		t.Errorf("Expected category concrete_column, got %s", c.Category)
	}
	if c.Quantity == nil || *c.Quantity != 12 {
		t.Errorf("Expected quantity 12, got %v", c.Quantity)
	}
	if c.Dimension != "600×600" {
		t.Errorf("Expected dimension 600×600, got %q", c.Dimension)
	}
	if c.Grade != "C30" {
		t.Errorf("Expected grade C30, got %q", c.Grade)
	}
	if c.Layer != "S-COL" {
		t.Errorf("Expected layer carried through, got %q", c.Layer)
	}
}

func TestMatcher_Match_QuantitySuffix(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{Content: "梁KZ1 300×600 x1"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(cands))
	}

	c := cands[0]
	if c.Category != "concrete_beam" {
		t.Errorf("Expected category concrete_beam, got %s", c.Category)
	}
	if c.Quantity == nil || *c.Quantity != 1 {
		t.Errorf("Expected quantity 1, got %v", c.Quantity)
	}
	if c.Dimension != "300×600" {
		t.Errorf("Expected dimension 300×600, got %q", c.Dimension)
	}
}

func TestMatcher_Match_DimensionNotReadAsQuantity(t *testing.T) {
	m := newTestMatcher(t)

	// No stated count: the ×600 inside the dimension must not be read as one
	cands := m.Match(0, model.TextEntity{Content: "梁KZ1 300×600"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Quantity != nil {
		t.Errorf("Expected no quantity, got %v", *cands[0].Quantity)
	}
}

func TestMatcher_Match_RepeatedDimensionNotReadAsQuantity(t *testing.T) {
	m := newTestMatcher(t)

	// Schedule rows can restate the cross-section; the second occurrence's
	// ×600 must not be read as a count of 600.
	cands := m.Match(0, model.TextEntity{Content: "梁KL-1 300×600 300×600"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Quantity != nil {
		t.Errorf("Expected no quantity, got %v", *cands[0].Quantity)
	}
	if cands[0].Dimension != "300×600" {
		t.Errorf("Expected dimension 300×600, got %q", cands[0].Dimension)
	}
}

func TestMatcher_Match_QuantityAfterRepeatedDimension(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{Content: "梁KL-1 300×600 300×600 共3根"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Quantity == nil || *cands[0].Quantity != 3 {
		t.Errorf("Expected quantity 3, got %v", cands[0].Quantity)
	}
}

func TestMatcher_Match_Diameter(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{Content: "灌注桩 φ800 共8根"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d: %+v", len(cands), cands)
	}

	c := cands[0]
	if c.Category != "pile" {
		t.Errorf("Expected category pile, got %s", c.Category)
	}
	if c.Diameter == nil || *c.Diameter != 800 {
		t.Errorf("Expected diameter 800, got %v", c.Diameter)
	}
	if c.Quantity == nil || *c.Quantity != 8 {
		t.Errorf("Expected quantity 8, got %v", c.Quantity)
	}
}

func TestMatcher_Match_MultipleCategories(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{Content: "框架梁与楼板 C30"})
	if len(cands) != 2 {
		t.Fatalf("Expected 2 candidates (beam and slab), got %d: %+v", len(cands), cands)
	}

	seen := map[string]bool{}
	for _, c := range cands {
		seen[c.Category] = true
	}
	if !seen["concrete_beam"] || !seen["floor_slab"] {
		t.Errorf("Expected beam and slab categories, got %v", seen)
	}
}

func TestMatcher_Match_FullWidthDigits(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{Content: "混凝土柱 ６００×６００"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Dimension != "600×600" {
		t.Errorf("Expected full-width digits folded, got %q", cands[0].Dimension)
	}
}

func TestMatcher_Match_NoMatch(t *testing.T) {
	m := newTestMatcher(t)

	for _, content := range []string{"", "   ", "总说明 见图纸目录"} {
		if cands := m.Match(0, model.TextEntity{Content: content}); cands != nil {
			t.Errorf("Expected no candidates for %q, got %+v", content, cands)
		}
	}
}

func TestMatcher_Match_EnglishAnnotation(t *testing.T) {
	m := newTestMatcher(t)

	cands := m.Match(0, model.TextEntity{Content: "Concrete column 400x400, 6 pcs"})
	if len(cands) != 1 {
		t.Fatalf("Expected 1 candidate, got %d: %+v", len(cands), cands)
	}
	c := cands[0]
	if c.Category != "concrete_column" {
		t.Errorf("Expected concrete_column, got %s", c.Category)
	}
	if c.Quantity == nil || *c.Quantity != 6 {
		t.Errorf("Expected quantity 6, got %v", c.Quantity)
	}
	if c.Dimension != "400x400" {
		t.Errorf("Expected dimension 400x400, got %q", c.Dimension)
	}
}

func TestNormalizeDimension(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"600×600", "600x600"},
		{"600 X 600 mm", "600x600"},
		{"600*600", "600x600"},
		{"６００×６００", "600x600"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeDimension(tc.in); got != tc.want {
			t.Errorf("NormalizeDimension(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDimensionSides(t *testing.T) {
	sides := DimensionSides("300×600×3000")
	if len(sides) != 3 || sides[0] != 300 || sides[1] != 600 || sides[2] != 3000 {
		t.Errorf("Expected [300 600 3000], got %v", sides)
	}

	if sides := DimensionSides(""); sides != nil {
		t.Errorf("Expected nil for empty dimension, got %v", sides)
	}
}
