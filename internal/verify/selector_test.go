package verify

import (
	"reflect"
	"testing"

	"github.com/cadgauge/takeoff/internal/model"
)

func candidatesWithConfidence(confs ...float64) []model.ScoredCandidate {
	out := make([]model.ScoredCandidate, len(confs))
	for i, c := range confs {
		out[i].Confidence = c
	}
	return out
}

func TestSelect_QuickEstimate_SelectsNothing(t *testing.T) {
	cands := candidatesWithConfidence(0.2, 0.9, 0.5)

	got := Select(cands, model.ModeQuickEstimate, 0.3, 0)

	if len(got) != 0 {
		t.Errorf("Expected no selection in quick mode, got %v", got)
	}
}

func TestSelect_FinalAccount_SelectsAll(t *testing.T) {
	cands := candidatesWithConfidence(0.2, 0.9, 0.5)

	got := Select(cands, model.ModeFinalAccount, 0.3, 0)

	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Expected all indices, got %v", got)
	}
}

func TestSelect_Budget_LowestConfidenceFirst(t *testing.T) {
	cands := candidatesWithConfidence(0.9, 0.1, 0.5, 0.3, 0.7, 0.2, 0.8, 0.4, 0.6, 0.95)

	// ceil(0.3*10) = 3: indices of the three lowest confidences
	got := Select(cands, model.ModeBudget, 0.3, 0)

	if len(got) != 3 {
		t.Fatalf("Expected 3 selected, got %d", len(got))
	}
	want := map[int]bool{1: true, 5: true, 3: true}
	for _, i := range got {
		if !want[i] {
			t.Errorf("Index %d selected, expected only the lowest-confidence trio", i)
		}
	}
}

func TestSelect_Budget_RoundsUp(t *testing.T) {
	// ceil(0.3*1) = 1: even a single candidate gets verified
	got := Select(candidatesWithConfidence(0.5), model.ModeBudget, 0.3, 0)

	if len(got) != 1 {
		t.Errorf("Expected 1 selected for a single candidate, got %d", len(got))
	}
}

func TestSelect_Budget_MaxCallsCap(t *testing.T) {
	cands := candidatesWithConfidence(0.9, 0.1, 0.5, 0.3, 0.7, 0.2, 0.8, 0.4, 0.6, 0.95)

	got := Select(cands, model.ModeBudget, 0.5, 2)

	if len(got) != 2 {
		t.Errorf("Expected maxCalls to cap selection at 2, got %d", len(got))
	}
}

func TestSelect_Budget_TiesBreakByIndex(t *testing.T) {
	cands := candidatesWithConfidence(0.5, 0.5, 0.5)

	got := Select(cands, model.ModeBudget, 0.3, 0)

	if !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("Expected stable tie break to pick index 0, got %v", got)
	}
}

func TestSelect_Budget_FractionDefaults(t *testing.T) {
	cands := candidatesWithConfidence(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0)

	if got := Select(cands, model.ModeBudget, 0, 0); len(got) != 3 {
		t.Errorf("Expected default fraction 0.3, got %d selected", len(got))
	}
	if got := Select(cands, model.ModeBudget, 2.0, 0); len(got) != 10 {
		t.Errorf("Expected fraction above 1 to clamp to all, got %d selected", len(got))
	}
}

func TestSelect_ModeOrdering(t *testing.T) {
	cands := candidatesWithConfidence(0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7)

	quick := len(Select(cands, model.ModeQuickEstimate, 0.3, 0))
	budget := len(Select(cands, model.ModeBudget, 0.3, 0))
	final := len(Select(cands, model.ModeFinalAccount, 0.3, 0))

	if !(quick <= budget && budget <= final) {
		t.Errorf("Expected quick (%d) <= budget (%d) <= final (%d)", quick, budget, final)
	}
}

func TestSelect_EmptyInput(t *testing.T) {
	if got := Select(nil, model.ModeFinalAccount, 0.3, 0); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}
