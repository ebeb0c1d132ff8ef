package verify

import (
	"math"
	"sort"

	"github.com/cadgauge/takeoff/internal/model"
)

// Select returns the indices of candidates that must be sent to the judge
// under the given precision mode. The mode is fixed for the whole run:
//
//   - QuickEstimate selects nothing.
//   - Budget selects the lowest-confidence fraction (rounded up), so the
//     verification budget is spent where the pattern rules were least sure,
//     optionally clamped by maxCalls.
//   - FinalAccount selects everything.
func Select(candidates []model.ScoredCandidate, mode model.PrecisionMode, fraction float64, maxCalls int) []int {
	if len(candidates) == 0 {
		return nil
	}

	switch mode {
	case model.ModeFinalAccount:
		all := make([]int, len(candidates))
		for i := range candidates {
			all[i] = i
		}
		return all

	case model.ModeBudget:
		if fraction <= 0 {
			fraction = 0.3
		}
		if fraction > 1 {
			fraction = 1
		}
		n := int(math.Ceil(fraction * float64(len(candidates))))
		if maxCalls > 0 && n > maxCalls {
			n = maxCalls
		}

		idx := make([]int, len(candidates))
		for i := range candidates {
			idx[i] = i
		}
		// Lowest confidence first; index order breaks ties so selection
		// is deterministic.
		sort.SliceStable(idx, func(a, b int) bool {
			return candidates[idx[a]].Confidence < candidates[idx[b]].Confidence
		})
		return idx[:n]

	default: // ModeQuickEstimate
		return nil
	}
}
