// Package dedupe merges candidates that restate the same physical component
// across multiple text fragments (a label, a leader, a schedule row) into
// one group per component.
package dedupe

import (
	"sort"
	"strings"

	"github.com/cadgauge/takeoff/internal/match"
	"github.com/cadgauge/takeoff/internal/model"
)

// Deduplicate groups candidates by (category, normalized dimension, layer).
// Rejected candidates are excluded up front regardless of their confidence.
// Within a group:
//
//   - representative attributes come from the highest-confidence member;
//   - the instance count is the MAXIMUM single stated quantity, not the
//     sum. Repeated mentions of the same instance are restatements, and
//     summing would double-count redundantly annotated components;
//   - a group with no stated quantity counts as one instance.
//
// The operation is idempotent: feeding the groups back in (one candidate
// per group) yields the same groups.
func Deduplicate(candidates []model.ScoredCandidate) []model.DedupGroup {
	type bucket struct {
		best    model.ScoredCandidate
		maxQty  *float64
		members int
	}

	buckets := make(map[string]*bucket)
	var order []string

	for _, cand := range candidates {
		if cand.Status == model.StatusAIRejected {
			continue
		}

		key := identityKey(cand)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{best: cand}
			buckets[key] = b
			order = append(order, key)
		} else if cand.Confidence > b.best.Confidence {
			b.best = cand
		}
		b.members++

		if cand.Quantity != nil && (b.maxQty == nil || *cand.Quantity > *b.maxQty) {
			q := *cand.Quantity
			b.maxQty = &q
		}
	}

	groups := make([]model.DedupGroup, 0, len(order))
	for _, key := range order {
		b := buckets[key]

		count := 1.0
		if b.maxQty != nil {
			count = *b.maxQty
		}

		// UnitPriceKey and Measure are resolved later by the aggregator,
		// from the rule the best member matched.
		groups = append(groups, model.DedupGroup{
			Category:   b.best.Category,
			Dimension:  b.best.Dimension,
			Layer:      b.best.Layer,
			Diameter:   b.best.Diameter,
			Grade:      b.best.Grade,
			Count:      count,
			Confidence: b.best.Confidence,
			Members:    b.members,
			RuleName:   b.best.RuleName,
		})
	}

	// Stable output order regardless of input shuffling
	sort.SliceStable(groups, func(a, b int) bool {
		if groups[a].Category != groups[b].Category {
			return groups[a].Category < groups[b].Category
		}
		if groups[a].Layer != groups[b].Layer {
			return groups[a].Layer < groups[b].Layer
		}
		return groups[a].Dimension < groups[b].Dimension
	})

	return groups
}

// identityKey derives the dedup identity for a candidate
func identityKey(cand model.ScoredCandidate) string {
	return strings.Join([]string{
		cand.Category,
		match.NormalizeDimension(cand.Dimension),
		strings.ToLower(strings.TrimSpace(cand.Layer)),
	}, "\x1f")
}
