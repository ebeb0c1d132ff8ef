// Package aggregate turns dedup groups into the final bill-of-quantities
// summary: per-category quantities, advisory costs, and the valid-count
// threshold cut. Pricing problems degrade to warnings, never errors.
package aggregate

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cadgauge/takeoff/internal/match"
	"github.com/cadgauge/takeoff/internal/model"
	"github.com/cadgauge/takeoff/internal/rules"
)

// Aggregator computes quantity summaries over dedup groups
type Aggregator struct {
	measures  map[string]string // rule name -> measure
	priceKeys map[string]string // rule name -> unit price key
	prices    *PriceTable
}

// NewAggregator creates an aggregator over the catalog the candidates were
// matched against and an advisory price table.
func NewAggregator(catalog *rules.Catalog, prices *PriceTable) *Aggregator {
	measures := make(map[string]string, catalog.Len())
	priceKeys := make(map[string]string, catalog.Len())
	for _, r := range catalog.Rules() {
		measures[r.Name] = r.Measure
		priceKeys[r.Name] = r.UnitPriceKey
	}
	return &Aggregator{measures: measures, priceKeys: priceKeys, prices: prices}
}

// Aggregate rolls the groups up into a QuantitySummary. It also resolves
// each group's unit-price key and measure in place, so callers exporting
// per-component detail see the same pricing basis the summary used.
// threshold is the valid-count confidence cut (0 means the 0.7 default).
func (a *Aggregator) Aggregate(groups []model.DedupGroup, threshold float64) (model.QuantitySummary, []model.Warning) {
	if threshold <= 0 {
		threshold = 0.7
	}

	summary := model.QuantitySummary{
		Threshold:  threshold,
		TotalCost:  decimal.Zero,
		ByCategory: make(map[string]model.CategoryAggregate),
	}
	if a.prices != nil {
		summary.Currency = a.prices.Currency
	}

	var warnings []model.Warning
	missingPrice := make(map[string]bool)
	confSum := make(map[string]float64)
	var totalConf float64

	for i := range groups {
		g := &groups[i]
		g.Measure = a.measures[g.RuleName]
		if g.Measure == "" {
			g.Measure = rules.MeasureCount
		}
		g.UnitPriceKey = a.priceKeys[g.RuleName]

		area, volume := measureGroup(*g)

		billed := g.Count
		switch g.Measure {
		case rules.MeasureArea:
			billed = area
		case rules.MeasureVolume:
			billed = volume
		}

		cost := decimal.Zero
		price, ok := a.prices.Lookup(g.UnitPriceKey)
		if !ok {
			if g.UnitPriceKey != "" && !missingPrice[g.UnitPriceKey] {
				missingPrice[g.UnitPriceKey] = true
				warnings = append(warnings, model.Warning{
					Stage:   model.WarnPricing,
					Message: fmt.Sprintf("no unit price for %q (category %s): cost recorded as zero", g.UnitPriceKey, g.Category),
				})
			}
		} else if billed > 0 {
			cost = decimal.NewFromFloat(billed).Mul(price.Price)
		}

		agg := summary.ByCategory[g.Category]
		agg.Groups++
		agg.Count += g.Count
		agg.Area += area
		agg.Volume += volume
		agg.Cost = agg.Cost.Add(cost)
		summary.ByCategory[g.Category] = agg
		confSum[g.Category] += g.Confidence

		summary.TotalComponents++
		summary.TotalArea += area
		summary.TotalVolume += volume
		summary.TotalCost = summary.TotalCost.Add(cost)
		totalConf += g.Confidence
		if g.Confidence >= threshold {
			summary.ValidCount++
		}
	}

	for cat, agg := range summary.ByCategory {
		if agg.Groups > 0 {
			agg.AvgConfidence = confSum[cat] / float64(agg.Groups)
			summary.ByCategory[cat] = agg
		}
	}
	if summary.TotalComponents > 0 {
		summary.AvgConfidence = totalConf / float64(summary.TotalComponents)
	}

	return summary, warnings
}

// measureGroup derives the group's area (m²) and volume (m³) from its
// parsed cross-section. A two-part dimension gives an area; a three-part
// dimension gives a volume as well. The engine never guesses a missing
// member length, so a volumetric category annotated with only a
// cross-section contributes count only.
func measureGroup(g model.DedupGroup) (area, volume float64) {
	sides := match.DimensionSides(g.Dimension)
	if len(sides) >= 2 {
		area = sides[0] / 1000 * sides[1] / 1000 * g.Count
	}
	if len(sides) >= 3 {
		volume = sides[0] / 1000 * sides[1] / 1000 * sides[2] / 1000 * g.Count
	}
	return area, volume
}
