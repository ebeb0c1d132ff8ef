package model

import "github.com/shopspring/decimal"

// DedupGroup is the unit of truth for one physical component, merged from
// every candidate believed to reference the same instance.
type DedupGroup struct {
	Category  string `json:"category"`
	Dimension string `json:"dimension,omitempty"` // From the highest-confidence member
	Layer     string `json:"layer,omitempty"`

	Diameter   *float64 `json:"diameter,omitempty"`
	Grade      string   `json:"grade,omitempty"`
	Count      float64  `json:"count"`      // Max stated quantity across members, 1 if none stated
	Confidence float64  `json:"confidence"` // Highest member confidence
	Members    int      `json:"members"`    // How many candidates merged into this group

	RuleName     string `json:"rule,omitempty"`
	UnitPriceKey string `json:"unit_price_key,omitempty"`
	Measure      string `json:"measure,omitempty"` // count, area, volume
}

// CategoryAggregate is the per-category rollup inside a QuantitySummary
type CategoryAggregate struct {
	Groups        int             `json:"groups"`
	Count         float64         `json:"count"`
	Area          float64         `json:"area_m2,omitempty"`
	Volume        float64         `json:"volume_m3,omitempty"`
	Cost          decimal.Decimal `json:"cost"`
	AvgConfidence float64         `json:"avg_confidence"`
}

// QuantitySummary is the final bill-of-quantities rollup for one run
type QuantitySummary struct {
	TotalComponents int     `json:"total_components"` // Dedup groups
	ValidCount      int     `json:"valid_count"`      // Groups at or above the confidence threshold
	AvgConfidence   float64 `json:"average_confidence"`
	Threshold       float64 `json:"threshold"`

	TotalVolume float64         `json:"total_volume_m3"`
	TotalArea   float64         `json:"total_area_m2"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Currency    string          `json:"currency,omitempty"`

	ByCategory map[string]CategoryAggregate `json:"by_category"`
}

// WarningStage identifies which pipeline stage produced a warning
type WarningStage string

const (
	WarnVerification WarningStage = "verification"
	WarnPricing      WarningStage = "pricing"
	WarnCodeCheck    WarningStage = "codecheck"
	WarnInput        WarningStage = "input"
)

// Warning is an operational problem that degraded (but never aborted) a run
type Warning struct {
	Stage   WarningStage `json:"stage"`
	Message string       `json:"message"`
}

// RecognitionResult is the complete output of one recognition run: the
// summary, the per-component detail a caller may export, and every warning
// accumulated along the way.
type RecognitionResult struct {
	Summary    QuantitySummary   `json:"summary"`
	Groups     []DedupGroup      `json:"groups"`
	Candidates []ScoredCandidate `json:"candidates,omitempty"`
	Warnings   []Warning         `json:"warnings,omitempty"`

	Mode    PrecisionMode `json:"mode"`
	Partial bool          `json:"partial,omitempty"` // True when cancellation cut verification short
}
