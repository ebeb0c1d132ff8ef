package model

// RawCandidate is a single hypothesized component instance: one rule matched
// against one text entity, with whatever fields could be parsed out.
type RawCandidate struct {
	Category string `json:"category"`        // Component category (e.g., "concrete_column")
	RuleName string `json:"rule,omitempty"`  // Which catalog rule matched
	Entity   int    `json:"entity"`          // Index of the source entity in the run's input

	Quantity  *float64 `json:"quantity,omitempty"`  // Stated count (nil when unparsable/absent)
	Dimension string   `json:"dimension,omitempty"` // Raw cross-section string (e.g., "600×600")
	Diameter  *float64 `json:"diameter,omitempty"`  // Diameter in mm (nil when absent)
	Grade     string   `json:"grade,omitempty"`     // Material grade as written (e.g., "C30")

	SourceText string `json:"source_text"` // Normalized content the rule matched
	Layer      string `json:"layer,omitempty"`
}

// VerificationStatus tracks what the external AI judge said about a candidate
type VerificationStatus string

const (
	StatusUnverified  VerificationStatus = "unverified"
	StatusAIConfirmed VerificationStatus = "ai_confirmed"
	StatusAIRejected  VerificationStatus = "ai_rejected" // Terminal: excluded from all downstream output
)

// ScoredCandidate is a RawCandidate with its confidence fold applied.
// Confidence moves in one direction per stage: bonuses and flag penalties at
// scoring time, then at most one verification delta. It is clamped to [0,1]
// after every adjustment.
type ScoredCandidate struct {
	RawCandidate

	Confidence float64            `json:"confidence"`
	CodeFlags  []string           `json:"code_flags,omitempty"`
	Status     VerificationStatus `json:"verification_status"`
}

// ClampConfidence bounds c to [0,1]
func ClampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}

// PrecisionMode selects how much external verification a run spends
type PrecisionMode string

const (
	// ModeQuickEstimate issues no verification calls at all.
	ModeQuickEstimate PrecisionMode = "quick"
	// ModeBudget verifies a bounded lowest-confidence fraction of candidates.
	ModeBudget PrecisionMode = "budget"
	// ModeFinalAccount verifies every candidate.
	ModeFinalAccount PrecisionMode = "final"
)

// ParsePrecisionMode maps user-facing mode names onto PrecisionMode.
// Unrecognized names fall back to ModeQuickEstimate.
func ParsePrecisionMode(s string) PrecisionMode {
	switch s {
	case "budget":
		return ModeBudget
	case "final", "final-account":
		return ModeFinalAccount
	default:
		return ModeQuickEstimate
	}
}
