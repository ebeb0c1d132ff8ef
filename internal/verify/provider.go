// Package verify decides which candidates are worth spending external AI
// verification on, calls the verification collaborator for them, and folds
// the judge's decisions back into the candidate set. The collaborator is a
// black box behind the Provider interface; the engine only depends on its
// accept/reject contract.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Request is what the external judge sees for one candidate
type Request struct {
	SourceText string   `json:"source_text"`
	Category   string   `json:"category"`
	Quantity   *float64 `json:"quantity,omitempty"`
	Dimension  string   `json:"dimension,omitempty"`
	Diameter   *float64 `json:"diameter,omitempty"`
	Grade      string   `json:"grade,omitempty"`
}

// Decision is the judge's verdict. When Accepted is false the delta is
// ignored entirely; rejection is absolute.
type Decision struct {
	Accepted        bool    `json:"accepted"`
	ConfidenceDelta float64 `json:"confidence_delta"`
}

// Provider defines the interface for verification backends
type Provider interface {
	// Name returns the provider name
	Name() string

	// Verify asks the judge whether the candidate is a real component
	// correctly read from the source text.
	Verify(ctx context.Context, req Request) (*Decision, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// BuildPrompt constructs the judge prompt for one candidate. The judge is
// asked for strict JSON so the response parses without heuristics.
func BuildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("You review quantity-takeoff extractions from construction drawing annotations.\n")
	b.WriteString("Given the source text and the extracted interpretation, decide whether the interpretation is correct.\n\n")
	fmt.Fprintf(&b, "Source text: %q\n", req.SourceText)
	fmt.Fprintf(&b, "Interpreted category: %s\n", req.Category)
	if req.Quantity != nil {
		fmt.Fprintf(&b, "Extracted quantity: %g\n", *req.Quantity)
	}
	if req.Dimension != "" {
		fmt.Fprintf(&b, "Extracted cross-section: %s\n", req.Dimension)
	}
	if req.Diameter != nil {
		fmt.Fprintf(&b, "Extracted diameter: %g mm\n", *req.Diameter)
	}
	if req.Grade != "" {
		fmt.Fprintf(&b, "Extracted grade: %s\n", req.Grade)
	}
	b.WriteString("\nRespond with ONLY a JSON object, no prose:\n")
	b.WriteString(`{"accepted": true|false, "confidence_delta": <float between -0.3 and 0.3>}` + "\n")
	b.WriteString("accepted=false means the text does not describe this component or the extraction misread it.\n")
	return b.String()
}

// ParseDecision extracts the judge's JSON verdict from a model response,
// tolerating surrounding prose or code fences.
func ParseDecision(text string) (*Decision, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in response: %.80s", text)
	}

	var d Decision
	if err := json.Unmarshal([]byte(text[start:end+1]), &d); err != nil {
		return nil, fmt.Errorf("parse decision: %w", err)
	}

	// Keep one judge from dominating the score regardless of what the
	// model claims.
	if d.ConfidenceDelta > 0.3 {
		d.ConfidenceDelta = 0.3
	}
	if d.ConfidenceDelta < -0.3 {
		d.ConfidenceDelta = -0.3
	}
	return &d, nil
}
