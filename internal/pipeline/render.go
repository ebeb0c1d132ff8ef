package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cadgauge/takeoff/internal/model"
)

// Renderer writes recognition results to JSON and Markdown reports and
// prints the run summary to stdout. Serialization stays out of the engine;
// the renderer is the CLI's concern.
type Renderer struct {
	includeFooter bool
	includeDetail bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter, includeDetail bool) *Renderer {
	return &Renderer{includeFooter: includeFooter, includeDetail: includeDetail}
}

// RenderJSON writes the full result as indented JSON
func (r *Renderer) RenderJSON(result *model.RecognitionResult, path string) error {
	out := *result
	if !r.includeDetail {
		out.Candidates = nil
	}

	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderMarkdown writes a human-readable bill-of-quantities report
func (r *Renderer) RenderMarkdown(result *model.RecognitionResult, path string) error {
	var b strings.Builder
	s := result.Summary

	b.WriteString("# Quantity Takeoff Report\n\n")
	if result.Partial {
		b.WriteString("> **Partial result**: the run was cancelled before verification finished.\n\n")
	}

	fmt.Fprintf(&b, "- Precision mode: `%s`\n", result.Mode)
	fmt.Fprintf(&b, "- Components: **%d** (%d at or above confidence %.2f)\n", s.TotalComponents, s.ValidCount, s.Threshold)
	fmt.Fprintf(&b, "- Average confidence: %.2f\n", s.AvgConfidence)
	if s.TotalVolume > 0 {
		fmt.Fprintf(&b, "- Total volume: %.2f m³\n", s.TotalVolume)
	}
	if s.TotalArea > 0 {
		fmt.Fprintf(&b, "- Total area: %.2f m²\n", s.TotalArea)
	}
	fmt.Fprintf(&b, "- Estimated cost (advisory): %s %s\n\n", s.TotalCost.StringFixed(2), s.Currency)

	b.WriteString("## By category\n\n")
	b.WriteString("| Category | Groups | Count | Area (m²) | Volume (m³) | Cost | Avg conf |\n")
	b.WriteString("|---|---|---|---|---|---|---|\n")
	for _, cat := range sortedCategories(s.ByCategory) {
		agg := s.ByCategory[cat]
		fmt.Fprintf(&b, "| %s | %d | %g | %.2f | %.2f | %s | %.2f |\n",
			cat, agg.Groups, agg.Count, agg.Area, agg.Volume, agg.Cost.StringFixed(2), agg.AvgConfidence)
	}
	b.WriteString("\n")

	b.WriteString("## Components\n\n")
	b.WriteString("| Category | Dimension | Layer | Count | Confidence | Members |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, g := range result.Groups {
		fmt.Fprintf(&b, "| %s | %s | %s | %g | %.2f | %d |\n",
			g.Category, orDash(g.Dimension), orDash(g.Layer), g.Count, g.Confidence, g.Members)
	}
	b.WriteString("\n")

	if len(result.Warnings) > 0 {
		b.WriteString("## Warnings\n\n")
		for _, w := range result.Warnings {
			fmt.Fprintf(&b, "- **%s**: %s\n", w.Stage, w.Message)
		}
		b.WriteString("\n")
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by takeoff. Costs are advisory reference figures, not a certified estimate.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// RenderSummary prints the run summary to stdout
func (r *Renderer) RenderSummary(result *model.RecognitionResult) {
	s := result.Summary

	fmt.Printf("\nComponents: %d  (valid: %d at threshold %.2f)\n", s.TotalComponents, s.ValidCount, s.Threshold)
	fmt.Printf("Average confidence: %.2f\n", s.AvgConfidence)
	fmt.Printf("Estimated cost: %s %s\n", s.TotalCost.StringFixed(2), s.Currency)

	for _, cat := range sortedCategories(s.ByCategory) {
		agg := s.ByCategory[cat]
		fmt.Printf("  %-20s %3d groups  count %-8g cost %s\n", cat, agg.Groups, agg.Count, agg.Cost.StringFixed(2))
	}

	if len(result.Warnings) > 0 {
		fmt.Printf("Warnings: %d\n", len(result.Warnings))
	}
	if result.Partial {
		fmt.Println("NOTE: partial result (run cancelled)")
	}
}

func sortedCategories(m map[string]model.CategoryAggregate) []string {
	cats := make([]string, 0, len(m))
	for cat := range m {
		cats = append(cats, cat)
	}
	sort.Strings(cats)
	return cats
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
