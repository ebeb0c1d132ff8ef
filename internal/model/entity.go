package model

// TextEntity is one text fragment lifted from a drawing by an external
// extraction pass. The engine never mutates it.
type TextEntity struct {
	Content    string     `json:"content"`              // Raw annotation text
	Layer      string     `json:"layer,omitempty"`      // Drawing layer name
	Position   Point      `json:"position"`             // Insertion point in drawing units
	SourceKind SourceKind `json:"source_kind,omitempty"` // How the text was authored
}

// Point is a position in drawing coordinates
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// SourceKind classifies where an annotation came from
type SourceKind string

const (
	SourcePlainText SourceKind = "text"      // Single-line text
	SourceMText     SourceKind = "mtext"     // Multi-line text
	SourceAttribute SourceKind = "attribute" // Block attribute
	SourceDimLabel  SourceKind = "dimension" // Dimension label override
	SourceTableCell SourceKind = "table"     // Schedule/table cell
)
