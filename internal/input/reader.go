// Package input reads text-entity lists produced by an external drawing
// extraction pass. The engine makes no assumption about how the entities
// were extracted; it just needs the complete ordered sequence for a run.
package input

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cadgauge/takeoff/internal/model"
)

// ReadEntities loads a text-entity file, dispatching on extension:
// .html/.htm are treated as annotation-schedule exports, everything else as
// a JSON entity list.
func ReadEntities(path string) ([]model.TextEntity, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return ReadHTMLFile(path)
	default:
		return ReadJSONFile(path)
	}
}

// ReadJSONFile reads a JSON entity list: either a bare array of entities or
// an object with an "entities" key.
func ReadJSONFile(path string) ([]model.TextEntity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read entities: %w", err)
	}
	return ParseJSON(data)
}

// ParseJSON parses entity JSON from memory
func ParseJSON(data []byte) ([]model.TextEntity, error) {
	var entities []model.TextEntity
	if err := json.Unmarshal(data, &entities); err == nil {
		return entities, nil
	}

	var wrapper struct {
		Entities []model.TextEntity `json:"entities"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("parse entities: %w", err)
	}
	if wrapper.Entities == nil {
		return nil, fmt.Errorf("parse entities: no entity array found")
	}
	return wrapper.Entities, nil
}
