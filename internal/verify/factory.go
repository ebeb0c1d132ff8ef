package verify

import (
	"fmt"
	"strings"

	"github.com/cadgauge/takeoff/internal/model"
)

// NewProvider creates a verification provider based on configuration.
// An empty provider name disables verification and returns nil, nil.
func NewProvider(config model.VerifyConfig) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "static":
		return &StaticProvider{}, nil

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown verification provider: %s (supported: openai, ollama, static)", config.Provider)
	}
}
