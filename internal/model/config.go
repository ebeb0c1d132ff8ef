package model

import "time"

// Config holds the complete runtime configuration for a recognition run.
// Hierarchy (highest to lowest): CLI flags, TAKEOFF_* environment variables,
// config file, defaults.
type Config struct {
	Rules       RulesConfig       `yaml:"rules" json:"rules" mapstructure:"rules"`
	Recognition RecognitionConfig `yaml:"recognition" json:"recognition" mapstructure:"recognition"`
	Verify      VerifyConfig      `yaml:"verify" json:"verify" mapstructure:"verify"`
	Cache       CacheConfig       `yaml:"cache" json:"cache" mapstructure:"cache"`
	Output      OutputConfig      `yaml:"output" json:"output" mapstructure:"output"`
}

// RulesConfig locates the rule catalog and price table
type RulesConfig struct {
	CatalogPath string `yaml:"catalog_path" json:"catalog_path" mapstructure:"catalog_path"` // Optional YAML catalog; built-in rules when empty
	PricesPath  string `yaml:"prices_path" json:"prices_path" mapstructure:"prices_path"`    // Optional YAML price table
	Currency    string `yaml:"currency" json:"currency" mapstructure:"currency"`
}

// RecognitionConfig controls the synchronous pipeline stages
type RecognitionConfig struct {
	Mode         PrecisionMode `yaml:"mode" json:"mode" mapstructure:"mode"`
	Threshold    float64       `yaml:"threshold" json:"threshold" mapstructure:"threshold"`             // valid_count confidence threshold
	MatchWorkers int           `yaml:"match_workers" json:"match_workers" mapstructure:"match_workers"` // Parallel entity matching
	KeepRejected bool          `yaml:"keep_rejected" json:"keep_rejected" mapstructure:"keep_rejected"` // Include ai_rejected candidates in the detail list
}

// VerifyConfig configures the external AI verification collaborator
type VerifyConfig struct {
	Provider string `yaml:"provider" json:"provider" mapstructure:"provider"` // "openai", "ollama", "" (disabled)
	Model    string `yaml:"model" json:"model" mapstructure:"model"`
	APIKey   string `yaml:"-" json:"-" mapstructure:"-"` // Never serialized
	BaseURL  string `yaml:"base_url" json:"base_url" mapstructure:"base_url"`

	Timeout       time.Duration `yaml:"timeout" json:"timeout" mapstructure:"timeout"`                      // Per-call timeout
	MaxConcurrent int           `yaml:"max_concurrent" json:"max_concurrent" mapstructure:"max_concurrent"` // In-flight call cap
	RatePerSecond float64       `yaml:"rate_per_second" json:"rate_per_second" mapstructure:"rate_per_second"`
	Burst         int           `yaml:"burst" json:"burst" mapstructure:"burst"`
	MaxRetries    int           `yaml:"max_retries" json:"max_retries" mapstructure:"max_retries"`

	BudgetFraction float64 `yaml:"budget_fraction" json:"budget_fraction" mapstructure:"budget_fraction"` // Budget mode: fraction verified
	MaxCalls       int     `yaml:"max_calls" json:"max_calls" mapstructure:"max_calls"`                   // Budget mode: absolute cap, 0 = none

	HTTPProxy  string `yaml:"http_proxy" json:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" json:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" json:"no_proxy" mapstructure:"no_proxy"`
}

// CacheConfig controls the verification-decision cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" json:"ttl" mapstructure:"ttl"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	IncludeDetail bool `yaml:"include_detail" json:"include_detail" mapstructure:"include_detail"` // Embed candidates in JSON output
	IncludeFooter bool `yaml:"include_footer" json:"include_footer" mapstructure:"include_footer"` // Footer in Markdown reports
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			Currency: "CNY",
		},
		Recognition: RecognitionConfig{
			Mode:         ModeQuickEstimate,
			Threshold:    0.7,
			MatchWorkers: 4,
		},
		Verify: VerifyConfig{
			Provider:       "",
			Timeout:        30 * time.Second,
			MaxConcurrent:  10,
			RatePerSecond:  5,
			Burst:          5,
			MaxRetries:     3,
			BudgetFraction: 0.3,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     15 * time.Minute,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
