package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the on-disk YAML shape of a rule catalog
type catalogFile struct {
	// ReplaceDefaults drops the built-in rules instead of extending them
	ReplaceDefaults bool    `yaml:"replace_defaults"`
	Rules           []*Rule `yaml:"rules"`
}

// LoadCatalog reads a YAML rule catalog from disk and merges it with the
// built-in defaults. A file rule with the same name as a default replaces
// it; other file rules are appended. An empty path returns the defaults.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("catalog %s contains no rules", path)
	}

	if file.ReplaceDefaults {
		return NewCatalog(file.Rules)
	}

	merged := defaultRules()
	byName := make(map[string]int, len(merged))
	for i, r := range merged {
		byName[r.Name] = i
	}
	for _, r := range file.Rules {
		if i, ok := byName[r.Name]; ok {
			merged[i] = r
		} else {
			merged = append(merged, r)
		}
	}

	return NewCatalog(merged)
}
