package guidance

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/markercraft/internal/classify"
)

//go:embed guidance.yaml
var defaultTable []byte

// Table is the three-level guidance mapping. It is loaded once and never mutated.
type Table struct {
	FallbackRole string                              `yaml:"fallback_role"`
	Aliases      map[string]string                   `yaml:"aliases"`
	Default      map[string]string                   `yaml:"default"`
	LaneNuance   map[classify.Lane]map[string]string `yaml:"lane_nuance"`
	TierOverride map[classify.Tier]map[string]string `yaml:"tier_override"`
}

// DefaultTable parses the embedded guidance table.
func DefaultTable() (*Table, error) {
	return Parse(defaultTable)
}

// LoadTable reads a guidance table from a YAML file. An empty path yields the
// embedded table.
func LoadTable(path string) (*Table, error) {
	if path == "" {
		return DefaultTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read guidance table: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a guidance table.
func Parse(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse guidance table: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate rejects tables that could leave a marker without guidance.
func (t *Table) Validate() error {
	if t.FallbackRole == "" {
		return fmt.Errorf("guidance table: fallback_role is empty")
	}
	if t.Default[t.FallbackRole] == "" {
		return fmt.Errorf("guidance table: default has no entry for fallback role %q", t.FallbackRole)
	}
	return nil
}
