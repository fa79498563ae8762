// Package catalog holds the seed markers placed on fresh timelines: lane master
// templates per tier and principle packs for working timelines.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/markercraft/internal/classify"
	"github.com/ivlev/markercraft/internal/marker"
)

//go:embed templates.yaml
var defaultTemplates []byte

// Template is a seed marker expressed in seconds
type Template struct {
	T     float64      `yaml:"t"`     // Offset in seconds
	Color marker.Color `yaml:"color"` // Palette tag, may need a fallback
	Name  string       `yaml:"name"`
	Dur   float64      `yaml:"dur"` // Duration in seconds
	Notes string       `yaml:"notes"`
}

// Pack is a principle marker set selected by title keyword
type Pack struct {
	Key      string     `yaml:"key"`
	Keywords []string   `yaml:"keywords"`
	Markers  []Template `yaml:"markers"`
}

// Catalog is every seed marker set known to the build pass
type Catalog struct {
	Masters map[classify.Lane]map[classify.Tier][]Template `yaml:"masters"`
	Packs   []Pack                                         `yaml:"packs"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultTemplates)
}

// Load reads a catalog from a YAML file; an empty path yields the embedded one.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	for _, p := range c.Packs {
		if len(p.Keywords) == 0 {
			return nil, fmt.Errorf("pack %q has no keywords", p.Key)
		}
	}
	return &c, nil
}

// ForTitle selects the seed markers for a timeline. Master titles get the lane x tier
// template for ctx; other titles get the first principle pack whose keyword they
// contain. Titles matching neither get nil.
func (c *Catalog) ForTitle(title string, ctx classify.Context) []Template {
	if classify.IsMaster(title) {
		return c.Masters[ctx.Lane][ctx.Tier]
	}
	if p := c.Pack(title); p != nil {
		return p.Markers
	}
	return nil
}

// Pack returns the principle pack matching title, or nil.
func (c *Catalog) Pack(title string) *Pack {
	t := classify.Normalize(title)
	for i := range c.Packs {
		for _, kw := range c.Packs[i].Keywords {
			if strings.Contains(t, kw) {
				return &c.Packs[i]
			}
		}
	}
	return nil
}

// Frames converts a template into a host marker at fps. The note is the raw template
// text; guidance is appended by the build pass.
func (t Template) Frames(fps float64) marker.Marker {
	return marker.Marker{
		Position: marker.SecondsToFrames(t.T, fps),
		Duration: marker.SecondsToFrames(t.Dur, fps),
		Color:    t.Color,
		Label:    t.Name,
		Note:     t.Notes,
	}
}
