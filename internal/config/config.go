package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ProjectPath     string  `yaml:"project"`
	ProjectsDir     string  `yaml:"projects_dir"`
	HostShape       string  `yaml:"host_shape"` // keyed | list
	FrameRate       float64 `yaml:"frame_rate"` // used when a timeline reports none
	GuidancePath    string  `yaml:"guidance"`   // empty: embedded table
	TemplatesPath   string  `yaml:"templates"`  // empty: embedded catalog
	JournalPath     string  `yaml:"journal"`
	ManifestPath    string  `yaml:"manifest"`
	RunLog          string  `yaml:"run_log"`
	ForceReseed     bool    `yaml:"force_reseed"`
	ForceRetrofit   bool    `yaml:"force_retrofit"`
	EnableAdjacency bool    `yaml:"enable_adjacency"`
	RejectZeroDur   bool    `yaml:"reject_zero_duration"`
	ShowStats       bool    `yaml:"show_stats"`
	Verbose         bool    `yaml:"verbose"`
	BuildVersion    string  `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		ProjectsDir:     "projects",
		HostShape:       "keyed",
		FrameRate:       29.97,
		EnableAdjacency: true,
		RejectZeroDur:   true,
	}
}

// Load reads configuration from a YAML file over the defaults and applies environment
// overrides. A missing file leaves the defaults in place; an empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch c.HostShape {
	case "keyed", "list":
	default:
		return fmt.Errorf("host_shape must be keyed or list, got %q", c.HostShape)
	}
	if c.FrameRate <= 0 {
		return fmt.Errorf("frame_rate must be positive, got %v", c.FrameRate)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("MARKERCRAFT_PROJECT"); p != "" {
		c.ProjectPath = p
	}
	if p := os.Getenv("MARKERCRAFT_JOURNAL"); p != "" {
		c.JournalPath = p
	}
	// Legacy switch from the original seeding scripts.
	if v, ok := envBool("DEGA_PRINCIPLE_FORCE_RESEED"); ok {
		c.ForceReseed = v
	}
	if v, ok := envBool("MARKERCRAFT_FORCE_RESEED"); ok {
		c.ForceReseed = v
	}
	if v, ok := envBool("MARKERCRAFT_FORCE_RETROFIT"); ok {
		c.ForceRetrofit = v
	}
	if v, ok := envBool("MARKERCRAFT_ADJACENCY"); ok {
		c.EnableAdjacency = v
	}
}

// envBool reads a switch: 1/true/yes/on enable it, any other non-empty value disables it.
func envBool(key string) (bool, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return false, false
	}
	return ParseBool(v), true
}

func ParseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
