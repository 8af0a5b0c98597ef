// Package config handles configuration loading and shared data structures.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/label"
	"github.com/woozymasta/csvgeo/internal/proj"

	"gopkg.in/yaml.v3"
)

// Config represents the root configuration file structure.
type Config struct {
	// extra or overriding CRS definitions, name -> proj4 string
	CRS       map[string]string `yaml:"crs,omitempty" json:"-"`
	OutputDir string            `yaml:"output_dir,omitempty" json:"-"`
	Sources   []Source          `yaml:"sources" json:"sources"`
}

// Source represents a single delimited table to convert.
type Source struct {
	Index *int `yaml:"index,omitempty" json:"index,omitempty"`

	Name          string   `yaml:"name" json:"name"`
	URL           string   `yaml:"url" json:"-"`
	Delimiter     string   `yaml:"delimiter,omitempty" json:"-"`
	SourceCRS     string   `yaml:"source_crs,omitempty" json:"source_crs"`
	TargetCRS     string   `yaml:"target_crs,omitempty" json:"target_crs"`
	Invalid       string   `yaml:"invalid,omitempty" json:"-"`
	LabelProperty string   `yaml:"label_property,omitempty" json:"label_property,omitempty"`
	LabelFormat   string   `yaml:"label_format,omitempty" json:"-"`
	Aliases       []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
}

// Load reads and parses the YAML configuration file from the specified path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes YAML configuration, fills defaults and validates sources.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.OutputDir == "" {
		cfg.OutputDir = "geojson"
	}

	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		src.applyDefaults()

		if err := src.validate(registry); err != nil {
			return nil, fmt.Errorf("source #%d: %w", i+1, err)
		}

		for _, name := range append([]string{src.Name}, src.Aliases...) {
			if seen[name] {
				return nil, fmt.Errorf("source %s: duplicate name or alias %q", src.Name, name)
			}
			seen[name] = true
		}
	}

	return &cfg, nil
}

// Lookup returns the source registered under name or one of its aliases.
func (c *Config) Lookup(name string) (Source, bool) {
	for _, src := range c.Sources {
		if src.Name == name {
			return src, true
		}
		for _, alias := range src.Aliases {
			if alias == name {
				return src, true
			}
		}
	}
	return Source{}, false
}

// Registry returns the default CRS registry extended with the configured definitions.
func (c *Config) Registry() (proj.Registry, error) {
	registry := proj.DefaultRegistry()
	for name, raw := range c.CRS {
		if err := registry.Register(name, raw); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

func (s *Source) applyDefaults() {
	if s.SourceCRS == "" {
		s.SourceCRS = proj.WGS84
	}
	if s.TargetCRS == "" {
		s.TargetCRS = proj.WGS84
	}
	if s.Invalid == "" {
		s.Invalid = string(geo.InvalidPropagate)
	}
	if s.LabelProperty != "" && s.LabelFormat == "" {
		s.LabelFormat = label.FormatHTML
	}
}

func (s *Source) validate(registry proj.Registry) error {
	if s.Name == "" {
		return errors.New("name is required")
	}
	if s.URL == "" {
		return fmt.Errorf("source %s: url is required", s.Name)
	}
	for _, crs := range []string{s.SourceCRS, s.TargetCRS} {
		if _, err := registry.Lookup(crs); err != nil {
			return fmt.Errorf("source %s: %w", s.Name, err)
		}
	}
	if _, err := geo.ParseInvalidPolicy(s.Invalid); err != nil {
		return fmt.Errorf("source %s: %w", s.Name, err)
	}
	if s.LabelProperty != "" {
		if _, err := label.ForName(s.LabelFormat); err != nil {
			return fmt.Errorf("source %s: %w", s.Name, err)
		}
	}
	return nil
}
