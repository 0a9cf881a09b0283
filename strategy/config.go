package strategy

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the file form of a strategy configuration.
type Config struct {
	Strategies map[string]ElementConfig `yaml:"strategies"`
	// Mergeable lists file extensions the engine merges structurally.
	Mergeable []string `yaml:"mergeable"`
	// Records configures the flat record differ.
	Records RecordsConfig `yaml:"records"`
}

type ElementConfig struct {
	Match   string `yaml:"match"`
	Key     string `yaml:"key"`
	Ordered bool   `yaml:"ordered"`
	Atomic  bool   `yaml:"atomic"`
}

type RecordsConfig struct {
	Tag string `yaml:"tag"`
	ID  string `yaml:"id"`
}

// LoadConfig reads and parses a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a YAML configuration and validates its strategies.
func ParseConfig(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadConfig, err)
	}
	if _, err := cfg.Registry(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (ec ElementConfig) Element() (Element, error) {
	m, err := ParseMatch(ec.Match)
	if err != nil {
		return Element{}, err
	}
	e := Element{Match: m, KeyAttr: ec.Key, OrderSignificant: ec.Ordered, Atomic: ec.Atomic}
	return e, e.Validate()
}

// Registry builds the frozen registry described by c.
func (c *Config) Registry() (*Registry, error) {
	return c.Layer(nil)
}

// Layer builds a registry from base overridden by c's strategies.
func (c *Config) Layer(base *Registry) (*Registry, error) {
	b := From(base)
	for tag, ec := range c.Strategies {
		e, err := ec.Element()
		if err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag, err)
		}
		b.Set(tag, e)
	}
	return b.Build()
}
