package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bankfeed-dev/bankfeed/internal/categorize"
)

// Config represents the top-level bankfeed.yaml configuration.
type Config struct {
	Defaults   DefaultsConfig     `yaml:"defaults"`
	Store      StoreConfig        `yaml:"store"`
	Categories []categorize.Entry `yaml:"categories,omitempty"`
}

// DefaultsConfig holds fallback values applied during ingestion.
type DefaultsConfig struct {
	Currency string `yaml:"currency"`
}

// StoreConfig locates the durable transaction store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// Load reads a bankfeed.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults: USD, a transactions.csv
// store next to the config, and the built-in merchant pattern table.
func Default() *Config {
	return &Config{
		Defaults: DefaultsConfig{
			Currency: "USD",
		},
		Store: StoreConfig{
			Path: "transactions.csv",
		},
		Categories: categorize.DefaultEntries(),
	}
}
