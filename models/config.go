// Package models defines data structures for content items, compiled
// documents, and site configuration.
package models

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SiteConfig holds the site-wide defaults a compile call needs. It is
// passed by value into every call; there is no process-wide state.
type SiteConfig struct {
	SiteName    string   `yaml:"site_name"`
	Description string   `yaml:"description"`
	BaseURL     string   `yaml:"base_url"`
	Lang        string   `yaml:"lang"`
	Version     string   `yaml:"version"`
	Topics      []string `yaml:"topics"`
	Industry    string   `yaml:"industry"`
	Currency    string   `yaml:"currency"`

	// Now stamps @updated on documents that have no item timestamp,
	// e.g. the site index. Zero means time.Now at load time.
	Now time.Time `yaml:"-"`
}

// LoadConfig reads a YAML site configuration and applies defaults.
func LoadConfig(path string) (SiteConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	var cfg SiteConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("error unmarshalling config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

// ApplyDefaults fills the fields a compile cannot work without.
func (c *SiteConfig) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.SiteName == "" {
		c.SiteName = "Untitled Site"
	}
	if c.Now.IsZero() {
		c.Now = time.Now()
	}
}
