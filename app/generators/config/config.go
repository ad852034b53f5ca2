// Package config holds the crudgen settings read from the environment.
// Command-line flags override these values.
package config

import (
	"fmt"

	"github.com/jrazmi/crudgen/app/generators/stencil"
	"github.com/jrazmi/crudgen/sdk/environment"
)

// Prefix namespaces every crudgen environment variable.
const Prefix = "CRUDGEN"

// Config is the overall configuration for a crudgen run.
type Config struct {
	BasePackage  string `env:"BASE_PACKAGE" default:"com.example"`
	OutputDir    string `env:"OUTPUT_DIR" default:"."`
	TemplatesDir string `env:"TEMPLATES_DIR"`
	Workers      int    `env:"WORKERS" default:"4"`
	CacheSize    int    `env:"CACHE_SIZE"`
	Force        bool   `env:"FORCE"`
	DryRun       bool   `env:"DRY_RUN"`
}

// Load reads Config from CRUDGEN_* variables.
func Load() (Config, error) {
	var cfg Config
	if err := environment.ParseEnvTags(Prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = stencil.DefaultCacheSize
	}
	return cfg, cfg.Validate()
}

// Validate checks the values that cannot be defaulted.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("cache size must be at least 1, got %d", c.CacheSize)
	}
	return nil
}
