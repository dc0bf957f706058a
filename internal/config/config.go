// Package config holds staticmanifest configuration: YAML file, environment
// overrides, then flags (applied by the CLI layer), in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"staticmanifest/internal/manifest"
)

// DefaultPath is where Load looks when no config file is given.
const DefaultPath = "staticmanifest.yaml"

// Config is the root configuration.
type Config struct {
	Manifest ManifestConfig `yaml:"manifest"`
	Resolver ResolverConfig `yaml:"resolver"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ManifestConfig locates the manifest file produced by the asset pipeline.
type ManifestConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // auto, staticfiles, vite
}

// ResolverConfig sets the fallback policy for missing entries.
type ResolverConfig struct {
	// Strict makes a missing manifest entry a hard error instead of
	// falling back to the unhashed path.
	Strict bool `yaml:"strict"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration: auto-sniffed format,
// non-strict resolution, info-level JSON logs.
func Default() *Config {
	return &Config{
		Manifest: ManifestConfig{Format: string(manifest.FormatAuto)},
		Resolver: ResolverConfig{Strict: false},
		Logging:  LoggingConfig{Level: "info", JSON: true},
	}
}

// Load reads configuration from path, falling back to defaults when path is
// empty and DefaultPath does not exist. Environment overrides are applied
// on top in either case.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; run on defaults.
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies STATICMANIFEST_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STATICMANIFEST_MANIFEST"); v != "" {
		c.Manifest.Path = v
	}
	if v := os.Getenv("STATICMANIFEST_FORMAT"); v != "" {
		c.Manifest.Format = v
	}
	if v := os.Getenv("STATICMANIFEST_STRICT"); v != "" {
		if strict, err := strconv.ParseBool(v); err == nil {
			c.Resolver.Strict = strict
		}
	}
	if v := os.Getenv("STATICMANIFEST_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks the configuration for commands that need a manifest file.
func (c *Config) Validate() error {
	if c.Manifest.Path == "" {
		return fmt.Errorf("no manifest path configured (set manifest.path, STATICMANIFEST_MANIFEST or --manifest)")
	}
	if _, err := manifest.ParseFormat(c.Manifest.Format); err != nil {
		return err
	}
	return nil
}

// Format returns the parsed manifest format. Callers should Validate first;
// an invalid name degrades to auto-sniffing.
func (c *Config) Format() manifest.Format {
	f, err := manifest.ParseFormat(c.Manifest.Format)
	if err != nil {
		return manifest.FormatAuto
	}
	return f
}
