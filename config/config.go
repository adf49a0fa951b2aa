// Package config loads server and CLI settings from an optional YAML or TOML
// file, then applies environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the server and the CLI. Each field
// can be overridden by the environment variable named next to it.
type Config struct {
	HTTPAddr    string `yaml:"http_addr" toml:"http_addr"`       // CANVAS_HTTP_ADDR (default ":3000")
	DatabaseURL string `yaml:"database_url" toml:"database_url"` // DATABASE_URL (optional, empty = in-memory store)
	LogLevel    string `yaml:"log_level" toml:"log_level"`       // CANVAS_LOG_LEVEL (default "info")

	Layout Layout `yaml:"layout" toml:"layout"`
}

// Layout holds the origin used when the server lays out a workflow.
type Layout struct {
	StartX float64 `yaml:"start_x" toml:"start_x"`
	StartY float64 `yaml:"start_y" toml:"start_y"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		HTTPAddr: ":3000",
		LogLevel: "info",
		Layout:   Layout{StartX: 100, StartY: 100},
	}
}

// Load reads the file at path, if any, over the defaults and then applies
// environment overrides. A missing file is not an error.
// Files ending in .toml are decoded as TOML, everything else as YAML.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		case strings.EqualFold(filepath.Ext(path), ".toml"):
			if err := toml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		default:
			if err := yaml.Unmarshal(data, c); err != nil {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	c.DatabaseURL = envOrDefault("DATABASE_URL", c.DatabaseURL)
	c.HTTPAddr = envOrDefault("CANVAS_HTTP_ADDR", c.HTTPAddr)
	c.LogLevel = envOrDefault("CANVAS_LOG_LEVEL", c.LogLevel)

	if c.HTTPAddr == "" {
		return nil, fmt.Errorf("config: http_addr is required")
	}
	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
