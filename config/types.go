// Package config loads quill tool configuration from quill.yml (or
// quill.toml) in the current directory or any parent.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Config is the quill.yml structure. Keys other than the known ones are
// collected into Extensions and decoded on demand with UnmarshalExtension.
type Config struct {
	Version  string         `yaml:"version" toml:"version"`
	Database DatabaseConfig `yaml:"database" toml:"database"`

	// Extensions holds configuration sections owned by other components,
	// e.g. "logging".
	Extensions map[string]interface{} `yaml:"-" toml:"-"`
}

// DatabaseConfig selects the database the quill CLI talks to.
type DatabaseConfig struct {
	// Driver is a database/sql driver name: "sqlite", "mysql", "postgres".
	Driver string `yaml:"driver" toml:"driver"`
	// DSN is the driver-specific data source name.
	DSN string `yaml:"dsn" toml:"dsn"`
}

// SetDefaults fills unset fields with their defaults.
func (c *Config) SetDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.DSN == "" && c.Database.Driver == "sqlite" {
		c.Database.DSN = "file:quill.db"
	}
}

// knownKeys are the top-level keys that belong to Config itself; everything
// else is an extension section.
var knownKeys = map[string]bool{
	"version":  true,
	"database": true,
}

// UnmarshalExtension decodes an extension section into a typed struct,
// using `yaml` field tags. A missing key leaves the target zero-valued.
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	section, ok := c.Extensions[key]
	if !ok {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create extension decoder: %w", err)
	}

	if err := decoder.Decode(section); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}
	return nil
}
