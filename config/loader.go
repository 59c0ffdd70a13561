package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/quill/errors"
)

// configNames are the file names looked for, in priority order.
var configNames = []string{"quill.yml", "quill.yaml", "quill.toml"}

// FindConfigFile walks from dir upward and returns the first quill config
// file found.
func FindConfigFile(dir string) (string, error) {
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.ConfigNotFound(dir)
		}
		dir = parent
	}
}

// Load reads and parses a config file, choosing the format by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file")
	}

	var cfg Config
	var raw map[string]interface{}

	if strings.HasSuffix(path, ".toml") {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML config")
		}
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML config")
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML config")
		}
	}

	for key, value := range raw {
		if knownKeys[key] {
			continue
		}
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]interface{})
		}
		cfg.Extensions[key] = value
	}

	cfg.SetDefaults()
	return &cfg, nil
}

// LoadDefault finds and loads the config starting from the working
// directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to get working directory")
	}
	path, err := FindConfigFile(cwd)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
