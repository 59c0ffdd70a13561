// Package hooks models the pre-commit hook configuration file: a list of
// tool repositories, each pinned to a revision, each contributing hooks
// with optional arguments. The package parses and validates the document;
// running hooks is the job of an external runner and deliberately out of
// scope.
package hooks

import (
	"fmt"
	"os"
	"sort"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/quill/errors"
)

// Config is the root of a hook configuration document.
type Config struct {
	Repos []Repo `yaml:"repos" json:"repos" jsonschema:"required,description=Tool repositories contributing hooks"`
}

// Repo is one tool repository entry.
type Repo struct {
	// Repo is the source location of the tool repository.
	Repo string `yaml:"repo" json:"repo" jsonschema:"required,minLength=1,description=Source URL of the tool repository"`
	// Rev pins the repository to a fixed revision for reproducible runs.
	Rev string `yaml:"rev" json:"rev" jsonschema:"required,minLength=1,description=Revision pin (tag or commit)"`
	// Hooks are the hooks taken from this repository.
	Hooks []Hook `yaml:"hooks" json:"hooks" jsonschema:"required,minItems=1,description=Hooks taken from this repository"`
}

// Hook is one hook invocation.
type Hook struct {
	ID string `yaml:"id" json:"id" jsonschema:"required,minLength=1,description=Hook identifier within its repository"`
	// Args are extra command-line arguments passed to the hook.
	Args []string `yaml:"args,omitempty" json:"args,omitempty" jsonschema:"description=Extra command-line arguments"`
	// LanguageVersion constrains the runtime the hook runs under.
	LanguageVersion string `yaml:"language_version,omitempty" json:"language_version,omitempty" jsonschema:"description=Runtime version constraint"`
}

// Load reads and parses a hook configuration file. Keys the schema does not
// know are reported as warnings, not errors, so documents written for newer
// runners still load.
func Load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.ConfigNotFound(path)
		}
		return nil, nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read hook config")
	}
	return Parse(data)
}

// Parse parses a hook configuration document.
func Parse(data []byte) (*Config, []string, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse hook config YAML")
	}
	if raw == nil {
		return nil, nil, errors.ConfigInvalid("hook config is empty")
	}

	var cfg Config
	var meta mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   &cfg,
		TagName:  "yaml",
		Metadata: &meta,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create hook config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode hook config")
	}

	sort.Strings(meta.Unused)
	warnings := make([]string, 0, len(meta.Unused))
	for _, key := range meta.Unused {
		warnings = append(warnings, fmt.Sprintf("unknown key %q ignored", key))
	}

	return &cfg, warnings, nil
}
