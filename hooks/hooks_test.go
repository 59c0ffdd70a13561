package hooks

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/quill/errors"
	"github.com/grovetools/quill/testutil"
)

const sampleConfig = `repos:
  - repo: https://github.com/psf/black
    rev: 23.3.0
    hooks:
      - id: black
        language_version: python3.11
  - repo: https://github.com/pycqa/isort
    rev: 5.12.0
    hooks:
      - id: isort
        args: ["--profile", "black"]
`

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, ".pre-commit-config.yaml", sampleConfig)

	cfg, warnings, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, cfg.Repos, 2)
	assert.Equal(t, "https://github.com/psf/black", cfg.Repos[0].Repo)
	assert.Equal(t, "23.3.0", cfg.Repos[0].Rev)
	require.Len(t, cfg.Repos[0].Hooks, 1)
	assert.Equal(t, "black", cfg.Repos[0].Hooks[0].ID)
	assert.Equal(t, "python3.11", cfg.Repos[0].Hooks[0].LanguageVersion)
	assert.Equal(t, []string{"--profile", "black"}, cfg.Repos[1].Hooks[0].Args)
}

func TestLoadMissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestParseUnknownKeysWarn(t *testing.T) {
	doc := `repos:
  - repo: https://example.com/tools
    rev: v1.0.0
    hooks:
      - id: fmt
        stages: [commit]
fail_fast: true
`
	cfg, warnings, err := Parse([]byte(doc))
	require.NoError(t, err)
	require.Len(t, cfg.Repos, 1)

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "fail_fast")
	assert.Contains(t, warnings[1], "stages")
}

func TestParseInvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("repos: [unclosed"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestParseEmpty(t *testing.T) {
	_, _, err := Parse([]byte(""))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestValidate(t *testing.T) {
	cfg, _, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	assert.NoError(t, Validate(cfg))
}

func TestValidateViolations(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
		want string
	}{
		{
			name: "missing rev",
			cfg: &Config{Repos: []Repo{{
				Repo:  "https://example.com/tools",
				Hooks: []Hook{{ID: "fmt"}},
			}}},
			want: "rev",
		},
		{
			name: "empty hooks",
			cfg: &Config{Repos: []Repo{{
				Repo:  "https://example.com/tools",
				Rev:   "v1.0.0",
				Hooks: []Hook{},
			}}},
			want: "hooks",
		},
		{
			name: "hook without id",
			cfg: &Config{Repos: []Repo{{
				Repo:  "https://example.com/tools",
				Rev:   "v1.0.0",
				Hooks: []Hook{{Args: []string{"-w"}}},
			}}},
			want: "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "Hook Configuration", schema["title"])

	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "repos")
}
