package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quill.yml", `
version: "1.0"
database:
  driver: mysql
  dsn: user:pass@/quill
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "user:pass@/quill", cfg.Database.DSN)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quill.toml", `
version = "1.0"

[database]
driver = "sqlite"
dsn = "file:test.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:test.db", cfg.Database.DSN)
}

func TestDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quill.yml", `version: "1.0"`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:quill.db", cfg.Database.DSN)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "quill.yml"))
	require.Error(t, err)
}

func TestFindConfigFileWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "quill.yml", `version: "1.0"`)

	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "quill.yml"), found)

	_, err = FindConfigFile(t.TempDir())
	require.Error(t, err)
}

func TestUnmarshalExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "quill.yml", `
version: "1.0"
logging:
  level: debug
  report_caller: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	var logCfg struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	// Missing extension keys leave the target untouched.
	var other struct {
		Value string `yaml:"value"`
	}
	require.NoError(t, cfg.UnmarshalExtension("absent", &other))
	assert.Empty(t, other.Value)
}
