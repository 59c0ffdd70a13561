// Package testutil provides shared helpers for quill's tests.
package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/grovetools/quill/builder"
	"github.com/grovetools/quill/engine"
)

// OpenSQLite opens an in-memory SQLite database. The pool is capped at a
// single connection so every statement sees the same in-memory database.
func OpenSQLite(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// SQLiteEngine returns an engine over a fresh in-memory SQLite database.
func SQLiteEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(OpenSQLite(t), builder.NewSQLite())
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
