package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/stretchr/testify/require"
)

// RequireValidProject asserts that a project structure is correctly initialized
func RequireValidProject(t *testing.T, projectDir string) {
	t.Helper()

	require.FileExists(t, filepath.Join(projectDir, consts.DefaultConfigFile), "sqlmigrate.yaml should exist")
	require.DirExists(t, filepath.Join(projectDir, "migrations", consts.RunOnceDir), "run-once directory should exist")
	require.DirExists(t, filepath.Join(projectDir, "migrations", consts.RunAlwaysDir), "run-always directory should exist")
}

// RequireFileExists asserts that a file exists and optionally checks its content
func RequireFileExists(t *testing.T, path string, checks ...func(content string)) {
	t.Helper()

	require.FileExists(t, path, "File should exist: %s", path)

	if len(checks) > 0 {
		content, err := os.ReadFile(path)
		require.NoError(t, err, "Failed to read file: %s", path)

		for _, check := range checks {
			check(string(content))
		}
	}
}

// RequireFileContains returns a check function that verifies file contains text
func RequireFileContains(t *testing.T, expected string) func(string) {
	return func(content string) {
		require.Contains(t, content, expected, "File should contain: %s", expected)
	}
}

// RequireHistory asserts the names recorded in the history table of the SQLite database at dsn,
// in insertion order.
func RequireHistory(t *testing.T, dsn, table string, expected ...string) {
	t.Helper()

	ctx := context.Background()
	conn, err := database.Open(ctx, database.Options{Driver: database.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	var names []string
	require.NoError(t, conn.Select(ctx, &names, "SELECT name FROM "+table+" ORDER BY rowid"))

	if len(expected) == 0 {
		require.Empty(t, names)
		return
	}

	require.Equal(t, expected, names)
}
