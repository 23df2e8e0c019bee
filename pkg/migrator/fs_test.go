package migrator_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/stretchr/testify/require"
)

func TestFromFS(t *testing.T) {
	fsys := migrator.FromFS(fstest.MapFS{
		"migrations/run-once/001_a.sql": {Data: []byte("select 1;")},
		"migrations/run-once/sub/x.sql": {Data: []byte("select 2;")},
	})

	names, err := fsys.ReadDir("./migrations/run-once")
	require.NoError(t, err)
	require.Equal(t, []string{"001_a.sql"}, names)

	data, err := fsys.ReadFile("/migrations/run-once/001_a.sql")
	require.NoError(t, err)
	require.Equal(t, "select 1;", string(data))

	_, err = fsys.ReadDir("missing")
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestOS(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "run-once", "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "run-once", "001_a.sql"), []byte("select 1;"), 0o644))

	fsys := migrator.OS()

	names, err := fsys.ReadDir(filepath.Join(dir, "run-once"))
	require.NoError(t, err)
	require.Equal(t, []string{"001_a.sql"}, names)

	_, err = fsys.ReadFile(filepath.Join(dir, "missing.sql"))
	require.ErrorIs(t, err, fs.ErrNotExist)
}
