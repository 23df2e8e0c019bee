package migrator_test

import (
	"testing"
	"testing/fstest"

	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/stretchr/testify/require"
)

func TestListFiles(t *testing.T) {
	fsys := migrator.FromFS(fstest.MapFS{
		"migrations/run-once/002_users.sql":       {Data: []byte("select 2;")},
		"migrations/run-once/001-init.sql":        {Data: []byte("select 1;")},
		"migrations/run-once/README.md":           {Data: []byte("docs")},
		"migrations/run-always/010_grants.sql":    {Data: []byte("select 10;")},
		"broken/run-once/001_ok.sql":              {Data: []byte("select 1;")},
		"broken/run-once/init.sql":                {Data: []byte("select 1;")},
		"broken/run-once/02.sql":                  {Data: []byte("select 1;")},
		"migrations/run-once/nested/003_skip.sql": {Data: []byte("select 3;")},
	})

	tests := []struct {
		name      string
		folder    string
		runAlways bool
		files     []string
	}{
		{
			name:   "run-once sorted with full paths",
			folder: "migrations",
			files:  []string{"migrations/run-once/001-init.sql", "migrations/run-once/002_users.sql"},
		},
		{
			name:      "run-always",
			folder:    "migrations",
			runAlways: true,
			files:     []string{"migrations/run-always/010_grants.sql"},
		},
		{
			name:   "missing folder",
			folder: "nope",
		},
		{
			name:      "missing subdirectory",
			folder:    "broken",
			runAlways: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			files, err := migrator.ListFiles(fsys, tt.folder, tt.runAlways)
			require.NoError(t, err)
			require.Equal(t, tt.files, files)
		})
	}

	t.Run("invalid names", func(t *testing.T) {
		_, err := migrator.ListFiles(fsys, "broken", false)
		require.Error(t, err)

		var invalid *migrator.InvalidFilenamesError
		require.ErrorAs(t, err, &invalid)
		require.Equal(t, "broken/run-once", invalid.Folder)
		require.Equal(t, []string{"02.sql", "init.sql"}, invalid.Files)
		require.Contains(t, err.Error(), "02.sql, init.sql")
	})
}

func TestRunPlan(t *testing.T) {
	plan := migrator.RunPlan{
		{Folder: "a", Once: []string{"a/run-once/1_a.sql"}, Always: []string{"a/run-always/1_b.sql"}},
		{Folder: "b"},
		{Folder: "c", Once: []string{"c/run-once/1_c.sql"}},
	}

	require.Equal(t, 3, plan.Len())
	require.Equal(t, 0, plan[1].Len())
	require.Equal(t, []string{
		"a/run-once/1_a.sql",
		"a/run-always/1_b.sql",
		"c/run-once/1_c.sql",
	}, plan.Files())
}
