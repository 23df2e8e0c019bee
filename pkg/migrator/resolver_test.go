package migrator_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	fsys := migrator.FromFS(fstest.MapFS{
		"migrations/app/migrations.json":          {Data: []byte(`{"before": ["shared/ext"], "after": ["shared/grants", "shared/empty"]}`)},
		"migrations/app/run-once/001_tables.sql":  {Data: []byte("create table t (id int);")},
		"migrations/app/run-always/001_views.sql": {Data: []byte("create view v as select 1;")},
		"shared/ext/run-once/001_ext.sql":         {Data: []byte("select 1;")},
		"shared/ext/migrations.json":              {Data: []byte(`{"before": ["never/read"]}`)},
		"shared/grants/run-always/001_grant.sql":  {Data: []byte("select 1;")},
	})

	plan, err := migrator.Resolve(context.Background(), fsys, migrator.Target{
		Schema: "app",
		Folder: "migrations",
		Table:  "migrations",
	})
	require.NoError(t, err)

	require.Equal(t, migrator.RunPlan{
		{Folder: "shared/ext", Once: []string{"shared/ext/run-once/001_ext.sql"}},
		{
			Folder: "migrations/app",
			Once:   []string{"migrations/app/run-once/001_tables.sql"},
			Always: []string{"migrations/app/run-always/001_views.sql"},
		},
		{Folder: "shared/grants", Always: []string{"shared/grants/run-always/001_grant.sql"}},
		{Folder: "shared/empty"},
	}, plan)
}

func TestResolveErrors(t *testing.T) {
	t.Run("invalid manifest", func(t *testing.T) {
		fsys := migrator.FromFS(fstest.MapFS{
			"migrations/migrations.json": {Data: []byte(`{"before": []}`)},
		})

		_, err := migrator.Resolve(context.Background(), fsys, migrator.Target{Folder: "migrations"})
		var merr *migrator.ManifestError
		require.ErrorAs(t, err, &merr)
	})

	t.Run("invalid names across folders are combined", func(t *testing.T) {
		fsys := migrator.FromFS(fstest.MapFS{
			"migrations/migrations.json":   {Data: []byte(`{"after": ["other"]}`)},
			"migrations/run-once/bad.sql":  {Data: []byte("select 1;")},
			"other/run-always/worse.sql":   {Data: []byte("select 1;")},
			"other/run-once/001_sound.sql": {Data: []byte("select 1;")},
		})

		_, err := migrator.Resolve(context.Background(), fsys, migrator.Target{Folder: "migrations"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "bad.sql")
		require.Contains(t, err.Error(), "worse.sql")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := migrator.Resolve(ctx, migrator.FromFS(fstest.MapFS{}), migrator.Target{Folder: "migrations"})
		require.ErrorIs(t, err, context.Canceled)
	})
}
