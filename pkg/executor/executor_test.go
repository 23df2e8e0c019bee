package executor_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/executor"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/pseudomuto/sqlmigrate/pkg/params"
	"github.com/pseudomuto/sqlmigrate/pkg/template"
	"github.com/stretchr/testify/require"
)

type mockDB struct {
	executed []string
	execFunc func(query string) error
}

func (m *mockDB) Exec(ctx context.Context, query string) error {
	if m.execFunc != nil {
		if err := m.execFunc(query); err != nil {
			return err
		}
	}

	m.executed = append(m.executed, query)
	return nil
}

func (m *mockDB) Select(ctx context.Context, dest any, query string) error {
	return nil
}

type mockTracker struct {
	bootstraps    int
	recorded      []string
	versions      []string
	bootstrapFunc func() error
	recordFunc    func(name string) error
}

func (m *mockTracker) Bootstrap(ctx context.Context) error {
	m.bootstraps++
	if m.bootstrapFunc != nil {
		return m.bootstrapFunc()
	}

	return nil
}

func (m *mockTracker) Record(ctx context.Context, name string) error {
	if m.recordFunc != nil {
		if err := m.recordFunc(name); err != nil {
			return err
		}
	}

	m.recorded = append(m.recorded, name)
	return nil
}

func (m *mockTracker) RecordVersion(ctx context.Context, version string) error {
	m.versions = append(m.versions, version)
	return nil
}

var (
	files = migrator.FromFS(fstest.MapFS{
		"shared/run-once/001_ext.sql":  {Data: []byte("create extension x;")},
		"m/run-once/001_a.sql":         {Data: []byte("create table {{table}} (id int);")},
		"m/run-once/002_b.sql":         {Data: []byte("alter table {{table}} add b int;")},
		"m/run-always/001_v.sql":       {Data: []byte("create or replace view v as select * from {{table}};")},
		"m/run-once/003_empty.sql":     {Data: []byte("  \n")},
		"m/run-once/004_undefined.sql": {Data: []byte("grant {{role}} to x;")},
	})

	plan = migrator.RunPlan{
		{Folder: "shared", Once: []string{"shared/run-once/001_ext.sql"}},
		{
			Folder: "m",
			Once:   []string{"m/run-once/001_a.sql", "m/run-once/002_b.sql"},
			Always: []string{"m/run-always/001_v.sql"},
		},
	}
)

func TestExecute(t *testing.T) {
	db := &mockDB{}
	tracker := &mockTracker{}

	var (
		logs    bytes.Buffer
		applied []string
	)

	exec := executor.New(executor.Config{
		DB:      db,
		Tracker: tracker,
		FS:      files,
		Params:  params.Static(map[string]string{"table": "users"}),
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	n, err := exec.Execute(context.Background(), plan, executor.Options{
		UseVersioning: true,
		Version:       "v1",
		OnApplied:     func(name string) { applied = append(applied, name) },
	})
	require.NoError(t, err)
	require.Equal(t, 4, n)

	require.Equal(t, []string{
		"create extension x;",
		"create table users (id int);",
		"alter table users add b int;",
		"create or replace view v as select * from users;",
	}, db.executed)

	require.Equal(t, plan.Files(), applied)
	require.Equal(t, []string{
		"shared/run-once/001_ext.sql",
		"m/run-once/001_a.sql",
		"m/run-once/002_b.sql",
	}, tracker.recorded)
	require.Equal(t, []string{"v1"}, tracker.versions)
	require.Equal(t, 1, tracker.bootstraps)

	require.Contains(t, logs.String(), "file=m/run-once/001_a.sql")
	require.Contains(t, logs.String(), "count=4")

	// a second run on the same executor doesn't bootstrap again
	_, err = exec.Execute(context.Background(), nil, executor.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, tracker.bootstraps)
}

func TestExecuteResolvesParametersOnce(t *testing.T) {
	calls := 0
	src := params.SourceFunc(func(context.Context, migrator.Target) (template.Parameters, error) {
		calls++
		return template.Parameters{"table": "users"}, nil
	})

	exec := executor.New(executor.Config{DB: &mockDB{}, Tracker: &mockTracker{}, FS: files, Params: src})

	n, err := exec.Execute(context.Background(), plan, executor.Options{})
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, 1, calls)
}

func TestExecuteEmptyPlanRecordsVersion(t *testing.T) {
	tracker := &mockTracker{}
	exec := executor.New(executor.Config{DB: &mockDB{}, Tracker: tracker, FS: files})

	n, err := exec.Execute(context.Background(), migrator.RunPlan{}, executor.Options{UseVersioning: true, Version: "v9"})
	require.NoError(t, err)
	require.Zero(t, n)
	require.Equal(t, []string{"v9"}, tracker.versions)
}

func TestExecuteFailures(t *testing.T) {
	tests := []struct {
		name     string
		plan     migrator.RunPlan
		opts     executor.Options
		setup    func(*mockDB, *mockTracker)
		applied  int
		file     string
		errMatch string
	}{
		{
			name:     "version required",
			plan:     plan,
			opts:     executor.Options{UseVersioning: true},
			errMatch: "no version was given",
		},
		{
			name: "bootstrap failure",
			plan: plan,
			setup: func(_ *mockDB, tr *mockTracker) {
				tr.bootstrapFunc = func() error { return errors.New("permission denied") }
			},
			errMatch: "permission denied",
		},
		{
			name: "exec failure stops the run",
			plan: plan,
			setup: func(db *mockDB, _ *mockTracker) {
				db.execFunc = func(q string) error {
					if q == "alter table users add b int;" {
						return errors.New("syntax error")
					}
					return nil
				}
			},
			applied:  2,
			file:     "m/run-once/002_b.sql",
			errMatch: "migration m/run-once/002_b.sql failed: syntax error",
		},
		{
			name: "record failure",
			plan: plan,
			setup: func(_ *mockDB, tr *mockTracker) {
				tr.recordFunc = func(string) error { return errors.New("disk full") }
			},
			file:     "shared/run-once/001_ext.sql",
			errMatch: "disk full",
		},
		{
			name:     "empty migration",
			plan:     migrator.RunPlan{{Folder: "m", Once: []string{"m/run-once/003_empty.sql"}}},
			file:     "m/run-once/003_empty.sql",
			errMatch: "found empty migration in m/run-once/003_empty.sql",
		},
		{
			name:     "missing parameter",
			plan:     migrator.RunPlan{{Folder: "m", Once: []string{"m/run-once/004_undefined.sql"}}},
			file:     "m/run-once/004_undefined.sql",
			errMatch: "found extra parameters (role) in m/run-once/004_undefined.sql",
		},
		{
			name:     "missing file",
			plan:     migrator.RunPlan{{Folder: "m", Always: []string{"m/run-always/999_gone.sql"}}},
			file:     "m/run-always/999_gone.sql",
			errMatch: "failed to read migration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockDB{}
			tracker := &mockTracker{}
			if tt.setup != nil {
				tt.setup(db, tracker)
			}

			exec := executor.New(executor.Config{
				DB:      db,
				Tracker: tracker,
				FS:      files,
				Params:  params.Static(map[string]string{"table": "users"}),
			})

			n, err := exec.Execute(context.Background(), tt.plan, tt.opts)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errMatch)
			require.Equal(t, tt.applied, n)
			require.Empty(t, tracker.versions)

			if tt.file != "" {
				var merr *executor.MigrationError
				require.ErrorAs(t, err, &merr)
				require.Equal(t, tt.file, merr.File)
			}
		})
	}
}
