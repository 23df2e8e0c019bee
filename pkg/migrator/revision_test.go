package migrator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/stretchr/testify/require"
)

type mockDB struct {
	statements []string
	execFunc   func(query string) error
	selectFunc func(dest any, query string) error
}

func (m *mockDB) Exec(ctx context.Context, query string) error {
	m.statements = append(m.statements, query)
	if m.execFunc != nil {
		return m.execFunc(query)
	}

	return nil
}

func (m *mockDB) Select(ctx context.Context, dest any, query string) error {
	m.statements = append(m.statements, query)
	if m.selectFunc != nil {
		return m.selectFunc(dest, query)
	}

	return nil
}

func TestNewHistory(t *testing.T) {
	h := migrator.NewHistory([]string{
		"m/run-once/001_a.sql",
		"version-v1",
		"m/run-once/002_b.sql",
		"m/run-once/001_a.sql",
		"version-v2",
		"version-",
	})

	require.True(t, h.IsCompleted("m/run-once/001_a.sql"))
	require.True(t, h.IsCompleted("m/run-once/002_b.sql"))
	require.False(t, h.IsCompleted("version-v1"))
	require.False(t, h.IsCompleted("m/run-once/003_c.sql"))

	// "version-" carries no version, so it is an ordinary name
	require.True(t, h.IsCompleted("version-"))

	require.Equal(t, []string{"m/run-once/001_a.sql", "m/run-once/002_b.sql", "version-"}, h.Completed())
	require.Equal(t, []string{"v1", "v2"}, h.Versions())

	v, ok := h.ActiveVersion()
	require.True(t, ok)
	require.Equal(t, "v2", v)

	_, ok = migrator.NewHistory(nil).ActiveVersion()
	require.False(t, ok)
}

func TestTracker(t *testing.T) {
	target := migrator.Target{Schema: "app", Folder: "migrations", Table: "history"}

	t.Run("bootstrap", func(t *testing.T) {
		db := &mockDB{}
		tracker := migrator.NewTracker(db, database.Postgres, target, "")

		require.NoError(t, tracker.Bootstrap(context.Background()))
		require.Equal(t, []string{
			database.Postgres.CreateSchema("app"),
			database.Postgres.CreateHistoryTable("app", "history"),
		}, db.statements)
	})

	t.Run("bootstrap without schema support", func(t *testing.T) {
		db := &mockDB{}
		tracker := migrator.NewTracker(db, database.SQLite, target, "")

		require.NoError(t, tracker.Bootstrap(context.Background()))
		require.Len(t, db.statements, 1)
	})

	t.Run("bootstrap failure", func(t *testing.T) {
		db := &mockDB{execFunc: func(string) error { return errors.New("denied") }}
		tracker := migrator.NewTracker(db, database.Postgres, target, "")

		err := tracker.Bootstrap(context.Background())
		require.EqualError(t, err, "failed to create schema app: denied")
	})

	t.Run("load", func(t *testing.T) {
		db := &mockDB{selectFunc: func(dest any, _ string) error {
			*dest.(*[]string) = []string{"migrations/app/run-once/001_a.sql", "version-v3"}
			return nil
		}}
		tracker := migrator.NewTracker(db, database.Postgres, target, "")

		h, err := tracker.Load(context.Background())
		require.NoError(t, err)
		require.True(t, h.IsCompleted("migrations/app/run-once/001_a.sql"))
		require.Equal(t, []string{"v3"}, h.Versions())
		require.Equal(t, []string{database.Postgres.SelectHistory("app", "history")}, db.statements)
	})

	t.Run("record", func(t *testing.T) {
		db := &mockDB{}
		tracker := migrator.NewTracker(db, database.Postgres, target, "'2024-01-01'")

		require.NoError(t, tracker.Record(context.Background(), "migrations/app/run-once/001_a.sql"))
		require.NoError(t, tracker.RecordVersion(context.Background(), "v4"))
		require.Equal(t, []string{
			database.Postgres.InsertHistory("app", "history", "migrations/app/run-once/001_a.sql", "'2024-01-01'"),
			database.Postgres.InsertHistory("app", "history", "version-v4", "'2024-01-01'"),
		}, db.statements)
	})
}
