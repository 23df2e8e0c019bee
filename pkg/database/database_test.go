package database_test

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T, opts database.Options) database.Conn {
	t.Helper()

	opts.Driver = database.DriverSQLite
	opts.DSN = filepath.Join(t.TempDir(), "test.db")

	conn, err := database.Open(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t, database.Options{})

	d := database.SQLite
	require.NoError(t, conn.Exec(ctx, d.CreateHistoryTable("app", "migrations")))
	require.NoError(t, conn.Exec(ctx, d.CreateHistoryTable("app", "migrations")))
	require.NoError(t, conn.Exec(ctx, d.InsertHistory("app", "migrations", "b.sql", "'2024-01-01 00:00:00.000'")))
	require.NoError(t, conn.Exec(ctx, d.InsertHistory("app", "migrations", "a.sql", "'2024-01-01 00:00:00.000'")))
	require.NoError(t, conn.Exec(ctx, d.InsertHistory("app", "migrations", "c.sql", "'2023-12-31 00:00:00.000'")))
	require.NoError(t, conn.Exec(ctx, d.InsertHistory("app", "migrations", "a.sql", "'2025-01-01 00:00:00.000'")))

	var names []string
	require.NoError(t, conn.Select(ctx, &names, d.SelectHistory("app", "migrations")))
	require.Equal(t, []string{"c.sql", "b.sql", "a.sql"}, names)
}

func TestOpen_SQLiteMultipleStatements(t *testing.T) {
	ctx := context.Background()
	conn := openSQLite(t, database.Options{})

	require.NoError(t, conn.Exec(ctx, "create table a (id int); create table b (id int); insert into b values (1);"))

	var ids []int
	require.NoError(t, conn.Select(ctx, &ids, "select id from b"))
	require.Equal(t, []int{1}, ids)
}

func TestOpen_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	conn := openSQLite(t, database.Options{Debug: true, Logger: logger})
	require.NoError(t, conn.Exec(context.Background(), "create table logged (id int)"))
	require.Contains(t, buf.String(), "create table logged")
}

func TestOpen_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := database.Open(ctx, database.Options{Driver: "oracle", DSN: "x"})
	require.EqualError(t, err, "unsupported driver: oracle")

	_, err = database.Open(ctx, database.Options{Driver: database.DriverMySQL, DSN: "not a dsn"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid mysql dsn")
}
