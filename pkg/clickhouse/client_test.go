package clickhouse_test

import (
	"context"
	"testing"
	"time"

	"github.com/pseudomuto/sqlmigrate/pkg/clickhouse"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcclickhouse "github.com/testcontainers/testcontainers-go/modules/clickhouse"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestNewClient_DSNParsing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tests := []struct {
		name   string
		dsn    string
		errMsg string
	}{
		{
			name:   "bare address",
			dsn:    "127.0.0.1:1",
			errMsg: "failed to connect to ClickHouse",
		},
		{
			name:   "clickhouse url",
			dsn:    "clickhouse://default:@127.0.0.1:1/default",
			errMsg: "failed to connect to ClickHouse",
		},
		{
			name:   "unparseable url",
			dsn:    "clickhouse://default:@127.0.0.1:1/default?dial_timeout=nope",
			errMsg: "invalid ClickHouse DSN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := clickhouse.NewClient(ctx, tt.dsn)
			require.Error(t, err)
			require.Nil(t, client)
			require.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestClient_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Docker tests in short mode")
	}

	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	container, err := tcclickhouse.Run(ctx,
		"clickhouse/clickhouse-server:24.3-alpine",
		tcclickhouse.WithUsername("default"),
		tcclickhouse.WithPassword(""),
		testcontainers.WithEnv(map[string]string{"CLICKHOUSE_DEFAULT_ACCESS_MANAGEMENT": "1"}),
		testcontainers.WithWaitStrategyAndDeadline(2*time.Minute, wait.ForListeningPort("9000/tcp")),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	client, err := clickhouse.NewClient(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	var c database.Conn = client
	d := database.ClickHouse

	require.NoError(t, c.Exec(ctx, d.CreateSchema("app")))
	require.NoError(t, c.Exec(ctx, d.CreateHistoryTable("app", "migrations")))
	require.NoError(t, c.Exec(ctx, d.CreateHistoryTable("app", "migrations")))

	script := `
		-- two statements in one file
		CREATE TABLE app.events (id UInt64, note String) ENGINE = MergeTree ORDER BY id;
		INSERT INTO app.events VALUES (1, 'a;b');
	`
	require.NoError(t, c.Exec(ctx, script))
	require.NoError(t, c.Exec(ctx, d.InsertHistory("app", "migrations", "migrations/run-once/001.sql", "")))

	var notes []string
	require.NoError(t, c.Select(ctx, &notes, "SELECT note FROM app.events"))
	require.Equal(t, []string{"a;b"}, notes)

	var names []string
	require.NoError(t, c.Select(ctx, &names, d.SelectHistory("app", "migrations")))
	require.Equal(t, []string{"migrations/run-once/001.sql"}, names)

	err = c.Exec(ctx, "SELECT 1; SELEC broken")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to execute statement 2")
}
