// Package migrate runs migrations end to end.
//
// A Runner resolves the migration files of a target (its own folder plus the folders named in its
// migrations.json), loads the history table, plans what is still pending and applies it:
//
//	conn, err := database.Open(ctx, database.Options{Driver: "postgres", DSN: dsn})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer conn.Close()
//
//	runner := migrate.New(migrate.Config{
//		DB:      conn,
//		Dialect: database.Postgres,
//		Params:  params.Env("SQLMIGRATE_PARAM_", os.Environ()),
//	})
//
//	applied, err := runner.Up(ctx, migrate.Options{
//		Target:        migrator.Target{Schema: "public", Folder: "./migrations", Table: "migrations"},
//		UseVersioning: true,
//		Version:       "2024.06.01",
//	})
//
// # Folder Layout
//
//	migrations/
//	├── migrations.json          optional {"before": [...], "after": [...]}
//	├── run-once/
//	│   ├── 001_create_users.sql
//	│   └── 002_add_email.sql
//	└── run-always/
//	    └── 001_refresh_views.sql
//
// Run-once files are applied a single time and recorded in the history table by path. Run-always
// files are applied on every run. Check validates every file without a database connection.
package migrate
