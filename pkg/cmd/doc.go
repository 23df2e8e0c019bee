// Package cmd provides the CLI commands of sqlmigrate.
//
// # Available Commands
//
//   - init: create sqlmigrate.yaml and the migrations folder
//   - create: add an empty, timestamped migration
//   - up: apply pending migrations (--dry-run lists them instead)
//   - check: render and parse every migration without a database
//
// # Command Structure
//
// Each command is a function returning a *cli.Command, following the urfave/cli/v3 pattern.
// Commands receive their dependencies through fx parameter structs and are registered in the
// "commands" value group by Module, which also invokes Run.
//
// # Configuration
//
// Commands read sqlmigrate.yaml from the working directory (or $SQLMIGRATE_CONFIG). Flags such as
// --schema, --folder, --table, --driver and --dsn override the file for a single invocation.
//
// # Output
//
// Progress goes to stdout:
//
//	$ sqlmigrate up --schema app
//	Applying migrations to schema "app"
//	> migrations/app/run-once/1718236800_add_users.sql
//	> migrations/app/run-always/001_refresh_views.sql
//	2 migrations applied. DB is up to date.
//
// Logs go to stderr through log/slog. Failures exit with status 1.
package cmd
