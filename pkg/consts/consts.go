package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultSchema is the schema history and migrations live in when none is configured
	DefaultSchema = "public"

	// DefaultTable is the name of the migration history table
	DefaultTable = "migrations"

	// DefaultFolder is the root folder migration files are discovered in
	DefaultFolder = "./migrations"

	// DefaultDialect disables SQL parsing during check, leaving only template validation
	DefaultDialect = "none"

	// DefaultConfigFile is the config file loaded from the working directory
	DefaultConfigFile = "sqlmigrate.yaml"

	// RunOnceDir holds migrations applied exactly once
	RunOnceDir = "run-once"

	// RunAlwaysDir holds migrations applied on every run
	RunAlwaysDir = "run-always"

	// ManifestFile declares folders to run before and after a migrations folder
	ManifestFile = "migrations.json"

	// VersionPrefix prefixes the history row recording a completed versioned run
	VersionPrefix = "version-"
)
