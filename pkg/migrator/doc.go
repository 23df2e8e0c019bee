// Package migrator discovers migration files and decides which of them still need to run.
//
// A migrations folder holds two subfolders. Files in run-once are applied a single time and
// recorded in the history table under their full path. Files in run-always are applied on every
// run and never recorded. Both must be named <digits>-<name>.sql or <digits>_<name>.sql and are
// ordered by file name:
//
//	migrations/
//	├── migrations.json
//	├── run-once/
//	│   ├── 001_create_users.sql
//	│   └── 002_add_email.sql
//	└── run-always/
//	    └── 001_grants.sql
//
// The optional migrations.json names folders whose migrations run before and after the folder's
// own. Those folders are discovered as written, without a schema, and their own manifests are not
// read.
//
// Resolve turns a Target into a RunPlan holding one Batch per folder. Tracker loads the History
// of a Target, and Plan filters the RunPlan against it, honouring version markers written by
// versioned runs.
package migrator
