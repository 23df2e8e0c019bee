// Package project manages the files of a sqlmigrate project.
//
// Initialize scaffolds a project and CreateMigration adds empty, timestamped migration files to
// it. A freshly initialized project looks like this:
//
//	project-root/
//	├── sqlmigrate.yaml
//	└── migrations/
//	    ├── run-once/         applied once, recorded in the history table
//	    └── run-always/       applied on every run
//
// When a schema is configured, migrations live in a folder named after it
// (migrations/<schema>/run-once). CreateMigration creates that folder on demand.
package project
