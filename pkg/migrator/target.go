package migrator

import (
	"path"
)

// Target identifies where migration files live and where history is recorded.
type Target struct {
	// Schema qualifies the history table and is created before the first run. Empty means no
	// schema qualification or creation step.
	Schema string

	// Folder is the root migrations folder. When Schema is set, files are read from Folder/Schema.
	Folder string

	// FolderFunc, when set, computes the folder from the schema and takes precedence over Folder.
	FolderFunc func(schema string) string

	// Table is the history table name.
	Table string
}

// ResolveFolder returns the folder migration files and the manifest are read from.
//
// Example:
//
//	migrator.Target{Folder: "migrations"}.ResolveFolder()                 // migrations
//	migrator.Target{Schema: "app", Folder: "migrations"}.ResolveFolder()  // migrations/app
func (t Target) ResolveFolder() string {
	if t.FolderFunc != nil {
		return path.Clean(t.FolderFunc(t.Schema))
	}

	if t.Schema == "" {
		return path.Clean(t.Folder)
	}

	return path.Join(t.Folder, t.Schema)
}

// Dependency returns the Target used for a folder named in a manifest. Dependency folders are
// used exactly as written and never carry a schema.
func (t Target) Dependency(folder string) Target {
	return Target{Folder: folder, Table: t.Table}
}
