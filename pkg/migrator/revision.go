package migrator

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
)

var versionPattern = regexp.MustCompile(`^` + regexp.QuoteMeta(consts.VersionPrefix) + `(.+)$`)

type (
	// History is the migration history read from the history table. Rows are partitioned into
	// completed migrations and version markers, both kept in the order they were recorded.
	History struct {
		completed map[string]struct{}
		names     []string
		versions  []string
	}

	// Tracker reads and writes the history table of a Target.
	Tracker struct {
		db      database.DB
		dialect *database.Dialect
		target  Target
		now     string
	}
)

// NewHistory partitions recorded names into completed migrations and version markers.
//
// Example usage:
//
//	h := migrator.NewHistory([]string{"migrations/run-once/001.sql", "version-v1"})
//	h.IsCompleted("migrations/run-once/001.sql")  // true
//	h.ActiveVersion()                              // "v1", true
func NewHistory(names []string) *History {
	h := &History{completed: make(map[string]struct{}, len(names))}

	for _, name := range names {
		if m := versionPattern.FindStringSubmatch(name); m != nil {
			h.versions = append(h.versions, m[1])
			continue
		}

		if _, ok := h.completed[name]; ok {
			continue
		}

		h.completed[name] = struct{}{}
		h.names = append(h.names, name)
	}

	return h
}

// IsCompleted reports whether name has been recorded as an applied run-once migration. Version
// markers are never completed migrations.
func (h *History) IsCompleted(name string) bool {
	_, ok := h.completed[name]
	return ok
}

// Completed returns the applied migrations in the order they were recorded.
func (h *History) Completed() []string {
	return h.names
}

// Versions returns every recorded version in the order they were recorded.
func (h *History) Versions() []string {
	return h.versions
}

// ActiveVersion returns the most recently recorded version, if any.
func (h *History) ActiveVersion() (string, bool) {
	if len(h.versions) == 0 {
		return "", false
	}

	return h.versions[len(h.versions)-1], true
}

// NewTracker creates a Tracker recording history for target. now is the SQL expression used for
// created_at; empty uses the dialect's current timestamp.
func NewTracker(db database.DB, dialect *database.Dialect, target Target, now string) *Tracker {
	return &Tracker{
		db:      db,
		dialect: dialect,
		target:  target,
		now:     now,
	}
}

// Bootstrap creates the schema (when the target has one and the dialect supports schemas) and the
// history table. Both statements are idempotent.
func (t *Tracker) Bootstrap(ctx context.Context) error {
	if stmt := t.dialect.CreateSchema(t.target.Schema); stmt != "" {
		if err := t.db.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to create schema %s", t.target.Schema)
		}
	}

	if err := t.db.Exec(ctx, t.dialect.CreateHistoryTable(t.target.Schema, t.target.Table)); err != nil {
		return errors.Wrapf(err, "failed to create history table %s", t.target.Table)
	}

	return nil
}

// Load reads the distinct recorded names, ordered by when they were last recorded then by name.
func (t *Tracker) Load(ctx context.Context) (*History, error) {
	var names []string
	if err := t.db.Select(ctx, &names, t.dialect.SelectHistory(t.target.Schema, t.target.Table)); err != nil {
		return nil, errors.Wrap(err, "failed to load migration history")
	}

	return NewHistory(names), nil
}

// Record inserts a history row for an applied run-once migration.
func (t *Tracker) Record(ctx context.Context, name string) error {
	if err := t.db.Exec(ctx, t.dialect.InsertHistory(t.target.Schema, t.target.Table, name, t.now)); err != nil {
		return errors.Wrapf(err, "failed to record migration %s", name)
	}

	return nil
}

// RecordVersion inserts the version marker for version.
func (t *Tracker) RecordVersion(ctx context.Context, version string) error {
	return t.Record(ctx, consts.VersionPrefix+version)
}
