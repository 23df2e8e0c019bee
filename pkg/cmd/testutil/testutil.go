package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pseudomuto/sqlmigrate/pkg/config"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"github.com/pseudomuto/sqlmigrate/pkg/project"
	"github.com/stretchr/testify/require"
)

// ProjectFixture is an initialized project in a temp directory, configured for a SQLite database
// inside that directory.
type ProjectFixture struct {
	Dir     string
	DSN     string
	Config  *config.Config
	Project *project.Project
	t       *testing.T
}

// TestProject creates an isolated project using SQLite and no schema.
func TestProject(t *testing.T) *ProjectFixture {
	t.Helper()

	tmpDir := t.TempDir()
	dsn := filepath.Join(tmpDir, "test.db")

	proj := project.New(project.ProjectParams{Dir: tmpDir})
	require.NoError(t, proj.Initialize(project.InitOptions{Driver: "sqlite", DSN: dsn}), "Failed to initialize test project")

	cfg, err := config.LoadConfigFile(filepath.Join(tmpDir, consts.DefaultConfigFile))
	require.NoError(t, err, "Failed to load test config")

	cfg.Migrations.Schema = new(string)
	cfg.Migrations.Folder = filepath.Join(tmpDir, "migrations")
	cfg.Check.Dialect = "sqlite"

	return &ProjectFixture{
		Dir:     tmpDir,
		DSN:     dsn,
		Config:  cfg,
		Project: proj,
		t:       t,
	}
}

// WriteMigration writes a migration into the fixture's migrations folder and returns its path.
func (f *ProjectFixture) WriteMigration(runAlways bool, name, sql string) string {
	f.t.Helper()

	sub := consts.RunOnceDir
	if runAlways {
		sub = consts.RunAlwaysDir
	}

	dir := filepath.Join(f.Config.Migrations.Folder, sub)
	require.NoError(f.t, os.MkdirAll(dir, consts.ModeDir))

	path := filepath.Join(dir, name)
	require.NoError(f.t, os.WriteFile(path, []byte(sql), consts.ModeFile))
	return path
}
