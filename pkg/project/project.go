package project

import (
	_ "embed"
	"os"
	"path/filepath"
	"testing/fstest"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/config"
	"github.com/pseudomuto/sqlmigrate/pkg/consts"
	"gopkg.in/yaml.v3"
)

var (
	//go:embed embed/sqlmigrate.yaml
	defaultConfig []byte

	image = fstest.MapFS{
		"migrations":             {Mode: os.ModeDir | consts.ModeDir},
		"migrations/run-once":    {Mode: os.ModeDir | consts.ModeDir},
		"migrations/run-always":  {Mode: os.ModeDir | consts.ModeDir},
		consts.DefaultConfigFile: {Data: defaultConfig},
	}
)

type (
	// InitOptions customizes the generated sqlmigrate.yaml. Empty fields keep the defaults.
	InitOptions struct {
		Driver string
		DSN    string
	}

	// ProjectParams configures a Project.
	ProjectParams struct {
		// Dir is the project root. Relative migration folders resolve against it.
		Dir string
	}

	// Project is a directory holding sqlmigrate.yaml and migration folders.
	Project struct {
		root string
	}
)

// New creates a Project rooted at params.Dir, which must already exist.
//
// Example:
//
//	proj := project.New(project.ProjectParams{Dir: "."})
//	if err := proj.Initialize(project.InitOptions{Driver: "sqlite", DSN: "app.db"}); err != nil {
//		log.Fatal(err)
//	}
func New(params ProjectParams) *Project {
	return &Project{root: params.Dir}
}

// Root returns the project directory.
func (p *Project) Root() string {
	return p.root
}

// Initialize creates sqlmigrate.yaml and the default migrations folder with its run-once and
// run-always subfolders. It only creates what is missing, so running it again never overwrites
// existing content. The database settings from options are only written into a newly created
// sqlmigrate.yaml.
func (p *Project) Initialize(options InitOptions) error {
	if err := p.ensureDirectory(); err != nil {
		return err
	}

	configCreated := false

	for path, entry := range image {
		fullPath := filepath.Join(p.root, path)

		if _, err := os.Stat(fullPath); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to stat %s", fullPath)
		}

		if entry.Mode.IsDir() {
			if err := os.MkdirAll(fullPath, entry.Mode.Perm()); err != nil {
				return errors.Wrapf(err, "failed to create directory %s", fullPath)
			}

			continue
		}

		if err := os.MkdirAll(filepath.Dir(fullPath), consts.ModeDir); err != nil {
			return errors.Wrapf(err, "failed to create parent directory %s", filepath.Dir(fullPath))
		}

		if err := os.WriteFile(fullPath, entry.Data, consts.ModeFile); err != nil {
			return errors.Wrapf(err, "failed to write file %s", fullPath)
		}

		configCreated = configCreated || path == consts.DefaultConfigFile
	}

	if !configCreated || (options.Driver == "" && options.DSN == "") {
		return nil
	}

	return p.writeDatabaseOptions(options)
}

func (p *Project) writeDatabaseOptions(options InitOptions) error {
	configPath := filepath.Join(p.root, consts.DefaultConfigFile)

	cfg, err := config.LoadConfigFile(configPath)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", consts.DefaultConfigFile)
	}

	if options.Driver != "" {
		cfg.Database.Driver = options.Driver
	}

	if options.DSN != "" {
		cfg.Database.DSN = options.DSN
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return errors.Wrapf(err, "failed to open config file for writing: %s", configPath)
	}
	defer func() { _ = f.Close() }()

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(err, "failed to write updated config")
	}

	return errors.Wrap(enc.Close(), "failed to close yaml encoder")
}

func (p *Project) ensureDirectory() error {
	dir, err := os.Stat(p.root)
	if err != nil {
		return errors.Wrapf(err, "failed to stat dir: %s", p.root)
	}

	if !dir.IsDir() {
		return errors.Errorf("%s is not a directory", p.root)
	}

	return nil
}
