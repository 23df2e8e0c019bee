package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/pseudomuto/sqlmigrate/pkg/params"
	"github.com/pseudomuto/sqlmigrate/pkg/template"
)

type (
	// Tracker records applied migrations. *migrator.Tracker implements it.
	Tracker interface {
		Bootstrap(ctx context.Context) error
		Record(ctx context.Context, name string) error
		RecordVersion(ctx context.Context, version string) error
	}

	// OnApplied is called with the name of each migration right after it has been applied.
	OnApplied func(name string)

	// Executor applies a planned set of migrations, one file at a time.
	//
	// Files are read from FS, rendered with the parameters supplied by Params and executed through
	// DB. Run-once files are recorded in the history table once they succeed. The first failure stops
	// the run. Files applied before the failure stay applied, there is no transaction spanning the
	// run.
	//
	// Example usage:
	//
	//	exec := executor.New(executor.Config{
	//		DB:      conn,
	//		Tracker: migrator.NewTracker(conn, database.Postgres, target, ""),
	//		FS:      migrator.OS(),
	//		Params:  params.Static(map[string]string{"owner": "admin"}),
	//		Target:  target,
	//	})
	//
	//	applied, err := exec.Execute(ctx, plan, executor.Options{
	//		OnApplied: func(name string) { fmt.Println(">", name) },
	//	})
	Executor struct {
		db      database.DB
		tracker Tracker
		fs      migrator.FS
		params  params.Source
		target  migrator.Target
		logger  *slog.Logger

		mu           sync.Mutex
		bootstrapped bool
	}

	// Config contains the collaborators of an Executor.
	Config struct {
		// DB executes migration SQL
		DB database.DB

		// Tracker creates and writes the history table
		Tracker Tracker

		// FS reads migration files. Defaults to migrator.OS().
		FS migrator.FS

		// Params supplies template parameters once per run. Defaults to params.None().
		Params params.Source

		// Target is handed to Params
		Target migrator.Target

		// Logger defaults to slog.Default()
		Logger *slog.Logger
	}

	// Options controls a single run.
	Options struct {
		// UseVersioning records a version marker after every file has been applied
		UseVersioning bool

		// Version is the recorded version
		Version string

		// OnApplied, when set, is called after each applied migration
		OnApplied OnApplied
	}

	// MigrationError reports the migration that failed and why.
	MigrationError struct {
		File string
		Err  error
	}
)

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %s failed: %s", e.File, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *MigrationError) Cause() error {
	return e.Err
}

// New creates an Executor from config, filling in defaults for optional collaborators.
func New(config Config) *Executor {
	e := &Executor{
		db:      config.DB,
		tracker: config.Tracker,
		fs:      config.FS,
		params:  config.Params,
		target:  config.Target,
		logger:  config.Logger,
	}

	if e.fs == nil {
		e.fs = migrator.OS()
	}

	if e.params == nil {
		e.params = params.None()
	}

	if e.logger == nil {
		e.logger = slog.Default()
	}

	return e
}

// Bootstrap creates the schema and history table. It only reaches the database until it has
// succeeded once.
func (e *Executor) Bootstrap(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.bootstrapped {
		return nil
	}

	if err := e.tracker.Bootstrap(ctx); err != nil {
		return err
	}

	e.bootstrapped = true
	return nil
}

// Execute applies every file of plan and returns how many were applied.
//
// Batches run in order and, within a batch, run-once files run before run-always files. Template
// parameters are resolved once and reused for every file. With opts.UseVersioning the version
// marker is recorded after the last file, even when the plan is empty. When a file fails, the
// returned count covers the files applied before it and the error is a *MigrationError.
func (e *Executor) Execute(ctx context.Context, plan migrator.RunPlan, opts Options) (int, error) {
	if err := (migrator.PlanOptions{UseVersioning: opts.UseVersioning, Version: opts.Version}).Validate(); err != nil {
		return 0, err
	}

	if err := e.Bootstrap(ctx); err != nil {
		return 0, err
	}

	values, err := e.params.Parameters(ctx, e.target)
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve template parameters")
	}

	start := time.Now()
	applied := 0

	for _, batch := range plan {
		for _, file := range batch.Once {
			if err := e.apply(ctx, file, values, true); err != nil {
				return applied, err
			}

			applied++
			e.notify(opts.OnApplied, file)
		}

		for _, file := range batch.Always {
			if err := e.apply(ctx, file, values, false); err != nil {
				return applied, err
			}

			applied++
			e.notify(opts.OnApplied, file)
		}
	}

	if opts.UseVersioning {
		if err := e.tracker.RecordVersion(ctx, opts.Version); err != nil {
			return applied, err
		}
	}

	e.logger.InfoContext(ctx, "Migrations applied",
		slog.Int("count", applied),
		slog.String("version", opts.Version),
		slog.Duration("duration", time.Since(start)),
	)

	return applied, nil
}

func (e *Executor) apply(ctx context.Context, file string, values template.Parameters, once bool) error {
	start := time.Now()

	sql, err := template.Load(e.fs, file, values)
	if err != nil {
		return &MigrationError{File: file, Err: err}
	}

	if err := e.db.Exec(ctx, sql); err != nil {
		return &MigrationError{File: file, Err: err}
	}

	if once {
		if err := e.tracker.Record(ctx, file); err != nil {
			return &MigrationError{File: file, Err: err}
		}
	}

	e.logger.DebugContext(ctx, "Applied migration",
		slog.String("file", file),
		slog.Bool("run_once", once),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

func (e *Executor) notify(fn OnApplied, file string) {
	if fn != nil {
		fn(file)
	}
}
