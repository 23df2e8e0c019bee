package migrate

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/check"
	"github.com/pseudomuto/sqlmigrate/pkg/database"
	"github.com/pseudomuto/sqlmigrate/pkg/executor"
	"github.com/pseudomuto/sqlmigrate/pkg/migrator"
	"github.com/pseudomuto/sqlmigrate/pkg/params"
	"github.com/pseudomuto/sqlmigrate/pkg/parser"
)

type (
	// Runner ties discovery, planning and execution together for a database.
	Runner struct {
		db      database.DB
		dialect *database.Dialect
		fs      migrator.FS
		params  params.Source
		now     string
		logger  *slog.Logger
	}

	// Config contains the collaborators of a Runner. Only FS, Params and Logger are used by Check.
	Config struct {
		// DB runs migrations and history statements
		DB database.DB

		// Dialect renders history statements for DB
		Dialect *database.Dialect

		// FS reads migrations. Defaults to migrator.OS().
		FS migrator.FS

		// Params supplies template parameters. Defaults to params.None().
		Params params.Source

		// Now overrides the SQL expression recorded as created_at
		Now string

		// Logger defaults to slog.Default()
		Logger *slog.Logger
	}

	// Options describes a single run.
	Options struct {
		Target        migrator.Target
		UseVersioning bool
		Version       string
		Force         bool

		// OnApplied is called after each applied migration
		OnApplied executor.OnApplied
	}
)

// New creates a Runner from config.
func New(config Config) *Runner {
	r := &Runner{
		db:      config.DB,
		dialect: config.Dialect,
		fs:      config.FS,
		params:  config.Params,
		now:     config.Now,
		logger:  config.Logger,
	}

	if r.fs == nil {
		r.fs = migrator.OS()
	}

	if r.params == nil {
		r.params = params.None()
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Up applies every pending migration for opts.Target and returns how many files were applied.
//
// Options are validated and migrations are discovered before any SQL is sent, so a bad file name
// or manifest leaves the database untouched. The history table is then created if needed and the
// history loaded. When opts.Version is already the active version (and opts.Force is unset)
// nothing runs and 0 is returned.
//
// Example usage:
//
//	applied, err := runner.Up(ctx, migrate.Options{
//		Target:    migrator.Target{Schema: "public", Folder: "./migrations", Table: "migrations"},
//		OnApplied: func(name string) { fmt.Println(">", name) },
//	})
func (r *Runner) Up(ctx context.Context, opts Options) (int, error) {
	planOpts := opts.planOptions()
	if err := planOpts.Validate(); err != nil {
		return 0, err
	}

	tracker := migrator.NewTracker(r.db, r.dialect, opts.Target, r.now)
	exec := executor.New(executor.Config{
		DB:      r.db,
		Tracker: tracker,
		FS:      r.fs,
		Params:  r.params,
		Target:  opts.Target,
		Logger:  r.logger,
	})

	pending, ok, err := r.plan(ctx, exec.Bootstrap, tracker, opts.Target, planOpts)
	if err != nil {
		return 0, err
	}

	if !ok {
		r.logger.InfoContext(ctx, "Version already applied", slog.String("version", opts.Version))
		return 0, nil
	}

	return exec.Execute(ctx, pending, executor.Options{
		UseVersioning: opts.UseVersioning,
		Version:       opts.Version,
		OnApplied:     opts.OnApplied,
	})
}

// Pending returns the migrations Up would apply without applying them. ok is false when the
// requested version is already active. Once discovery succeeds, the history table is created if
// it does not exist yet.
func (r *Runner) Pending(ctx context.Context, opts Options) (migrator.RunPlan, bool, error) {
	planOpts := opts.planOptions()
	if err := planOpts.Validate(); err != nil {
		return nil, false, err
	}

	tracker := migrator.NewTracker(r.db, r.dialect, opts.Target, r.now)
	return r.plan(ctx, tracker.Bootstrap, tracker, opts.Target, planOpts)
}

// Check renders and parses every migration of target, applied or not, and returns every problem
// found combined into one error. The database is never used.
func (r *Runner) Check(ctx context.Context, target migrator.Target, p parser.Parser) error {
	plan, err := migrator.Resolve(ctx, r.fs, target)
	if err != nil {
		return err
	}

	if plan.Len() == 0 {
		return &migrator.NoMigrationsError{Path: target.ResolveFolder()}
	}

	values, err := r.params.Parameters(ctx, target)
	if err != nil {
		return errors.Wrap(err, "failed to resolve template parameters")
	}

	errs := check.New(r.fs, p).Check(ctx, plan, values)
	r.logger.DebugContext(ctx, "Checked migrations",
		slog.Int("files", plan.Len()),
		slog.Int("errors", len(errs)),
	)

	return check.Combine(errs)
}

// plan discovers the migrations of target, then bootstraps the history table and loads history.
// Nothing reaches the database until discovery has succeeded.
func (r *Runner) plan(
	ctx context.Context,
	bootstrap func(context.Context) error,
	tracker *migrator.Tracker,
	target migrator.Target,
	opts migrator.PlanOptions,
) (migrator.RunPlan, bool, error) {
	discovered, err := migrator.Resolve(ctx, r.fs, target)
	if err != nil {
		return nil, false, err
	}

	if discovered.Len() == 0 {
		return nil, false, &migrator.NoMigrationsError{Path: target.ResolveFolder()}
	}

	if err := bootstrap(ctx); err != nil {
		return nil, false, err
	}

	history, err := tracker.Load(ctx)
	if err != nil {
		return nil, false, err
	}

	return migrator.Plan(target, discovered, history, opts)
}

func (o Options) planOptions() migrator.PlanOptions {
	return migrator.PlanOptions{
		UseVersioning: o.UseVersioning,
		Version:       o.Version,
		Force:         o.Force,
	}
}
