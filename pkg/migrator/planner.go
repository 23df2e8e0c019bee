package migrator

import (
	"github.com/pkg/errors"
)

// ErrVersionRequired is returned when versioning is enabled without a version.
var ErrVersionRequired = errors.New("versioning is enabled, but no version was given")

type (
	// PlanOptions controls version checkpointing.
	PlanOptions struct {
		// UseVersioning skips the run when Version is already the active version marker
		UseVersioning bool

		// Version is the version recorded after a successful versioned run
		Version string

		// Force plans a versioned run even when Version is already active
		Force bool
	}

	// NoMigrationsError is returned when no migration file exists in any folder of the plan.
	NoMigrationsError struct {
		Path string
	}
)

func (e *NoMigrationsError) Error() string {
	return "no migrations found at " + e.Path
}

// Validate checks the options before any I/O takes place.
func (o PlanOptions) Validate() error {
	if o.UseVersioning && o.Version == "" {
		return ErrVersionRequired
	}

	return nil
}

// Plan filters a discovered RunPlan against history and returns the batches still to run.
//
// When versioning is enabled (and not forced) and opts.Version is the active version, ok is false
// and there is nothing to run. Otherwise run-once files found in history are removed, run-always
// files are kept and batches left empty are dropped. An empty plan with ok set means everything is
// already applied.
//
// A folder named more than once by a manifest yields one batch per mention. Its run-always files
// run in every one of them, but each run-once file is planned only in the first batch listing it,
// since the history table holds a single row per run-once file.
//
// A plan that holds no files at all, before any filtering, is a *NoMigrationsError.
//
// Example usage:
//
//	pending, ok, err := migrator.Plan(target, discovered, history, migrator.PlanOptions{
//		UseVersioning: true,
//		Version:       "v2",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if !ok {
//		fmt.Println("v2 is already applied")
//	}
func Plan(target Target, plan RunPlan, history *History, opts PlanOptions) (RunPlan, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	if plan.Len() == 0 {
		return nil, false, &NoMigrationsError{Path: target.ResolveFolder()}
	}

	if opts.UseVersioning && !opts.Force {
		if active, ok := history.ActiveVersion(); ok && active == opts.Version {
			return nil, false, nil
		}
	}

	planned := make(map[string]struct{})
	pending := make(RunPlan, 0, len(plan))

	for _, b := range plan {
		var once []string
		for _, file := range b.Once {
			if history.IsCompleted(file) {
				continue
			}

			if _, ok := planned[file]; ok {
				continue
			}

			planned[file] = struct{}{}
			once = append(once, file)
		}

		batch := Batch{Folder: b.Folder, Once: once, Always: b.Always}
		if batch.Len() > 0 {
			pending = append(pending, batch)
		}
	}

	return pending, true, nil
}
