// Package executor applies planned migrations to a database.
//
// The executor is the last step of a run. It receives a migrator.RunPlan that has already been
// filtered against history and applies it strictly in order:
//
//   - the history table is bootstrapped once per Executor
//   - template parameters are resolved once per run through a params.Source
//   - each file is read, rendered and executed on its own
//   - run-once files get a history row right after they succeed
//   - run-always files never get a history row
//   - with versioning enabled, a version-<version> row is written last
//
// # Failure Handling
//
// The first failing file stops the run and is reported as a *MigrationError. Nothing is rolled
// back: files applied earlier keep their history rows, so the next run resumes at the failed file.
// A file that fails after its SQL ran but before its history row was written runs again next time,
// so migrations should be written to tolerate being re-applied.
//
// # Usage Example
//
//	tracker := migrator.NewTracker(conn, dialect, target, "")
//	exec := executor.New(executor.Config{
//		DB:      conn,
//		Tracker: tracker,
//		Params:  params.Env("SQLMIGRATE_PARAM_", os.Environ()),
//		Target:  target,
//	})
//
//	applied, err := exec.Execute(ctx, plan, executor.Options{UseVersioning: true, Version: "v2"})
//	if err != nil {
//		var merr *executor.MigrationError
//		if errors.As(err, &merr) {
//			log.Fatalf("%s failed after %d migrations: %v", merr.File, applied, merr.Err)
//		}
//
//		log.Fatal(err)
//	}
package executor
