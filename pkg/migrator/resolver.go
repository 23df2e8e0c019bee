package migrator

import (
	"context"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFolders bounds how many folders are listed at once.
const maxConcurrentFolders = 8

// Resolve discovers every migration that applies to target: the folders listed under "before" in
// the target's migrations.json, the target folder itself, then the folders listed under "after".
// Dependency folders are discovered without reading their own manifests.
//
// Folders are listed concurrently. The returned plan always holds one batch per folder, in
// manifest order, even when a batch is empty. Discovery errors from every folder are combined.
//
// Example usage:
//
//	plan, err := migrator.Resolve(ctx, migrator.OS(), migrator.Target{
//		Schema: "public",
//		Folder: "./migrations",
//		Table:  "migrations",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	for _, file := range plan.Files() {
//		fmt.Println(file)
//	}
func Resolve(ctx context.Context, fsys FS, target Target) (RunPlan, error) {
	folder := target.ResolveFolder()

	manifest, err := LoadManifest(fsys, folder)
	if err != nil {
		return nil, err
	}

	folders := manifest.Folders(folder)
	plan := make(RunPlan, len(folders))
	errs := make([]error, len(folders))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFolders)

	for i, f := range folders {
		if i != len(manifest.Before) {
			f = target.Dependency(f).ResolveFolder()
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}

			plan[i], errs[i] = DiscoverBatch(fsys, f)
			return nil
		})
	}

	_ = g.Wait()

	if err := multierr.Combine(errs...); err != nil {
		return nil, err
	}

	return plan, nil
}

// DiscoverBatch lists both the run-once and run-always migrations of folder.
func DiscoverBatch(fsys FS, folder string) (Batch, error) {
	once, onceErr := ListFiles(fsys, folder, false)
	always, alwaysErr := ListFiles(fsys, folder, true)

	if err := multierr.Append(onceErr, alwaysErr); err != nil {
		return Batch{}, err
	}

	return Batch{Folder: folder, Once: once, Always: always}, nil
}
