package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/pseudomuto/sqlmigrate/pkg/project"
	"go.uber.org/fx"
)

var Module = fx.Module("cli",
	fx.Provide(
		func() (*project.Project, error) {
			wd, err := os.Getwd()
			if err != nil {
				return nil, errors.Wrap(err, "failed to get current working directory")
			}

			return project.New(project.ProjectParams{Dir: wd}), nil
		},
		fx.Annotate(checkCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(createCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(initCmd, fx.ResultTags(`group:"commands"`)),
		fx.Annotate(upCmd, fx.ResultTags(`group:"commands"`)),
	),
	fx.Invoke(Run),
)
