package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pseudomuto/sqlmigrate/pkg/config"
	"github.com/pseudomuto/sqlmigrate/pkg/project"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

type createParams struct {
	fx.In

	Config  *config.Config
	Project *project.Project
}

// createCmd creates the create command, which adds an empty migration file.
//
// Example usage:
//
//	sqlmigrate create add users table
//	# New migration has been created at: migrations/public/run-once/1718236800_add_users_table.sql
//
//	sqlmigrate create --run-always refresh views
func createCmd(p createParams) *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Create a new migration file",
		ArgsUsage: "[name...]",
		Description: `Create an empty migration named <unix timestamp>_<name>.sql in the run-once
folder (or the run-always folder with --run-always). The name defaults to
"new migration".`,
		Flags: []cli.Flag{
			schemaFlag,
			folderFlag,
			&cli.BoolFlag{
				Name:  "run-always",
				Usage: "create the migration in the run-always folder",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			name := strings.Join(cmd.Args().Slice(), " ")
			if name == "" {
				name = project.DefaultMigrationName
			}

			path, err := p.Project.CreateMigration(target(cmd, p.Config), name, cmd.Bool("run-always"), time.Now())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "New migration has been created at: %s\n", path)
			return nil
		},
	}
}
