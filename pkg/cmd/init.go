package cmd

import (
	"context"
	"fmt"

	"github.com/pseudomuto/sqlmigrate/pkg/project"
	"github.com/urfave/cli/v3"
)

// initCmd creates the init command, which scaffolds sqlmigrate.yaml and the migrations folder in
// the current directory. Existing files are left untouched.
//
// Example usage:
//
//	sqlmigrate init --driver sqlite --dsn app.db
func initCmd(p *project.Project) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new sqlmigrate project",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "driver",
				Usage: "database driver written to sqlmigrate.yaml",
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "connection string written to sqlmigrate.yaml",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := p.Initialize(project.InitOptions{
				Driver: cmd.String("driver"),
				DSN:    cmd.String("dsn"),
			}); err != nil {
				return err
			}

			fmt.Fprintf(cmd.Root().Writer, "Initialized sqlmigrate project in %s\n", p.Root())
			return nil
		},
	}
}
