package testutil

import (
	"bytes"
	"context"
	"testing"

	"github.com/urfave/cli/v3"
)

// RunCommand executes a command with a background context and returns what it wrote to stdout.
func RunCommand(t *testing.T, command *cli.Command, args []string) (string, error) {
	t.Helper()
	return RunCommandWithContext(context.Background(), t, command, args)
}

// RunCommandWithContext executes a command with a custom context and returns what it wrote to
// stdout.
func RunCommandWithContext(ctx context.Context, t *testing.T, command *cli.Command, args []string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "test",
		Writer:   &out,
		Commands: []*cli.Command{command},
	}

	fullArgs := append([]string{"test", command.Name}, args...)
	err := app.Run(ctx, fullArgs)
	return out.String(), err
}
