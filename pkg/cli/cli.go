package cli

import (
	"context"

	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

// Run executes the pika command line interface
func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "pika",
		Usage: "Customer support answer resolution agent",
		Commands: []*cli.Command{
			serveCommand(),
			askCommand(),
			chatCommand(),
			seedCommand(),
			faqCommand(),
			historyCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
