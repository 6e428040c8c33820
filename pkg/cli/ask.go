package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/usecase/resolve"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var (
		cfg       config
		userID    string
		sessionID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "user-id",
			Aliases:     []string{"u"},
			Usage:       "User identifier",
			Value:       "local",
			Sources:     cli.EnvVars("PIKA_USER_ID"),
			Destination: &userID,
		},
		&cli.StringFlag{
			Name:        "session-id",
			Aliases:     []string{"s"},
			Usage:       "Session to continue; a new one is created when omitted",
			Sources:     cli.EnvVars("PIKA_SESSION_ID"),
			Destination: &sessionID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, modelFlags(&cfg)...)
	flags = append(flags, resolveFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Resolve a single message and print the reply",
		ArgsUsage: "<message>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			message := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if message == "" {
				return goerr.New("message is required")
			}

			uc, _, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			output, err := uc.Resolve(ctx, resolve.Input{
				UserID:    userID,
				SessionID: model.SessionID(sessionID),
				Message:   message,
			})
			if err != nil {
				return goerr.Wrap(err, "failed to resolve message")
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", output.Reply)
			if output.Escalate {
				fmt.Fprintf(c.Root().Writer, "[this conversation may need a human agent]\n")
			}
			fmt.Fprintf(c.Root().Writer, "session: %s  source: %s\n", output.SessionID, output.Source)

			return nil
		},
	}
}
