package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/usecase/resolve"
	"github.com/m-mizutani/pika/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
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
			Usage:       "Session to resume; a new one is created when omitted",
			Sources:     cli.EnvVars("PIKA_SESSION_ID"),
			Destination: &sessionID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, modelFlags(&cfg)...)
	flags = append(flags, resolveFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive support conversation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, faqs, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			if err := faqs.Bootstrap(ctx); err != nil {
				logging.From(ctx).Warn("failed to seed answer cache", "error", err)
			}

			rl, err := readline.New("> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize input")
			}
			defer rl.Close()

			session := model.SessionID(sessionID)
			fmt.Fprintf(c.Root().Writer, "Chat session started. Type 'exit' to quit.\n")

			for {
				line, err := rl.Readline()
				if err != nil { // io.EOF or readline.ErrInterrupt
					if err == readline.ErrInterrupt || err == io.EOF {
						break
					}
					return goerr.Wrap(err, "failed to read input")
				}

				message := strings.TrimSpace(line)
				if message == "exit" {
					break
				}
				if message == "" {
					continue
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " thinking..."
				sp.Start()
				output, err := uc.Resolve(ctx, resolve.Input{
					UserID:    userID,
					SessionID: session,
					Message:   message,
				})
				sp.Stop()
				if err != nil {
					return goerr.Wrap(err, "failed to resolve message")
				}
				session = output.SessionID

				fmt.Fprintf(c.Root().Writer, "%s\n", output.Reply)
				if output.Escalate {
					fmt.Fprintf(c.Root().Writer, "[this conversation may need a human agent]\n")
				}
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed (session: %s)\n", session)
			return nil
		},
	}
}
