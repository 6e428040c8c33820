package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func seedCommand() *cli.Command {
	var cfg config

	flags := append([]cli.Flag{}, globalFlags(&cfg)...)
	flags = append(flags, resolveFlags(&cfg)...)

	return &cli.Command{
		Name:  "seed",
		Usage: "Populate an empty answer cache with the built-in FAQ set",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			if err := cfg.newFAQService(repo).Bootstrap(ctx); err != nil {
				return goerr.Wrap(err, "failed to seed answer cache")
			}

			fmt.Fprintf(c.Root().Writer, "Seed completed\n")
			return nil
		},
	}
}
