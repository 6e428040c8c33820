package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/controller/server"
	"github.com/m-mizutani/pika/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	var (
		cfg  config
		addr string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "Address to listen on",
			Value:       "127.0.0.1:8080",
			Sources:     cli.EnvVars("PIKA_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)
	flags = append(flags, modelFlags(&cfg)...)
	flags = append(flags, resolveFlags(&cfg)...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start the chat API server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			uc, faqs, err := cfg.newUseCase(ctx)
			if err != nil {
				return err
			}

			// Seeding is an optimization; a failure must not block startup
			if err := faqs.Bootstrap(ctx); err != nil {
				logging.From(ctx).Warn("failed to seed answer cache", "error", err)
			}

			logging.From(ctx).Info("starting chat API server", "addr", addr)
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(uc),
				ReadHeaderTimeout: 10 * time.Second,
			}
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return goerr.Wrap(err, "failed to serve", goerr.V("addr", addr))
			}
			return nil
		},
	}
}
