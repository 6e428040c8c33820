package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/m-mizutani/pika/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const historyFetchLimit = 1000

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Inspect and archive conversation history",
		Commands: []*cli.Command{
			historyShowCommand(),
			historyExportCommand(),
		},
	}
}

func historyShowCommand() *cli.Command {
	var (
		cfg       config
		sessionID string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session-id",
			Aliases:     []string{"s"},
			Usage:       "Session identifier",
			Required:    true,
			Sources:     cli.EnvVars("PIKA_SESSION_ID"),
			Destination: &sessionID,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "show",
		Usage: "Print the turns of a conversation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			turns, err := repo.RecentTurns(ctx, model.SessionID(sessionID), historyFetchLimit)
			if err != nil {
				return goerr.Wrap(err, "failed to get conversation history")
			}
			if len(turns) == 0 {
				fmt.Fprintf(c.Root().Writer, "No history for session %s\n", sessionID)
				return nil
			}

			sort.SliceStable(turns, func(i, j int) bool {
				return turns[i].CreatedAt.Before(turns[j].CreatedAt)
			})

			for _, turn := range turns {
				mark := ""
				if turn.Role == model.RoleAssistant {
					mark = fmt.Sprintf("\t(%s)", turn.Source)
					if turn.Escalate {
						mark += "\t[escalate]"
					}
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s%s\n",
					turn.CreatedAt.Format("2006-01-02 15:04:05"),
					turn.Role,
					turn.Text,
					mark,
				)
			}

			return nil
		},
	}
}

func historyExportCommand() *cli.Command {
	var (
		cfg       config
		sessionID string
		bucket    string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "session-id",
			Aliases:     []string{"s"},
			Usage:       "Session identifier",
			Required:    true,
			Sources:     cli.EnvVars("PIKA_SESSION_ID"),
			Destination: &sessionID,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for transcript archives",
			Required:    true,
			Sources:     cli.EnvVars("PIKA_TRANSCRIPT_BUCKET"),
			Destination: &bucket,
		},
	}
	flags = append(flags, globalFlags(&cfg)...)

	return &cli.Command{
		Name:  "export",
		Usage: "Archive a conversation transcript to Cloud Storage",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			turns, err := repo.RecentTurns(ctx, model.SessionID(sessionID), historyFetchLimit)
			if err != nil {
				return goerr.Wrap(err, "failed to get conversation history")
			}
			if len(turns) == 0 {
				return goerr.New("no history for session", goerr.V("session", sessionID))
			}

			sort.SliceStable(turns, func(i, j int) bool {
				return turns[i].CreatedAt.Before(turns[j].CreatedAt)
			})

			storage, err := cfg.newStorage(ctx, bucket)
			if err != nil {
				return err
			}

			key := "transcripts/" + sessionID + ".json"
			w, err := storage.Put(ctx, key)
			if err != nil {
				return goerr.Wrap(err, "failed to open transcript object", goerr.V("key", key))
			}

			encoder := json.NewEncoder(w)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(turns); err != nil {
				_ = w.Close()
				return goerr.Wrap(err, "failed to write transcript", goerr.V("key", key))
			}
			if err := w.Close(); err != nil {
				return goerr.Wrap(err, "failed to close transcript object", goerr.V("key", key))
			}

			logging.From(ctx).Info("exported transcript", "session", sessionID, "key", key, "turns", len(turns))
			fmt.Fprintf(c.Root().Writer, "Exported %d turns to gs://%s/%s\n", len(turns), bucket, key)

			return nil
		},
	}
}
