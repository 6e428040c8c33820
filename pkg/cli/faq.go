package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/model"
	"github.com/urfave/cli/v3"
)

func faqCommand() *cli.Command {
	return &cli.Command{
		Name:  "faq",
		Usage: "Inspect the answer cache",
		Commands: []*cli.Command{
			faqListCommand(),
			faqShowCommand(),
		},
	}
}

func faqListCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:  "list",
		Usage: "List all cached answers",
		Flags: globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			faqs, err := repo.ListFAQs(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to list cached answers")
			}

			if len(faqs) == 0 {
				fmt.Fprintf(c.Root().Writer, "Answer cache is empty\n")
				return nil
			}

			for _, faq := range faqs {
				state := "answered"
				if faq.Answer == "" {
					state = "pending"
				}
				fmt.Fprintf(c.Root().Writer, "%s\t%s\t%s\t%s\n",
					faq.ID,
					faq.CreatedAt.Format("2006-01-02 15:04:05"),
					state,
					truncate(faq.Question, 60),
				)
			}

			return nil
		},
	}
}

func faqShowCommand() *cli.Command {
	var cfg config

	return &cli.Command{
		Name:      "show",
		Usage:     "Show a cached answer entry",
		ArgsUsage: "<faq-id>",
		Flags:     globalFlags(&cfg),
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			faqID := c.Args().First()
			if faqID == "" {
				return goerr.New("faq-id is required")
			}

			repo, err := cfg.newRepository(ctx)
			if err != nil {
				return err
			}

			faq, err := repo.GetFAQ(ctx, model.FAQID(faqID))
			if err != nil {
				return goerr.Wrap(err, "failed to get cached answer")
			}

			fmt.Fprintf(c.Root().Writer, "ID: %s\n", faq.ID)
			fmt.Fprintf(c.Root().Writer, "Created: %s\n", faq.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(c.Root().Writer, "Q: %s\n", faq.Question)
			fmt.Fprintf(c.Root().Writer, "A: %s\n", faq.Answer)

			return nil
		},
	}
}

func truncate(s string, n int) string {
	runes := []rune(strings.ReplaceAll(s, "\n", " "))
	if len(runes) <= n {
		return string(runes)
	}
	return string(runes[:n]) + "..."
}
