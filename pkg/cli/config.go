package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/adapter"
	"github.com/m-mizutani/pika/pkg/repository"
	"github.com/m-mizutani/pika/pkg/service/faq"
	"github.com/m-mizutani/pika/pkg/usecase/resolve"
	"github.com/m-mizutani/pika/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values shared across commands
type config struct {
	// Logging
	logLevel string

	// Repository
	project  string
	database string
	memory   bool

	// Inference
	modelID     string
	modelFamily string
	endpoint    string
	apiKey      string

	geminiProject  string
	geminiLocation string

	// Resolution
	threshold  float64
	maxHistory int
	maxTokens  int
	noLookup   bool
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("PIKA_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.BoolFlag{
			Name:        "memory",
			Usage:       "Use an in-memory store instead of Firestore (data is lost on exit)",
			Sources:     cli.EnvVars("PIKA_MEMORY"),
			Destination: &cfg.memory,
		},
	}
}

// modelFlags returns flags for inference configuration with destination config
func modelFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "model-id",
			Aliases:     []string{"m"},
			Usage:       "Model identifier passed to the inference service",
			Value:       "nova-pro-v1",
			Sources:     cli.EnvVars("PIKA_MODEL_ID"),
			Destination: &cfg.modelID,
		},
		&cli.StringFlag{
			Name:        "model-family",
			Usage:       "Payload family (messages, llama, mistral, titan, gemini); inferred from model ID when empty",
			Sources:     cli.EnvVars("PIKA_MODEL_FAMILY"),
			Destination: &cfg.modelFamily,
		},
		&cli.StringFlag{
			Name:        "endpoint",
			Usage:       "Base URL of the HTTP inference endpoint",
			Sources:     cli.EnvVars("PIKA_INFERENCE_ENDPOINT"),
			Destination: &cfg.endpoint,
		},
		&cli.StringFlag{
			Name:        "api-key",
			Usage:       "Bearer token for the inference endpoint",
			Sources:     cli.EnvVars("PIKA_INFERENCE_API_KEY"),
			Destination: &cfg.apiKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
	}
}

// resolveFlags returns flags tuning the resolution pipeline with destination config
func resolveFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:        "threshold",
			Usage:       "Minimum similarity score to serve a cached answer",
			Value:       faq.DefaultThreshold,
			Sources:     cli.EnvVars("PIKA_MATCH_THRESHOLD"),
			Destination: &cfg.threshold,
		},
		&cli.IntFlag{
			Name:        "max-history",
			Usage:       "Maximum number of recent turns included in the prompt",
			Value:       resolve.DefaultMaxHistory,
			Sources:     cli.EnvVars("PIKA_MAX_HISTORY"),
			Destination: &cfg.maxHistory,
		},
		&cli.IntFlag{
			Name:        "max-tokens",
			Usage:       "Generation length cap",
			Value:       resolve.DefaultMaxTokens,
			Sources:     cli.EnvVars("PIKA_MAX_TOKENS"),
			Destination: &cfg.maxTokens,
		},
		&cli.BoolFlag{
			Name:        "no-lookup",
			Usage:       "Skip cache lookup and always generate (cache is still written)",
			Sources:     cli.EnvVars("PIKA_NO_LOOKUP"),
			Destination: &cfg.noLookup,
		},
	}
}

// setupLogger attaches a logger built from the config to the context
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates a repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.memory {
		return repository.NewMemory(), nil
	}

	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGenerator creates a Generator instance for the configured model family
func (cfg *config) newGenerator(ctx context.Context) (adapter.Generator, error) {
	if cfg.modelFamily == "gemini" {
		if cfg.geminiProject == "" {
			return nil, goerr.New("gemini-project is required")
		}
		return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
	}

	familyTag := cfg.modelFamily
	if familyTag == "" {
		familyTag = adapter.InferFamily(cfg.modelID)
	}
	family, err := adapter.FamilyOf(familyTag)
	if err != nil {
		return nil, err
	}

	if cfg.endpoint == "" {
		return nil, goerr.New("endpoint is required")
	}
	invoker := adapter.NewHTTPInvoker(cfg.endpoint, cfg.apiKey)

	return adapter.NewClient(invoker, family, cfg.modelID), nil
}

// newFAQService creates the answer cache service
func (cfg *config) newFAQService(repo repository.Repository) *faq.Service {
	return faq.New(repo, faq.WithThreshold(cfg.threshold))
}

// newUseCase wires the full resolution pipeline
func (cfg *config) newUseCase(ctx context.Context) (*resolve.UseCase, *faq.Service, error) {
	repo, err := cfg.newRepository(ctx)
	if err != nil {
		return nil, nil, err
	}

	generator, err := cfg.newGenerator(ctx)
	if err != nil {
		return nil, nil, err
	}

	faqs := cfg.newFAQService(repo)
	uc := resolve.New(repo, faqs, generator,
		resolve.WithMaxHistory(cfg.maxHistory),
		resolve.WithMaxTokens(cfg.maxTokens),
		resolve.WithLookup(!cfg.noLookup),
	)

	return uc, faqs, nil
}

// newStorage creates a transcript archive client
func (cfg *config) newStorage(ctx context.Context, bucketName string) (adapter.Storage, error) {
	if bucketName == "" {
		return nil, goerr.New("bucket name is required")
	}

	storage, err := adapter.NewStorage(ctx, bucketName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}
