package adapter

import (
	"context"
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/utils/logging"
	"google.golang.org/genai"
)

// GeminiGenerator implements Generator directly on the Gemini API instead
// of the generic payload families
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

type GeminiOption func(*GeminiGenerator)

// WithGenerativeModel overrides the generative model ID
func WithGenerativeModel(model string) GeminiOption {
	return func(g *GeminiGenerator) {
		g.model = model
	}
}

// NewGemini creates a Gemini backed Generator on Vertex AI
func NewGemini(ctx context.Context, projectID, location string, opts ...GeminiOption) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Project:  projectID,
		Location: location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create genai client")
	}

	g := &GeminiGenerator{
		client: client,
		model:  "gemini-2.5-flash",
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, maxTokens int) string {
	temperature := float32(defaultTemperature)
	topP := float32(defaultTopP)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		MaxOutputTokens: int32(maxTokens),
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		classified := classifyGeminiError(err)
		logging.From(ctx).Error("gemini call failed", "error", classified, "model", g.model)
		return fallbackFor(classified)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		var parts []string
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				parts = append(parts, part.Text)
			}
		}
		if len(parts) > 0 {
			return strings.TrimSpace(strings.Join(parts, "\n"))
		}
	}

	logging.From(ctx).Warn("empty gemini response", "model", g.model)
	return ReplyBadFormat
}

// classifyGeminiError maps Gemini API errors onto the inference error
// taxonomy shared with the family based client
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return goerr.Wrap(err, "gemini call failed", goerr.T(ErrTagService))
	}

	switch apiErr.Code {
	case 400:
		return goerr.Wrap(err, "gemini request rejected", goerr.T(ErrTagBadConfig))
	case 429:
		return goerr.Wrap(err, "gemini throttled", goerr.T(ErrTagThrottled))
	case 403, 404:
		return goerr.Wrap(err, "gemini model not accessible", goerr.T(ErrTagUnavailable))
	default:
		return goerr.Wrap(err, "gemini call failed", goerr.T(ErrTagService))
	}
}
