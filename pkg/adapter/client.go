package adapter

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/pika/pkg/utils/logging"
)

// Client implements Generator over an Invoker using a vendor family codec
type Client struct {
	invoker Invoker
	family  Family
	modelID string
}

// NewClient creates a family based Generator for the given model
func NewClient(invoker Invoker, family Family, modelID string) *Client {
	return &Client{
		invoker: invoker,
		family:  family,
		modelID: modelID,
	}
}

// Generate encodes the prompt for the configured family, invokes the model,
// and extracts the reply text. It always returns a reply: classified
// service errors and unrecognized response bodies become fixed fallback
// strings, so callers never special-case a broken inference call.
func (c *Client) Generate(ctx context.Context, prompt string, maxTokens int) string {
	logger := logging.From(ctx).With("model", c.modelID, "family", c.family.Name())

	body, err := c.family.Encode(prompt, maxTokens)
	if err != nil {
		logger.Error("failed to encode inference request", "error", err)
		return ReplyUnexpected
	}

	respBody, err := c.invoker.Invoke(ctx, c.modelID, body)
	if err != nil {
		logger.Error("inference call failed", "error", err)
		return fallbackFor(err)
	}

	if text, ok := c.family.Decode(respBody); ok {
		return text
	}
	if text, ok := decodeGeneric(respBody); ok {
		return text
	}

	logger.Warn("unexpected inference response format", "body_size", len(respBody))
	return ReplyBadFormat
}

// fallbackFor converts a classified inference error into user-facing text
func fallbackFor(err error) string {
	switch {
	case goerr.HasTag(err, ErrTagBadConfig):
		return ReplyBadConfig
	case goerr.HasTag(err, ErrTagThrottled):
		return ReplyThrottled
	case goerr.HasTag(err, ErrTagUnavailable):
		return ReplyUnavailable
	case goerr.HasTag(err, ErrTagService):
		return "AI service error: " + err.Error() + ". Please try again or contact support."
	default:
		return ReplyUnexpected
	}
}
