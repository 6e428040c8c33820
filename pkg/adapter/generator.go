package adapter

import "context"

// Generator produces a reply text for an assembled prompt.
//
// Implementations never return an error: transport, quota, and format
// failures are mapped to fixed user-facing fallback replies so that the
// conversation can always continue with a plain text answer.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) string
}

// Fixed user-facing replies for degraded generation outcomes
const (
	ReplyBadConfig   = "The AI model configuration needs adjustment. Please contact support."
	ReplyThrottled   = "The service is temporarily busy. Please try again in a moment."
	ReplyUnavailable = "The requested model is not available. Please contact support."
	ReplyBadFormat   = "I encountered an unexpected response format. Please try again or contact support."
	ReplyUnexpected  = "An unexpected error occurred. Please contact support."
)

// Fixed sampling parameters shared by all model families
const (
	defaultTemperature = 0.7
	defaultTopP        = 0.9
)
