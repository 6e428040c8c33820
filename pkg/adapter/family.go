package adapter

import (
	"encoding/json"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Family encodes a prompt into a vendor specific request payload and
// decodes the vendor specific response back into plain text. Supporting a
// new vendor means adding a Family implementation, not editing branches.
type Family interface {
	Name() string
	Encode(prompt string, maxTokens int) ([]byte, error)
	// Decode extracts generated text from a response body. ok is false
	// when the family specific extraction path is absent from the body.
	Decode(body []byte) (text string, ok bool)
}

// FamilyOf returns the Family registered under tag. Known tags are
// "messages", "llama", "mistral" and "titan"; the empty tag selects titan.
func FamilyOf(tag string) (Family, error) {
	switch strings.ToLower(tag) {
	case "messages":
		return messagesFamily{}, nil
	case "llama":
		return llamaFamily{}, nil
	case "mistral":
		return mistralFamily{}, nil
	case "titan", "":
		return titanFamily{}, nil
	default:
		return nil, goerr.New("unknown model family", goerr.V("family", tag))
	}
}

// InferFamily guesses a family tag from a model identifier. Unknown models
// fall back to the titan payload shape.
func InferFamily(modelID string) string {
	id := strings.ToLower(modelID)
	switch {
	case strings.Contains(id, "nova"):
		return "messages"
	case strings.Contains(id, "llama"):
		return "llama"
	case strings.Contains(id, "mistral"):
		return "mistral"
	default:
		return "titan"
	}
}

// genericTextKeys is the fallback scan order applied when a family specific
// extraction path is missing from the response body
var genericTextKeys = []string{"text", "generatedText", "generation", "output", "outputText"}

// decodeGeneric scans the response body for the first string-typed field
// among the generic text keys
func decodeGeneric(body []byte) (string, bool) {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return "", false
	}
	for _, key := range genericTextKeys {
		if v, ok := fields[key].(string); ok {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// messagesFamily speaks the chat message schema ("messages-v1")

type messagesFamily struct{}

type messagesRequest struct {
	SchemaVersion   string            `json:"schemaVersion"`
	Messages        []messagesTurn    `json:"messages"`
	InferenceConfig messagesInference `json:"inferenceConfig"`
}

type messagesTurn struct {
	Role    string          `json:"role"`
	Content []messagesBlock `json:"content"`
}

type messagesBlock struct {
	Text string `json:"text"`
}

type messagesInference struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

func (messagesFamily) Name() string { return "messages" }

func (messagesFamily) Encode(prompt string, maxTokens int) ([]byte, error) {
	return json.Marshal(messagesRequest{
		SchemaVersion: "messages-v1",
		Messages: []messagesTurn{
			{Role: "user", Content: []messagesBlock{{Text: prompt}}},
		},
		InferenceConfig: messagesInference{
			MaxNewTokens: maxTokens,
			Temperature:  defaultTemperature,
		},
	})
}

func (messagesFamily) Decode(body []byte) (string, bool) {
	var resp struct {
		Output struct {
			Message struct {
				Content []messagesBlock `json:"content"`
			} `json:"message"`
		} `json:"output"`
		Content []messagesBlock `json:"content"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}

	for _, block := range resp.Output.Message.Content {
		if block.Text != "" {
			return strings.TrimSpace(block.Text), true
		}
	}
	for _, block := range resp.Content {
		if block.Text != "" {
			return strings.TrimSpace(block.Text), true
		}
	}
	return "", false
}

// llamaFamily speaks the completion schema using max_gen_len

type llamaFamily struct{}

type llamaRequest struct {
	Prompt      string  `json:"prompt"`
	MaxGenLen   int     `json:"max_gen_len"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

func (llamaFamily) Name() string { return "llama" }

func (llamaFamily) Encode(prompt string, maxTokens int) ([]byte, error) {
	return json.Marshal(llamaRequest{
		Prompt:      prompt,
		MaxGenLen:   maxTokens,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
	})
}

func (llamaFamily) Decode(body []byte) (string, bool) {
	var resp struct {
		Generation *string `json:"generation"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.Generation == nil {
		return "", false
	}
	return strings.TrimSpace(*resp.Generation), true
}

// mistralFamily speaks the completion schema using max_tokens

type mistralFamily struct{}

type mistralRequest struct {
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
}

func (mistralFamily) Name() string { return "mistral" }

func (mistralFamily) Encode(prompt string, maxTokens int) ([]byte, error) {
	return json.Marshal(mistralRequest{
		Prompt:      prompt,
		MaxTokens:   maxTokens,
		Temperature: defaultTemperature,
		TopP:        defaultTopP,
	})
}

func (mistralFamily) Decode(body []byte) (string, bool) {
	var resp struct {
		Outputs []struct {
			Text *string `json:"text"`
		} `json:"outputs"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if len(resp.Outputs) == 0 || resp.Outputs[0].Text == nil {
		return "", false
	}
	return strings.TrimSpace(*resp.Outputs[0].Text), true
}

// titanFamily speaks the textGenerationConfig schema and doubles as the
// default for unknown model identifiers

type titanFamily struct{}

type titanRequest struct {
	InputText            string      `json:"inputText"`
	TextGenerationConfig titanConfig `json:"textGenerationConfig"`
}

type titanConfig struct {
	MaxTokenCount int     `json:"maxTokenCount"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"topP"`
}

func (titanFamily) Name() string { return "titan" }

func (titanFamily) Encode(prompt string, maxTokens int) ([]byte, error) {
	return json.Marshal(titanRequest{
		InputText: prompt,
		TextGenerationConfig: titanConfig{
			MaxTokenCount: maxTokens,
			Temperature:   defaultTemperature,
			TopP:          defaultTopP,
		},
	})
}

func (titanFamily) Decode(body []byte) (string, bool) {
	var resp struct {
		Results []struct {
			OutputText *string `json:"outputText"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if len(resp.Results) == 0 || resp.Results[0].OutputText == nil {
		return "", false
	}
	return strings.TrimSpace(*resp.Results[0].OutputText), true
}
