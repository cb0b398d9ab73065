// Package openai implements the llm Dialect for OpenAI-compatible chat
// completion APIs such as OpenRouter. Importing it registers the "openai"
// dialect.
package openai

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kbukum/quorumbot/llm"
)

// DialectName is the name the dialect registers under.
const DialectName = "openai"

// ErrNoChoices is returned when a 2xx response carries no completion.
var ErrNoChoices = errors.New("openai: response has no choices")

func init() {
	llm.RegisterDialect(DialectName, &Dialect{})
}

// Dialect maps llm types to the /chat/completions wire format.
type Dialect struct{}

func (d *Dialect) Name() string     { return DialectName }
func (d *Dialect) ChatPath() string { return "/chat/completions" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Code    any    `json:"code,omitempty"`
}

// BuildRequest keeps system and user roles as separate messages.
func (d *Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	if req.Model == "" {
		return nil, errors.New("openai: model is required")
	}
	msgs := req.AllMessages()
	if len(msgs) == 0 {
		return nil, errors.New("openai: at least one message is required")
	}
	return chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

// ParseResponse returns choices[0].message.content. OpenRouter may report
// upstream failures inside a 200 body, so an "error" object is an error.
func (d *Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("openai: decode response: %w", err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("openai: api error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}
