// Package llm sends the built prompts to a hosted model and returns its text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Generator produces post text from a system and a user prompt.
type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// ErrEmptyResponse is returned when the model answered without any text.
var ErrEmptyResponse = errors.New("empty response from model")

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Options selects and configures a provider.
type Options struct {
	Provider        string
	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string
	MaxTokens       int64
	Timeout         time.Duration
	// BaseURL overrides the provider endpoint. Used against local fakes.
	BaseURL string
}

// New returns the Generator for opts.Provider. It returns (nil, nil) when the
// provider's API key is absent so callers can report a configuration error per
// request instead of failing at startup.
func New(opts Options) (Generator, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderAnthropic:
		if opts.AnthropicAPIKey == "" {
			return nil, nil
		}
		return NewAnthropicClient(opts), nil
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, nil
		}
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", opts.Provider)
	}
}
