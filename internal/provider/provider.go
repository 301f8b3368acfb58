// Package provider builds llm.Chat implementations from model configuration.
package provider

import (
	"context"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/sells-group/needlebench/internal/config"
	anthropicpkg "github.com/sells-group/needlebench/pkg/anthropic"
	"github.com/sells-group/needlebench/pkg/gemini"
	"github.com/sells-group/needlebench/pkg/llm"
	"github.com/sells-group/needlebench/pkg/openai"
)

// Provider names accepted in model configuration.
const (
	OpenAI    = "openai"
	Anthropic = "anthropic"
	Gemini    = "gemini"
)

// ErrUnknownProvider is returned for a provider name New does not support.
var ErrUnknownProvider = eris.New("provider: unknown provider")

// ErrMissingKey is returned when no API key is configured or exported.
var ErrMissingKey = eris.New("provider: missing api key")

// New returns a chat client for cfg.Provider.
func New(cfg config.ModelConfig) (llm.Chat, error) {
	key := cfg.APIKey()

	switch cfg.Provider {
	case OpenAI:
		if key == "" {
			return nil, eris.Wrapf(ErrMissingKey, "provider: %s (set key or OPENAI_API_KEY)", cfg.Provider)
		}
		client := openai.NewClient(key, openai.WithBaseURL(cfg.BaseURL), openai.WithModel(cfg.Name))
		return openai.NewChat(client), nil
	case Anthropic:
		if key == "" {
			return nil, eris.Wrapf(ErrMissingKey, "provider: %s (set key or ANTHROPIC_API_KEY)", cfg.Provider)
		}
		var opts []option.RequestOption
		if cfg.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		return anthropicpkg.NewChat(anthropicpkg.NewClient(key, opts...)), nil
	case Gemini:
		if key == "" {
			return nil, eris.Wrapf(ErrMissingKey, "provider: %s (set key or GEMINI_API_KEY)", cfg.Provider)
		}
		client, err := gemini.NewClient(context.Background(), key, cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		return gemini.NewChat(client), nil
	default:
		return nil, eris.Wrapf(ErrUnknownProvider, "provider: %q", cfg.Provider)
	}
}

// Request builds an llm.Request carrying cfg's model name, token cap, and
// temperature.
func Request(cfg config.ModelConfig, msgs ...llm.Message) llm.Request {
	return llm.Request{
		Model:       cfg.Name,
		Messages:    msgs,
		MaxTokens:   cfg.MaxTokens,
		Temperature: llm.Float(cfg.Temperature),
	}
}
