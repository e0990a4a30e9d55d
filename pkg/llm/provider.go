// Package llm wraps the streaming model providers behind one small
// interface so the server pipeline does not care which backend
// generates tokens.
package llm

import (
	"context"
	"fmt"

	"parley/pkg/config"
)

// Provider generates a streamed response for a prompt. fn receives
// each raw chunk as the model produces it, thinking markers included;
// returning an error from fn aborts the generation.
type Provider interface {
	Stream(ctx context.Context, prompt string, fn func(chunk string) error) error
	Name() string
}

// FromSettings builds the provider selected by the provider config
// key.
func FromSettings(s *config.Settings) (Provider, error) {
	switch s.Provider {
	case "", "ollama":
		return NewOllama(s.Ollama.URL, s.Ollama.Model)
	case "openai":
		return NewOpenAI(s.OpenAI.APIKey, s.OpenAI.Model, s.OpenAI.BaseURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}
