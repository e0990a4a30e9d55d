package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// Ollama streams from a local or remote Ollama server through
// langchaingo.
type Ollama struct {
	llm   *ollama.LLM
	model string
}

// NewOllama connects to serverURL with model. Empty values fall back
// to the langchaingo defaults.
func NewOllama(serverURL, model string) (*Ollama, error) {
	var opts []ollama.Option
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	if model != "" {
		opts = append(opts, ollama.WithModel(model))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}

	return &Ollama{llm: client, model: model}, nil
}

func (o *Ollama) Stream(ctx context.Context, prompt string, fn func(chunk string) error) error {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	_, err := o.llm.GenerateContent(ctx, messages,
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return fn(string(chunk))
		}),
	)
	if err != nil {
		return fmt.Errorf("ollama generation failed: %w", err)
	}
	return nil
}

func (o *Ollama) Name() string {
	return "ollama"
}
