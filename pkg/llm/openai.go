package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// OpenAI streams from the OpenAI API, or any compatible endpoint via
// a custom base URL.
type OpenAI struct {
	llm   *openai.LLM
	model string
}

func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	opts := []openai.Option{}
	if apiKey != "" {
		opts = append(opts, openai.WithToken(apiKey))
	}
	if model != "" {
		opts = append(opts, openai.WithModel(model))
	}
	if baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("creating openai client: %w", err)
	}

	return &OpenAI{llm: client, model: model}, nil
}

func (o *OpenAI) Stream(ctx context.Context, prompt string, fn func(chunk string) error) error {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	_, err := o.llm.GenerateContent(ctx, messages,
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			return fn(string(chunk))
		}),
	)
	if err != nil {
		return fmt.Errorf("openai generation failed: %w", err)
	}
	return nil
}

func (o *OpenAI) Name() string {
	return "openai"
}
