package gpt

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/supporteval/judge-agent/internal/config"
	"github.com/supporteval/judge-agent/internal/llm"
)

// Client talks to any OpenAI-compatible chat-completions endpoint
// (OpenAI itself, vLLM, Ollama, llama.cpp servers). Local deployments
// use the "not-needed" sentinel key, which omits bearer auth entirely.
type Client struct {
	client      openai.Client
	modelID     string
	temperature float64
	maxTokens   int
}

func NewClient(cfg config.JudgeConfig) (*Client, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model ID is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(llm.NewHTTPClient(cfg)),
		option.WithMaxRetries(0),
	}
	if cfg.APIKey != "" && cfg.APIKey != config.APIKeySentinel {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}

	return &Client{
		client:      openai.NewClient(opts...),
		modelID:     cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *Client) Send(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(c.temperature),
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		Model:       openai.ChatModel(c.modelID),
	}

	output, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", &llm.ModelCallError{Provider: config.ProviderOpenAICompatible, Err: err}
	}

	if len(output.Choices) == 0 {
		return "", &llm.ModelCallError{
			Provider: config.ProviderOpenAICompatible,
			Err:      fmt.Errorf("no choices in response"),
		}
	}

	return output.Choices[0].Message.Content, nil
}
