package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/supporteval/judge-agent/internal/config"
	"github.com/supporteval/judge-agent/internal/llm"
)

// Client talks to the Anthropic messages API. The SDK handles the
// x-api-key and anthropic-version headers.
type Client struct {
	client      anthropic.Client
	modelID     string
	temperature float64
	maxTokens   int
}

func NewClient(cfg config.JudgeConfig) (*Client, error) {
	if cfg.APIKey == "" || cfg.APIKey == config.APIKeySentinel {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model ID is required")
	}

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(llm.NewHTTPClient(cfg)),
		option.WithMaxRetries(0),
	)

	return &Client{
		client:      client,
		modelID:     cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

func (c *Client) Send(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.modelID),
		MaxTokens: int64(c.maxTokens),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
		Temperature: anthropic.Float(c.temperature),
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &llm.ModelCallError{Provider: config.ProviderAnthropic, Err: err}
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", &llm.ModelCallError{
			Provider: config.ProviderAnthropic,
			Err:      fmt.Errorf("no text content in response"),
		}
	}

	return sb.String(), nil
}
