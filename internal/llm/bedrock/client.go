package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/supporteval/judge-agent/internal/config"
	"github.com/supporteval/judge-agent/internal/llm"
)

const anthropicVersion = "bedrock-2023-05-31"

// Client invokes an Anthropic model hosted on AWS Bedrock.
type Client struct {
	client      *bedrockruntime.Client
	modelID     string
	temperature float64
	maxTokens   int
}

func NewClient(ctx context.Context, cfg config.JudgeConfig) (*Client, error) {
	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("AWS region is required")
	}
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model ID is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	return &Client{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     cfg.ModelName,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

type messageRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	System           string    `json:"system,omitempty"`
	Messages         []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *Client) Send(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	payload := messageRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        c.maxTokens,
		Temperature:      c.temperature,
		System:           systemPrompt,
		Messages: []message{
			{Role: "user", Content: userPrompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", &llm.ModelCallError{Provider: config.ProviderBedrock, Err: err}
	}

	output, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        body,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", &llm.ModelCallError{Provider: config.ProviderBedrock, Err: err}
	}

	var response messageResponse
	if err := json.Unmarshal(output.Body, &response); err != nil {
		return "", &llm.ModelCallError{
			Provider: config.ProviderBedrock,
			Err:      fmt.Errorf("unable to decode response body: %w", err),
		}
	}

	if len(response.Content) == 0 {
		return "", &llm.ModelCallError{
			Provider: config.ProviderBedrock,
			Err:      fmt.Errorf("no content in response"),
		}
	}

	return response.Content[0].Text, nil
}
