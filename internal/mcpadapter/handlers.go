package mcpadapter

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/supporteval/judge-agent/internal/languagetool"
	"github.com/supporteval/judge-agent/internal/models"
	"github.com/supporteval/judge-agent/internal/setup"
)

// EvaluateConversationInput is the MCP tool input schema (matches HTTP API field names).
type EvaluateConversationInput struct {
	Conversation       models.Conversation `json:"conversation" jsonschema:"customer support conversation to evaluate"`
	RubricName         string              `json:"rubric_name,omitempty" jsonschema:"rubric to score against (default: customer_support_de)"`
	IncludeFewShot     *bool               `json:"include_few_shot,omitempty" jsonschema:"include few-shot examples in the prompt (default: true)"`
	IncludeCalibration *bool               `json:"include_calibration,omitempty" jsonschema:"include calibration notes in the prompt (default: true)"`
	EnhanceLanguage    bool                `json:"enhance_language,omitempty" jsonschema:"refine the language quality score with LanguageTool"`
}

// MetaEvaluationInput is the MCP tool input schema for judge-vs-human comparison.
type MetaEvaluationInput struct {
	Pairs []models.ScorePair `json:"pairs" jsonschema:"joined judge/human score pairs on the 0-10 scale"`
}

// NewEvaluateConversationHandler returns a tool handler backed by the wired
// evaluation engine. Pass the returned function to mcp.AddTool.
func NewEvaluateConversationHandler(deps *setup.Dependencies) func(context.Context, *mcp.CallToolRequest, EvaluateConversationInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input EvaluateConversationInput) (*mcp.CallToolResult, models.EvaluationResult, error) {
		return EvaluateConversation(ctx, deps, req, input)
	}
}

// EvaluateConversation scores one conversation and returns the result.
// Model failures come back as a structured error result, not a tool error.
func EvaluateConversation(
	ctx context.Context,
	deps *setup.Dependencies,
	req *mcp.CallToolRequest,
	input EvaluateConversationInput,
) (*mcp.CallToolResult, models.EvaluationResult, error) {
	result := deps.Engine.Evaluate(ctx, input.Conversation, input.RubricName, boolOrTrue(input.IncludeFewShot), boolOrTrue(input.IncludeCalibration))

	if input.EnhanceLanguage && deps.LanguageTool != nil {
		result = deps.LanguageTool.Enhance(ctx, result, languagetool.ExtractChatbotText(input.Conversation))
	}

	return nil, result, nil
}

// NewMetaEvaluationHandler returns a tool handler that computes correlation
// metrics between judge and human scores.
func NewMetaEvaluationHandler(deps *setup.Dependencies) func(context.Context, *mcp.CallToolRequest, MetaEvaluationInput) (*mcp.CallToolResult, models.MetaEvaluationReport, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MetaEvaluationInput) (*mcp.CallToolResult, models.MetaEvaluationReport, error) {
		report := deps.MetaEval.CalculateMetrics(input.Pairs)
		return nil, report, nil
	}
}

func boolOrTrue(b *bool) bool {
	return b == nil || *b
}
