package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supporteval/judge-agent/internal/models"
)

// maxFewShotExamples caps how many rubric examples are rendered into a
// single user prompt.
const maxFewShotExamples = 2

// BuildSystemPrompt renders the judge instructions for a rubric. The
// output schema section is fixed; the dimension list and calibration
// notes come from the rubric.
func BuildSystemPrompt(rubric *models.Rubric, includeCalibration bool) string {
	var dims strings.Builder
	for _, dim := range rubric.OrderedDimensions() {
		fmt.Fprintf(&dims, "- **%s** (%.0f%%): %s\n", dim.Name, dim.Weight*100, dim.Description)
	}

	var sb strings.Builder
	sb.WriteString("You are an expert evaluator for German e-commerce customer support chatbot conversations.\n\n")
	sb.WriteString("Your task is to evaluate chatbot responses against the following rubric:\n\n")
	sb.WriteString("## Evaluation Dimensions\n")
	sb.WriteString(dims.String())
	sb.WriteString(`
## Instructions
1. Analyze the conversation context and customer intent
2. Evaluate the chatbot's response against each dimension
3. Check for legal/compliance issues (Widerrufsrecht, DSGVO, etc.)
4. Assess German language quality
5. Provide an overall score and actionable feedback

## Output Format
You MUST respond with a valid JSON object in the following format:
{
    "chain_of_thought": {
        "context_analysis": "Analysis of customer context and intent",
        "response_analysis": "Analysis of chatbot response quality",
        "legal_check": "Check for legal/compliance issues",
        "language_assessment": "Assessment of German language quality"
    },
    "dimension_scores": {
        "accuracy": {"score": 1-5, "reasoning": "...", "evidence": ["..."]},
        "tone": {"score": 1-5, "reasoning": "...", "evidence": ["..."]},
        "compliance": {"score": 1-5, "reasoning": "...", "evidence": ["..."]},
        "completeness": {"score": 1-5, "reasoning": "...", "evidence": ["..."]},
        "language_quality": {"score": 1-5, "reasoning": "...", "evidence": ["..."]},
        "efficiency": {"score": 1-5, "reasoning": "...", "evidence": ["..."]}
    },
    "flags": {
        "critical_error": false,
        "compliance_issue": false,
        "escalation_needed": false
    },
    "summary": "Brief overall assessment",
    "improvement_suggestions": ["Suggestion 1", "Suggestion 2"]
}
`)

	if includeCalibration && rubric.CalibrationNotes != "" {
		sb.WriteString("\n")
		sb.WriteString(rubric.CalibrationNotes)
		sb.WriteString("\n")
	}

	return sb.String()
}

// BuildUserPrompt renders the conversation transcript to evaluate. Up to
// two few-shot examples from the rubric are prepended when requested.
// Messages are rendered in original order with no truncation.
func BuildUserPrompt(rubric *models.Rubric, conversation models.Conversation, includeFewShot bool) string {
	var sb strings.Builder

	if includeFewShot && len(rubric.FewShotExamples) > 0 {
		sb.WriteString("\n## Examples\n")
		examples := rubric.FewShotExamples
		if len(examples) > maxFewShotExamples {
			examples = examples[:maxFewShotExamples]
		}
		for i, example := range examples {
			fmt.Fprintf(&sb, "\n### Example %d\n", i+1)
			fmt.Fprintf(&sb, "Conversation: %s\n", marshalCompact(example.Conversation))
			fmt.Fprintf(&sb, "Expected evaluation: %s\n", marshalCompact(example.Evaluation))
		}
	}

	sb.WriteString("\n## Conversation to Evaluate\n")
	fmt.Fprintf(&sb, "**Category**: %s\n", conversation.Category)
	fmt.Fprintf(&sb, "**Conversation ID**: %s\n\n", conversation.ID)

	for i, msg := range conversation.Messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		role := msg.Role
		if role == "" {
			role = "unknown"
		}
		fmt.Fprintf(&sb, "**%s**: %s", strings.ToUpper(role), msg.Content)
	}

	sb.WriteString("\n\nPlease evaluate this conversation and respond with the JSON evaluation.\n")

	return sb.String()
}

func marshalCompact(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
