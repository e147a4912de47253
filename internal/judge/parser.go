package judge

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/supporteval/judge-agent/internal/models"
)

// fallbackWeight is used when the model scores a dimension the rubric
// does not define.
const fallbackWeight = 0.1

// ParseResponse turns raw model output into an EvaluationResult. It
// never fails: malformed JSON degrades to an error result with the
// critical_error flag set and the raw text preserved for audit. Every
// field access tolerates absence, since the model may omit or rename
// anything.
func ParseResponse(rubric *models.Rubric, raw string, conversationID string) models.EvaluationResult {
	jsonStr := stripFence(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonStr)), &data); err != nil {
		result := ErrorResult(conversationID, fmt.Sprintf("JSON parse error: %v", err))
		result.RawResponse = raw
		return result
	}

	dimensionScores := make(map[string]models.DimensionScore)
	if rawDims, ok := data["dimension_scores"].(map[string]any); ok {
		for key, v := range rawDims {
			dimData, _ := v.(map[string]any)
			weight := fallbackWeight
			if dim, ok := rubric.Dimensions[key]; ok {
				weight = dim.Weight
			}
			dimensionScores[key] = models.DimensionScore{
				Score:     lookupFloat(dimData, "score", 3),
				Weight:    weight,
				Reasoning: lookupString(dimData, "reasoning", ""),
				Evidence:  lookupStrings(dimData, "evidence"),
			}
		}
	}

	cotData, _ := data["chain_of_thought"].(map[string]any)
	flagsData, _ := data["flags"].(map[string]any)

	result := models.EvaluationResult{
		ConversationID:  conversationID,
		OverallScore:    WeightedOverall(dimensionScores),
		DimensionScores: dimensionScores,
		ChainOfThought: models.ChainOfThought{
			ContextAnalysis:    lookupString(cotData, "context_analysis", ""),
			ResponseAnalysis:   lookupString(cotData, "response_analysis", ""),
			LegalCheck:         lookupString(cotData, "legal_check", ""),
			LanguageAssessment: lookupString(cotData, "language_assessment", ""),
		},
		Summary:                lookupString(data, "summary", ""),
		ImprovementSuggestions: lookupStrings(data, "improvement_suggestions"),
		Flags: models.EvaluationFlags{
			CriticalError:    lookupBool(flagsData, "critical_error"),
			ComplianceIssue:  lookupBool(flagsData, "compliance_issue"),
			EscalationNeeded: lookupBool(flagsData, "escalation_needed"),
		},
		RawResponse: raw,
	}

	result.Flags = ApplyFlags(result)

	return result
}

// ApplyFlags layers score-derived safety rules on top of whatever flags
// the model reported. An accuracy score below 3 forces critical_error
// and a compliance score below 5 forces compliance_issue. The rules OR
// with the model's own flags, never clear them.
func ApplyFlags(result models.EvaluationResult) models.EvaluationFlags {
	flags := result.Flags
	if ds, ok := result.DimensionScores["accuracy"]; ok && ds.Score < 3 {
		flags.CriticalError = true
	}
	if ds, ok := result.DimensionScores["compliance"]; ok && ds.Score < 5 {
		flags.ComplianceIssue = true
	}
	return flags
}

// WeightedOverall computes the weighted average of dimension scores
// normalized from the 1-5 judge scale to 0-1. With no dimensions it
// returns the neutral midpoint 0.5.
func WeightedOverall(scores map[string]models.DimensionScore) float64 {
	if len(scores) == 0 {
		return 0.5
	}
	var totalWeight, weighted float64
	for _, ds := range scores {
		totalWeight += ds.Weight
		weighted += (ds.Score / 5.0) * ds.Weight
	}
	if totalWeight == 0 {
		return 0.5
	}
	return weighted / totalWeight
}

// ErrorResult manufactures a flagged result for a failed evaluation.
// The caller still gets a structured value instead of an error.
func ErrorResult(conversationID, errText string) models.EvaluationResult {
	return models.EvaluationResult{
		ConversationID:  conversationID,
		OverallScore:    0.0,
		DimensionScores: map[string]models.DimensionScore{},
		ChainOfThought: models.ChainOfThought{
			ContextAnalysis: "ERROR: " + errText,
		},
		Summary:                "Evaluation failed: " + errText,
		ImprovementSuggestions: []string{},
		Flags:                  models.EvaluationFlags{CriticalError: true},
	}
}

// stripFence removes a single markdown code fence around the payload.
// A ```json fence is tried first, then a bare ``` fence. Text without a
// fence passes through verbatim.
func stripFence(raw string) string {
	if strings.Contains(raw, "```json") {
		after := strings.SplitN(raw, "```json", 2)[1]
		return strings.SplitN(after, "```", 2)[0]
	}
	if strings.Contains(raw, "```") {
		parts := strings.Split(raw, "```")
		if len(parts) > 1 {
			return parts[1]
		}
	}
	return raw
}

func lookupString(m map[string]any, key, def string) string {
	if m == nil {
		return def
	}
	if s, ok := m[key].(string); ok {
		return s
	}
	return def
}

func lookupFloat(m map[string]any, key string, def float64) float64 {
	if m == nil {
		return def
	}
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return def
}

func lookupBool(m map[string]any, key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

func lookupStrings(m map[string]any, key string) []string {
	if m == nil {
		return []string{}
	}
	raw, ok := m[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
