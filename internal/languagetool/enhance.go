package languagetool

import (
	"context"
	"fmt"
	"strings"

	"github.com/supporteval/judge-agent/internal/judge"
	"github.com/supporteval/judge-agent/internal/models"
)

const languageQualityKey = "language_quality"

// Enhance adjusts a result's language_quality score based on an
// objective grammar check of the chatbot's text. It derives a new
// result rather than mutating the input, so the original stays safe to
// share. Checker failures are swallowed: enhancement is best-effort
// and never blocks the primary evaluation.
func (c *Client) Enhance(ctx context.Context, result models.EvaluationResult, chatbotText string) models.EvaluationResult {
	if strings.TrimSpace(chatbotText) == "" {
		return result
	}

	check, err := c.Check(ctx, chatbotText)
	if err != nil {
		c.logger.Warn().Err(err).
			Str("conversation_id", result.ConversationID).
			Msg("languagetool check failed, returning result unchanged")
		return result
	}

	original, ok := result.DimensionScores[languageQualityKey]
	if !ok {
		return result
	}

	wordCount := len(strings.Fields(chatbotText))
	errorCount := len(check.Matches)
	errorRate := float64(errorCount) / float64(max(wordCount, 1))

	var grammar, spelling, style int
	for _, match := range check.Matches {
		categoryID := match.Rule.Category.ID
		switch {
		case strings.Contains(categoryID, "SPELLER") || strings.Contains(categoryID, "SPELLING"):
			spelling++
		case strings.Contains(categoryID, "GRAMMAR"):
			grammar++
		default:
			style++
		}
	}

	adjusted := original.Score + scoreAdjustment(errorRate)
	if adjusted < 1 {
		adjusted = 1
	}
	if adjusted > 5 {
		adjusted = 5
	}

	scores := make(map[string]models.DimensionScore, len(result.DimensionScores))
	for key, ds := range result.DimensionScores {
		scores[key] = ds
	}
	scores[languageQualityKey] = models.DimensionScore{
		Score:  adjusted,
		Weight: original.Weight,
		Reasoning: fmt.Sprintf("%s [LanguageTool: %d issues found - %d grammar, %d spelling, %d style]",
			original.Reasoning, errorCount, grammar, spelling, style),
		Evidence: append(append([]string{}, original.Evidence...),
			fmt.Sprintf("LanguageTool error rate: %.2f%%", errorRate*100)),
	}

	enhanced := result
	enhanced.DimensionScores = scores
	enhanced.OverallScore = judge.WeightedOverall(scores)

	return enhanced
}

// scoreAdjustment maps an error rate to a score penalty on the 1-5
// scale.
func scoreAdjustment(errorRate float64) float64 {
	switch {
	case errorRate > 0.10:
		return -2
	case errorRate > 0.05:
		return -1
	case errorRate > 0.02:
		return -0.5
	default:
		return 0
	}
}

// ExtractChatbotText concatenates the chatbot's turns from a
// conversation for grammar checking.
func ExtractChatbotText(conversation models.Conversation) string {
	var parts []string
	for _, msg := range conversation.Messages {
		role := strings.ToLower(msg.Role)
		if role == "chatbot" || role == "assistant" || role == "bot" {
			parts = append(parts, msg.Content)
		}
	}
	return strings.Join(parts, "\n")
}
