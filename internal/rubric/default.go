package rubric

import (
	"github.com/supporteval/judge-agent/internal/models"
)

// DefaultRubricName is the built-in rubric that Load always resolves.
const DefaultRubricName = "default_rubric"

// defaultRubric constructs the built-in rubric for German e-commerce
// customer support. Built once by the loader and held behind its cache.
func defaultRubric() *models.Rubric {
	return &models.Rubric{
		Name:        DefaultRubricName,
		Version:     "1.0.0",
		Description: "Standard evaluation rubric for German e-commerce customer support",
		DimensionOrder: []string{
			"accuracy", "tone", "compliance", "completeness", "language_quality", "efficiency",
		},
		Dimensions: map[string]models.RubricDimension{
			"accuracy": {
				Key:         "accuracy",
				Name:        "Accuracy",
				Weight:      0.25,
				Description: "Factual correctness of product/policy information",
				ScoringGuidelines: map[int]string{
					1: "Multiple factual errors, incorrect product/policy information",
					2: "Some factual errors or incomplete information",
					3: "Mostly accurate with minor issues",
					4: "Accurate information with good detail",
					5: "Completely accurate, comprehensive, and precise",
				},
			},
			"tone": {
				Key:         "tone",
				Name:        "Tone",
				Weight:      0.20,
				Description: "Professional, helpful, empathetic communication style",
				ScoringGuidelines: map[int]string{
					1: "Rude, dismissive, or inappropriate tone",
					2: "Cold or impersonal, lacks empathy",
					3: "Neutral and professional but not warm",
					4: "Friendly, helpful, and empathetic",
					5: "Excellent rapport, perfectly balanced professionalism and warmth",
				},
			},
			"compliance": {
				Key:         "compliance",
				Name:        "Compliance",
				Weight:      0.20,
				Description: "Adherence to legal requirements (Widerrufsrecht, DSGVO, etc.)",
				ScoringGuidelines: map[int]string{
					1: "Violates legal requirements or provides illegal advice",
					2: "Missing required legal information",
					3: "Basic compliance but could be more thorough",
					4: "Good compliance with relevant regulations",
					5: "Excellent compliance, proactively addresses legal aspects",
				},
			},
			"completeness": {
				Key:         "completeness",
				Name:        "Completeness",
				Weight:      0.15,
				Description: "Full resolution of customer inquiry",
				ScoringGuidelines: map[int]string{
					1: "Does not address the customer's question",
					2: "Partially addresses the inquiry, missing key points",
					3: "Addresses main question but misses some details",
					4: "Thoroughly addresses the inquiry",
					5: "Comprehensive response anticipating follow-up questions",
				},
			},
			"language_quality": {
				Key:         "language_quality",
				Name:        "Language Quality",
				Weight:      0.10,
				Description: "German grammar, spelling, and natural phrasing",
				ScoringGuidelines: map[int]string{
					1: "Many grammar/spelling errors, unnatural phrasing",
					2: "Noticeable errors affecting readability",
					3: "Minor errors, generally readable",
					4: "Good German with rare minor issues",
					5: "Flawless German, natural and professional",
				},
			},
			"efficiency": {
				Key:         "efficiency",
				Name:        "Efficiency",
				Weight:      0.10,
				Description: "Concise responses without unnecessary verbosity",
				ScoringGuidelines: map[int]string{
					1: "Extremely verbose or too brief to be useful",
					2: "Unnecessarily long or missing important details",
					3: "Adequate length but could be more concise",
					4: "Well-balanced, appropriately detailed",
					5: "Perfectly concise, every word serves a purpose",
				},
			},
		},
		FewShotExamples: []models.FewShotExample{
			{
				Conversation: []models.Message{
					{Role: "customer", Content: "Ich möchte meine Bestellung stornieren."},
					{Role: "chatbot", Content: "Gerne helfe ich Ihnen bei der Stornierung. Könnten Sie mir bitte Ihre Bestellnummer mitteilen? Sie finden diese in Ihrer Bestellbestätigung. Bitte beachten Sie, dass eine kostenlose Stornierung innerhalb von 14 Tagen nach Bestellung gemäß Ihrem Widerrufsrecht möglich ist."},
				},
				Evaluation: map[string]any{
					"overall_score": 0.85,
					"summary":       "Helpful response that correctly addresses the cancellation request and mentions legal rights.",
				},
			},
		},
		CalibrationNotes: `## Calibration Guidelines
- Score 3 should be the baseline for acceptable performance
- Reserve 5 for truly exceptional responses
- Consider context: complex inquiries may have lower completeness expectations
- German language quality is important but shouldn't dominate the score
- Compliance issues should be flagged even for minor violations`,
	}
}
