package models

import (
	"time"
)

// Category labels used for customer support conversations.
type Category string

const (
	CategoryRetoure       Category = "retoure"
	CategoryBeschwerde    Category = "beschwerde"
	CategoryProduktfrage  Category = "produktanfrage"
	CategoryLieferung     Category = "lieferung"
	CategoryZahlung       Category = "zahlung"
	CategoryKonto         Category = "konto"
	CategoryAllgemein     Category = "allgemein"
)

// Message is a single turn in a support conversation.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Conversation is a customer support transcript to evaluate.
// The engine only reads it; ownership stays with the caller.
type Conversation struct {
	ID        string         `json:"id"`
	Category  string         `json:"category"`
	Timestamp time.Time      `json:"timestamp"`
	Messages  []Message      `json:"messages"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// RubricDimension is one named scoring criterion with a weight and
// per-score (1-5) guideline text.
type RubricDimension struct {
	Key               string         `json:"-"`
	Name              string         `json:"name"`
	Weight            float64        `json:"weight"`
	Description       string         `json:"description"`
	ScoringGuidelines map[int]string `json:"scoring_guidelines,omitempty"`
}

// FewShotExample is a worked conversation plus its expected evaluation,
// rendered into the judge prompt to anchor scoring.
type FewShotExample struct {
	Conversation []Message      `json:"conversation"`
	Evaluation   map[string]any `json:"evaluation"`
}

// Rubric is a named, versioned set of weighted scoring dimensions.
// DimensionOrder preserves the authoring order for prompt rendering,
// since map iteration order is not stable.
type Rubric struct {
	Name             string                     `json:"name"`
	Version          string                     `json:"version"`
	Description      string                     `json:"description"`
	Dimensions       map[string]RubricDimension `json:"dimensions"`
	DimensionOrder   []string                   `json:"-"`
	FewShotExamples  []FewShotExample           `json:"few_shot_examples,omitempty"`
	CalibrationNotes string                     `json:"calibration_notes,omitempty"`
}

// OrderedDimensions returns the rubric dimensions in authoring order.
func (r *Rubric) OrderedDimensions() []RubricDimension {
	dims := make([]RubricDimension, 0, len(r.DimensionOrder))
	for _, key := range r.DimensionOrder {
		if dim, ok := r.Dimensions[key]; ok {
			dims = append(dims, dim)
		}
	}
	return dims
}

// DimensionScore is the judge's score for a single rubric dimension.
// Weight is copied from the rubric at parse time; the model's own
// stated weight is ignored.
type DimensionScore struct {
	Score     float64  `json:"score"`
	Weight    float64  `json:"weight"`
	Reasoning string   `json:"reasoning"`
	Evidence  []string `json:"evidence"`
}

// ChainOfThought is the judge's structured reasoning. Fields default to
// the empty string when absent from the model output.
type ChainOfThought struct {
	ContextAnalysis    string `json:"context_analysis"`
	ResponseAnalysis   string `json:"response_analysis"`
	LegalCheck         string `json:"legal_check"`
	LanguageAssessment string `json:"language_assessment"`
}

// EvaluationFlags are independent boolean signals. They are not
// mutually exclusive.
type EvaluationFlags struct {
	CriticalError    bool `json:"critical_error"`
	ComplianceIssue  bool `json:"compliance_issue"`
	EscalationNeeded bool `json:"escalation_needed"`
}

// EvaluationResult is the complete scored output for one conversation.
// OverallScore is normalized to 0-1.
type EvaluationResult struct {
	ConversationID         string                    `json:"conversation_id"`
	OverallScore           float64                   `json:"overall_score"`
	DimensionScores        map[string]DimensionScore `json:"dimension_scores"`
	ChainOfThought         ChainOfThought            `json:"chain_of_thought"`
	Summary                string                    `json:"summary"`
	ImprovementSuggestions []string                  `json:"improvement_suggestions"`
	Flags                  EvaluationFlags           `json:"flags"`
	ModelName              string                    `json:"model_name"`
	RubricVersion          string                    `json:"rubric_version"`
	ProcessingTimeMS       int64                     `json:"processing_time_ms"`
	RawResponse            string                    `json:"raw_response,omitempty"`
}

// CorrelationMetrics compares judge scores against human scores.
type CorrelationMetrics struct {
	PearsonR             float64 `json:"pearson_r"`
	SpearmanRho          float64 `json:"spearman_rho"`
	KendallTau           float64 `json:"kendall_tau"`
	MeanAbsoluteError    float64 `json:"mean_absolute_error"`
	RootMeanSquaredError float64 `json:"root_mean_squared_error"`
	CohenKappa           float64 `json:"cohen_kappa"`
	SampleSize           int     `json:"sample_size"`
}

// ScorePair is one joined (judge, human) observation. Overall scores are
// on the 0-10 human-annotation scale: callers scale the engine's native
// 0-1 overall by 10 when building pairs. Dimension maps are keyed by
// rubric dimension; a dimension contributes to per-dimension stats only
// when both sides supplied a value.
type ScorePair struct {
	EvaluationID    string             `json:"evaluation_id,omitempty"`
	JudgeOverall    float64            `json:"judge_overall"`
	HumanOverall    float64            `json:"human_overall"`
	JudgeDimensions map[string]float64 `json:"judge_dimensions,omitempty"`
	HumanDimensions map[string]float64 `json:"human_dimensions,omitempty"`
}

// MetaEvaluationReport is the outcome of comparing judge output with
// human annotations.
type MetaEvaluationReport struct {
	OverallCorrelation    CorrelationMetrics            `json:"overall_correlation"`
	DimensionCorrelations map[string]CorrelationMetrics `json:"dimension_correlations"`
	CalibrationNeeded     bool                          `json:"calibration_needed"`
	Recommendations       []string                      `json:"recommendations"`
	LastCalculated        time.Time                     `json:"last_calculated"`
}

// Annotation is a single human score for an evaluation, used for
// inter-annotator agreement.
type Annotation struct {
	EvaluationID string  `json:"evaluation_id"`
	AnnotatorID  string  `json:"annotator_id"`
	OverallScore float64 `json:"overall_score"`
}

// AgreementReport summarizes pairwise agreement between annotators.
type AgreementReport struct {
	AveragePairwiseAgreement float64 `json:"average_pairwise_agreement"`
	SampleSize               int     `json:"sample_size"`
	TotalAnnotationPairs     int     `json:"total_annotation_pairs"`
	Message                  string  `json:"message,omitempty"`
}

// CalibrationCandidate is an evaluation that has no human annotation yet
// and may be drawn into a calibration set.
type CalibrationCandidate struct {
	EvaluationID   string  `json:"evaluation_id"`
	ConversationID string  `json:"conversation_id"`
	OverallScore   float64 `json:"judge_overall_score"`
	Summary        string  `json:"summary,omitempty"`
}
