package api

import (
	"github.com/supporteval/judge-agent/internal/models"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// EvaluateRequest asks for a single conversation evaluation. FewShot
// and calibration inclusion default to true when omitted.
type EvaluateRequest struct {
	Conversation       models.Conversation `json:"conversation"`
	RubricName         string              `json:"rubric_name,omitempty"`
	IncludeFewShot     *bool               `json:"include_few_shot,omitempty"`
	IncludeCalibration *bool               `json:"include_calibration,omitempty"`
	EnhanceLanguage    bool                `json:"enhance_language,omitempty"`
}

type BatchEvaluateRequest struct {
	Conversations      []models.Conversation `json:"conversations"`
	RubricName         string                `json:"rubric_name,omitempty"`
	IncludeFewShot     *bool                 `json:"include_few_shot,omitempty"`
	IncludeCalibration *bool                 `json:"include_calibration,omitempty"`
	Concurrency        int                   `json:"concurrency,omitempty"`
}

type BatchEvaluateResponse struct {
	Results []models.EvaluationResult `json:"results"`
	Count   int                       `json:"count"`
}

type RubricListResponse struct {
	Rubrics []string `json:"rubrics"`
}

type RubricDimensionsResponse struct {
	Rubric     string                   `json:"rubric"`
	Category   string                   `json:"category,omitempty"`
	Dimensions []models.RubricDimension `json:"dimensions"`
}

type ValidateRubricResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type MetaEvaluationRequest struct {
	Pairs []models.ScorePair `json:"pairs"`
}

type AgreementRequest struct {
	Annotations []models.Annotation `json:"annotations"`
}

type CalibrationSetRequest struct {
	Candidates []models.CalibrationCandidate `json:"candidates"`
	Size       int                           `json:"size,omitempty"`
}

type CalibrationSetResponse struct {
	Selected []models.CalibrationCandidate `json:"selected"`
	Count    int                           `json:"count"`
}
