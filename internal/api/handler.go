package api

import (
	"net/http"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/supporteval/judge-agent/internal/api/middleware"
	"github.com/supporteval/judge-agent/internal/judge"
	"github.com/supporteval/judge-agent/internal/languagetool"
	"github.com/supporteval/judge-agent/internal/metaeval"
	"github.com/supporteval/judge-agent/internal/models"
	"github.com/supporteval/judge-agent/internal/rubric"
)

type Handler struct {
	engine       *judge.Engine
	rubrics      *rubric.Loader
	languageTool *languagetool.Client
	metaEval     *metaeval.Service
	concurrency  int
	logger       *zerolog.Logger
}

func NewHandler(engine *judge.Engine, rubrics *rubric.Loader, lt *languagetool.Client, meta *metaeval.Service, concurrency int, logger *zerolog.Logger) *Handler {
	return &Handler{
		engine:       engine,
		rubrics:      rubrics,
		languageTool: lt,
		metaEval:     meta,
		concurrency:  concurrency,
		logger:       logger,
	}
}

// POST /api/v1/evaluate
func (h *Handler) Evaluate(req *restful.Request, resp *restful.Response) {
	var evalRequest EvaluateRequest
	if err := req.ReadEntity(&evalRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if evalRequest.Conversation.ID == "" {
		middleware.HandleError(resp, errMissingConversationID, http.StatusBadRequest)
		return
	}

	rubricName := evalRequest.RubricName
	if rubricName == "" {
		rubricName = rubric.DefaultRubricName
	}

	h.logger.Info().
		Str("conversation_id", evalRequest.Conversation.ID).
		Str("category", evalRequest.Conversation.Category).
		Str("rubric", rubricName).
		Msg("Start evaluation")

	ctx := req.Request.Context()
	result := h.engine.Evaluate(ctx, evalRequest.Conversation, rubricName,
		boolOrTrue(evalRequest.IncludeFewShot), boolOrTrue(evalRequest.IncludeCalibration))

	if evalRequest.EnhanceLanguage && h.languageTool != nil {
		text := languagetool.ExtractChatbotText(evalRequest.Conversation)
		result = h.languageTool.Enhance(ctx, result, text)
	}

	h.logger.Info().
		Str("conversation_id", result.ConversationID).
		Float64("overall_score", result.OverallScore).
		Bool("critical_error", result.Flags.CriticalError).
		Msg("Evaluation complete")

	resp.WriteHeaderAndEntity(http.StatusOK, result)
}

// POST /api/v1/evaluate/batch
func (h *Handler) EvaluateBatch(req *restful.Request, resp *restful.Response) {
	var batchRequest BatchEvaluateRequest
	if err := req.ReadEntity(&batchRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if len(batchRequest.Conversations) == 0 {
		middleware.HandleError(resp, errEmptyBatch, http.StatusBadRequest)
		return
	}

	rubricName := batchRequest.RubricName
	if rubricName == "" {
		rubricName = rubric.DefaultRubricName
	}
	concurrency := batchRequest.Concurrency
	if concurrency <= 0 {
		concurrency = h.concurrency
	}

	h.logger.Info().
		Int("count", len(batchRequest.Conversations)).
		Str("rubric", rubricName).
		Int("concurrency", concurrency).
		Msg("Start batch evaluation")

	results := h.engine.EvaluateBatch(req.Request.Context(), batchRequest.Conversations, rubricName,
		boolOrTrue(batchRequest.IncludeFewShot), boolOrTrue(batchRequest.IncludeCalibration),
		concurrency, func(completed, total int) {
			h.logger.Debug().Int("completed", completed).Int("total", total).Msg("batch progress")
		})

	resp.WriteHeaderAndEntity(http.StatusOK, BatchEvaluateResponse{
		Results: results,
		Count:   len(results),
	})
}

// GET /api/v1/rubrics
func (h *Handler) ListRubrics(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, RubricListResponse{
		Rubrics: h.rubrics.ListAvailable(),
	})
}

// GET /api/v1/rubrics/{rubric_name}/dimensions
func (h *Handler) RubricDimensions(req *restful.Request, resp *restful.Response) {
	name := req.PathParameter("rubric_name")
	category := req.QueryParameter("category")

	rb := h.rubrics.Load(name)

	var dims []models.RubricDimension
	if category != "" {
		dims = rubric.DimensionsForCategory(rb, category)
	} else {
		dims = rb.OrderedDimensions()
	}

	resp.WriteHeaderAndEntity(http.StatusOK, RubricDimensionsResponse{
		Rubric:     rb.Name,
		Category:   category,
		Dimensions: dims,
	})
}

// POST /api/v1/rubrics/validate
func (h *Handler) ValidateRubric(req *restful.Request, resp *restful.Response) {
	var rb models.Rubric
	if err := req.ReadEntity(&rb); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	if err := rubric.ValidateWeights(&rb); err != nil {
		resp.WriteHeaderAndEntity(http.StatusOK, ValidateRubricResponse{
			Valid: false,
			Error: err.Error(),
		})
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, ValidateRubricResponse{Valid: true})
}

// POST /api/v1/meta-evaluation/metrics
func (h *Handler) MetaEvaluationMetrics(req *restful.Request, resp *restful.Response) {
	var metaRequest MetaEvaluationRequest
	if err := req.ReadEntity(&metaRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	report := h.metaEval.CalculateMetrics(metaRequest.Pairs)
	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/meta-evaluation/agreement
func (h *Handler) InterAnnotatorAgreement(req *restful.Request, resp *restful.Response) {
	var agreementRequest AgreementRequest
	if err := req.ReadEntity(&agreementRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	report := h.metaEval.InterAnnotatorAgreement(agreementRequest.Annotations)
	resp.WriteHeaderAndEntity(http.StatusOK, report)
}

// POST /api/v1/meta-evaluation/calibration-set
func (h *Handler) CalibrationSet(req *restful.Request, resp *restful.Response) {
	var setRequest CalibrationSetRequest
	if err := req.ReadEntity(&setRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	size := setRequest.Size
	if size <= 0 {
		size = 50
	}

	selected := h.metaEval.CalibrationSet(setRequest.Candidates, size)
	resp.WriteHeaderAndEntity(http.StatusOK, CalibrationSetResponse{
		Selected: selected,
		Count:    len(selected),
	})
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
