package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/supporteval/judge-agent/internal/api/middleware"
	"github.com/supporteval/judge-agent/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/evaluate").
			To(handler.Evaluate).
			Doc("Evaluate a support conversation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(EvaluateRequest{}).
			Writes(models.EvaluationResult{}).
			Returns(200, "OK", models.EvaluationResult{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/evaluate/batch").
			To(handler.EvaluateBatch).
			Doc("Evaluate multiple conversations with bounded concurrency").
			Metadata(restfulspec.KeyOpenAPITags, []string{"evaluate"}).
			Reads(BatchEvaluateRequest{}).
			Writes(BatchEvaluateResponse{}).
			Returns(200, "OK", BatchEvaluateResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/rubrics").
			To(handler.ListRubrics).
			Doc("List available rubrics").
			Metadata(restfulspec.KeyOpenAPITags, []string{"rubrics"}).
			Writes(RubricListResponse{}).
			Returns(200, "OK", RubricListResponse{}))

	ws.
		Route(ws.GET("/rubrics/{rubric_name}/dimensions").
			To(handler.RubricDimensions).
			Doc("List rubric dimensions with optional category weight overrides").
			Metadata(restfulspec.KeyOpenAPITags, []string{"rubrics"}).
			Param(ws.PathParameter("rubric_name", "Rubric name").DataType("string")).
			Param(ws.QueryParameter("category", "Conversation category for weight overrides").DataType("string").Required(false)).
			Writes(RubricDimensionsResponse{}).
			Returns(200, "OK", RubricDimensionsResponse{}))

	ws.
		Route(ws.POST("/rubrics/validate").
			To(handler.ValidateRubric).
			Doc("Validate a rubric definition").
			Metadata(restfulspec.KeyOpenAPITags, []string{"rubrics"}).
			Reads(models.Rubric{}).
			Writes(ValidateRubricResponse{}).
			Returns(200, "OK", ValidateRubricResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/meta-evaluation/metrics").
			To(handler.MetaEvaluationMetrics).
			Doc("Compare judge scores against human annotations").
			Metadata(restfulspec.KeyOpenAPITags, []string{"meta-evaluation"}).
			Reads(MetaEvaluationRequest{}).
			Writes(models.MetaEvaluationReport{}).
			Returns(200, "OK", models.MetaEvaluationReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/meta-evaluation/agreement").
			To(handler.InterAnnotatorAgreement).
			Doc("Inter-annotator agreement across human annotations").
			Metadata(restfulspec.KeyOpenAPITags, []string{"meta-evaluation"}).
			Reads(AgreementRequest{}).
			Writes(models.AgreementReport{}).
			Returns(200, "OK", models.AgreementReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/meta-evaluation/calibration-set").
			To(handler.CalibrationSet).
			Doc("Draw a stratified calibration sample for human annotation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"meta-evaluation"}).
			Reads(CalibrationSetRequest{}).
			Writes(CalibrationSetResponse{}).
			Returns(200, "OK", CalibrationSetResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	container.Add(ws)
}
