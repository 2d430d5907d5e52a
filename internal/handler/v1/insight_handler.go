package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/predictor"
	"github.com/careledger/careledger/internal/service"
)

type InsightHandler struct {
	insightSvc *service.InsightService
}

func NewInsightHandler(insightSvc *service.InsightService) *InsightHandler {
	return &InsightHandler{insightSvc: insightSvc}
}

type predictRequest struct {
	Age         int     `json:"age" binding:"required"`
	Gender      string  `json:"gender"`
	SystolicBP  int     `json:"systolicBP"`
	DiastolicBP int     `json:"diastolicBP"`
	BloodSugar  float64 `json:"bloodSugar"`
	BMI         float64 `json:"bmi"`

	// Optional: associates the run with a patient record, persisting the
	// scores and appending an ai_prediction history entry.
	PatientID *uuid.UUID `json:"patientId"`
}

func (h *InsightHandler) Predict(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req predictRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.insightSvc.PredictHealthRisk(c.Request.Context(), predictor.HealthInput{
		Age:         req.Age,
		Gender:      req.Gender,
		SystolicBP:  req.SystolicBP,
		DiastolicBP: req.DiastolicBP,
		BloodSugar:  req.BloodSugar,
		BMI:         req.BMI,
	}, req.PatientID, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, result)
}

type analyzeImageRequest struct {
	PatientID    uuid.UUID `json:"patientId" binding:"required"`
	Filename     string    `json:"filename" binding:"required"`
	AnalysisType string    `json:"analysisType" binding:"required"`
}

func (h *InsightHandler) AnalyzeImage(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req analyzeImageRequest
	if !bindJSON(c, &req) {
		return
	}

	record, err := h.insightSvc.AnalyzeImage(c.Request.Context(),
		req.PatientID, req.Filename, insight.AnalysisType(req.AnalysisType), principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, record)
}

func (h *InsightHandler) Predictions(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	predictions, err := h.insightSvc.PredictionsFor(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, predictions)
}

func (h *InsightHandler) Images(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	images, err := h.insightSvc.ImagesFor(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, images)
}
