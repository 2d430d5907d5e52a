package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/domain/patient"
	"github.com/careledger/careledger/internal/predictor"
	"github.com/careledger/careledger/pkg/metrics"
)

// InsightService runs the external estimators and persists their results.
// The remote predictor is best-effort: any failure switches to the
// deterministic fallback and the request still succeeds.
type InsightService struct {
	repo     insight.Repository
	patients patient.Repository
	remote   predictor.Predictor
	fallback predictor.Predictor
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewInsightService(
	repo insight.Repository,
	patients patient.Repository,
	remote predictor.Predictor,
	collector *metrics.Collector,
	log *zap.Logger,
) *InsightService {
	return &InsightService{
		repo:     repo,
		patients: patients,
		remote:   remote,
		fallback: predictor.NewFallback(),
		metrics:  collector,
		log:      log,
	}
}

// predictionPayload is the opaque blob stored alongside the scored risks:
// the estimator's inputs plus its recommendations.
type predictionPayload struct {
	Input           predictor.HealthInput `json:"input"`
	Recommendations []string              `json:"recommendations"`
	Source          string                `json:"source"`
}

// PredictHealthRisk scores the input. When patientID is set the run is
// persisted as an append-only prediction row and an ai_prediction history
// entry; without a patient association nothing is stored.
func (s *InsightService) PredictHealthRisk(ctx context.Context, in predictor.HealthInput, patientID *uuid.UUID, caller *domain.Principal) (*predictor.HealthResult, error) {
	result, source := s.predict(ctx, in)

	if s.metrics != nil {
		s.metrics.PredictionsTotal.WithLabelValues(source).Inc()
	}

	if patientID == nil {
		return result, nil
	}

	payload, err := json.Marshal(predictionPayload{
		Input:           in,
		Recommendations: result.Recommendations,
		Source:          source,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding prediction payload: %w", err)
	}

	row := &insight.HealthPrediction{
		PatientID:          *patientID,
		CardiovascularRisk: result.CardiovascularRisk,
		DiabetesRisk:       result.DiabetesRisk,
		OverallHealthScore: result.OverallHealthScore,
		Payload:            datatypes.JSON(payload),
	}
	if err := s.repo.CreatePrediction(ctx, row); err != nil {
		return nil, err
	}

	entry := &patient.VitalsHistory{
		PatientID:   *patientID,
		RecordedBy:  caller.UserID,
		BloodSugar:  &in.BloodSugar,
		SystolicBP:  &in.SystolicBP,
		DiastolicBP: &in.DiastolicBP,
		ChangeType:  patient.ChangeAIPrediction,
		Notes:       fmt.Sprintf("health risk estimation (%s)", source),
	}
	if err := s.patients.AppendHistory(ctx, entry); err != nil {
		// The prediction row is already durable; a missed history entry is
		// logged, not surfaced.
		s.log.Error("failed to append ai_prediction history entry",
			zap.Error(err),
			zap.String("patient_id", patientID.String()),
		)
	} else if s.metrics != nil {
		s.metrics.HistoryEntriesTotal.WithLabelValues(string(patient.ChangeAIPrediction)).Inc()
	}

	return result, nil
}

func (s *InsightService) predict(ctx context.Context, in predictor.HealthInput) (*predictor.HealthResult, string) {
	if s.remote != nil {
		if result, err := s.remote.PredictHealthRisk(ctx, in); err == nil {
			return result, "remote"
		} else {
			s.log.Warn("remote predictor unavailable, using fallback", zap.Error(err))
		}
	}
	result, _ := s.fallback.PredictHealthRisk(ctx, in)
	return result, "fallback"
}

// AnalyzeImage runs the image analyzer and persists the append-only record.
func (s *InsightService) AnalyzeImage(ctx context.Context, patientID uuid.UUID, filename string, analysisType insight.AnalysisType, caller *domain.Principal) (*insight.MedicalImageRecord, error) {
	if !analysisType.IsValid() {
		return nil, insight.ErrInvalidAnalysisType
	}

	in := predictor.ImageInput{Filename: filename, AnalysisType: string(analysisType)}
	result, source := s.analyze(ctx, in)

	if s.metrics != nil {
		s.metrics.ImageAnalysesTotal.WithLabelValues(source).Inc()
	}

	blob, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encoding analysis result: %w", err)
	}

	record := &insight.MedicalImageRecord{
		PatientID:    patientID,
		Filename:     filename,
		AnalysisType: analysisType,
		Confidence:   result.Confidence,
		Findings:     result.Findings,
		Result:       datatypes.JSON(blob),
	}
	if err := s.repo.CreateImageRecord(ctx, record); err != nil {
		return nil, err
	}

	s.log.Info("image analyzed",
		zap.String("patient_id", patientID.String()),
		zap.String("analysis_type", string(analysisType)),
		zap.String("source", source),
		zap.Bool("abnormality", result.AbnormalityDetected),
	)

	return record, nil
}

func (s *InsightService) analyze(ctx context.Context, in predictor.ImageInput) (*predictor.ImageResult, string) {
	if s.remote != nil {
		if result, err := s.remote.AnalyzeImage(ctx, in); err == nil {
			return result, "remote"
		} else {
			s.log.Warn("remote image analyzer unavailable, using fallback", zap.Error(err))
		}
	}
	result, _ := s.fallback.AnalyzeImage(ctx, in)
	return result, "fallback"
}

func (s *InsightService) PredictionsFor(ctx context.Context, patientID uuid.UUID, caller *domain.Principal) ([]*insight.HealthPrediction, error) {
	if caller.Role == domain.RolePatient && !caller.OwnsPatient(patientID) {
		return nil, ErrForbidden
	}
	return s.repo.PredictionsFor(ctx, patientID)
}

func (s *InsightService) ImagesFor(ctx context.Context, patientID uuid.UUID, caller *domain.Principal) ([]*insight.MedicalImageRecord, error) {
	if caller.Role == domain.RolePatient && !caller.OwnsPatient(patientID) {
		return nil, ErrForbidden
	}
	return s.repo.ImagesFor(ctx, patientID)
}
