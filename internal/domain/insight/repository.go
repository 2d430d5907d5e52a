package insight

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// CreatePrediction verifies the patient reference exists before writing.
	CreatePrediction(ctx context.Context, p *HealthPrediction) error

	// PredictionsFor returns a patient's prediction runs, newest first.
	PredictionsFor(ctx context.Context, patientID uuid.UUID) ([]*HealthPrediction, error)

	// CountPredictions feeds the aiPredictions stat.
	CountPredictions(ctx context.Context) (int64, error)

	// CreateImageRecord verifies the patient reference exists before writing.
	CreateImageRecord(ctx context.Context, r *MedicalImageRecord) error

	// ImagesFor returns a patient's image analyses, newest first.
	ImagesFor(ctx context.Context, patientID uuid.UUID) ([]*MedicalImageRecord, error)
}
