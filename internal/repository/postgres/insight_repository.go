package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/domain/patient"
)

type InsightRepository struct {
	db *gorm.DB
}

func NewInsightRepository(db *gorm.DB) *InsightRepository {
	return &InsightRepository{db: db}
}

var _ insight.Repository = (*InsightRepository)(nil)

func (r *InsightRepository) CreatePrediction(ctx context.Context, p *insight.HealthPrediction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, p.PatientID); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("inserting prediction: %w", err)
		}
		return nil
	})
}

func (r *InsightRepository) PredictionsFor(ctx context.Context, patientID uuid.UUID) ([]*insight.HealthPrediction, error) {
	var predictions []*insight.HealthPrediction
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *InsightRepository) CountPredictions(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&insight.HealthPrediction{}).Count(&count).Error
	return count, err
}

func (r *InsightRepository) CreateImageRecord(ctx context.Context, rec *insight.MedicalImageRecord) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requirePatient(tx, rec.PatientID); err != nil {
			return err
		}
		if err := tx.Create(rec).Error; err != nil {
			return fmt.Errorf("inserting image record: %w", err)
		}
		return nil
	})
}

func (r *InsightRepository) ImagesFor(ctx context.Context, patientID uuid.UUID) ([]*insight.MedicalImageRecord, error) {
	var records []*insight.MedicalImageRecord
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func requirePatient(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&patient.Patient{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return insight.ErrPatientRefNotFound
	}
	return nil
}
