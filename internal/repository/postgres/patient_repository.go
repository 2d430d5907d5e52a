package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/domain/appointment"
	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/domain/patient"
)

const codeRetries = 3

type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) *PatientRepository {
	return &PatientRepository{db: db}
}

var _ patient.Repository = (*PatientRepository)(nil)

// Create persists the patient and the initial_record history entry in one
// transaction. The code sequence is read inside the transaction; a concurrent
// writer grabbing the same sequence trips the unique index and we retry.
func (r *PatientRepository) Create(ctx context.Context, p *patient.Patient) error {
	var lastErr error
	for attempt := 0; attempt < codeRetries; attempt++ {
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := requireUser(tx, p.CreatedBy, patient.ErrCreatedByNotFound); err != nil {
				return err
			}

			code, err := nextPatientCode(tx, time.Now().Year())
			if err != nil {
				return fmt.Errorf("generating patient code: %w", err)
			}
			p.Code = code

			if err := tx.Create(p).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return patient.ErrCodeConflict
				}
				return fmt.Errorf("inserting patient: %w", err)
			}

			entry := patient.Snapshot(p, p.CreatedBy, patient.ChangeInitialRecord, "")
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("inserting initial history entry: %w", err)
			}
			return nil
		})

		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, patient.ErrCodeConflict) {
			return err
		}
	}
	return lastErr
}

// nextPatientCode produces PT-<year>-<seq> where seq continues the highest
// existing sequence for the year, zero-padded to three digits.
func nextPatientCode(tx *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("PT-%d-", year)

	var last string
	err := tx.Model(&patient.Patient{}).
		Select("code").
		Where("code LIKE ?", prefix+"%").
		Order("length(code) DESC").
		Order("code DESC").
		Limit(1).
		Scan(&last).Error
	if err != nil {
		return "", err
	}

	return nextCodeAfter(prefix, last)
}

// nextCodeAfter continues the sequence after the highest existing code, or
// starts it at 1. Sequences past 999 simply grow a fourth digit.
func nextCodeAfter(prefix, last string) (string, error) {
	seq := 1
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed patient code %q: %w", last, err)
		}
		seq = n + 1
	}
	return fmt.Sprintf("%s%03d", prefix, seq), nil
}

func (r *PatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PatientRepository) GetByCode(ctx context.Context, code string) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.WithContext(ctx).First(&p, "code = ?", code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, patient.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update merges the provided fields over the existing row. When the payload
// touches vitals a manual_edit entry is appended in the same transaction —
// presence of the field is enough, an unchanged value still gets an entry.
func (r *PatientRepository) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	var updated *patient.Patient

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p patient.Patient
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return patient.ErrPatientNotFound
			}
			return err
		}

		if err := requireUser(tx, cmd.UpdatedBy, patient.ErrRecorderNotFound); err != nil {
			return err
		}

		applyPatientUpdate(&p, cmd)
		p.UpdatedAt = time.Now()

		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("updating patient: %w", err)
		}

		if cmd.TouchesVitals() {
			changeType := cmd.HistoryChangeType()
			if !changeType.IsValid() {
				return patient.ErrInvalidChangeType
			}
			entry := patient.Snapshot(&p, cmd.UpdatedBy, changeType, cmd.Notes)
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("inserting history entry: %w", err)
			}
		}

		updated = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyPatientUpdate(p *patient.Patient, cmd *patient.UpdatePatientCommand) {
	if cmd.Name != nil {
		p.Name = *cmd.Name
	}
	if cmd.Age != nil {
		p.Age = *cmd.Age
	}
	if cmd.Phone != nil {
		p.Phone = *cmd.Phone
	}
	if cmd.BloodSugar != nil {
		p.BloodSugar = *cmd.BloodSugar
	}
	if cmd.SystolicBP != nil {
		p.SystolicBP = *cmd.SystolicBP
	}
	if cmd.DiastolicBP != nil {
		p.DiastolicBP = *cmd.DiastolicBP
	}
	if cmd.Weight != nil {
		p.Weight = cmd.Weight
	}
	if cmd.Height != nil {
		p.Height = cmd.Height
	}
	if cmd.MedicalHistory != nil {
		p.MedicalHistory = *cmd.MedicalHistory
	}
}

// Delete cascades over every table referencing the patient, then removes the
// patient row, all inside one transaction so a failure leaves no orphans.
func (r *PatientRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	var removed bool

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&patient.VitalsHistory{}).Error; err != nil {
			return fmt.Errorf("deleting history: %w", err)
		}
		if err := tx.Where("patient_id = ?", id).Delete(&insight.HealthPrediction{}).Error; err != nil {
			return fmt.Errorf("deleting predictions: %w", err)
		}
		if err := tx.Where("patient_id = ?", id).Delete(&insight.MedicalImageRecord{}).Error; err != nil {
			return fmt.Errorf("deleting images: %w", err)
		}
		if err := tx.Where("patient_id = ?", id).Delete(&appointment.Appointment{}).Error; err != nil {
			return fmt.Errorf("deleting appointments: %w", err)
		}

		res := tx.Where("id = ?", id).Delete(&patient.Patient{})
		if res.Error != nil {
			return fmt.Errorf("deleting patient: %w", res.Error)
		}
		removed = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

func (r *PatientRepository) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	db := r.db.WithContext(ctx).Model(&patient.Patient{})
	if q != nil && q.CreatedBy != nil {
		db = db.Where("created_by = ?", *q.CreatedBy)
	}

	var patients []*patient.Patient
	if err := db.Order("created_at DESC").Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *PatientRepository) Search(ctx context.Context, query string) ([]*patient.Patient, error) {
	needle := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var patients []*patient.Patient
	err := r.db.WithContext(ctx).
		Where("lower(name) LIKE ? OR lower(code) LIKE ? OR lower(phone) LIKE ?", needle, needle, needle).
		Find(&patients).Error
	if err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *PatientRepository) AppendHistory(ctx context.Context, entry *patient.VitalsHistory) error {
	if !entry.ChangeType.IsValid() {
		return patient.ErrInvalidChangeType
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&patient.Patient{}).Where("id = ?", entry.PatientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return patient.ErrPatientNotFound
		}
		if err := requireUser(tx, entry.RecordedBy, patient.ErrRecorderNotFound); err != nil {
			return err
		}
		return tx.Create(entry).Error
	})
}

func (r *PatientRepository) HistoryFor(ctx context.Context, patientID uuid.UUID) ([]*patient.VitalsHistory, error) {
	var entries []*patient.VitalsHistory
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Counters computes the patient-side stats. The critical predicate is the
// severity ladder's critical tier, kept in SQL for a single scan.
func (r *PatientRepository) Counters(ctx context.Context, since time.Time) (*patient.Counters, error) {
	var c patient.Counters

	db := r.db.WithContext(ctx).Model(&patient.Patient{})
	if err := db.Count(&c.Total).Error; err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("created_at >= ?", since).
		Count(&c.CreatedSince).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(&patient.Patient{}).
		Where("systolic_bp > ? OR diastolic_bp > ? OR blood_sugar > ?", 140, 90, 200).
		Count(&c.CriticalCases).Error
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// requireUser checks an actor reference at the storage boundary so foreign
// keys never fail deep inside a write.
func requireUser(tx *gorm.DB, id uuid.UUID, missing error) error {
	var count int64
	if err := tx.Model(&domain.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return missing
	}
	return nil
}
