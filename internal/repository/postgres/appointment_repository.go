package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careledger/careledger/internal/domain/appointment"
	"github.com/careledger/careledger/internal/domain/patient"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

var _ appointment.Repository = (*AppointmentRepository)(nil)

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&patient.Patient{}).Where("id = ?", a.PatientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return appointment.ErrPatientRefNotFound
		}
		if err := requireUser(tx, a.StaffID, appointment.ErrStaffRefNotFound); err != nil {
			return err
		}
		if err := tx.Create(a).Error; err != nil {
			return fmt.Errorf("inserting appointment: %w", err)
		}
		return nil
	})
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	var a appointment.Appointment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, appointment.ErrAppointmentNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) Update(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	var updated *appointment.Appointment

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a appointment.Appointment
		if err := tx.First(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return appointment.ErrAppointmentNotFound
			}
			return err
		}

		if cmd.AppointmentDate != nil {
			a.AppointmentDate = *cmd.AppointmentDate
		}
		if cmd.Description != nil {
			a.Description = *cmd.Description
		}
		if cmd.Status != nil {
			a.Status = *cmd.Status
		}

		if err := tx.Save(&a).Error; err != nil {
			return fmt.Errorf("updating appointment: %w", err)
		}
		updated = &a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *AppointmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&appointment.Appointment{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *AppointmentRepository) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	db := r.db.WithContext(ctx).Model(&appointment.Appointment{})
	if q != nil {
		if q.PatientID != nil {
			db = db.Where("patient_id = ?", *q.PatientID)
		}
		if q.StaffID != nil {
			db = db.Where("staff_id = ?", *q.StaffID)
		}
		if q.Status != nil {
			db = db.Where("status = ?", *q.Status)
		}
	}

	var appointments []*appointment.Appointment
	if err := db.Order("appointment_date ASC").Find(&appointments).Error; err != nil {
		return nil, err
	}
	return appointments, nil
}
