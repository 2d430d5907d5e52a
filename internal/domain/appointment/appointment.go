package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patientId"`
	StaffID   uuid.UUID `gorm:"column:staff_id;type:uuid;not null;index" json:"staffId"`

	AppointmentDate time.Time `gorm:"column:appointment_date;not null;index" json:"appointmentDate"`
	Description     string    `gorm:"column:description;type:text" json:"description,omitempty"`
	Status          Status    `gorm:"column:status;type:varchar(20);not null;default:'scheduled';index" json:"status"`
}

func (Appointment) TableName() string {
	return "clinical.appointments"
}

// CanTransitionTo restricts status changes to scheduled → completed|cancelled.
// Completed and cancelled are terminal.
func (a *Appointment) CanTransitionTo(next Status) bool {
	if a.Status != StatusScheduled {
		return false
	}
	return next == StatusCompleted || next == StatusCancelled
}

type CreateAppointmentCommand struct {
	PatientID       uuid.UUID
	StaffID         uuid.UUID
	AppointmentDate time.Time
	Description     string
}

type UpdateAppointmentCommand struct {
	AppointmentDate *time.Time
	Description     *string
	Status          *Status
}

type ListAppointmentsQuery struct {
	PatientID *uuid.UUID
	StaffID   *uuid.UUID
	Status    *Status
}
