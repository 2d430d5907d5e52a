package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RolePatient:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"-"`
	DeletedAt *time.Time `gorm:"index" json:"-"`

	Username     string `gorm:"column:username;type:varchar(100);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;type:varchar(255);not null" json:"-"`
	Name         string `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Role         Role   `gorm:"column:role;type:varchar(20);not null;index" json:"role"`

	// For patient-role users, links to their own patient record. The portal
	// restricts such users to exactly this record.
	PatientID *uuid.UUID `gorm:"column:patient_id;type:uuid;index" json:"patientId,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true;index" json:"isActive"`
}

func (User) TableName() string {
	return "auth.users"
}

// AuditAction is the verb token recorded for a privileged mutation.
type AuditAction string

const (
	ActionCreatePatient     AuditAction = "CREATE_PATIENT"
	ActionUpdatePatient     AuditAction = "UPDATE_PATIENT"
	ActionDeletePatient     AuditAction = "DELETE_PATIENT"
	ActionCreateUser        AuditAction = "CREATE_USER"
	ActionDeleteUser        AuditAction = "DELETE_USER"
	ActionCreateAppointment AuditAction = "CREATE_APPOINTMENT"
	ActionUpdateAppointment AuditAction = "UPDATE_APPOINTMENT"
	ActionDeleteAppointment AuditAction = "DELETE_APPOINTMENT"
	ActionLogin             AuditAction = "LOGIN"
	ActionLogout            AuditAction = "LOGOUT"
)

// AuditLog rows are append-only: written once after the underlying mutation
// succeeds, never updated or deleted.
type AuditLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	UserID     uuid.UUID   `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	Action     AuditAction `gorm:"column:action;type:varchar(40);not null;index" json:"action"`
	TargetType string      `gorm:"column:target_type;type:varchar(50);not null;index" json:"targetType"`
	TargetID   string      `gorm:"column:target_id;type:varchar(50);index" json:"targetId"`
	Details    string      `gorm:"column:details;type:text" json:"details"`
}

func (AuditLog) TableName() string {
	return "audit.logs"
}

// Principal is the authenticated identity attached to an inbound request.
type Principal struct {
	SessionID uuid.UUID  `json:"sessionId"`
	UserID    uuid.UUID  `json:"userId"`
	Username  string     `json:"username"`
	Role      Role       `json:"role"`
	PatientID *uuid.UUID `json:"patientId,omitempty"`
}

// OwnsPatient reports whether a patient-role principal is linked to the given
// patient record. Non-patient roles are scoped elsewhere.
func (p *Principal) OwnsPatient(patientID uuid.UUID) bool {
	return p.PatientID != nil && *p.PatientID == patientID
}
