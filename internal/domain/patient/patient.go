package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the clinical record. Code is the human-readable identifier
// (PT-<year>-<sequence>), generated once at creation and immutable after.
type Patient struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`

	Code  string `gorm:"column:code;type:varchar(20);uniqueIndex;not null" json:"patientId"`
	Name  string `gorm:"column:name;type:varchar(200);not null" json:"name"`
	Age   int    `gorm:"column:age;not null" json:"age"`
	Phone string `gorm:"column:phone;type:varchar(30)" json:"phone"`

	BloodSugar  float64  `gorm:"column:blood_sugar" json:"bloodSugar"`
	SystolicBP  int      `gorm:"column:systolic_bp" json:"systolicBP"`
	DiastolicBP int      `gorm:"column:diastolic_bp" json:"diastolicBP"`
	Weight      *float64 `gorm:"column:weight" json:"weight,omitempty"`
	Height      *float64 `gorm:"column:height" json:"height,omitempty"`

	MedicalHistory string `gorm:"column:medical_history;type:text" json:"medicalHistory"`

	CreatedBy uuid.UUID `gorm:"column:created_by;type:uuid;not null;index" json:"createdBy"`
	IsActive  bool      `gorm:"column:is_active;default:true;index" json:"isActive"`
}

func (Patient) TableName() string {
	return "clinical.patients"
}

// Vitals returns the patient's current vitals snapshot.
func (p *Patient) Vitals() Vitals {
	return Vitals{
		BloodSugar:  p.BloodSugar,
		SystolicBP:  p.SystolicBP,
		DiastolicBP: p.DiastolicBP,
		Weight:      p.Weight,
		Height:      p.Height,
	}
}

// Severity classifies the patient's current vitals.
func (p *Patient) Severity() Severity {
	return Classify(p.SystolicBP, p.DiastolicBP, p.BloodSugar)
}

type CreatePatientCommand struct {
	Name           string
	Age            int
	Phone          string
	BloodSugar     float64
	SystolicBP     int
	DiastolicBP    int
	Weight         *float64
	Height         *float64
	MedicalHistory string
	CreatedBy      uuid.UUID
}

// UpdatePatientCommand is a shallow partial update: nil fields are left
// untouched. Code and CreatedBy are immutable and have no update field.
// ChangeType classifies the history entry appended when the payload touches
// vitals; the zero value means manual_edit.
type UpdatePatientCommand struct {
	Name           *string
	Age            *int
	Phone          *string
	BloodSugar     *float64
	SystolicBP     *int
	DiastolicBP    *int
	Weight         *float64
	Height         *float64
	MedicalHistory *string
	UpdatedBy      uuid.UUID
	ChangeType     ChangeType
	Notes          string
}

// HistoryChangeType resolves the classification for the appended entry.
func (c *UpdatePatientCommand) HistoryChangeType() ChangeType {
	if c.ChangeType == "" {
		return ChangeManualEdit
	}
	return c.ChangeType
}

// TouchesVitals reports whether the update payload carries any vitals field.
// Presence alone counts: re-submitting an unchanged value still produces a
// history entry, matching the store's historical behavior.
func (c *UpdatePatientCommand) TouchesVitals() bool {
	return c.BloodSugar != nil || c.SystolicBP != nil || c.DiastolicBP != nil ||
		c.Weight != nil || c.Height != nil
}

// ListPatientsQuery scopes a listing. The store trusts the caller's scoping:
// role checks happen at the access-control gate, not here.
type ListPatientsQuery struct {
	CreatedBy *uuid.UUID
}
