package patient

import (
	"time"

	"github.com/google/uuid"
)

// ChangeType tags why a vitals snapshot was recorded.
type ChangeType string

const (
	ChangeInitialRecord  ChangeType = "initial_record"
	ChangeManualEdit     ChangeType = "manual_edit"
	ChangeAIPrediction   ChangeType = "ai_prediction"
	ChangeRoutineCheckup ChangeType = "routine_checkup"
)

func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeInitialRecord, ChangeManualEdit, ChangeAIPrediction, ChangeRoutineCheckup:
		return true
	}
	return false
}

// VitalsHistory is one immutable entry of the vitals audit trail. Entries are
// only ever appended; there is deliberately no update or delete path, and the
// only way a row disappears is the cascading deletion of its patient.
type VitalsHistory struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"timestamp"`

	PatientID  uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patientId"`
	RecordedBy uuid.UUID `gorm:"column:recorded_by;type:uuid;not null" json:"recordedBy"`

	BloodSugar  *float64 `gorm:"column:blood_sugar" json:"bloodSugar,omitempty"`
	SystolicBP  *int     `gorm:"column:systolic_bp" json:"systolicBP,omitempty"`
	DiastolicBP *int     `gorm:"column:diastolic_bp" json:"diastolicBP,omitempty"`
	Weight      *float64 `gorm:"column:weight" json:"weight,omitempty"`
	Height      *float64 `gorm:"column:height" json:"height,omitempty"`

	ChangeType ChangeType `gorm:"column:change_type;type:varchar(30);not null;index" json:"changeType"`
	Notes      string     `gorm:"column:notes;type:text" json:"notes,omitempty"`
}

func (VitalsHistory) TableName() string {
	return "clinical.vitals_history"
}

// Snapshot builds a full history entry from the patient's current vitals.
func Snapshot(p *Patient, recordedBy uuid.UUID, changeType ChangeType, notes string) *VitalsHistory {
	sugar := p.BloodSugar
	sys := p.SystolicBP
	dia := p.DiastolicBP
	return &VitalsHistory{
		PatientID:   p.ID,
		RecordedBy:  recordedBy,
		BloodSugar:  &sugar,
		SystolicBP:  &sys,
		DiastolicBP: &dia,
		Weight:      p.Weight,
		Height:      p.Height,
		ChangeType:  changeType,
		Notes:       notes,
	}
}
