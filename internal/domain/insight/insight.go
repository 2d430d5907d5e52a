package insight

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// HealthPrediction is an append-only record of one risk-estimation run tied
// to a patient. Payload holds the estimator's inputs and recommendations as
// an opaque JSON document, only (de)serialized at this storage edge.
type HealthPrediction struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patientId"`

	CardiovascularRisk float64 `gorm:"column:cardiovascular_risk" json:"cardiovascularRisk"`
	DiabetesRisk       float64 `gorm:"column:diabetes_risk" json:"diabetesRisk"`
	OverallHealthScore float64 `gorm:"column:overall_health_score" json:"overallHealthScore"`

	Payload datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload,omitempty"`
}

func (HealthPrediction) TableName() string {
	return "clinical.health_predictions"
}

type AnalysisType string

const (
	AnalysisXRay       AnalysisType = "xray"
	AnalysisCT         AnalysisType = "ct"
	AnalysisMRI        AnalysisType = "mri"
	AnalysisUltrasound AnalysisType = "ultrasound"
)

func (t AnalysisType) IsValid() bool {
	switch t {
	case AnalysisXRay, AnalysisCT, AnalysisMRI, AnalysisUltrasound:
		return true
	}
	return false
}

// MedicalImageRecord is an append-only record of one image-analysis run.
type MedicalImageRecord struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`

	PatientID uuid.UUID `gorm:"column:patient_id;type:uuid;not null;index" json:"patientId"`

	Filename     string       `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	AnalysisType AnalysisType `gorm:"column:analysis_type;type:varchar(20);not null" json:"analysisType"`

	// Confidence is in [0,1].
	Confidence float64 `gorm:"column:confidence" json:"confidence"`
	Findings   string  `gorm:"column:findings;type:text" json:"findings"`

	Result datatypes.JSON `gorm:"column:result;type:jsonb" json:"result,omitempty"`
}

func (MedicalImageRecord) TableName() string {
	return "clinical.medical_images"
}
