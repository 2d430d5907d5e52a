package patient

// Vitals is the measured snapshot used for classification and history entries.
type Vitals struct {
	BloodSugar  float64  `json:"bloodSugar"`
	SystolicBP  int      `json:"systolicBP"`
	DiastolicBP int      `json:"diastolicBP"`
	Weight      *float64 `json:"weight,omitempty"`
	Height      *float64 `json:"height,omitempty"`
}

// Severity is the three-tier classification derived from vitals thresholds.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Classify applies the severity ladder, critical first:
//
//	critical: systolic > 140 OR diastolic > 90 OR sugar > 200
//	warning:  systolic > 120 OR diastolic > 80 OR sugar > 140
//	normal:   otherwise
//
// Every place that derives a vitals status (stats, badges, exports) goes
// through this one function so the thresholds cannot drift apart.
func Classify(systolicBP, diastolicBP int, bloodSugar float64) Severity {
	switch {
	case systolicBP > 140 || diastolicBP > 90 || bloodSugar > 200:
		return SeverityCritical
	case systolicBP > 120 || diastolicBP > 80 || bloodSugar > 140:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}
