package patient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		systolicBP  int
		diastolicBP int
		bloodSugar  float64
		want        Severity
	}{
		{"all nominal", 110, 70, 95, SeverityNormal},
		{"exactly at warning thresholds stays normal", 120, 80, 140, SeverityNormal},
		{"systolic just over warning", 121, 70, 95, SeverityWarning},
		{"diastolic just over warning", 110, 81, 95, SeverityWarning},
		{"sugar just over warning", 110, 70, 140.5, SeverityWarning},
		{"exactly at critical thresholds stays warning", 140, 90, 200, SeverityWarning},
		{"systolic just over critical", 141, 70, 95, SeverityCritical},
		{"diastolic just over critical", 110, 91, 95, SeverityCritical},
		{"sugar just over critical", 110, 70, 200.5, SeverityCritical},
		{"one critical vital dominates nominal others", 150, 60, 80, SeverityCritical},
		{"zero vitals classify as normal", 0, 0, 0, SeverityNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.systolicBP, tt.diastolicBP, tt.bloodSugar))
		})
	}
}

func TestPatientSeverityUsesCurrentVitals(t *testing.T) {
	p := &Patient{SystolicBP: 135, DiastolicBP: 85, BloodSugar: 120}
	assert.Equal(t, SeverityWarning, p.Severity())

	p.SystolicBP = 145
	assert.Equal(t, SeverityCritical, p.Severity())
}
