package predictor

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// Fallback is the deterministic, dependency-free scorer used whenever the
// remote estimator is unavailable. Risks are weighted sums of inputs
// normalized against fixed clinical cutoffs; image findings are derived from
// a hash of the filename so repeated runs agree.
type Fallback struct{}

func NewFallback() *Fallback {
	return &Fallback{}
}

var _ Predictor = (*Fallback)(nil)

func (f *Fallback) PredictHealthRisk(_ context.Context, in HealthInput) (*HealthResult, error) {
	ageFactor := clamp01(float64(in.Age-18) / 67)
	sysFactor := clamp01(float64(in.SystolicBP-80) / 120)
	diaFactor := clamp01(float64(in.DiastolicBP-50) / 70)
	sugarFactor := clamp01((in.BloodSugar - 70) / 230)
	bmiFactor := clamp01((in.BMI - 15) / 35)

	var maleFactor float64
	if strings.EqualFold(in.Gender, "male") {
		maleFactor = 1
	}

	cardio := clamp01(0.3*ageFactor + 0.25*sysFactor + 0.25*diaFactor + 0.1*maleFactor + 0.1*bmiFactor)
	diabetes := clamp01(0.2*ageFactor + 0.4*sugarFactor + 0.3*bmiFactor + 0.1*sysFactor)
	overall := clamp01(1 - (cardio+diabetes)/2)

	result := &HealthResult{
		CardiovascularRisk: cardio * 100,
		DiabetesRisk:       diabetes * 100,
		OverallHealthScore: overall * 100,
	}
	result.Recommendations = healthRecommendations(in, result)
	return result, nil
}

func healthRecommendations(in HealthInput, r *HealthResult) []string {
	var recs []string

	if in.SystolicBP > 140 || in.DiastolicBP > 90 {
		recs = append(recs, "Monitor blood pressure regularly and consider lifestyle changes")
	}
	if in.BloodSugar > 126 {
		recs = append(recs, "Consult endocrinologist for diabetes management")
	}
	if in.BMI > 30 {
		recs = append(recs, "Consider weight management program")
	}
	if r.CardiovascularRisk > 60 {
		recs = append(recs, "High cardiovascular risk - schedule cardiac evaluation")
	}
	if r.DiabetesRisk > 60 {
		recs = append(recs, "High diabetes risk - implement preventive measures")
	}
	if r.OverallHealthScore < 60 {
		recs = append(recs, "Schedule comprehensive health checkup")
	}

	if len(recs) == 0 {
		recs = append(recs,
			"Maintain current healthy lifestyle",
			"Schedule regular preventive checkups",
		)
	}
	return recs
}

var abnormalFindings = map[string]string{
	"xray":       "Mild opacity detected in lower lung field. Possible early infection or inflammation.",
	"ct":         "Small density irregularity observed. Requires radiologist review for differential diagnosis.",
	"mri":        "Minor signal variation detected in soft tissue. Clinical correlation recommended.",
	"ultrasound": "Echogenic focus identified. Further evaluation may be warranted.",
}

var abnormalRecommendations = map[string][]string{
	"xray":       {"Follow-up imaging in 2-4 weeks", "Clinical correlation with symptoms", "Consider antibiotic treatment if indicated"},
	"ct":         {"Radiologist consultation recommended", "Consider follow-up CT in 3-6 months", "Clinical evaluation for symptoms"},
	"mri":        {"Neurologist consultation if neurological symptoms", "Repeat MRI in 6 months", "Monitor for clinical changes"},
	"ultrasound": {"Clinical correlation recommended", "Consider additional imaging modalities", "Follow-up ultrasound in 3 months"},
}

func (f *Fallback) AnalyzeImage(_ context.Context, in ImageInput) (*ImageResult, error) {
	h := fnv.New32a()
	_, _ = h.Write([]byte(in.Filename))
	seed := h.Sum32()

	// Two independent fractions derived from the hash: one drives confidence,
	// the other the 20% abnormality rate.
	confidenceFrac := float64(seed%1000) / 1000
	abnormalFrac := float64((seed/1000)%1000) / 1000

	result := &ImageResult{
		Confidence:          0.85 + confidenceFrac*0.15,
		AbnormalityDetected: abnormalFrac < 0.2,
	}

	if result.AbnormalityDetected {
		if findings, ok := abnormalFindings[in.AnalysisType]; ok {
			result.Findings = findings
			result.Recommendations = abnormalRecommendations[in.AnalysisType]
		} else {
			result.Findings = "Abnormal pattern detected requiring specialist review."
			result.Recommendations = []string{"Specialist consultation recommended", "Clinical correlation advised"}
		}
	} else {
		result.Findings = fmt.Sprintf("Normal %s study. No acute abnormalities detected.", in.AnalysisType)
		result.Recommendations = []string{"Continue routine monitoring", "No immediate action required", "Maintain regular health checkups"}
	}

	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
