package predictor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackPredictIsDeterministic(t *testing.T) {
	f := NewFallback()
	in := HealthInput{Age: 55, Gender: "male", SystolicBP: 150, DiastolicBP: 95, BloodSugar: 180, BMI: 31}

	first, err := f.PredictHealthRisk(context.Background(), in)
	require.NoError(t, err)
	second, err := f.PredictHealthRisk(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFallbackPredictRanges(t *testing.T) {
	f := NewFallback()

	inputs := []HealthInput{
		{Age: 18, Gender: "female", SystolicBP: 80, DiastolicBP: 50, BloodSugar: 70, BMI: 15},
		{Age: 95, Gender: "male", SystolicBP: 220, DiastolicBP: 130, BloodSugar: 400, BMI: 55},
		{Age: 40, Gender: "other", SystolicBP: 118, DiastolicBP: 76, BloodSugar: 92, BMI: 23},
	}

	for _, in := range inputs {
		result, err := f.PredictHealthRisk(context.Background(), in)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, result.CardiovascularRisk, 0.0)
		assert.LessOrEqual(t, result.CardiovascularRisk, 100.0)
		assert.GreaterOrEqual(t, result.DiabetesRisk, 0.0)
		assert.LessOrEqual(t, result.DiabetesRisk, 100.0)
		assert.GreaterOrEqual(t, result.OverallHealthScore, 0.0)
		assert.LessOrEqual(t, result.OverallHealthScore, 100.0)
		assert.NotEmpty(t, result.Recommendations)
	}
}

func TestFallbackPredictRiskOrdering(t *testing.T) {
	f := NewFallback()

	healthy, err := f.PredictHealthRisk(context.Background(), HealthInput{
		Age: 25, Gender: "female", SystolicBP: 110, DiastolicBP: 70, BloodSugar: 85, BMI: 21,
	})
	require.NoError(t, err)

	sick, err := f.PredictHealthRisk(context.Background(), HealthInput{
		Age: 70, Gender: "male", SystolicBP: 170, DiastolicBP: 105, BloodSugar: 250, BMI: 36,
	})
	require.NoError(t, err)

	assert.Greater(t, sick.CardiovascularRisk, healthy.CardiovascularRisk)
	assert.Greater(t, sick.DiabetesRisk, healthy.DiabetesRisk)
	assert.Less(t, sick.OverallHealthScore, healthy.OverallHealthScore)
}

func TestFallbackPredictRecommendations(t *testing.T) {
	f := NewFallback()

	healthy, err := f.PredictHealthRisk(context.Background(), HealthInput{
		Age: 25, Gender: "female", SystolicBP: 110, DiastolicBP: 70, BloodSugar: 85, BMI: 21,
	})
	require.NoError(t, err)
	assert.Contains(t, healthy.Recommendations, "Maintain current healthy lifestyle")

	hypertensive, err := f.PredictHealthRisk(context.Background(), HealthInput{
		Age: 45, Gender: "female", SystolicBP: 150, DiastolicBP: 95, BloodSugar: 85, BMI: 21,
	})
	require.NoError(t, err)
	assert.Contains(t, hypertensive.Recommendations,
		"Monitor blood pressure regularly and consider lifestyle changes")

	diabetic, err := f.PredictHealthRisk(context.Background(), HealthInput{
		Age: 45, Gender: "female", SystolicBP: 110, DiastolicBP: 70, BloodSugar: 140, BMI: 21,
	})
	require.NoError(t, err)
	assert.Contains(t, diabetic.Recommendations, "Consult endocrinologist for diabetes management")
}

func TestFallbackAnalyzeImageIsDeterministic(t *testing.T) {
	f := NewFallback()
	in := ImageInput{Filename: "chest-042.png", AnalysisType: "xray"}

	first, err := f.AnalyzeImage(context.Background(), in)
	require.NoError(t, err)
	second, err := f.AnalyzeImage(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.GreaterOrEqual(t, first.Confidence, 0.85)
	assert.LessOrEqual(t, first.Confidence, 1.0)
	assert.NotEmpty(t, first.Findings)
	assert.NotEmpty(t, first.Recommendations)
}

func TestFallbackAnalyzeImageVariesByFilename(t *testing.T) {
	f := NewFallback()

	a, err := f.AnalyzeImage(context.Background(), ImageInput{Filename: "scan-a.png", AnalysisType: "ct"})
	require.NoError(t, err)
	b, err := f.AnalyzeImage(context.Background(), ImageInput{Filename: "scan-b.png", AnalysisType: "ct"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Confidence, b.Confidence)
}
