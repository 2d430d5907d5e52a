package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/careledger/careledger/internal/domain/patient"
)

func exportFixture(t *testing.T, patients []*patient.Patient) []byte {
	t.Helper()

	repo := new(mockPatientRepo)
	insights := new(mockInsightRepo)
	repo.On("List", mock.Anything, mock.Anything).Return(patients, nil)

	svc := NewStatsService(repo, insights)
	data, err := svc.ExportPatientsCSV(context.Background())
	require.NoError(t, err)
	return data
}

func TestExportStartsWithBOM(t *testing.T) {
	data := exportFixture(t, nil)

	assert.True(t, strings.HasPrefix(string(data), "\ufeff"))
	assert.Equal(t,
		"patientId,name,age,phone,bloodSugar,systolicBP,diastolicBP,medicalHistory,createdDate",
		strings.TrimSuffix(strings.TrimPrefix(string(data), "\ufeff"), "\n"))
}

func TestExportEscapesSpecialCharacters(t *testing.T) {
	created := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	data := exportFixture(t, []*patient.Patient{
		{
			ID:             uuid.New(),
			Code:           "PT-2026-007",
			Name:           `O'Brien, John`,
			Age:            61,
			Phone:          "555-0101",
			BloodSugar:     105.5,
			SystolicBP:     132,
			DiastolicBP:    84,
			MedicalHistory: "allergic to \"penicillin\"\nasthma",
			CreatedAt:      created,
		},
	})

	body := strings.TrimPrefix(string(data), "\ufeff")
	assert.Contains(t, body, `"O'Brien, John"`)
	assert.Contains(t, body, `"allergic to ""penicillin""`)
	assert.Contains(t, body, "2026-03-14")
}

// The escaping contract must survive a standards-compliant CSV reader.
func TestExportRoundTripsThroughCSVReader(t *testing.T) {
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	data := exportFixture(t, []*patient.Patient{
		{
			Code:           "PT-2026-001",
			Name:           `O'Brien, John`,
			Age:            61,
			Phone:          "555-0101",
			BloodSugar:     105.5,
			SystolicBP:     132,
			DiastolicBP:    84,
			MedicalHistory: "notes with \"quotes\", commas\nand newlines",
			CreatedAt:      created,
		},
		{
			Code:       "PT-2026-002",
			Name:       "Plain Name",
			Age:        30,
			Phone:      "555-0102",
			BloodSugar: 90,
			CreatedAt:  created,
		},
	})

	body := strings.TrimPrefix(string(data), "\ufeff")
	records, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3) // header + 2 rows
	assert.Equal(t, "patientId", records[0][0])

	assert.Equal(t, "PT-2026-001", records[1][0])
	assert.Equal(t, `O'Brien, John`, records[1][1])
	assert.Equal(t, "notes with \"quotes\", commas\nand newlines", records[1][7])
	assert.Equal(t, "2026-01-02", records[1][8])

	assert.Equal(t, "Plain Name", records[2][1])
	assert.Equal(t, "90", records[2][4])
}

func TestEscapeCSVField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"", ""},
		{"has,comma", `"has,comma"`},
		{`has "quote"`, `"has ""quote"""`},
		{"has\nnewline", "\"has\nnewline\""},
		{"trailing space ", "trailing space "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, escapeCSVField(tt.in), tt.in)
	}
}
