package patient

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotCopiesVitalsByValue(t *testing.T) {
	weight := 82.5
	p := &Patient{
		ID:          uuid.New(),
		BloodSugar:  130,
		SystolicBP:  125,
		DiastolicBP: 82,
		Weight:      &weight,
	}
	recorder := uuid.New()

	entry := Snapshot(p, recorder, ChangeManualEdit, "follow-up")

	require.NotNil(t, entry.BloodSugar)
	require.NotNil(t, entry.SystolicBP)
	require.NotNil(t, entry.DiastolicBP)
	assert.Equal(t, 130.0, *entry.BloodSugar)
	assert.Equal(t, 125, *entry.SystolicBP)
	assert.Equal(t, 82, *entry.DiastolicBP)
	assert.Equal(t, p.ID, entry.PatientID)
	assert.Equal(t, recorder, entry.RecordedBy)
	assert.Equal(t, ChangeManualEdit, entry.ChangeType)
	assert.Equal(t, "follow-up", entry.Notes)
	assert.Nil(t, entry.Height)

	// Later mutation of the patient must not rewrite the snapshot.
	p.BloodSugar = 210
	p.SystolicBP = 160
	assert.Equal(t, 130.0, *entry.BloodSugar)
	assert.Equal(t, 125, *entry.SystolicBP)
}

func TestUpdateCommandTouchesVitals(t *testing.T) {
	name := "Jane Roe"
	sugar := 118.0

	assert.False(t, (&UpdatePatientCommand{}).TouchesVitals())
	assert.False(t, (&UpdatePatientCommand{Name: &name}).TouchesVitals())
	assert.True(t, (&UpdatePatientCommand{BloodSugar: &sugar}).TouchesVitals())

	weight := 90.0
	assert.True(t, (&UpdatePatientCommand{Weight: &weight}).TouchesVitals())
}

func TestUpdateCommandHistoryChangeType(t *testing.T) {
	assert.Equal(t, ChangeManualEdit, (&UpdatePatientCommand{}).HistoryChangeType())
	assert.Equal(t, ChangeRoutineCheckup,
		(&UpdatePatientCommand{ChangeType: ChangeRoutineCheckup}).HistoryChangeType())
}

func TestChangeTypeIsValid(t *testing.T) {
	for _, valid := range []ChangeType{ChangeInitialRecord, ChangeManualEdit, ChangeAIPrediction, ChangeRoutineCheckup} {
		assert.True(t, valid.IsValid(), string(valid))
	}
	assert.False(t, ChangeType("bulk_import").IsValid())
	assert.False(t, ChangeType("").IsValid())
}
