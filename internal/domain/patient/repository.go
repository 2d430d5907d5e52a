package patient

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Counters are the patient-side aggregate counts surfaced by the stats view.
type Counters struct {
	Total         int64
	CreatedSince  int64
	CriticalCases int64
}

type Repository interface {
	// Create assigns the next PT-<year>-<seq> code, persists the patient and
	// appends the initial_record history entry, all in one transaction.
	// Returns ErrCreatedByNotFound if CreatedBy references no existing user.
	Create(ctx context.Context, p *Patient) error

	// GetByID returns ErrPatientNotFound if the id is unknown.
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)

	// GetByCode looks a patient up by the human-readable code.
	GetByCode(ctx context.Context, code string) (*Patient, error)

	// Update applies a shallow merge of the provided fields and, when the
	// payload touches vitals, appends a manual_edit history entry in the same
	// transaction. Returns ErrPatientNotFound for unknown ids.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdatePatientCommand) (*Patient, error)

	// Delete cascades: history, predictions, images and appointments first,
	// then the patient row, atomically. The bool reports whether a patient
	// row was actually removed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns patients, optionally scoped to a creator, newest first.
	List(ctx context.Context, q *ListPatientsQuery) ([]*Patient, error)

	// Search does a case-insensitive substring match on name, code and phone.
	Search(ctx context.Context, query string) ([]*Patient, error)

	// AppendHistory records a vitals snapshot outside the create/update
	// paths (routine checkups, prediction runs).
	AppendHistory(ctx context.Context, entry *VitalsHistory) error

	// HistoryFor returns the patient's vitals trail, newest first.
	HistoryFor(ctx context.Context, patientID uuid.UUID) ([]*VitalsHistory, error)

	// Counters computes the aggregate counts; since bounds the "new
	// admissions" window (inclusive).
	Counters(ctx context.Context, since time.Time) (*Counters, error)
}
