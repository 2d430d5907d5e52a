package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// Create verifies the patient and staff references exist before writing.
	Create(ctx context.Context, a *Appointment) error

	// GetByID returns ErrAppointmentNotFound for unknown ids.
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)

	// Update applies a partial update; status changes must already have been
	// validated against the transition rules.
	Update(ctx context.Context, id uuid.UUID, cmd *UpdateAppointmentCommand) (*Appointment, error)

	// Delete removes the appointment; the bool reports whether a row existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)

	// List returns appointments matching the query, soonest first.
	List(ctx context.Context, q *ListAppointmentsQuery) ([]*Appointment, error)
}
