package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/domain/appointment"
)

type AppointmentService struct {
	repo     appointment.Repository
	auditSvc *AuditService
	log      *zap.Logger
	now      func() time.Time
}

func NewAppointmentService(repo appointment.Repository, auditSvc *AuditService, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		repo:     repo,
		auditSvc: auditSvc,
		log:      log,
		now:      time.Now,
	}
}

func (s *AppointmentService) CreateAppointment(ctx context.Context, cmd *appointment.CreateAppointmentCommand, caller *domain.Principal) (*appointment.Appointment, error) {
	if err := s.validateCreate(cmd); err != nil {
		return nil, err
	}

	a := &appointment.Appointment{
		PatientID:       cmd.PatientID,
		StaffID:         cmd.StaffID,
		AppointmentDate: cmd.AppointmentDate,
		Description:     strings.TrimSpace(cmd.Description),
		Status:          appointment.StatusScheduled,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}

	s.auditSvc.Record(caller.UserID, domain.ActionCreateAppointment, "appointment", a.ID.String(),
		fmt.Sprintf("patient=%s date=%s", a.PatientID, a.AppointmentDate.Format(time.RFC3339)))

	s.log.Info("appointment scheduled",
		zap.String("appointment_id", a.ID.String()),
		zap.String("patient_id", a.PatientID.String()),
		zap.Time("date", a.AppointmentDate),
	)

	return a, nil
}

func (s *AppointmentService) GetAppointment(ctx context.Context, id uuid.UUID, caller *domain.Principal) (*appointment.Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RolePatient && !caller.OwnsPatient(a.PatientID) {
		return nil, ErrForbidden
	}
	return a, nil
}

// UpdateAppointment merges the provided fields. Status changes only follow the
// scheduled -> completed/cancelled transitions; terminal appointments are
// frozen.
func (s *AppointmentService) UpdateAppointment(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand, caller *domain.Principal) (*appointment.Appointment, error) {
	if cmd.Status != nil && !cmd.Status.IsValid() {
		return nil, &ValidationError{Fields: []string{"status must be scheduled, completed or cancelled"}}
	}
	if cmd.AppointmentDate != nil && cmd.AppointmentDate.Before(s.now()) {
		return nil, appointment.ErrScheduledInPast
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd.Status != nil && *cmd.Status != current.Status && !current.CanTransitionTo(*cmd.Status) {
		return nil, appointment.ErrInvalidStatusTransition
	}

	a, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	s.auditSvc.Record(caller.UserID, domain.ActionUpdateAppointment, "appointment", id.String(), "")

	return a, nil
}

func (s *AppointmentService) DeleteAppointment(ctx context.Context, id uuid.UUID, caller *domain.Principal) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.auditSvc.Record(caller.UserID, domain.ActionDeleteAppointment, "appointment", id.String(), "")
	}
	return removed, nil
}

// ListAppointments scopes by role: patient-role principals only see their own
// appointments regardless of the requested filters.
func (s *AppointmentService) ListAppointments(ctx context.Context, q *appointment.ListAppointmentsQuery, caller *domain.Principal) ([]*appointment.Appointment, error) {
	if q == nil {
		q = &appointment.ListAppointmentsQuery{}
	}
	if caller.Role == domain.RolePatient {
		if caller.PatientID == nil {
			return []*appointment.Appointment{}, nil
		}
		q.PatientID = caller.PatientID
	}
	return s.repo.List(ctx, q)
}

func (s *AppointmentService) validateCreate(cmd *appointment.CreateAppointmentCommand) error {
	var errs []string

	if cmd.PatientID == uuid.Nil {
		errs = append(errs, "patientId is required")
	}
	if cmd.StaffID == uuid.Nil {
		errs = append(errs, "staffId is required")
	}
	if cmd.AppointmentDate.IsZero() {
		errs = append(errs, "appointmentDate is required")
	} else if cmd.AppointmentDate.Before(s.now()) {
		return appointment.ErrScheduledInPast
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
