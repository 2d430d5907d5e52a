package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/domain/patient"
	"github.com/careledger/careledger/pkg/metrics"
)

type PatientService struct {
	repo     patient.Repository
	auditSvc *AuditService
	metrics  *metrics.Collector
	log      *zap.Logger
}

func NewPatientService(repo patient.Repository, auditSvc *AuditService, collector *metrics.Collector, log *zap.Logger) *PatientService {
	return &PatientService{
		repo:     repo,
		auditSvc: auditSvc,
		metrics:  collector,
		log:      log,
	}
}

func (s *PatientService) CreatePatient(ctx context.Context, cmd *patient.CreatePatientCommand, caller *domain.Principal) (*patient.Patient, error) {
	if err := validateCreatePatient(cmd); err != nil {
		return nil, err
	}

	p := &patient.Patient{
		Name:           strings.TrimSpace(cmd.Name),
		Age:            cmd.Age,
		Phone:          strings.TrimSpace(cmd.Phone),
		BloodSugar:     cmd.BloodSugar,
		SystolicBP:     cmd.SystolicBP,
		DiastolicBP:    cmd.DiastolicBP,
		Weight:         cmd.Weight,
		Height:         cmd.Height,
		MedicalHistory: cmd.MedicalHistory,
		CreatedBy:      cmd.CreatedBy,
		IsActive:       true,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.log.Error("failed to create patient", zap.Error(err))
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.PatientsCreatedTotal.Inc()
		s.metrics.HistoryEntriesTotal.WithLabelValues(string(patient.ChangeInitialRecord)).Inc()
	}

	s.auditSvc.Record(caller.UserID, domain.ActionCreatePatient, "patient", p.ID.String(),
		fmt.Sprintf("code=%s", p.Code))

	s.log.Info("patient created",
		zap.String("patient_id", p.ID.String()),
		zap.String("code", p.Code),
		zap.String("created_by", caller.UserID.String()),
	)

	return p, nil
}

// GetPatient enforces the portal restriction: a patient-role principal may
// only read the record linked to their own account.
func (s *PatientService) GetPatient(ctx context.Context, id uuid.UUID, caller *domain.Principal) (*patient.Patient, error) {
	if caller.Role == domain.RolePatient && !caller.OwnsPatient(id) {
		return nil, ErrForbidden
	}
	return s.repo.GetByID(ctx, id)
}

// GetPatientByCode resolves the human-readable code, applying the same
// portal restriction once the record is known.
func (s *PatientService) GetPatientByCode(ctx context.Context, code string, caller *domain.Principal) (*patient.Patient, error) {
	p, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if caller.Role == domain.RolePatient && !caller.OwnsPatient(p.ID) {
		return nil, ErrForbidden
	}
	return p, nil
}

func (s *PatientService) UpdatePatient(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand, caller *domain.Principal) (*patient.Patient, error) {
	if err := validateUpdatePatient(cmd); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, id, cmd)
	if err != nil {
		return nil, err
	}

	if cmd.TouchesVitals() && s.metrics != nil {
		s.metrics.HistoryEntriesTotal.WithLabelValues(string(patient.ChangeManualEdit)).Inc()
	}

	s.auditSvc.Record(caller.UserID, domain.ActionUpdatePatient, "patient", id.String(), "")

	return p, nil
}

// DeletePatient cascades into history, predictions, images and appointments.
// The bool reports whether a patient actually existed; deleting an unknown
// id is not an error.
func (s *PatientService) DeletePatient(ctx context.Context, id uuid.UUID, caller *domain.Principal) (bool, error) {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.auditSvc.Record(caller.UserID, domain.ActionDeletePatient, "patient", id.String(), "")
		s.log.Info("patient deleted",
			zap.String("patient_id", id.String()),
			zap.String("deleted_by", caller.UserID.String()),
		)
	}
	return removed, nil
}

// ListPatients scopes by role: admins see everything, staff see the patients
// they created, patient-role principals see only their own record.
func (s *PatientService) ListPatients(ctx context.Context, caller *domain.Principal) ([]*patient.Patient, error) {
	switch caller.Role {
	case domain.RoleAdmin:
		return s.repo.List(ctx, &patient.ListPatientsQuery{})
	case domain.RolePatient:
		if caller.PatientID == nil {
			return []*patient.Patient{}, nil
		}
		p, err := s.repo.GetByID(ctx, *caller.PatientID)
		if err != nil {
			return nil, err
		}
		return []*patient.Patient{p}, nil
	default:
		createdBy := caller.UserID
		return s.repo.List(ctx, &patient.ListPatientsQuery{CreatedBy: &createdBy})
	}
}

func (s *PatientService) SearchPatients(ctx context.Context, query string) ([]*patient.Patient, error) {
	if strings.TrimSpace(query) == "" {
		return []*patient.Patient{}, nil
	}
	return s.repo.Search(ctx, query)
}

// History returns the vitals trail, newest first, under the same portal
// restriction as GetPatient.
func (s *PatientService) History(ctx context.Context, patientID uuid.UUID, caller *domain.Principal) ([]*patient.VitalsHistory, error) {
	if caller.Role == domain.RolePatient && !caller.OwnsPatient(patientID) {
		return nil, ErrForbidden
	}

	if _, err := s.repo.GetByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.HistoryFor(ctx, patientID)
}

// RecordVitals stores a routine checkup reading: the patient row is updated
// to the new measurements and the history entry is classified
// routine_checkup instead of manual_edit.
func (s *PatientService) RecordVitals(ctx context.Context, patientID uuid.UUID, vitals patient.Vitals, notes string, caller *domain.Principal) (*patient.Patient, error) {
	if err := validateVitals(vitals); err != nil {
		return nil, err
	}

	p, err := s.repo.Update(ctx, patientID, &patient.UpdatePatientCommand{
		BloodSugar:  &vitals.BloodSugar,
		SystolicBP:  &vitals.SystolicBP,
		DiastolicBP: &vitals.DiastolicBP,
		Weight:      vitals.Weight,
		Height:      vitals.Height,
		UpdatedBy:   caller.UserID,
		ChangeType:  patient.ChangeRoutineCheckup,
		Notes:       notes,
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.HistoryEntriesTotal.WithLabelValues(string(patient.ChangeRoutineCheckup)).Inc()
	}

	return p, nil
}

func validateCreatePatient(cmd *patient.CreatePatientCommand) error {
	var errs []string

	if strings.TrimSpace(cmd.Name) == "" {
		errs = append(errs, "name is required")
	}
	if cmd.Age < 0 || cmd.Age > 150 {
		errs = append(errs, "age must be between 0 and 150")
	}
	if cmd.BloodSugar < 0 {
		errs = append(errs, "bloodSugar cannot be negative")
	}
	if cmd.SystolicBP < 0 || cmd.DiastolicBP < 0 {
		errs = append(errs, "blood pressure cannot be negative")
	}
	if cmd.CreatedBy == uuid.Nil {
		errs = append(errs, "createdBy is required")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateUpdatePatient(cmd *patient.UpdatePatientCommand) error {
	var errs []string

	if cmd.Name != nil && strings.TrimSpace(*cmd.Name) == "" {
		errs = append(errs, "name cannot be empty")
	}
	if cmd.Age != nil && (*cmd.Age < 0 || *cmd.Age > 150) {
		errs = append(errs, "age must be between 0 and 150")
	}
	if cmd.BloodSugar != nil && *cmd.BloodSugar < 0 {
		errs = append(errs, "bloodSugar cannot be negative")
	}
	if cmd.SystolicBP != nil && *cmd.SystolicBP < 0 {
		errs = append(errs, "systolicBP cannot be negative")
	}
	if cmd.DiastolicBP != nil && *cmd.DiastolicBP < 0 {
		errs = append(errs, "diastolicBP cannot be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func validateVitals(v patient.Vitals) error {
	var errs []string

	if v.BloodSugar < 0 {
		errs = append(errs, "bloodSugar cannot be negative")
	}
	if v.SystolicBP < 0 || v.DiastolicBP < 0 {
		errs = append(errs, "blood pressure cannot be negative")
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
