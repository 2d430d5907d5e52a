package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/domain/appointment"
	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/domain/patient"
	"github.com/careledger/careledger/internal/predictor"
)

type mockPatientRepo struct {
	mock.Mock
}

func (m *mockPatientRepo) Create(ctx context.Context, p *patient.Patient) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPatientRepo) GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*patient.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) GetByCode(ctx context.Context, code string) (*patient.Patient, error) {
	args := m.Called(ctx, code)
	if p := args.Get(0); p != nil {
		return p.(*patient.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) Update(ctx context.Context, id uuid.UUID, cmd *patient.UpdatePatientCommand) (*patient.Patient, error) {
	args := m.Called(ctx, id, cmd)
	if p := args.Get(0); p != nil {
		return p.(*patient.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockPatientRepo) List(ctx context.Context, q *patient.ListPatientsQuery) ([]*patient.Patient, error) {
	args := m.Called(ctx, q)
	if p := args.Get(0); p != nil {
		return p.([]*patient.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) Search(ctx context.Context, query string) ([]*patient.Patient, error) {
	args := m.Called(ctx, query)
	if p := args.Get(0); p != nil {
		return p.([]*patient.Patient), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) AppendHistory(ctx context.Context, entry *patient.VitalsHistory) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockPatientRepo) HistoryFor(ctx context.Context, patientID uuid.UUID) ([]*patient.VitalsHistory, error) {
	args := m.Called(ctx, patientID)
	if entries := args.Get(0); entries != nil {
		return entries.([]*patient.VitalsHistory), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPatientRepo) Counters(ctx context.Context, since time.Time) (*patient.Counters, error) {
	args := m.Called(ctx, since)
	if c := args.Get(0); c != nil {
		return c.(*patient.Counters), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) SoftDelete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type mockAuditRepo struct {
	mock.Mock
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepo) List(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	args := m.Called(ctx, limit)
	if entries := args.Get(0); entries != nil {
		return entries.([]*domain.AuditLog), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAppointmentRepo struct {
	mock.Mock
}

func (m *mockAppointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAppointmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	args := m.Called(ctx, id)
	if a := args.Get(0); a != nil {
		return a.(*appointment.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) Update(ctx context.Context, id uuid.UUID, cmd *appointment.UpdateAppointmentCommand) (*appointment.Appointment, error) {
	args := m.Called(ctx, id, cmd)
	if a := args.Get(0); a != nil {
		return a.(*appointment.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentRepo) List(ctx context.Context, q *appointment.ListAppointmentsQuery) ([]*appointment.Appointment, error) {
	args := m.Called(ctx, q)
	if a := args.Get(0); a != nil {
		return a.([]*appointment.Appointment), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockInsightRepo struct {
	mock.Mock
}

func (m *mockInsightRepo) CreatePrediction(ctx context.Context, p *insight.HealthPrediction) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockInsightRepo) PredictionsFor(ctx context.Context, patientID uuid.UUID) ([]*insight.HealthPrediction, error) {
	args := m.Called(ctx, patientID)
	if p := args.Get(0); p != nil {
		return p.([]*insight.HealthPrediction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockInsightRepo) CountPredictions(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInsightRepo) CreateImageRecord(ctx context.Context, r *insight.MedicalImageRecord) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockInsightRepo) ImagesFor(ctx context.Context, patientID uuid.UUID) ([]*insight.MedicalImageRecord, error) {
	args := m.Called(ctx, patientID)
	if r := args.Get(0); r != nil {
		return r.([]*insight.MedicalImageRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) PredictHealthRisk(ctx context.Context, in predictor.HealthInput) (*predictor.HealthResult, error) {
	args := m.Called(ctx, in)
	if r := args.Get(0); r != nil {
		return r.(*predictor.HealthResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockPredictor) AnalyzeImage(ctx context.Context, in predictor.ImageInput) (*predictor.ImageResult, error) {
	args := m.Called(ctx, in)
	if r := args.Get(0); r != nil {
		return r.(*predictor.ImageResult), args.Error(1)
	}
	return nil, args.Error(1)
}

// newTestAuditService returns an audit service whose writes land in a mock
// that tolerates any number of calls; the worker is asynchronous, so tests
// never assert on audit write counts.
func newTestAuditService() *AuditService {
	repo := new(mockAuditRepo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return NewAuditService(repo, zap.NewNop(), nil)
}

func staffPrincipal() *domain.Principal {
	return &domain.Principal{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Username:  "nurse1",
		Role:      domain.RoleStaff,
	}
}

func adminPrincipal() *domain.Principal {
	return &domain.Principal{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Username:  "admin1",
		Role:      domain.RoleAdmin,
	}
}

func patientPrincipal(patientID uuid.UUID) *domain.Principal {
	return &domain.Principal{
		SessionID: uuid.New(),
		UserID:    uuid.New(),
		Username:  "portal1",
		Role:      domain.RolePatient,
		PatientID: &patientID,
	}
}
