package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careledger/careledger/internal/domain/patient"
	"github.com/careledger/careledger/internal/service"
)

type PatientHandler struct {
	patientSvc *service.PatientService
}

func NewPatientHandler(patientSvc *service.PatientService) *PatientHandler {
	return &PatientHandler{patientSvc: patientSvc}
}

type createPatientRequest struct {
	Name           string   `json:"name" binding:"required"`
	Age            int      `json:"age"`
	Phone          string   `json:"phone"`
	BloodSugar     float64  `json:"bloodSugar"`
	SystolicBP     int      `json:"systolicBP"`
	DiastolicBP    int      `json:"diastolicBP"`
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	MedicalHistory string   `json:"medicalHistory"`
}

// patientResponse wraps the record with its derived severity so clients do
// not re-implement the classification ladder.
type patientResponse struct {
	*patient.Patient
	Severity patient.Severity `json:"severity"`
}

func presentPatient(p *patient.Patient) patientResponse {
	return patientResponse{Patient: p, Severity: p.Severity()}
}

func presentPatients(patients []*patient.Patient) []patientResponse {
	out := make([]patientResponse, 0, len(patients))
	for _, p := range patients {
		out = append(out, presentPatient(p))
	}
	return out
}

func (h *PatientHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req createPatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.patientSvc.CreatePatient(c.Request.Context(), &patient.CreatePatientCommand{
		Name:           req.Name,
		Age:            req.Age,
		Phone:          req.Phone,
		BloodSugar:     req.BloodSugar,
		SystolicBP:     req.SystolicBP,
		DiastolicBP:    req.DiastolicBP,
		Weight:         req.Weight,
		Height:         req.Height,
		MedicalHistory: req.MedicalHistory,
		CreatedBy:      principal.UserID,
	}, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, presentPatient(p))
}

// Get accepts either the record UUID or the human-readable patient code in
// the path segment.
func (h *PatientHandler) Get(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var (
		p   *patient.Patient
		err error
	)
	if id, parseErr := uuid.Parse(c.Param("id")); parseErr == nil {
		p, err = h.patientSvc.GetPatient(c.Request.Context(), id, principal)
	} else {
		p, err = h.patientSvc.GetPatientByCode(c.Request.Context(), c.Param("id"), principal)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, presentPatient(p))
}

type updatePatientRequest struct {
	Name           *string  `json:"name"`
	Age            *int     `json:"age"`
	Phone          *string  `json:"phone"`
	BloodSugar     *float64 `json:"bloodSugar"`
	SystolicBP     *int     `json:"systolicBP"`
	DiastolicBP    *int     `json:"diastolicBP"`
	Weight         *float64 `json:"weight"`
	Height         *float64 `json:"height"`
	MedicalHistory *string  `json:"medicalHistory"`
	Notes          string   `json:"notes"`
}

func (h *PatientHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updatePatientRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.patientSvc.UpdatePatient(c.Request.Context(), id, &patient.UpdatePatientCommand{
		Name:           req.Name,
		Age:            req.Age,
		Phone:          req.Phone,
		BloodSugar:     req.BloodSugar,
		SystolicBP:     req.SystolicBP,
		DiastolicBP:    req.DiastolicBP,
		Weight:         req.Weight,
		Height:         req.Height,
		MedicalHistory: req.MedicalHistory,
		UpdatedBy:      principal.UserID,
		Notes:          req.Notes,
	}, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, presentPatient(p))
}

func (h *PatientHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	removed, err := h.patientSvc.DeletePatient(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "patient not found"})
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "patient deleted"})
}

func (h *PatientHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	patients, err := h.patientSvc.ListPatients(c.Request.Context(), principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, presentPatients(patients))
}

func (h *PatientHandler) Search(c *gin.Context) {
	if _, ok := mustPrincipal(c); !ok {
		return
	}

	patients, err := h.patientSvc.SearchPatients(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, presentPatients(patients))
}

func (h *PatientHandler) History(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	entries, err := h.patientSvc.History(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}

type recordVitalsRequest struct {
	BloodSugar  float64  `json:"bloodSugar"`
	SystolicBP  int      `json:"systolicBP"`
	DiastolicBP int      `json:"diastolicBP"`
	Weight      *float64 `json:"weight"`
	Height      *float64 `json:"height"`
	Notes       string   `json:"notes"`
}

// RecordVitals stores a routine checkup reading against the patient.
func (h *PatientHandler) RecordVitals(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req recordVitalsRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.patientSvc.RecordVitals(c.Request.Context(), id, patient.Vitals{
		BloodSugar:  req.BloodSugar,
		SystolicBP:  req.SystolicBP,
		DiastolicBP: req.DiastolicBP,
		Weight:      req.Weight,
		Height:      req.Height,
	}, req.Notes, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, presentPatient(p))
}
