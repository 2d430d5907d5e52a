package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careledger/careledger/internal/domain/appointment"
	"github.com/careledger/careledger/internal/service"
)

type AppointmentHandler struct {
	apptSvc *service.AppointmentService
}

func NewAppointmentHandler(apptSvc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc}
}

type createAppointmentRequest struct {
	PatientID       uuid.UUID `json:"patientId" binding:"required"`
	StaffID         uuid.UUID `json:"staffId" binding:"required"`
	AppointmentDate time.Time `json:"appointmentDate" binding:"required"`
	Description     string    `json:"description"`
}

func (h *AppointmentHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req createAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	a, err := h.apptSvc.CreateAppointment(c.Request.Context(), &appointment.CreateAppointmentCommand{
		PatientID:       req.PatientID,
		StaffID:         req.StaffID,
		AppointmentDate: req.AppointmentDate,
		Description:     req.Description,
	}, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.GetAppointment(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type updateAppointmentRequest struct {
	AppointmentDate *time.Time `json:"appointmentDate"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status"`
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &appointment.UpdateAppointmentCommand{
		AppointmentDate: req.AppointmentDate,
		Description:     req.Description,
	}
	if req.Status != nil {
		status := appointment.Status(*req.Status)
		cmd.Status = &status
	}

	a, err := h.apptSvc.UpdateAppointment(c.Request.Context(), id, cmd, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	removed, err := h.apptSvc.DeleteAppointment(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "appointment not found"})
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "appointment deleted"})
}

func (h *AppointmentHandler) List(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	q := &appointment.ListAppointmentsQuery{}
	if raw := c.Query("patientId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid patientId filter"})
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("staffId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid staffId filter"})
			return
		}
		q.StaffID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := appointment.Status(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status filter"})
			return
		}
		q.Status = &status
	}

	appts, err := h.apptSvc.ListAppointments(c.Request.Context(), q, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, appts)
}
