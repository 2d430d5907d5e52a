package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careledger/careledger/internal/domain"
	"github.com/careledger/careledger/internal/service"
)

type UserHandler struct {
	userSvc *service.UserService
}

func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

type createUserRequest struct {
	Username  string     `json:"username" binding:"required"`
	Password  string     `json:"password" binding:"required"`
	Name      string     `json:"name" binding:"required"`
	Role      string     `json:"role" binding:"required"`
	PatientID *uuid.UUID `json:"patientId"`
}

func (h *UserHandler) Create(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userSvc.CreateUser(c.Request.Context(), &service.CreateUserCommand{
		Username:  req.Username,
		Password:  req.Password,
		Name:      req.Name,
		Role:      domain.Role(req.Role),
		PatientID: req.PatientID,
	}, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, user)
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.ListUsers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, users)
}

func (h *UserHandler) Delete(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	removed, err := h.userSvc.DeleteUser(c.Request.Context(), id, principal)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "user not found"})
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "user deactivated"})
}
