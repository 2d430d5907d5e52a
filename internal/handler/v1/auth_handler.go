package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careledger/careledger/internal/service"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	PatientID *string   `json:"patientId,omitempty"`
	IssuedAt  time.Time `json:"issuedAt"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.authSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := loginResponse{
		Token:    token,
		UserID:   user.ID.String(),
		Username: user.Username,
		Name:     user.Name,
		Role:     string(user.Role),
		IssuedAt: time.Now().UTC(),
	}
	if user.PatientID != nil {
		id := user.PatientID.String()
		resp.PatientID = &id
	}

	respondOK(c, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}

	h.authSvc.Logout(principal)
	c.JSON(http.StatusOK, APIResponse[any]{Message: "logged out"})
}

// Me returns the caller's own session identity, used by clients to restore
// state after a reload.
func (h *AuthHandler) Me(c *gin.Context) {
	principal, ok := mustPrincipal(c)
	if !ok {
		return
	}
	respondOK(c, principal)
}
