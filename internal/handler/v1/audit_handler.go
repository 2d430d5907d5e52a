package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/careledger/careledger/internal/service"
)

type AuditHandler struct {
	auditSvc *service.AuditService
}

func NewAuditHandler(auditSvc *service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

func (h *AuditHandler) List(c *gin.Context) {
	limit := parseQueryInt(c, "limit", 100)

	entries, err := h.auditSvc.Recent(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, entries)
}
