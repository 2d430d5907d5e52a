package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/careledger/careledger/internal/service"
)

type StatsHandler struct {
	statsSvc *service.StatsService
}

func NewStatsHandler(statsSvc *service.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.statsSvc.Stats(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondOK(c, stats)
}

// ExportCSV streams the full patient roster as a CSV attachment. The body
// starts with a UTF-8 byte-order mark so spreadsheet tools decode it.
func (h *StatsHandler) ExportCSV(c *gin.Context) {
	data, err := h.statsSvc.ExportPatientsCSV(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("patients-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
