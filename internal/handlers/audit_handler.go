package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kleinfit/klein-data-pipeline/internal/models"
	"github.com/kleinfit/klein-data-pipeline/internal/repositories"
)

// AuditHandler serves the most recently written audit log.
type AuditHandler struct {
	outputs repositories.OutputRepository
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(outputs repositories.OutputRepository) *AuditHandler {
	return &AuditHandler{outputs: outputs}
}

// GetAuditLog handles GET /audit. Optional query parameters section and
// action filter the entries.
func (h *AuditHandler) GetAuditLog(c *gin.Context) {
	entries, err := h.outputs.ReadAuditLog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not available: " + err.Error()})
		return
	}

	section := c.Query("section")
	action := c.Query("action")
	if section != "" || action != "" {
		filtered := make([]models.AuditEntry, 0, len(entries))
		for _, e := range entries {
			if section != "" && e.Section != section {
				continue
			}
			if action != "" && e.Action != action {
				continue
			}
			filtered = append(filtered, e)
		}
		entries = filtered
	}

	c.JSON(http.StatusOK, gin.H{"count": len(entries), "entries": entries})
}

// GetAuditSummary handles GET /audit/summary, returning only the trailing
// summary rows.
func (h *AuditHandler) GetAuditSummary(c *gin.Context) {
	entries, err := h.outputs.ReadAuditLog(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Audit log not available: " + err.Error()})
		return
	}

	stats := make([]models.AuditEntry, 0, 4)
	for _, e := range entries {
		if e.Action == models.ActionSummaryStat {
			stats = append(stats, e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"summary": stats})
}
