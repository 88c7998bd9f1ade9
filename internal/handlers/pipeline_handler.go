package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kleinfit/klein-data-pipeline/internal/services"
)

// PipelineHandler handles pipeline-related HTTP requests
type PipelineHandler struct {
	pipelineService services.PipelineService
}

// NewPipelineHandler creates a new PipelineHandler
func NewPipelineHandler(pipelineService services.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService}
}

// RunRequest is the body of POST /pipeline/run
type RunRequest struct {
	// Update fetches fresh raw exports before processing, like the CLI's
	// -update flag.
	Update bool `json:"update"`
}

// RunPipeline handles POST /pipeline/run
func (h *PipelineHandler) RunPipeline(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	run, err := h.pipelineService.Run(c.Request.Context(), req.Update)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Pipeline run failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetLatestRun handles GET /runs/latest
func (h *PipelineHandler) GetLatestRun(c *gin.Context) {
	run := h.pipelineService.LatestRun()
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pipeline run in this process yet"})
		return
	}
	c.JSON(http.StatusOK, run)
}
