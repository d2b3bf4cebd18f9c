package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dtroode/smart-todo-server/internal/logger"
	"github.com/dtroode/smart-todo-server/internal/model"
)

// InsightsService defines analysis report operations.
type InsightsService interface {
	GenerateReport(ctx context.Context) (model.InsightsReport, error)
	LatestReport(ctx context.Context) (model.InsightsReport, error)
}

// Insights handles HTTP endpoints for the analysis reports.
type Insights struct {
	insightsService InsightsService
	logger          *logger.Logger
}

// NewInsights creates a new Insights handler.
func NewInsights(insightsService InsightsService, logger *logger.Logger) *Insights {
	return &Insights{
		insightsService: insightsService,
		logger:          logger,
	}
}

type insightsResponse struct {
	Status      string     `json:"status"`
	Report      string     `json:"report"`
	GeneratedAt *time.Time `json:"generatedAt,omitempty"`
}

// Generate runs the analysis script and returns its output. Script failures
// come back with status critical_error and the process error verbatim.
func (h *Insights) Generate(c *gin.Context) {
	report, err := h.insightsService.GenerateReport(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response := insightsResponse{
		Status: report.Status,
		Report: report.Report,
	}
	if !report.GeneratedAt.IsZero() {
		response.GeneratedAt = &report.GeneratedAt
	}

	c.JSON(http.StatusOK, response)
}

// Latest returns the most recently archived report.
func (h *Insights) Latest(c *gin.Context) {
	report, err := h.insightsService.LatestReport(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, insightsResponse{
		Status: report.Status,
		Report: report.Report,
	})
}
