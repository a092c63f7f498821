package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spendwise-tracker/internal/api_gateway/middleware"
	"github.com/spendwise-tracker/internal/api_gateway/service"
)

// ReportHandler serves dashboard and yearly reports
type ReportHandler struct {
	reportService service.ReportService
	heartbeat     time.Duration
	logger        *slog.Logger
}

func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		heartbeat:     streamHeartbeat,
		logger:        logger,
	}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.Dashboard(c.Request.Context(), middleware.GetOwnerID(c))
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, dashboard)
}

// Yearly answers with a null report when the owner has no entries
func (h *ReportHandler) Yearly(c *gin.Context) {
	var params YearlyParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid year")
		return
	}

	view, err := h.reportService.Yearly(c.Request.Context(), middleware.GetOwnerID(c), params.Year)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, gin.H{
		"report":          view.Report,
		"available_years": view.AvailableYears,
	})
}

// Stream pushes a "dashboard" event after every store change. The
// subscription is released when the client disconnects.
func (h *ReportHandler) Stream(c *gin.Context) {
	ownerID := middleware.GetOwnerID(c)
	updates, err := h.reportService.Watch(c.Request.Context(), ownerID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	streamEvents(c, "dashboard", updates, h.heartbeat)
}
