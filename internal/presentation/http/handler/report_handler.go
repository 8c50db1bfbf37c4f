package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tilldesk/tilldesk-api/internal/application/service"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/dto/response"
)

// ReportHandler handles reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Daily builds the sales report for a single day. Defaults to today when
// no date is given.
func (h *ReportHandler) Daily(c *gin.Context) {
	day := time.Now()
	if date := c.Query("date"); date != "" {
		t, err := time.Parse("2006-01-02", date)
		if err != nil {
			response.BadRequest(c, "Invalid date format, use YYYY-MM-DD")
			return
		}
		day = t
	}

	report, err := h.reportService.GetDailyReport(c.Request.Context(), day)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily report generated successfully", report)
}
