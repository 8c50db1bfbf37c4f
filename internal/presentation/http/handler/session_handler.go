package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/application/service"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/dto/request"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/dto/response"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// SessionHandler handles cash desk session HTTP requests
type SessionHandler struct {
	sessionService *service.SessionService
	reportService  *service.ReportService
	userRepo       repository.UserRepository
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(
	sessionService *service.SessionService,
	reportService *service.ReportService,
	userRepo repository.UserRepository,
) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		reportService:  reportService,
		userRepo:       userRepo,
	}
}

// Open starts a new session for the authenticated cashier
func (h *SessionHandler) Open(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	cashier, err := h.userRepo.GetByID(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if cashier == nil {
		response.Unauthorized(c, "User not found")
		return
	}

	session, err := h.sessionService.Open(c.Request.Context(), cashier, decimal.NewFromFloat(req.OpeningFloat))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Session opened successfully", session)
}

// Get retrieves a session by ID with its petty cash movements
func (h *SessionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.sessionService.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session retrieved successfully", session)
}

// GetActive retrieves the authenticated cashier's active session
func (h *SessionHandler) GetActive(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	session, err := h.sessionService.GetActive(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Active session retrieved successfully", session)
}

// Close closes a session with the counted cash drawer amount
func (h *SessionHandler) Close(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	session, err := h.sessionService.Close(c.Request.Context(), id, decimal.NewFromFloat(req.CountedCash))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Session closed successfully", session)
}

// RecordPettyCash appends a petty cash movement to a session
func (h *SessionHandler) RecordPettyCash(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	var req request.PettyCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	movement, err := h.sessionService.RecordPettyCash(c.Request.Context(), id, *userID, &service.PettyCashInput{
		Amount:      decimal.NewFromFloat(req.Amount),
		Description: req.Description,
		Type:        enum.PettyCashType(req.Type),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Petty cash movement recorded successfully", movement)
}

// List retrieves sessions with optional filters
func (h *SessionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	params := &repository.SessionFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
	}

	if cashierID := c.Query("cashier_id"); cashierID != "" {
		id, err := uuid.Parse(cashierID)
		if err != nil {
			response.BadRequest(c, "Invalid cashier ID")
			return
		}
		params.CashierID = &id
	}

	if status := c.Query("status"); status != "" {
		var s enum.SessionStatus
		switch status {
		case "active":
			s = enum.SessionStatusActive
		case "closed":
			s = enum.SessionStatusClosed
		default:
			response.BadRequest(c, "Invalid session status")
			return
		}
		params.Status = &s
	}

	if startDate := c.Query("start_date"); startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			response.BadRequest(c, "Invalid start date format, use YYYY-MM-DD")
			return
		}
		params.StartDate = &t
	}

	if endDate := c.Query("end_date"); endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			response.BadRequest(c, "Invalid end date format, use YYYY-MM-DD")
			return
		}
		params.EndDate = &t
	}

	result, err := h.sessionService.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Sessions retrieved successfully", result)
}

// ShiftReport builds the end-of-shift report for a session
func (h *SessionHandler) ShiftReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid session ID")
		return
	}

	report, err := h.reportService.GetShiftReport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Shift report generated successfully", report)
}
