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

// CheckoutHandler handles checkout and sale HTTP requests
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
	receiptService  *service.ReceiptService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(
	checkoutService *service.CheckoutService,
	receiptService *service.ReceiptService,
) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		receiptService:  receiptService,
	}
}

// Checkout runs a full sale: price the cart, settle payments, persist
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CheckoutInput{
		SessionID:  req.SessionID,
		CustomerID: req.CustomerID,
		Items:      make([]service.CheckoutItemInput, 0, len(req.Items)),
		Payments:   make([]service.PaymentInput, 0, len(req.Payments)),
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.CheckoutItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	for _, p := range req.Payments {
		input.Payments = append(input.Payments, service.PaymentInput{
			Type:           enum.PaymentType(p.Type),
			Amount:         decimal.NewFromFloat(p.Amount),
			Reference:      p.Reference,
			CardLastFour:   p.CardLastFour,
			WalletProvider: p.WalletProvider,
		})
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", result)
}

// GetSale retrieves a sale with its items and payments
func (h *CheckoutHandler) GetSale(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.checkoutService.GetSale(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale retrieved successfully", sale)
}

// UpdateSaleStatus transitions a completed sale to a refund status
func (h *CheckoutHandler) UpdateSaleStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var status enum.SaleStatus
	switch req.Status {
	case "refunded":
		status = enum.SaleStatusRefunded
	case "partial_refund":
		status = enum.SaleStatusPartialRefund
	default:
		response.BadRequest(c, "Invalid sale status")
		return
	}

	sale, err := h.checkoutService.UpdateSaleStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Sale status updated successfully", sale)
}

// ListSales retrieves sales with optional filters
func (h *CheckoutHandler) ListSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	params := &repository.SaleFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
	}

	if sessionID := c.Query("session_id"); sessionID != "" {
		id, err := uuid.Parse(sessionID)
		if err != nil {
			response.BadRequest(c, "Invalid session ID")
			return
		}
		params.SessionID = &id
	}

	if cashierID := c.Query("cashier_id"); cashierID != "" {
		id, err := uuid.Parse(cashierID)
		if err != nil {
			response.BadRequest(c, "Invalid cashier ID")
			return
		}
		params.CashierID = &id
	}

	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			response.BadRequest(c, "Invalid customer ID")
			return
		}
		params.CustomerID = &id
	}

	if status := c.Query("status"); status != "" {
		var s enum.SaleStatus
		switch status {
		case "completed":
			s = enum.SaleStatusCompleted
		case "refunded":
			s = enum.SaleStatusRefunded
		case "partial_refund":
			s = enum.SaleStatusPartialRefund
		default:
			response.BadRequest(c, "Invalid sale status")
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

	sales, total, err := h.checkoutService.ListSales(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(sales, pagination.NewPagination(page, perPage, total))
	response.SuccessWithPagination(c, http.StatusOK, "Sales retrieved successfully", result)
}

// GetReceipt builds the structured receipt for a sale
func (h *CheckoutHandler) GetReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	receipt, err := h.receiptService.Build(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt built successfully", receipt)
}

// PrintReceipt sends the receipt to the configured printer
func (h *CheckoutHandler) PrintReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	receipt, err := h.receiptService.Print(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed successfully", receipt)
}

// EmailReceipt sends the receipt to the given address
func (h *CheckoutHandler) EmailReceipt(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid sale ID")
		return
	}

	var req request.EmailReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	receipt, err := h.receiptService.Email(c.Request.Context(), id, req.Email)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt emailed successfully", receipt)
}
