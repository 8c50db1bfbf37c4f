package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/application/service"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/dto/request"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/dto/response"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// DiscountHandler handles discount rule HTTP requests
type DiscountHandler struct {
	discountService *service.DiscountService
}

// NewDiscountHandler creates a new discount handler
func NewDiscountHandler(discountService *service.DiscountService) *DiscountHandler {
	return &DiscountHandler{discountService: discountService}
}

// Create creates a new discount rule
func (h *DiscountHandler) Create(c *gin.Context) {
	var req request.CreateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	input := &service.CreateDiscountInput{
		Name:               req.Name,
		Type:               enum.DiscountType(req.Type),
		Value:              decimal.NewFromFloat(req.Value),
		ApplicableProducts: req.ApplicableProducts,
		CustomerTiers:      req.CustomerTiers,
		Automatic:          req.Automatic,
		Active:             req.Active,
	}
	if req.MinOrderValue != nil {
		min := decimal.NewFromFloat(*req.MinOrderValue)
		input.MinOrderValue = &min
	}

	discount, err := h.discountService.CreateDiscount(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Discount created successfully", discount)
}

// Get retrieves a discount rule by ID
func (h *DiscountHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid discount ID")
		return
	}

	discount, err := h.discountService.GetDiscount(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Discount retrieved successfully", discount)
}

// List retrieves discount rules
func (h *DiscountHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	discounts, total, err := h.discountService.ListDiscounts(c.Request.Context(), &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	result := pagination.NewPaginatedResult(discounts, pagination.NewPagination(page, perPage, total))
	response.SuccessWithPagination(c, http.StatusOK, "Discounts retrieved successfully", result)
}
