package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	infraRepo "github.com/tilldesk/tilldesk-api/internal/infrastructure/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// DiscountService manages discount rules consumed by the pricing engine
type DiscountService struct {
	discountRepo repository.DiscountRepository
}

// NewDiscountService creates a new discount service
func NewDiscountService(discountRepo repository.DiscountRepository) *DiscountService {
	return &DiscountService{discountRepo: discountRepo}
}

// CreateDiscountInput represents the create discount input
type CreateDiscountInput struct {
	Name               string
	Type               enum.DiscountType
	Value              decimal.Decimal
	MinOrderValue      *decimal.Decimal
	ApplicableProducts []uuid.UUID
	CustomerTiers      []string
	Automatic          bool
	Active             bool
}

// CreateDiscount creates a new discount rule
func (s *DiscountService) CreateDiscount(ctx context.Context, input *CreateDiscountInput) (*entity.SaleDiscount, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Organization context required")
	}

	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Discount name is required")
	}
	if !input.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Invalid discount type")
	}
	if !input.Value.IsPositive() {
		return nil, apperror.NewBadRequestError("Discount value must be positive")
	}
	if input.Type == enum.DiscountTypePercentage && input.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, apperror.NewBadRequestError("Percentage discount cannot exceed 100")
	}
	for _, tier := range input.CustomerTiers {
		switch tier {
		case entity.CustomerTierStandard, entity.CustomerTierSilver, entity.CustomerTierGold:
		default:
			return nil, apperror.NewBadRequestError("Invalid customer tier: " + tier)
		}
	}

	value := input.Value
	if input.Type == enum.DiscountTypeFixed {
		value = money.Round2(value)
	}
	var minOrder *decimal.Decimal
	if input.MinOrderValue != nil {
		rounded := money.Round2(*input.MinOrderValue)
		minOrder = &rounded
	}

	discount := &entity.SaleDiscount{
		OrganizationID:     orgID,
		Name:               input.Name,
		Type:               input.Type,
		Value:              value,
		MinOrderValue:      minOrder,
		ApplicableProducts: input.ApplicableProducts,
		CustomerTiers:      input.CustomerTiers,
		Automatic:          input.Automatic,
		Active:             input.Active,
	}

	if err := s.discountRepo.Create(ctx, discount); err != nil {
		return nil, err
	}

	return discount, nil
}

// GetDiscount retrieves a discount rule by ID
func (s *DiscountService) GetDiscount(ctx context.Context, id uuid.UUID) (*entity.SaleDiscount, error) {
	discount, err := s.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if discount == nil {
		return nil, apperror.NewNotFoundError("Discount")
	}
	return discount, nil
}

// ListDiscounts lists discount rules with pagination
func (s *DiscountService) ListDiscounts(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleDiscount, int64, error) {
	return s.discountRepo.List(ctx, params)
}
