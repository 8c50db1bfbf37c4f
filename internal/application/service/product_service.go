package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	infraRepo "github.com/tilldesk/tilldesk-api/internal/infrastructure/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
	"github.com/tilldesk/tilldesk-api/pkg/utils"
)

// ProductService handles catalog operations
type ProductService struct {
	productRepo    repository.ProductRepository
	predictionRepo repository.PredictionRepository
}

// NewProductService creates a new product service
func NewProductService(
	productRepo repository.ProductRepository,
	predictionRepo repository.PredictionRepository,
) *ProductService {
	return &ProductService{
		productRepo:    productRepo,
		predictionRepo: predictionRepo,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	Name          string
	SKU           string
	Quantity      int
	QuantityAlert int
	SellingPrice  decimal.Decimal
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	orgID, ok := infraRepo.GetOrganizationID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Organization context required")
	}

	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Product name is required")
	}
	if input.SellingPrice.IsNegative() {
		return nil, apperror.NewBadRequestError("Selling price cannot be negative")
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	sku := input.SKU
	if sku == "" {
		sku = utils.GenerateSKU()
	}

	existing, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Product SKU already exists")
	}

	product := &entity.Product{
		OrganizationID: orgID,
		Name:           input.Name,
		SKU:            sku,
		Quantity:       input.Quantity,
		QuantityAlert:  input.QuantityAlert,
		SellingPrice:   money.Round2(input.SellingPrice),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	Name          *string
	Quantity      *int
	QuantityAlert *int
	SellingPrice  *decimal.Decimal
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperror.NewBadRequestError("Quantity cannot be negative")
		}
		product.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.SellingPrice != nil {
		if input.SellingPrice.IsNegative() {
			return nil, apperror.NewBadRequestError("Selling price cannot be negative")
		}
		product.SellingPrice = money.Round2(*input.SellingPrice)
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// ListProducts lists products with filtering and pagination
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

// GetLowStockProducts lists products at or below their alert quantity
func (s *ProductService) GetLowStockProducts(ctx context.Context, params *pagination.PaginationParams) ([]entity.Product, int64, error) {
	return s.productRepo.GetLowStock(ctx, params)
}

// GetPrediction returns the stockout forecast for a product. The forecast
// is precomputed by the prediction pipeline; it is rendered as stored.
func (s *ProductService) GetPrediction(ctx context.Context, productID uuid.UUID) (*entity.StockPrediction, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}

	prediction, err := s.predictionRepo.GetByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if prediction == nil {
		return nil, apperror.NewNotFoundError("Prediction")
	}
	return prediction, nil
}

// ListPredictions lists stockout forecasts
func (s *ProductService) ListPredictions(ctx context.Context, params *pagination.PaginationParams) ([]entity.StockPrediction, int64, error) {
	return s.predictionRepo.List(ctx, params)
}
