package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
}

// DiscountRepository defines the interface for discount rule operations
type DiscountRepository interface {
	Create(ctx context.Context, discount *entity.SaleDiscount) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SaleDiscount, error)
	// ListActiveAutomatic returns active automatic discount rules in
	// insertion order; the pricing engine relies on that order for
	// tie-breaking.
	ListActiveAutomatic(ctx context.Context) ([]entity.SaleDiscount, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.SaleDiscount, int64, error)
}
