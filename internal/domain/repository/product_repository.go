package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// ProductRepository defines the persistence contract for the catalog. The
// cash-desk engine only reads price/stock snapshots from it; stock writes
// happen through the atomic batch operations on sale completion.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)
	GetLowStock(ctx context.Context, params *pagination.PaginationParams) ([]entity.Product, int64, error)
	// AtomicDecrementBatch decrements stock for each product, failing the
	// whole batch when any product lacks stock. Returns the IDs that could
	// not be decremented.
	AtomicDecrementBatch(ctx context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error)
	// AtomicIncrementBatch restores stock, used to compensate a failed
	// checkout after a decrement already happened.
	AtomicIncrementBatch(ctx context.Context, increments map[uuid.UUID]int) error
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// PredictionRepository reads precomputed stock predictions. This service
// never writes them; the prediction pipeline owns the table.
type PredictionRepository interface {
	GetByProduct(ctx context.Context, productID uuid.UUID) (*entity.StockPrediction, error)
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.StockPrediction, int64, error)
}
