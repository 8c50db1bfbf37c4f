package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// SaleRepository defines the persistence contract for sales. A sale is
// created in one shot with its items and payments; no partial sale is ever
// persisted.
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*entity.Sale, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Sale, error)
	List(ctx context.Context, params *SaleFilterParams) ([]entity.Sale, int64, error)
	// UpdateStatus applies the refund status transition. It never touches
	// the owning session's totals.
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	// CashTotalForSession sums the net cash each of a session's sales left
	// in the drawer, the figure session close reconciles against. Per sale
	// this is the cash tendered capped at the sale total minus non-cash
	// tenders, since overpaid cash is returned as change.
	CashTotalForSession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
	// TotalForSession sums sale totals and counts sales for a session so
	// cached session totals can be re-derived from the ledger.
	TotalForSession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, int64, error)
}

// SaleFilterParams contains filtering parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	SessionID  *uuid.UUID
	CashierID  *uuid.UUID
	CustomerID *uuid.UUID
	Status     *enum.SaleStatus
	StartDate  *time.Time
	EndDate    *time.Time
}
