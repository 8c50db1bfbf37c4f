package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	domainRepo "github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

// Create persists the sale with its items and payments in one transaction
// via GORM association writes.
func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return r.db.WithContext(ctx).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Preload("Customer").
		Preload("Items").
		Preload("Payments").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetByTransactionID(ctx context.Context, transactionID string) (*entity.Sale, error) {
	var sale entity.Sale
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Preload("Items").
		Preload("Payments").
		First(&sale, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&sales).Error
	return sales, err
}

func (r *saleRepository) List(ctx context.Context, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Sale{}).Scopes(OrgScope(ctx))

	if params.SessionID != nil {
		query = query.Where("session_id = ?", *params.SessionID)
	}

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CashTotalForSession sums the cash each sale left in the drawer, computed
// from the payments ledger. Cash tenders record the full amount handed over,
// so an overpaid tender is capped at the sale total less non-cash tenders;
// the remainder went back to the customer as change.
func (r *saleRepository) CashTotalForSession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	tenders := r.db.Model(&entity.PaymentMethod{}).
		Select("sale_id,"+
			" SUM(CASE WHEN type = ? THEN amount ELSE 0 END) AS cash,"+
			" SUM(CASE WHEN type <> ? THEN amount ELSE 0 END) AS noncash",
			enum.PaymentTypeCash, enum.PaymentTypeCash).
		Group("sale_id")

	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Select("SUM(LEAST(tenders.cash, sales.total - tenders.noncash))").
		Joins("JOIN (?) AS tenders ON tenders.sale_id = sales.id", tenders).
		Where("sales.session_id = ?", sessionID).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *saleRepository) TotalForSession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.NullDecimal
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Sale{}).
		Select("SUM(total) AS total, COUNT(*) AS count").
		Where("session_id = ?", sessionID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, 0, err
	}
	total := decimal.Zero
	if row.Total.Valid {
		total = row.Total.Decimal
	}
	return total, row.Count, nil
}
