package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	domainRepo "github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"gorm.io/gorm"
)

type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) domainRepo.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *entity.CashdeskSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashdeskSession, error) {
	var session entity.CashdeskSession
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetWithMovements(ctx context.Context, id uuid.UUID) (*entity.CashdeskSession, error) {
	var session entity.CashdeskSession
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *sessionRepository) GetActiveByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashdeskSession, error) {
	var session entity.CashdeskSession
	err := r.db.WithContext(ctx).
		Scopes(OrgScope(ctx)).
		First(&session, "cashier_id = ? AND status = ?", cashierID, enum.SessionStatusActive).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

// AccumulateSale folds a sale total into the session's running totals. The
// status predicate makes this a guarded update: a concurrently closed
// session is left untouched and the caller learns about it from the
// affected-row count.
func (r *sessionRepository) AccumulateSale(ctx context.Context, sessionID uuid.UUID, saleTotal decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CashdeskSession{}).
		Where("id = ? AND status = ?", sessionID, enum.SessionStatusActive).
		Updates(map[string]interface{}{
			"total_sales":       gorm.Expr("total_sales + ?", saleTotal),
			"transaction_count": gorm.Expr("transaction_count + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CompensateSale backs one sale out of the running totals, both the amount
// and the count, under the same active-status guard.
func (r *sessionRepository) CompensateSale(ctx context.Context, sessionID uuid.UUID, saleTotal decimal.Decimal) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CashdeskSession{}).
		Where("id = ? AND status = ?", sessionID, enum.SessionStatusActive).
		Updates(map[string]interface{}{
			"total_sales":       gorm.Expr("total_sales - ?", saleTotal),
			"transaction_count": gorm.Expr("transaction_count - 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Close stamps the reconciliation figures and flips the status, guarded the
// same way as AccumulateSale so a session can only be closed once.
func (r *sessionRepository) Close(ctx context.Context, sessionID uuid.UUID, closingCash, expectedCash, discrepancy decimal.Decimal, endTime time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&entity.CashdeskSession{}).
		Where("id = ? AND status = ?", sessionID, enum.SessionStatusActive).
		Updates(map[string]interface{}{
			"status":        enum.SessionStatusClosed,
			"closing_cash":  closingCash,
			"expected_cash": expectedCash,
			"discrepancy":   discrepancy,
			"end_time":      endTime,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *sessionRepository) List(ctx context.Context, params *domainRepo.SessionFilterParams) ([]entity.CashdeskSession, int64, error) {
	var sessions []entity.CashdeskSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashdeskSession{}).Scopes(OrgScope(ctx))

	if params.CashierID != nil {
		query = query.Where("cashier_id = ?", *params.CashierID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if params.StartDate != nil {
		query = query.Where("start_time >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("start_time <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("start_time DESC").
		Find(&sessions).Error

	return sessions, total, err
}

type pettyCashRepository struct {
	db *gorm.DB
}

// NewPettyCashRepository creates a new petty cash repository
func NewPettyCashRepository(db *gorm.DB) domainRepo.PettyCashRepository {
	return &pettyCashRepository{db: db}
}

func (r *pettyCashRepository) Append(ctx context.Context, entry *entity.PettyCashTransaction) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *pettyCashRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.PettyCashTransaction, error) {
	var entries []entity.PettyCashTransaction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *pettyCashRepository) SumByType(ctx context.Context, sessionID uuid.UUID, typ enum.PettyCashType) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&entity.PettyCashTransaction{}).
		Select("SUM(amount)").
		Where("session_id = ? AND type = ?", sessionID, typ).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
