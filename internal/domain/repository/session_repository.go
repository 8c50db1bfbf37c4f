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

// SessionRepository defines the persistence contract for cashdesk sessions.
//
// AccumulateSale and Close are guarded updates: they only touch rows whose
// status is still active and report whether a row was updated, so concurrent
// mutations of the same session (two open tabs) cannot lose updates or
// mutate a closed session.
type SessionRepository interface {
	Create(ctx context.Context, session *entity.CashdeskSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashdeskSession, error)
	GetWithMovements(ctx context.Context, id uuid.UUID) (*entity.CashdeskSession, error)
	// GetActiveByCashier returns the cashier's active session, or nil.
	GetActiveByCashier(ctx context.Context, cashierID uuid.UUID) (*entity.CashdeskSession, error)
	// AccumulateSale adds a sale total to the session's running totals and
	// bumps the transaction count. Returns false when the session is no
	// longer active.
	AccumulateSale(ctx context.Context, sessionID uuid.UUID, saleTotal decimal.Decimal) (bool, error)
	// CompensateSale undoes one AccumulateSale after a sale failed to
	// persist: it subtracts the total and decrements the transaction count.
	CompensateSale(ctx context.Context, sessionID uuid.UUID, saleTotal decimal.Decimal) (bool, error)
	// Close marks the session closed and stamps the reconciliation figures.
	// Returns false when the session was already closed.
	Close(ctx context.Context, sessionID uuid.UUID, closingCash, expectedCash, discrepancy decimal.Decimal, endTime time.Time) (bool, error)
	List(ctx context.Context, params *SessionFilterParams) ([]entity.CashdeskSession, int64, error)
}

// SessionFilterParams contains filtering parameters for session queries
type SessionFilterParams struct {
	Pagination *pagination.PaginationParams
	CashierID  *uuid.UUID
	Status     *enum.SessionStatus
	StartDate  *time.Time
	EndDate    *time.Time
}

// PettyCashRepository is the append-only ledger of manual cash movements.
// Entries are never updated or deleted; corrections append an offsetting
// entry of the opposite type.
type PettyCashRepository interface {
	Append(ctx context.Context, entry *entity.PettyCashTransaction) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.PettyCashTransaction, error)
	// SumByType returns the total amount of entries of one direction for a
	// session, used by session close.
	SumByType(ctx context.Context, sessionID uuid.UUID, typ enum.PettyCashType) (decimal.Decimal, error)
}
