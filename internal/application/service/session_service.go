package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
	"go.uber.org/zap"
)

// SessionService owns the cashdesk session lifecycle: opening the drawer,
// recording sales and petty cash against the running session, and computing
// the closing reconciliation.
type SessionService struct {
	sessionRepo repository.SessionRepository
	pettyRepo   repository.PettyCashRepository
	saleRepo    repository.SaleRepository
	logger      *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(
	sessionRepo repository.SessionRepository,
	pettyRepo repository.PettyCashRepository,
	saleRepo repository.SaleRepository,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		pettyRepo:   pettyRepo,
		saleRepo:    saleRepo,
		logger:      logger,
	}
}

// PettyCashInput represents a manual cash movement request
type PettyCashInput struct {
	Amount      decimal.Decimal
	Description string
	Type        enum.PettyCashType
}

// Open starts a new session for the cashier with the given opening float.
// A cashier with an active session cannot open a second one.
func (s *SessionService) Open(ctx context.Context, cashier *entity.User, openingFloat decimal.Decimal) (*entity.CashdeskSession, error) {
	if openingFloat.IsNegative() {
		return nil, apperror.NewBadRequestError("Opening float cannot be negative")
	}

	active, err := s.sessionRepo.GetActiveByCashier(ctx, cashier.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, apperror.ErrSessionConflict
	}

	session := &entity.CashdeskSession{
		OrganizationID:   cashier.OrganizationID,
		CashierID:        cashier.ID,
		CashierName:      cashier.FullName(),
		StartTime:        time.Now(),
		OpeningFloat:     money.Round2(openingFloat),
		Status:           enum.SessionStatusActive,
		TotalSales:       decimal.Zero,
		TransactionCount: 0,
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	s.logger.Info("session opened",
		zap.String("session_id", session.ID.String()),
		zap.String("cashier_id", cashier.ID.String()),
		zap.String("opening_float", session.OpeningFloat.String()),
	)

	return session, nil
}

// Get retrieves a session with its petty cash movements
func (s *SessionService) Get(ctx context.Context, id uuid.UUID) (*entity.CashdeskSession, error) {
	session, err := s.sessionRepo.GetWithMovements(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	return session, nil
}

// GetActive returns the cashier's currently active session
func (s *SessionService) GetActive(ctx context.Context, cashierID uuid.UUID) (*entity.CashdeskSession, error) {
	session, err := s.sessionRepo.GetActiveByCashier(ctx, cashierID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Active session")
	}
	return session, nil
}

// RecordSale folds a settled sale into the session's running totals. Only
// completed sales count at the moment of recording; later refund
// transitions never decrement what was recorded here. The update is guarded
// on the session still being active.
func (s *SessionService) RecordSale(ctx context.Context, sessionID uuid.UUID, sale *entity.Sale) error {
	if sale.SessionID != sessionID {
		return apperror.NewBadRequestError("Sale does not belong to this session")
	}
	if sale.Status != enum.SaleStatusCompleted {
		return apperror.NewBadRequestError("Only completed sales can be recorded")
	}

	ok, err := s.sessionRepo.AccumulateSale(ctx, sessionID, sale.Total)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.ErrSessionClosed
	}

	s.logger.Info("sale recorded",
		zap.String("session_id", sessionID.String()),
		zap.String("sale_id", sale.ID.String()),
		zap.String("total", sale.Total.String()),
	)
	return nil
}

// RecordPettyCash appends a manual cash movement to the session ledger.
func (s *SessionService) RecordPettyCash(ctx context.Context, sessionID uuid.UUID, cashierID uuid.UUID, input *PettyCashInput) (*entity.PettyCashTransaction, error) {
	if !input.Amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}
	if !input.Type.IsValid() {
		return nil, apperror.NewBadRequestError("Type must be 'in' or 'out'")
	}
	if input.Description == "" {
		return nil, apperror.NewBadRequestError("Description is required")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	if !session.IsActive() {
		return nil, apperror.ErrSessionClosed
	}

	entry := &entity.PettyCashTransaction{
		SessionID:   sessionID,
		CashierID:   cashierID,
		Amount:      money.Round2(input.Amount),
		Description: input.Description,
		Type:        input.Type,
	}
	if err := s.pettyRepo.Append(ctx, entry); err != nil {
		return nil, err
	}

	s.logger.Info("petty cash recorded",
		zap.String("session_id", sessionID.String()),
		zap.String("type", string(entry.Type)),
		zap.String("amount", entry.Amount.String()),
	)
	return entry, nil
}

// Close ends the session. Expected cash is derived from the authoritative
// ledgers, not the cached running totals:
//
//	expected = openingFloat + net cash from sale payments + pettyCash.in - pettyCash.out
//	discrepancy = countedCash - expected
//
// Net cash is what stayed in the drawer: overpaid cash tenders count only up
// to the sale total, the rest was handed back as change.
//
// The transition is one-way; closing an already-closed session fails with
// SessionClosed.
func (s *SessionService) Close(ctx context.Context, sessionID uuid.UUID, countedCash decimal.Decimal) (*entity.CashdeskSession, error) {
	if countedCash.IsNegative() {
		return nil, apperror.NewBadRequestError("Counted cash cannot be negative")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	if !session.IsActive() {
		return nil, apperror.ErrSessionClosed
	}

	cashSales, err := s.saleRepo.CashTotalForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	cashIn, err := s.pettyRepo.SumByType(ctx, sessionID, enum.PettyCashIn)
	if err != nil {
		return nil, err
	}
	cashOut, err := s.pettyRepo.SumByType(ctx, sessionID, enum.PettyCashOut)
	if err != nil {
		return nil, err
	}

	expected := money.Round2(session.OpeningFloat.Add(cashSales).Add(cashIn).Sub(cashOut))
	counted := money.Round2(countedCash)
	discrepancy := counted.Sub(expected)

	ok, err := s.sessionRepo.Close(ctx, sessionID, counted, expected, discrepancy, time.Now())
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race against a concurrent close.
		return nil, apperror.ErrSessionClosed
	}

	s.logger.Info("session closed",
		zap.String("session_id", sessionID.String()),
		zap.String("expected_cash", expected.String()),
		zap.String("counted_cash", counted.String()),
		zap.String("discrepancy", discrepancy.String()),
	)

	return s.sessionRepo.GetWithMovements(ctx, sessionID)
}

// DeriveTotals recomputes the session totals from the sales ledger. The
// cached TotalSales/TransactionCount columns must always agree with this.
func (s *SessionService) DeriveTotals(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, int64, error) {
	return s.saleRepo.TotalForSession(ctx, sessionID)
}

// List lists sessions with filtering
func (s *SessionService) List(ctx context.Context, params *repository.SessionFilterParams) (*pagination.PaginatedResult[entity.CashdeskSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}
