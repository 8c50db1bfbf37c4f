package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"go.uber.org/zap"
)

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*entity.CashdeskSession
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*entity.CashdeskSession)}
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.CashdeskSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	r.sessions[session.ID] = session
	return nil
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.CashdeskSession, error) {
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) GetWithMovements(_ context.Context, id uuid.UUID) (*entity.CashdeskSession, error) {
	return r.sessions[id], nil
}

func (r *fakeSessionRepo) GetActiveByCashier(_ context.Context, cashierID uuid.UUID) (*entity.CashdeskSession, error) {
	for _, s := range r.sessions {
		if s.CashierID == cashierID && s.Status == enum.SessionStatusActive {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) AccumulateSale(_ context.Context, sessionID uuid.UUID, saleTotal decimal.Decimal) (bool, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != enum.SessionStatusActive {
		return false, nil
	}
	s.TotalSales = s.TotalSales.Add(saleTotal)
	s.TransactionCount++
	return true, nil
}

func (r *fakeSessionRepo) CompensateSale(_ context.Context, sessionID uuid.UUID, saleTotal decimal.Decimal) (bool, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != enum.SessionStatusActive {
		return false, nil
	}
	s.TotalSales = s.TotalSales.Sub(saleTotal)
	s.TransactionCount--
	return true, nil
}

func (r *fakeSessionRepo) Close(_ context.Context, sessionID uuid.UUID, closingCash, expectedCash, discrepancy decimal.Decimal, endTime time.Time) (bool, error) {
	s, ok := r.sessions[sessionID]
	if !ok || s.Status != enum.SessionStatusActive {
		return false, nil
	}
	s.Status = enum.SessionStatusClosed
	s.ClosingCash = &closingCash
	s.ExpectedCash = &expectedCash
	s.Discrepancy = &discrepancy
	s.EndTime = &endTime
	return true, nil
}

func (r *fakeSessionRepo) List(_ context.Context, _ *repository.SessionFilterParams) ([]entity.CashdeskSession, int64, error) {
	out := make([]entity.CashdeskSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	return out, int64(len(out)), nil
}

type fakePettyRepo struct {
	entries []entity.PettyCashTransaction
}

func (r *fakePettyRepo) Append(_ context.Context, entry *entity.PettyCashTransaction) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakePettyRepo) ListBySession(_ context.Context, sessionID uuid.UUID) ([]entity.PettyCashTransaction, error) {
	var out []entity.PettyCashTransaction
	for _, e := range r.entries {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakePettyRepo) SumByType(_ context.Context, sessionID uuid.UUID, typ enum.PettyCashType) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range r.entries {
		if e.SessionID == sessionID && e.Type == typ {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

// fakeSaleRepo only backs the reconciliation queries the session service
// needs; the rest of the contract is unused here. CashTotalForSession
// mirrors the production aggregate over the stored sales, with cashTotal as
// an extra stub amount for tests that skip creating sales.
type fakeSaleRepo struct {
	cashTotal decimal.Decimal
	saleTotal decimal.Decimal
	saleCount int64
	sale      *entity.Sale
	sales     []entity.Sale
}

func (r *fakeSaleRepo) Create(_ context.Context, sale *entity.Sale) error {
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.sale = sale
	r.sales = append(r.sales, *sale)
	return nil
}
func (r *fakeSaleRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.Sale, error) {
	return r.sale, nil
}
func (r *fakeSaleRepo) GetWithDetails(_ context.Context, _ uuid.UUID) (*entity.Sale, error) {
	return r.sale, nil
}
func (r *fakeSaleRepo) GetByTransactionID(_ context.Context, _ string) (*entity.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) ListBySession(_ context.Context, _ uuid.UUID) ([]entity.Sale, error) {
	return nil, nil
}
func (r *fakeSaleRepo) List(_ context.Context, _ *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return nil, 0, nil
}
func (r *fakeSaleRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ enum.SaleStatus) error {
	return nil
}
func (r *fakeSaleRepo) CashTotalForSession(_ context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	total := r.cashTotal
	for _, s := range r.sales {
		if s.SessionID != sessionID {
			continue
		}
		cash, noncash := decimal.Zero, decimal.Zero
		for _, p := range s.Payments {
			if p.Type == enum.PaymentTypeCash {
				cash = cash.Add(p.Amount)
			} else {
				noncash = noncash.Add(p.Amount)
			}
		}
		total = total.Add(decimal.Min(cash, s.Total.Sub(noncash)))
	}
	return total, nil
}
func (r *fakeSaleRepo) TotalForSession(_ context.Context, _ uuid.UUID) (decimal.Decimal, int64, error) {
	return r.saleTotal, r.saleCount, nil
}

func testCashier() *entity.User {
	return &entity.User{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		FirstName:      "Alice",
		LastName:       "Mwangi",
		Role:           entity.RoleCashier,
	}
}

func newSessionServiceForTest() (*SessionService, *fakeSessionRepo, *fakePettyRepo, *fakeSaleRepo) {
	sessionRepo := newFakeSessionRepo()
	pettyRepo := &fakePettyRepo{}
	saleRepo := &fakeSaleRepo{cashTotal: decimal.Zero}
	svc := NewSessionService(sessionRepo, pettyRepo, saleRepo, zap.NewNop())
	return svc, sessionRepo, pettyRepo, saleRepo
}

func TestOpenSession(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	cashier := testCashier()

	session, err := svc.Open(context.Background(), cashier, dec("1000.005"))
	require.NoError(t, err)

	assert.Equal(t, cashier.ID, session.CashierID)
	assert.Equal(t, "Alice Mwangi", session.CashierName)
	assert.Equal(t, enum.SessionStatusActive, session.Status)
	assert.True(t, session.OpeningFloat.Equal(dec("1000.01")), "float %s", session.OpeningFloat)
	assert.True(t, session.TotalSales.IsZero())
	assert.Zero(t, session.TransactionCount)
}

func TestOpenSessionConflict(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	cashier := testCashier()

	_, err := svc.Open(context.Background(), cashier, dec("500.00"))
	require.NoError(t, err)

	_, err = svc.Open(context.Background(), cashier, dec("500.00"))
	assert.ErrorIs(t, err, apperror.ErrSessionConflict)

	// A different cashier is unaffected.
	_, err = svc.Open(context.Background(), testCashier(), dec("500.00"))
	assert.NoError(t, err)
}

func TestOpenSessionNegativeFloat(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	_, err := svc.Open(context.Background(), testCashier(), dec("-1.00"))
	assert.Error(t, err)
}

func TestRecordSale(t *testing.T) {
	svc, sessionRepo, _, _ := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("100.00"))
	require.NoError(t, err)

	sale := &entity.Sale{
		ID:        uuid.New(),
		SessionID: session.ID,
		Total:     dec("42.50"),
		Status:    enum.SaleStatusCompleted,
	}
	require.NoError(t, svc.RecordSale(context.Background(), session.ID, sale))

	stored := sessionRepo.sessions[session.ID]
	assert.True(t, stored.TotalSales.Equal(dec("42.50")))
	assert.Equal(t, 1, stored.TransactionCount)

	// A sale stamped with another session never folds in here.
	sale.SessionID = uuid.New()
	assert.Error(t, svc.RecordSale(context.Background(), session.ID, sale))

	// Only completed sales count.
	sale.SessionID = session.ID
	sale.Status = enum.SaleStatusRefunded
	assert.Error(t, svc.RecordSale(context.Background(), session.ID, sale))
}

func TestCachedTotalsMatchLedger(t *testing.T) {
	svc, sessionRepo, _, saleRepo := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("100.00"))
	require.NoError(t, err)

	totals := []string{"10.00", "25.50", "7.99"}
	ledgerTotal := decimal.Zero
	for _, total := range totals {
		sale := &entity.Sale{
			ID:        uuid.New(),
			SessionID: session.ID,
			Total:     dec(total),
			Status:    enum.SaleStatusCompleted,
		}
		require.NoError(t, svc.RecordSale(context.Background(), session.ID, sale))
		ledgerTotal = ledgerTotal.Add(sale.Total)
	}
	saleRepo.saleTotal = ledgerTotal
	saleRepo.saleCount = int64(len(totals))

	derivedTotal, derivedCount, err := svc.DeriveTotals(context.Background(), session.ID)
	require.NoError(t, err)

	cached := sessionRepo.sessions[session.ID]
	assert.True(t, cached.TotalSales.Equal(derivedTotal),
		"cached %s, ledger %s", cached.TotalSales, derivedTotal)
	assert.Equal(t, int64(cached.TransactionCount), derivedCount)
}

func TestRecordSaleOnClosedSession(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("100.00"))
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID, dec("100.00"))
	require.NoError(t, err)

	sale := &entity.Sale{SessionID: session.ID, Total: dec("10.00"), Status: enum.SaleStatusCompleted}
	err = svc.RecordSale(context.Background(), session.ID, sale)
	assert.ErrorIs(t, err, apperror.ErrSessionClosed)
}

func TestRecordPettyCash(t *testing.T) {
	svc, _, pettyRepo, _ := newSessionServiceForTest()
	cashier := testCashier()
	session, err := svc.Open(context.Background(), cashier, dec("100.00"))
	require.NoError(t, err)

	entry, err := svc.RecordPettyCash(context.Background(), session.ID, cashier.ID, &PettyCashInput{
		Amount:      dec("25.555"),
		Description: "courier fee",
		Type:        enum.PettyCashOut,
	})
	require.NoError(t, err)
	assert.True(t, entry.Amount.Equal(dec("25.56")), "amount %s", entry.Amount)
	assert.Len(t, pettyRepo.entries, 1)

	// Validation failures never reach the ledger.
	_, err = svc.RecordPettyCash(context.Background(), session.ID, cashier.ID, &PettyCashInput{
		Amount: dec("0"), Description: "x", Type: enum.PettyCashIn,
	})
	assert.Error(t, err)
	_, err = svc.RecordPettyCash(context.Background(), session.ID, cashier.ID, &PettyCashInput{
		Amount: dec("5.00"), Description: "x", Type: "sideways",
	})
	assert.Error(t, err)
	_, err = svc.RecordPettyCash(context.Background(), session.ID, cashier.ID, &PettyCashInput{
		Amount: dec("5.00"), Description: "", Type: enum.PettyCashIn,
	})
	assert.Error(t, err)
	assert.Len(t, pettyRepo.entries, 1)
}

func TestRecordPettyCashOnClosedSession(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	cashier := testCashier()
	session, err := svc.Open(context.Background(), cashier, dec("100.00"))
	require.NoError(t, err)
	_, err = svc.Close(context.Background(), session.ID, dec("100.00"))
	require.NoError(t, err)

	_, err = svc.RecordPettyCash(context.Background(), session.ID, cashier.ID, &PettyCashInput{
		Amount: dec("5.00"), Description: "late entry", Type: enum.PettyCashIn,
	})
	assert.ErrorIs(t, err, apperror.ErrSessionClosed)
}

func TestCloseSessionReconciliation(t *testing.T) {
	svc, _, _, saleRepo := newSessionServiceForTest()
	cashier := testCashier()
	session, err := svc.Open(context.Background(), cashier, dec("5000.00"))
	require.NoError(t, err)

	saleRepo.cashTotal = dec("1200.00")
	_, err = svc.RecordPettyCash(context.Background(), session.ID, cashier.ID, &PettyCashInput{
		Amount: dec("300.00"), Description: "supplier COD", Type: enum.PettyCashOut,
	})
	require.NoError(t, err)

	// expected = 5000 + 1200 - 300 = 5900
	closed, err := svc.Close(context.Background(), session.ID, dec("5900.00"))
	require.NoError(t, err)

	require.NotNil(t, closed.ExpectedCash)
	require.NotNil(t, closed.Discrepancy)
	assert.True(t, closed.ExpectedCash.Equal(dec("5900.00")), "expected %s", closed.ExpectedCash)
	assert.True(t, closed.Discrepancy.IsZero(), "discrepancy %s", closed.Discrepancy)
	assert.Equal(t, enum.SessionStatusClosed, closed.Status)
	assert.NotNil(t, closed.EndTime)
}

func TestCloseSessionWithOverpaidCash(t *testing.T) {
	svc, _, _, saleRepo := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("1000.00"))
	require.NoError(t, err)

	// 50.00 sale paid with 60.00 cash: 10.00 left the drawer as change.
	overpaid := &entity.Sale{
		SessionID: session.ID,
		Total:     dec("50.00"),
		Status:    enum.SaleStatusCompleted,
		Payments: []entity.PaymentMethod{
			{Type: enum.PaymentTypeCash, Amount: dec("60.00")},
		},
	}
	require.NoError(t, saleRepo.Create(context.Background(), overpaid))
	require.NoError(t, svc.RecordSale(context.Background(), session.ID, overpaid))

	// Split tender: card 30.00 plus cash 30.00 on 50.00 keeps only 20.00.
	split := &entity.Sale{
		SessionID: session.ID,
		Total:     dec("50.00"),
		Status:    enum.SaleStatusCompleted,
		Payments: []entity.PaymentMethod{
			{Type: enum.PaymentTypeCard, Amount: dec("30.00")},
			{Type: enum.PaymentTypeCash, Amount: dec("30.00")},
		},
	}
	require.NoError(t, saleRepo.Create(context.Background(), split))
	require.NoError(t, svc.RecordSale(context.Background(), session.ID, split))

	// Drawer holds 1000 + 50 + 20 = 1070, not the 1090 tendered.
	closed, err := svc.Close(context.Background(), session.ID, dec("1070.00"))
	require.NoError(t, err)

	require.NotNil(t, closed.ExpectedCash)
	require.NotNil(t, closed.Discrepancy)
	assert.True(t, closed.ExpectedCash.Equal(dec("1070.00")), "expected %s", closed.ExpectedCash)
	assert.True(t, closed.Discrepancy.IsZero(), "discrepancy %s", closed.Discrepancy)
}

func TestCloseSessionShortfall(t *testing.T) {
	svc, _, _, saleRepo := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("1000.00"))
	require.NoError(t, err)
	saleRepo.cashTotal = dec("500.00")

	closed, err := svc.Close(context.Background(), session.ID, dec("1480.00"))
	require.NoError(t, err)

	require.NotNil(t, closed.Discrepancy)
	assert.True(t, closed.Discrepancy.Equal(dec("-20.00")), "discrepancy %s", closed.Discrepancy)
}

func TestCloseSessionTwice(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("100.00"))
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID, dec("100.00"))
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID, dec("100.00"))
	assert.ErrorIs(t, err, apperror.ErrSessionClosed)
}

func TestCloseSessionNegativeCounted(t *testing.T) {
	svc, _, _, _ := newSessionServiceForTest()
	session, err := svc.Open(context.Background(), testCashier(), dec("100.00"))
	require.NoError(t, err)

	_, err = svc.Close(context.Background(), session.ID, dec("-1.00"))
	assert.Error(t, err)
}
