package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
	"go.uber.org/zap"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySKU(_ context.Context, _ string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) GetLowStock(_ context.Context, _ *pagination.PaginationParams) ([]entity.Product, int64, error) {
	return nil, 0, nil
}

func (r *fakeProductRepo) AtomicDecrementBatch(_ context.Context, decrements map[uuid.UUID]int) ([]uuid.UUID, error) {
	var failed []uuid.UUID
	for id, amount := range decrements {
		p, ok := r.products[id]
		if !ok || p.Quantity < amount {
			failed = append(failed, id)
		}
	}
	if len(failed) > 0 {
		return failed, nil
	}
	for id, amount := range decrements {
		r.products[id].Quantity -= amount
	}
	return nil, nil
}

func (r *fakeProductRepo) AtomicIncrementBatch(_ context.Context, increments map[uuid.UUID]int) error {
	for id, amount := range increments {
		if p, ok := r.products[id]; ok {
			p.Quantity += amount
		}
	}
	return nil
}

type fakeDiscountRepo struct {
	discounts []entity.SaleDiscount
}

func (r *fakeDiscountRepo) Create(_ context.Context, d *entity.SaleDiscount) error {
	r.discounts = append(r.discounts, *d)
	return nil
}

func (r *fakeDiscountRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.SaleDiscount, error) {
	return nil, nil
}

func (r *fakeDiscountRepo) ListActiveAutomatic(_ context.Context) ([]entity.SaleDiscount, error) {
	var out []entity.SaleDiscount
	for _, d := range r.discounts {
		if d.Automatic && d.Active {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDiscountRepo) List(_ context.Context, _ *pagination.PaginationParams) ([]entity.SaleDiscount, int64, error) {
	return r.discounts, int64(len(r.discounts)), nil
}

type fakeCustomerRepo struct {
	customers map[uuid.UUID]*entity.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.customers[c.ID] = c
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return r.customers[id], nil
}

func (r *fakeCustomerRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

// failingSaleRepo wraps the fake and fails Create, for compensation tests.
type failingSaleRepo struct {
	fakeSaleRepo
}

func (r *failingSaleRepo) Create(_ context.Context, _ *entity.Sale) error {
	return errors.New("connection reset")
}

type checkoutFixture struct {
	svc         *CheckoutService
	session     *entity.CashdeskSession
	sessionRepo *fakeSessionRepo
	productRepo *fakeProductRepo
	saleRepo    repository.SaleRepository
	discounts   *fakeDiscountRepo
}

func newCheckoutFixture(t *testing.T, saleRepo repository.SaleRepository, products ...*entity.Product) *checkoutFixture {
	t.Helper()

	sessionRepo := newFakeSessionRepo()
	pettyRepo := &fakePettyRepo{}
	sessions := NewSessionService(sessionRepo, pettyRepo, saleRepo, zap.NewNop())

	session, err := sessions.Open(context.Background(), testCashier(), dec("1000.00"))
	require.NoError(t, err)

	productRepo := newFakeProductRepo(products...)
	discounts := &fakeDiscountRepo{}
	customers := &fakeCustomerRepo{customers: make(map[uuid.UUID]*entity.Customer)}

	svc := NewCheckoutService(
		productRepo, saleRepo, discounts, customers,
		sessions, NewPricingService(zap.NewNop()), NewPaymentService(zap.NewNop()),
		dec("0.16"), zap.NewNop(),
	)

	return &checkoutFixture{
		svc:         svc,
		session:     session,
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		saleRepo:    saleRepo,
		discounts:   discounts,
	}
}

func catalogProduct(name, price string, stock int) *entity.Product {
	return &entity.Product{
		ID:           uuid.New(),
		SKU:          "SKU-" + name,
		Name:         name,
		SellingPrice: dec(price),
		Quantity:     stock,
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 5)
	fix := newCheckoutFixture(t, &fakeSaleRepo{}, product)

	result, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("30.00")}},
	})
	require.NoError(t, err)

	// 20.00 + 16% tax = 23.20, cash 30.00 back 6.80
	sale := result.Sale
	assert.True(t, sale.Total.Equal(dec("23.20")), "total %s", sale.Total)
	assert.True(t, result.Change.Equal(dec("6.80")), "change %s", result.Change)
	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.Equal(t, fix.session.ID, sale.SessionID)
	assert.Equal(t, fix.session.CashierID, sale.CashierID)

	// Stock decremented, session totals folded in.
	assert.Equal(t, 3, fix.productRepo.products[product.ID].Quantity)
	stored := fix.sessionRepo.sessions[fix.session.ID]
	assert.True(t, stored.TotalSales.Equal(dec("23.20")))
	assert.Equal(t, 1, stored.TransactionCount)
}

func TestCheckoutAppliesAutomaticDiscount(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 5)
	fix := newCheckoutFixture(t, &fakeSaleRepo{}, product)
	fix.discounts.discounts = []entity.SaleDiscount{percentDiscount("10% off", "10")}

	result, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("20.88")}},
	})
	require.NoError(t, err)

	// 20.00 - 2.00 = 18.00, tax 2.88, total 20.88
	assert.True(t, result.Sale.DiscountAmount.Equal(dec("2.00")))
	assert.True(t, result.Sale.Total.Equal(dec("20.88")), "total %s", result.Sale.Total)
	assert.True(t, result.Change.IsZero())
}

func TestCheckoutInsufficientStock(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 1)
	fix := newCheckoutFixture(t, &fakeSaleRepo{}, product)

	_, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("50.00")}},
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	// Nothing was touched.
	assert.Equal(t, 1, fix.productRepo.products[product.ID].Quantity)
	assert.Zero(t, fix.sessionRepo.sessions[fix.session.ID].TransactionCount)
}

func TestCheckoutUnknownProduct(t *testing.T) {
	fix := newCheckoutFixture(t, &fakeSaleRepo{})

	_, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: uuid.New(), Quantity: 1}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("10.00")}},
	})
	assert.Error(t, err)
}

func TestCheckoutUnderpaidRejected(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 5)
	fix := newCheckoutFixture(t, &fakeSaleRepo{}, product)

	_, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 1}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("5.00")}},
	})
	assert.ErrorIs(t, err, apperror.ErrIncompletePayment)
	assert.Equal(t, 5, fix.productRepo.products[product.ID].Quantity)
}

func TestCheckoutOnClosedSession(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 5)
	fix := newCheckoutFixture(t, &fakeSaleRepo{}, product)

	// Close out from under the checkout.
	fix.sessionRepo.sessions[fix.session.ID].Status = enum.SessionStatusClosed

	_, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 1}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("20.00")}},
	})
	assert.ErrorIs(t, err, apperror.ErrSessionClosed)
}

func TestCheckoutCompensatesFailedPersist(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 5)
	fix := newCheckoutFixture(t, &failingSaleRepo{}, product)

	_, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 2}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("30.00")}},
	})
	require.Error(t, err)

	// Stock restored and session totals rolled back to zero, the
	// transaction count included.
	assert.Equal(t, 5, fix.productRepo.products[product.ID].Quantity)
	stored := fix.sessionRepo.sessions[fix.session.ID]
	assert.True(t, stored.TotalSales.IsZero(), "totals %s", stored.TotalSales)
	assert.Zero(t, stored.TransactionCount)
}

func TestUpdateSaleStatusTransitions(t *testing.T) {
	product := catalogProduct("Widget", "10.00", 5)
	saleRepo := &fakeSaleRepo{}
	fix := newCheckoutFixture(t, saleRepo, product)

	result, err := fix.svc.Checkout(context.Background(), &CheckoutInput{
		SessionID: fix.session.ID,
		Items:     []CheckoutItemInput{{ProductID: product.ID, Quantity: 1}},
		Payments:  []PaymentInput{{Type: enum.PaymentTypeCash, Amount: dec("11.60")}},
	})
	require.NoError(t, err)

	totalsBefore := fix.sessionRepo.sessions[fix.session.ID].TotalSales

	_, err = fix.svc.UpdateSaleStatus(context.Background(), result.Sale.ID, enum.SaleStatusRefunded)
	require.NoError(t, err)

	// Refunds never rewrite session history.
	assert.True(t, fix.sessionRepo.sessions[fix.session.ID].TotalSales.Equal(totalsBefore))

	// Completed is not a valid transition target.
	_, err = fix.svc.UpdateSaleStatus(context.Background(), result.Sale.ID, enum.SaleStatusCompleted)
	assert.Error(t, err)
}

