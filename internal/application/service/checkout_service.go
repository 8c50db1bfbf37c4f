package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"go.uber.org/zap"
)

// CheckoutService orchestrates the full cash-desk flow: stage a cart from
// catalog snapshots, price it, settle the tendered payments, decrement
// stock and record the sale into the active session.
type CheckoutService struct {
	productRepo  repository.ProductRepository
	saleRepo     repository.SaleRepository
	discountRepo repository.DiscountRepository
	customerRepo repository.CustomerRepository
	sessions     *SessionService
	pricing      *PricingService
	payments     *PaymentService
	taxRate      decimal.Decimal
	logger       *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	discountRepo repository.DiscountRepository,
	customerRepo repository.CustomerRepository,
	sessions *SessionService,
	pricing *PricingService,
	payments *PaymentService,
	taxRate decimal.Decimal,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		productRepo:  productRepo,
		saleRepo:     saleRepo,
		discountRepo: discountRepo,
		customerRepo: customerRepo,
		sessions:     sessions,
		pricing:      pricing,
		payments:     payments,
		taxRate:      taxRate,
		logger:       logger,
	}
}

// CheckoutItemInput represents one requested line
type CheckoutItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// PaymentInput represents one tendered payment
type PaymentInput struct {
	Type           enum.PaymentType
	Amount         decimal.Decimal
	Reference      *string
	CardLastFour   *string
	WalletProvider *string
}

// CheckoutInput represents the checkout request
type CheckoutInput struct {
	SessionID  uuid.UUID
	CustomerID *uuid.UUID
	Items      []CheckoutItemInput
	Payments   []PaymentInput
}

// CheckoutResult carries the persisted sale and the change due to the
// customer. Change is receipt-only and never stored.
type CheckoutResult struct {
	Sale   *entity.Sale    `json:"sale"`
	Change decimal.Decimal `json:"change"`
}

// Checkout runs one sale end to end. The operation either completes or
// fails atomically: stock decrements and session totals are compensated
// when a later step fails, and no partial sale is ever persisted.
func (s *CheckoutService) Checkout(ctx context.Context, input *CheckoutInput) (*CheckoutResult, error) {
	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("At least one item is required")
	}

	session, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsActive() {
		return nil, apperror.ErrSessionClosed
	}

	var customer *entity.Customer
	if input.CustomerID != nil {
		customer, err = s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}

	// Batch fetch all products in one query (prevents N+1)
	productIDs := make([]uuid.UUID, len(input.Items))
	for i, item := range input.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	// Stage the cart against stock snapshots. Availability violations
	// surface here as InsufficientStock before anything is persisted.
	cart := entity.NewCart()
	stockDecrements := make(map[uuid.UUID]int)
	for _, item := range input.Items {
		product, exists := productMap[item.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}
		if err := cart.AddItem(entity.CartItem{
			ProductID:   product.ID,
			SKU:         product.SKU,
			ProductName: product.Name,
			UnitPrice:   product.SellingPrice,
			Quantity:    item.Quantity,
			Available:   product.Quantity,
		}); err != nil {
			return nil, err
		}
		stockDecrements[product.ID] += item.Quantity
	}

	discounts, err := s.discountRepo.ListActiveAutomatic(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := s.pricing.Finalize(cart, discounts, s.taxRate, customer)
	if err != nil {
		return nil, err
	}

	payments := make([]entity.PaymentMethod, len(input.Payments))
	for i, p := range input.Payments {
		payments[i] = entity.PaymentMethod{
			Type:           p.Type,
			Amount:         p.Amount,
			Reference:      p.Reference,
			CardLastFour:   p.CardLastFour,
			WalletProvider: p.WalletProvider,
		}
	}
	change, err := s.payments.Settle(sale, payments)
	if err != nil {
		return nil, err
	}

	sale.OrganizationID = session.OrganizationID
	sale.SessionID = session.ID
	sale.CashierID = session.CashierID
	sale.CashierName = session.CashierName

	// Atomically decrement stock; any shortfall fails the whole batch.
	failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, stockDecrements)
	if err != nil {
		return nil, err
	}
	if len(failedIDs) > 0 {
		var failedNames []string
		for _, id := range failedIDs {
			if product, exists := productMap[id]; exists {
				failedNames = append(failedNames, product.Name)
			}
		}
		s.logger.Warn("checkout rejected on stock", zap.Strings("products", failedNames))
		return nil, apperror.ErrInsufficientStock
	}

	// Fold the sale into the session totals before persisting the sale, so
	// a session closed from a concurrent request can never end up owning a
	// sale it did not account for. The guarded update fails on a closed
	// session and everything is compensated.
	if err := s.sessions.RecordSale(ctx, session.ID, sale); err != nil {
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	if err := s.saleRepo.Create(ctx, sale); err != nil {
		_, _ = s.sessions.sessionRepo.CompensateSale(ctx, session.ID, sale.Total)
		_ = s.productRepo.AtomicIncrementBatch(ctx, stockDecrements)
		return nil, err
	}

	s.logger.Info("checkout completed",
		zap.String("sale_id", sale.ID.String()),
		zap.String("session_id", session.ID.String()),
		zap.String("total", sale.Total.String()),
		zap.String("change", change.String()),
	)

	persisted, err := s.saleRepo.GetWithDetails(ctx, sale.ID)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Sale: persisted, Change: change}, nil
}

// GetSale retrieves a sale with its items and payments
func (s *CheckoutService) GetSale(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// UpdateSaleStatus applies the refund status transition to a sale. Session
// totals remain a historical ledger of what was recorded at sale time;
// refund accounting is deliberately not reconciled back into them.
func (s *CheckoutService) UpdateSaleStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if status != enum.SaleStatusRefunded && status != enum.SaleStatusPartialRefund {
		return nil, apperror.NewBadRequestError("Sales can only transition to refunded or partial_refund")
	}
	if sale.Status != enum.SaleStatusCompleted {
		return nil, apperror.NewBadRequestError("Only completed sales can be refunded")
	}

	if err := s.saleRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, id)
}

// ListSales lists sales with filtering
func (s *CheckoutService) ListSales(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return s.saleRepo.List(ctx, params)
}
