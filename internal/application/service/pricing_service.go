package service

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"github.com/tilldesk/tilldesk-api/pkg/utils"
	"go.uber.org/zap"
)

// PricingService turns a staged cart plus applicable discount rules into a
// finalized sale with item- and order-level totals.
type PricingService struct {
	logger *zap.Logger
}

// NewPricingService creates a new pricing service
func NewPricingService(logger *zap.Logger) *PricingService {
	return &PricingService{logger: logger}
}

// Finalize prices a cart into a Sale. For each line it selects at most one
// applicable automatic discount, the one producing the largest reduction
// (ties broken by the insertion order of the discount list), caps fixed
// discounts at the line subtotal, computes tax on the post-discount amount
// and rounds every monetary figure to two decimals at the point of
// computation. Sale-level figures are sums of the item fields.
//
// The returned sale carries no session or payment data yet; settlement and
// session recording happen downstream.
func (s *PricingService) Finalize(cart *entity.Cart, discounts []entity.SaleDiscount, taxRate decimal.Decimal, customer *entity.Customer) (*entity.Sale, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, apperror.NewBadRequestError("Cart is empty")
	}
	if taxRate.IsNegative() {
		return nil, apperror.NewBadRequestError("Tax rate cannot be negative")
	}

	cartSubtotal := cart.Subtotal()
	customerName := "walk-in"
	customerTier := entity.CustomerTierStandard
	if customer != nil {
		customerName = customer.Name
		customerTier = customer.Tier
	}

	sale := &entity.Sale{
		TransactionID: utils.GenerateTransactionNo(),
		CustomerName:  customerName,
		Subtotal:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:     decimal.Zero,
		Total:         decimal.Zero,
		CreatedAt:     time.Now(),
	}
	if customer != nil {
		sale.CustomerID = &customer.ID
	}

	for _, item := range cart.Items {
		lineSubtotal := item.TotalPrice()

		best := s.bestDiscount(item, discounts, customerTier, cartSubtotal, lineSubtotal)

		lineDiscount := decimal.Zero
		var discountType *enum.DiscountType
		if best != nil {
			lineDiscount = best.ReductionFor(lineSubtotal)
			dt := best.Type
			discountType = &dt
		}

		taxAmount := money.Round2(lineSubtotal.Sub(lineDiscount).Mul(taxRate))
		lineTotal := lineSubtotal.Sub(lineDiscount).Add(taxAmount)

		sale.Items = append(sale.Items, entity.SaleItem{
			ProductID:    item.ProductID,
			SKU:          item.SKU,
			ProductName:  item.ProductName,
			UnitPrice:    item.UnitPrice,
			Quantity:     item.Quantity,
			Subtotal:     lineSubtotal,
			Discount:     lineDiscount,
			DiscountType: discountType,
			TaxRate:      taxRate,
			TaxAmount:    taxAmount,
			Total:        lineTotal,
		})

		sale.Subtotal = sale.Subtotal.Add(lineSubtotal)
		sale.DiscountAmount = sale.DiscountAmount.Add(lineDiscount)
		sale.TaxAmount = sale.TaxAmount.Add(taxAmount)
		sale.Total = sale.Total.Add(lineTotal)
	}

	s.logger.Debug("cart finalized",
		zap.String("transaction_id", sale.TransactionID),
		zap.Int("lines", len(sale.Items)),
		zap.String("total", sale.Total.String()),
	)

	return sale, nil
}

// bestDiscount returns the eligible automatic discount with the largest
// resulting reduction for the line, or nil. A strictly-greater comparison
// keeps the earliest rule on ties.
func (s *PricingService) bestDiscount(item entity.CartItem, discounts []entity.SaleDiscount, customerTier string, cartSubtotal, lineSubtotal decimal.Decimal) *entity.SaleDiscount {
	var best *entity.SaleDiscount
	bestReduction := decimal.Zero

	for idx := range discounts {
		d := &discounts[idx]
		if !d.Automatic || !d.Active {
			continue
		}
		if !d.EligibleFor(item.ProductID, customerTier, cartSubtotal) {
			continue
		}
		reduction := d.ReductionFor(lineSubtotal)
		if reduction.GreaterThan(bestReduction) {
			best = d
			bestReduction = reduction
		}
	}

	return best
}
