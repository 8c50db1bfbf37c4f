package service

import (
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"go.uber.org/zap"
)

// PaymentService validates a set of tendered payments against a sale total
// and computes change.
type PaymentService struct {
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(logger *zap.Logger) *PaymentService {
	return &PaymentService{logger: logger}
}

// Settle validates the tendered payments against the sale total. Non-cash
// tenders must exactly match their allocated share of the total; cash may
// overpay, producing change. On success the payments are attached to the
// sale, the sale is marked completed, and the change due is returned. Change
// is surfaced to the caller only, it is never stored on the sale.
func (s *PaymentService) Settle(sale *entity.Sale, payments []entity.PaymentMethod) (decimal.Decimal, error) {
	if len(payments) == 0 {
		return decimal.Zero, apperror.ErrIncompletePayment
	}

	cashTendered := decimal.Zero
	nonCashTendered := decimal.Zero
	for _, p := range payments {
		if !p.Type.IsValid() {
			return decimal.Zero, apperror.NewBadRequestError("Unknown payment type: " + string(p.Type))
		}
		if !p.Amount.IsPositive() {
			return decimal.Zero, apperror.NewBadRequestError("Payment amount must be positive")
		}
		if p.Type.IsCash() {
			cashTendered = cashTendered.Add(p.Amount)
		} else {
			nonCashTendered = nonCashTendered.Add(p.Amount)
		}
	}

	if cashTendered.Add(nonCashTendered).LessThan(sale.Total) {
		return decimal.Zero, apperror.ErrIncompletePayment
	}

	// cashDue is the portion of the total left for cash after the non-cash
	// tenders. Non-cash tenders may never exceed their allocation.
	cashDue := sale.Total.Sub(nonCashTendered)
	if cashDue.IsNegative() {
		return decimal.Zero, apperror.ErrPaymentMismatch
	}
	if cashTendered.IsZero() && !cashDue.IsZero() {
		// No cash in the mix, so the non-cash tenders had to match exactly.
		return decimal.Zero, apperror.ErrPaymentMismatch
	}

	change := money.Round2(cashTendered.Sub(cashDue))

	sale.Payments = payments
	sale.Status = enum.SaleStatusCompleted

	s.logger.Debug("sale settled",
		zap.String("transaction_id", sale.TransactionID),
		zap.Int("tenders", len(payments)),
		zap.String("change", change.String()),
	)

	return change, nil
}

// ChangeFor recomputes the change figure for an already-settled sale, used
// by receipt building. It applies the same formula as Settle.
func ChangeFor(sale *entity.Sale) decimal.Decimal {
	cash := sale.CashTendered()
	if cash.IsZero() {
		return decimal.Zero
	}
	return money.Round2(cash.Sub(sale.Total.Sub(sale.NonCashTendered())))
}
