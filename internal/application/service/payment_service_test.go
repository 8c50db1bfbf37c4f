package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"go.uber.org/zap"
)

func saleTotaling(total string) *entity.Sale {
	return &entity.Sale{
		TransactionID: "TXN-TEST",
		Total:         dec(total),
	}
}

func tender(typ enum.PaymentType, amount string) entity.PaymentMethod {
	return entity.PaymentMethod{Type: typ, Amount: dec(amount)}
}

func TestSettleExactCash(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())
	sale := saleTotaling("50.00")

	change, err := svc.Settle(sale, []entity.PaymentMethod{tender(enum.PaymentTypeCash, "50.00")})
	require.NoError(t, err)
	assert.True(t, change.IsZero(), "change %s", change)
	assert.Equal(t, enum.SaleStatusCompleted, sale.Status)
	assert.Len(t, sale.Payments, 1)
}

func TestSettleCashOverpayReturnsChange(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())
	sale := saleTotaling("50.00")

	change, err := svc.Settle(sale, []entity.PaymentMethod{tender(enum.PaymentTypeCash, "60.00")})
	require.NoError(t, err)
	assert.True(t, change.Equal(dec("10.00")), "change %s", change)
}

func TestSettleUnderpay(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())
	sale := saleTotaling("50.00")

	_, err := svc.Settle(sale, []entity.PaymentMethod{tender(enum.PaymentTypeCash, "49.99")})
	assert.ErrorIs(t, err, apperror.ErrIncompletePayment)
	assert.Empty(t, sale.Payments)
}

func TestSettleNoPayments(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())

	_, err := svc.Settle(saleTotaling("50.00"), nil)
	assert.ErrorIs(t, err, apperror.ErrIncompletePayment)
}

func TestSettleNonCashMustMatchExactly(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())

	// A lone card tender over the total has nowhere to return change to.
	_, err := svc.Settle(saleTotaling("50.00"), []entity.PaymentMethod{tender(enum.PaymentTypeCard, "60.00")})
	assert.ErrorIs(t, err, apperror.ErrPaymentMismatch)

	// Exact card settles with zero change.
	sale := saleTotaling("50.00")
	change, err := svc.Settle(sale, []entity.PaymentMethod{tender(enum.PaymentTypeCard, "50.00")})
	require.NoError(t, err)
	assert.True(t, change.IsZero())
}

func TestSettleSplitTender(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())
	sale := saleTotaling("50.00")

	change, err := svc.Settle(sale, []entity.PaymentMethod{
		tender(enum.PaymentTypeCard, "30.00"),
		tender(enum.PaymentTypeCash, "30.00"),
	})
	require.NoError(t, err)

	// Card covers 30.00, cash owes 20.00, so 10.00 comes back.
	assert.True(t, change.Equal(dec("10.00")), "change %s", change)
	assert.Len(t, sale.Payments, 2)
}

func TestSettleNonCashOverAllocation(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())

	// Card alone exceeds the total even though cash is also present.
	_, err := svc.Settle(saleTotaling("50.00"), []entity.PaymentMethod{
		tender(enum.PaymentTypeCard, "55.00"),
		tender(enum.PaymentTypeCash, "10.00"),
	})
	assert.ErrorIs(t, err, apperror.ErrPaymentMismatch)
}

func TestSettleRejectsInvalidTenders(t *testing.T) {
	svc := NewPaymentService(zap.NewNop())

	_, err := svc.Settle(saleTotaling("50.00"), []entity.PaymentMethod{tender("iou", "50.00")})
	assert.Error(t, err)

	_, err = svc.Settle(saleTotaling("50.00"), []entity.PaymentMethod{tender(enum.PaymentTypeCash, "0")})
	assert.Error(t, err)

	_, err = svc.Settle(saleTotaling("50.00"), []entity.PaymentMethod{tender(enum.PaymentTypeCash, "-5.00")})
	assert.Error(t, err)
}

func TestChangeFor(t *testing.T) {
	sale := saleTotaling("50.00")
	sale.Payments = []entity.PaymentMethod{
		tender(enum.PaymentTypeCard, "30.00"),
		tender(enum.PaymentTypeCash, "30.00"),
	}
	assert.True(t, ChangeFor(sale).Equal(dec("10.00")))

	// Card-only settlement never produces change.
	cardOnly := saleTotaling("50.00")
	cardOnly.Payments = []entity.PaymentMethod{tender(enum.PaymentTypeCard, "50.00")}
	assert.True(t, ChangeFor(cardOnly).IsZero())
}
