package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"go.uber.org/zap"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func cartWith(items ...entity.CartItem) *entity.Cart {
	cart := entity.NewCart()
	for _, item := range items {
		if err := cart.AddItem(item); err != nil {
			panic(err)
		}
	}
	return cart
}

func cartLine(price string, qty int) entity.CartItem {
	return entity.CartItem{
		ProductID:   uuid.New(),
		SKU:         "SKU-TEST",
		ProductName: "Test Product",
		UnitPrice:   dec(price),
		Quantity:    qty,
		Available:   1000,
	}
}

func percentDiscount(name, pct string) entity.SaleDiscount {
	return entity.SaleDiscount{
		ID:        uuid.New(),
		Name:      name,
		Type:      enum.DiscountTypePercentage,
		Value:     dec(pct),
		Automatic: true,
		Active:    true,
	}
}

func fixedDiscount(name, amount string) entity.SaleDiscount {
	return entity.SaleDiscount{
		ID:        uuid.New(),
		Name:      name,
		Type:      enum.DiscountTypeFixed,
		Value:     dec(amount),
		Automatic: true,
		Active:    true,
	}
}

func TestFinalizeEmptyCart(t *testing.T) {
	svc := NewPricingService(zap.NewNop())

	_, err := svc.Finalize(entity.NewCart(), nil, dec("0.16"), nil)
	assert.Error(t, err)

	_, err = svc.Finalize(nil, nil, dec("0.16"), nil)
	assert.Error(t, err)
}

func TestFinalizeNegativeTaxRate(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	_, err := svc.Finalize(cartWith(cartLine("10.00", 1)), nil, dec("-0.01"), nil)
	assert.Error(t, err)
}

func TestFinalizeNoDiscounts(t *testing.T) {
	svc := NewPricingService(zap.NewNop())

	sale, err := svc.Finalize(cartWith(cartLine("10.00", 2)), nil, dec("0.16"), nil)
	require.NoError(t, err)

	require.Len(t, sale.Items, 1)
	assert.True(t, sale.Subtotal.Equal(dec("20.00")), "subtotal %s", sale.Subtotal)
	assert.True(t, sale.DiscountAmount.IsZero())
	assert.True(t, sale.TaxAmount.Equal(dec("3.20")), "tax %s", sale.TaxAmount)
	assert.True(t, sale.Total.Equal(dec("23.20")), "total %s", sale.Total)
	assert.Equal(t, "walk-in", sale.CustomerName)
	assert.NotEmpty(t, sale.TransactionID)
}

func TestFinalizePercentageDiscount(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	discounts := []entity.SaleDiscount{percentDiscount("10% off", "10")}

	sale, err := svc.Finalize(cartWith(cartLine("10.00", 2)), discounts, dec("0.16"), nil)
	require.NoError(t, err)

	// 20.00 - 2.00 = 18.00 taxed at 16% = 2.88
	assert.True(t, sale.DiscountAmount.Equal(dec("2.00")), "discount %s", sale.DiscountAmount)
	assert.True(t, sale.TaxAmount.Equal(dec("2.88")), "tax %s", sale.TaxAmount)
	assert.True(t, sale.Total.Equal(dec("20.88")), "total %s", sale.Total)
	require.NotNil(t, sale.Items[0].DiscountType)
	assert.Equal(t, enum.DiscountTypePercentage, *sale.Items[0].DiscountType)
}

func TestFinalizeFixedDiscountCappedAtLine(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	discounts := []entity.SaleDiscount{fixedDiscount("big fixed", "50.00")}

	sale, err := svc.Finalize(cartWith(cartLine("4.00", 3)), discounts, dec("0.16"), nil)
	require.NoError(t, err)

	// Line subtotal 12.00 caps the 50.00 reduction; the line nets to zero.
	assert.True(t, sale.DiscountAmount.Equal(dec("12.00")), "discount %s", sale.DiscountAmount)
	assert.True(t, sale.TaxAmount.IsZero(), "tax %s", sale.TaxAmount)
	assert.True(t, sale.Total.IsZero(), "total %s", sale.Total)
}

func TestFinalizeMinOrderValueBoundary(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	min := dec("100.00")
	d := percentDiscount("min-100", "10")
	d.MinOrderValue = &min
	discounts := []entity.SaleDiscount{d}

	// Cart subtotal 99.99 stays strictly below the threshold.
	sale, err := svc.Finalize(cartWith(cartLine("99.99", 1)), discounts, decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, sale.DiscountAmount.IsZero(), "discount %s", sale.DiscountAmount)

	// Exactly at the threshold it applies.
	sale, err = svc.Finalize(cartWith(cartLine("100.00", 1)), discounts, decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, sale.DiscountAmount.Equal(dec("10.00")), "discount %s", sale.DiscountAmount)
}

func TestFinalizeBestDiscountWins(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	discounts := []entity.SaleDiscount{
		percentDiscount("5% off", "5"),
		percentDiscount("20% off", "20"),
		fixedDiscount("3 off", "3.00"),
	}

	sale, err := svc.Finalize(cartWith(cartLine("50.00", 1)), discounts, decimal.Zero, nil)
	require.NoError(t, err)

	// 20% of 50.00 beats both 2.50 and 3.00.
	assert.True(t, sale.DiscountAmount.Equal(dec("10.00")), "discount %s", sale.DiscountAmount)
}

func TestFinalizeTieKeepsEarliestDiscount(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	discounts := []entity.SaleDiscount{
		fixedDiscount("first", "5.00"),
		percentDiscount("second", "10"),
	}

	// Both reduce a 50.00 line by exactly 5.00; insertion order decides.
	sale, err := svc.Finalize(cartWith(cartLine("50.00", 1)), discounts, decimal.Zero, nil)
	require.NoError(t, err)

	assert.True(t, sale.DiscountAmount.Equal(dec("5.00")))
	require.NotNil(t, sale.Items[0].DiscountType)
	assert.Equal(t, enum.DiscountTypeFixed, *sale.Items[0].DiscountType)
}

func TestFinalizeTierRestriction(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	d := percentDiscount("gold only", "10")
	d.CustomerTiers = []string{entity.CustomerTierGold}
	discounts := []entity.SaleDiscount{d}

	// A walk-in customer prices at the standard tier.
	sale, err := svc.Finalize(cartWith(cartLine("50.00", 1)), discounts, decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, sale.DiscountAmount.IsZero())

	gold := &entity.Customer{ID: uuid.New(), Name: "Jane", Tier: entity.CustomerTierGold}
	sale, err = svc.Finalize(cartWith(cartLine("50.00", 1)), discounts, decimal.Zero, gold)
	require.NoError(t, err)
	assert.True(t, sale.DiscountAmount.Equal(dec("5.00")))
	assert.Equal(t, "Jane", sale.CustomerName)
	require.NotNil(t, sale.CustomerID)
	assert.Equal(t, gold.ID, *sale.CustomerID)
}

func TestFinalizeProductRestriction(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	lineA := cartLine("10.00", 1)
	lineB := cartLine("10.00", 1)

	d := percentDiscount("only A", "50")
	d.ApplicableProducts = []uuid.UUID{lineA.ProductID}

	sale, err := svc.Finalize(cartWith(lineA, lineB), []entity.SaleDiscount{d}, decimal.Zero, nil)
	require.NoError(t, err)

	assert.True(t, sale.DiscountAmount.Equal(dec("5.00")), "discount %s", sale.DiscountAmount)
	assert.True(t, sale.Items[0].Discount.Equal(dec("5.00")))
	assert.True(t, sale.Items[1].Discount.IsZero())
}

func TestFinalizeInactiveAndManualDiscountsIgnored(t *testing.T) {
	svc := NewPricingService(zap.NewNop())

	inactive := percentDiscount("inactive", "10")
	inactive.Active = false
	manual := percentDiscount("manual", "10")
	manual.Automatic = false

	sale, err := svc.Finalize(cartWith(cartLine("50.00", 1)), []entity.SaleDiscount{inactive, manual}, decimal.Zero, nil)
	require.NoError(t, err)
	assert.True(t, sale.DiscountAmount.IsZero())
}

func TestFinalizeTotalsInvariant(t *testing.T) {
	svc := NewPricingService(zap.NewNop())
	discounts := []entity.SaleDiscount{percentDiscount("7% off", "7")}

	sale, err := svc.Finalize(
		cartWith(cartLine("3.33", 3), cartLine("19.99", 2), cartLine("0.75", 7)),
		discounts, dec("0.16"), nil,
	)
	require.NoError(t, err)

	// Order totals are sums of the item fields, and the item fields
	// reconcile line by line.
	itemSubtotal, itemDiscount, itemTax, itemTotal := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for _, item := range sale.Items {
		assert.True(t, item.Total.Equal(item.Subtotal.Sub(item.Discount).Add(item.TaxAmount)),
			"line %s does not reconcile", item.ProductName)
		itemSubtotal = itemSubtotal.Add(item.Subtotal)
		itemDiscount = itemDiscount.Add(item.Discount)
		itemTax = itemTax.Add(item.TaxAmount)
		itemTotal = itemTotal.Add(item.Total)
	}
	assert.True(t, sale.Subtotal.Equal(itemSubtotal))
	assert.True(t, sale.DiscountAmount.Equal(itemDiscount))
	assert.True(t, sale.TaxAmount.Equal(itemTax))
	assert.True(t, sale.Total.Equal(itemTotal))
	assert.True(t, sale.Total.Equal(sale.Subtotal.Sub(sale.DiscountAmount).Add(sale.TaxAmount)))
}
