package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
)

func stagedItem(qty, available int, price string) CartItem {
	return CartItem{
		ProductID:   uuid.New(),
		SKU:         "SKU-1",
		ProductName: "Widget",
		UnitPrice:   decimal.RequireFromString(price),
		Quantity:    qty,
		Available:   available,
	}
}

func TestCartAddItem(t *testing.T) {
	cart := NewCart()
	item := stagedItem(2, 3, "10.00")

	require.NoError(t, cart.AddItem(item))
	assert.Len(t, cart.Items, 1)
	assert.True(t, cart.Subtotal().Equal(decimal.RequireFromString("20.00")))

	// Same product merges quantities.
	require.NoError(t, cart.AddItem(CartItem{ProductID: item.ProductID, UnitPrice: item.UnitPrice, Quantity: 1, Available: 3}))
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Merging past availability is rejected.
	err := cart.AddItem(CartItem{ProductID: item.ProductID, UnitPrice: item.UnitPrice, Quantity: 1, Available: 3})
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartAddItemExceedsAvailability(t *testing.T) {
	cart := NewCart()
	err := cart.AddItem(stagedItem(4, 3, "10.00"))
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.True(t, cart.IsEmpty())
}

func TestCartUpdateQuantity(t *testing.T) {
	cart := NewCart()
	item := stagedItem(2, 3, "5.00")
	require.NoError(t, cart.AddItem(item))

	// Exceeding availability leaves the prior quantity untouched.
	err := cart.UpdateQuantity(item.ProductID, 4)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	require.NoError(t, cart.UpdateQuantity(item.ProductID, 3))
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Zero quantity removes the line.
	require.NoError(t, cart.UpdateQuantity(item.ProductID, 0))
	assert.True(t, cart.IsEmpty())
}

func TestCartUpdateQuantityUnknownProduct(t *testing.T) {
	cart := NewCart()
	err := cart.UpdateQuantity(uuid.New(), 1)
	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestCartRemoveItem(t *testing.T) {
	cart := NewCart()
	a := stagedItem(1, 5, "1.00")
	b := stagedItem(2, 5, "2.00")
	require.NoError(t, cart.AddItem(a))
	require.NoError(t, cart.AddItem(b))

	cart.RemoveItem(a.ProductID)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, b.ProductID, cart.Items[0].ProductID)

	// Removing an absent product is a no-op.
	cart.RemoveItem(a.ProductID)
	assert.Len(t, cart.Items, 1)
}
