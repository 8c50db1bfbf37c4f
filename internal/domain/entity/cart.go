package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
)

// CartItem is one candidate line in a cart. Available is a stock snapshot
// read from the catalog at staging time, not a reservation.
type CartItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Available   int             `json:"available"`
}

// TotalPrice returns UnitPrice x Quantity rounded to two decimals.
func (i CartItem) TotalPrice() decimal.Decimal {
	return money.Mul(i.UnitPrice, i.Quantity)
}

// Cart is the ephemeral pre-sale accumulation of line items. It is never
// persisted; it exists to stage a sale before the pricing engine finalizes
// it. Mutations are pure local state transitions.
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

// AddItem adds a line to the cart, merging quantities when the product is
// already staged. Requesting more than Available fails with
// InsufficientStock and leaves the cart unchanged.
func (c *Cart) AddItem(item CartItem) error {
	if item.Quantity < 1 {
		return apperror.NewBadRequestError("Quantity must be at least 1")
	}
	for idx := range c.Items {
		if c.Items[idx].ProductID == item.ProductID {
			newQty := c.Items[idx].Quantity + item.Quantity
			if newQty > c.Items[idx].Available {
				return apperror.ErrInsufficientStock
			}
			c.Items[idx].Quantity = newQty
			return nil
		}
	}
	if item.Quantity > item.Available {
		return apperror.ErrInsufficientStock
	}
	c.Items = append(c.Items, item)
	return nil
}

// UpdateQuantity sets the quantity of a staged line. Zero removes the line.
// Exceeding Available fails with InsufficientStock; the prior quantity is
// kept so stock-sync errors are never masked by silent clamping.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return apperror.NewBadRequestError("Quantity cannot be negative")
	}
	if quantity == 0 {
		c.RemoveItem(productID)
		return nil
	}
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			if quantity > c.Items[idx].Available {
				return apperror.ErrInsufficientStock
			}
			c.Items[idx].Quantity = quantity
			return nil
		}
	}
	return apperror.NewNotFoundError("Cart item")
}

// RemoveItem drops a line from the cart. Removing an absent product is a
// no-op.
func (c *Cart) RemoveItem(productID uuid.UUID) {
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			return
		}
	}
}

// Subtotal returns the sum of line totals before discounts and tax.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

// IsEmpty reports whether the cart has no staged lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
