package request

import "github.com/google/uuid"

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name  string  `json:"name" binding:"required,min=2,max=255"`
	Email *string `json:"email" binding:"omitempty,email"`
	Phone *string `json:"phone" binding:"omitempty,max=50"`
	Tier  string  `json:"tier" binding:"omitempty,oneof=standard silver gold"`
}

// CreateDiscountRequest represents a discount rule creation request
type CreateDiscountRequest struct {
	Name               string      `json:"name" binding:"required,min=2,max=255"`
	Type               string      `json:"type" binding:"required,oneof=percentage fixed"`
	Value              float64     `json:"value" binding:"required,gt=0"`
	MinOrderValue      *float64    `json:"min_order_value" binding:"omitempty,gt=0"`
	ApplicableProducts []uuid.UUID `json:"applicable_products"`
	CustomerTiers      []string    `json:"customer_tiers" binding:"omitempty,dive,oneof=standard silver gold"`
	Automatic          bool        `json:"automatic"`
	Active             bool        `json:"active"`
}
