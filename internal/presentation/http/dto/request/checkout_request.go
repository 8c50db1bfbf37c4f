package request

import "github.com/google/uuid"

// CheckoutItemRequest is one requested cart line
type CheckoutItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CheckoutPaymentRequest is one tendered payment
type CheckoutPaymentRequest struct {
	Type           string  `json:"type" binding:"required,oneof=cash card transfer wallet"`
	Amount         float64 `json:"amount" binding:"required,gt=0"`
	Reference      *string `json:"reference"`
	CardLastFour   *string `json:"card_last_four" binding:"omitempty,len=4"`
	WalletProvider *string `json:"wallet_provider"`
}

// CheckoutRequest represents a full checkout request
type CheckoutRequest struct {
	SessionID  uuid.UUID                `json:"session_id" binding:"required"`
	CustomerID *uuid.UUID               `json:"customer_id"`
	Items      []CheckoutItemRequest    `json:"items" binding:"required,min=1,dive"`
	Payments   []CheckoutPaymentRequest `json:"payments" binding:"required,min=1,dive"`
}

// UpdateSaleStatusRequest represents a refund status transition request
type UpdateSaleStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=refunded partial_refund"`
}

// SaleFilterRequest represents sale filter parameters
type SaleFilterRequest struct {
	SessionID  string `form:"session_id"`
	CashierID  string `form:"cashier_id"`
	CustomerID string `form:"customer_id"`
	Status     string `form:"status" binding:"omitempty,oneof=completed refunded partial_refund"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// EmailReceiptRequest represents a receipt email request
type EmailReceiptRequest struct {
	Email string `json:"email" binding:"required,email"`
}
