package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Sale is a finalized, settled transaction recorded against a cashdesk
// session. It is immutable after creation except for the status transition
// describing refunds, which never feeds back into session totals.
type Sale struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	SessionID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"session_id"`
	TransactionID  string          `gorm:"size:100;unique;not null" json:"transaction_id"`
	CashierID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CashierName    string          `gorm:"size:255;not null" json:"cashier_name"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	CustomerName   string          `gorm:"size:255;default:'walk-in'" json:"customer_name"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"tax_amount"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status         enum.SaleStatus `gorm:"default:0;index" json:"status"`
	CreatedAt      time.Time       `json:"timestamp"`
	UpdatedAt      time.Time       `json:"-"`

	// Relationships
	Session  CashdeskSession `gorm:"foreignKey:SessionID" json:"-"`
	Customer *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem      `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments []PaymentMethod `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// CashTendered returns the sum of cash payments attached to the sale.
func (s *Sale) CashTendered() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if p.Type.IsCash() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// NonCashTendered returns the sum of non-cash payments attached to the sale.
func (s *Sale) NonCashTendered() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Payments {
		if !p.Type.IsCash() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// SaleItem is a line item on a sale. Invariant:
// Total = Subtotal - Discount + TaxAmount, with tax computed on the
// post-discount amount and every figure rounded to two decimals at
// computation time.
type SaleItem struct {
	ID           uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SaleID       uuid.UUID          `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"product_id"`
	SKU          string             `gorm:"size:100;not null" json:"sku"`
	ProductName  string             `gorm:"size:255;not null" json:"product_name"`
	UnitPrice    decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Quantity     int                `gorm:"not null" json:"quantity"`
	Subtotal     decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Discount     decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"discount"`
	DiscountType *enum.DiscountType `gorm:"type:varchar(20)" json:"discount_type,omitempty"`
	TaxRate      decimal.Decimal    `gorm:"type:decimal(6,4);default:0" json:"tax_rate"`
	TaxAmount    decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"tax_amount"`
	Total        decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"total"`

	// Relationships
	Sale Sale `gorm:"foreignKey:SaleID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// PaymentMethod is one tendered payment on a sale. A sale may carry several
// entries (split tender).
type PaymentMethod struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	SaleID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"sale_id"`
	Type           enum.PaymentType `gorm:"type:varchar(20);not null" json:"type"`
	Amount         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"amount"`
	Reference      *string          `gorm:"size:100" json:"reference,omitempty"`
	CardLastFour   *string          `gorm:"size:4" json:"card_last_four,omitempty"`
	WalletProvider *string          `gorm:"size:100" json:"wallet_provider,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment method
func (p *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "sale_payments"
}
