package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"gorm.io/gorm"
)

// SaleDiscount is a discount rule. Automatic discounts are selected by the
// pricing engine; non-automatic ones are applied explicitly by a cashier.
type SaleDiscount struct {
	ID                 uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name               string            `gorm:"size:255;not null" json:"name"`
	Type               enum.DiscountType `gorm:"type:varchar(20);not null" json:"type"`
	Value              decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"value"`
	MinOrderValue      *decimal.Decimal  `gorm:"type:decimal(12,2)" json:"min_order_value,omitempty"`
	ApplicableProducts []uuid.UUID       `gorm:"serializer:json" json:"applicable_products,omitempty"`
	CustomerTiers      []string          `gorm:"serializer:json" json:"customer_tiers,omitempty"`
	Automatic          bool              `gorm:"default:false" json:"automatic"`
	Active             bool              `gorm:"default:true" json:"active"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new discount
func (d *SaleDiscount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleDiscount model
func (SaleDiscount) TableName() string {
	return "sale_discounts"
}

// EligibleFor reports whether this discount may apply to a line for the
// given product and customer tier. MinOrderValue is evaluated against the
// cart subtotal, not the line subtotal. Empty ApplicableProducts or
// CustomerTiers means unrestricted.
func (d *SaleDiscount) EligibleFor(productID uuid.UUID, customerTier string, cartSubtotal decimal.Decimal) bool {
	if d.MinOrderValue != nil && cartSubtotal.LessThan(*d.MinOrderValue) {
		return false
	}
	if len(d.ApplicableProducts) > 0 {
		found := false
		for _, id := range d.ApplicableProducts {
			if id == productID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(d.CustomerTiers) > 0 {
		found := false
		for _, tier := range d.CustomerTiers {
			if tier == customerTier {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ReductionFor returns the amount this discount takes off a line subtotal.
// Percentage discounts reduce by Value percent; fixed discounts reduce by
// Value capped at the subtotal so a line never goes negative.
func (d *SaleDiscount) ReductionFor(lineSubtotal decimal.Decimal) decimal.Decimal {
	switch d.Type {
	case enum.DiscountTypePercentage:
		return money.Percent(lineSubtotal, d.Value)
	case enum.DiscountTypeFixed:
		return money.Min(d.Value, lineSubtotal)
	}
	return decimal.Zero
}
