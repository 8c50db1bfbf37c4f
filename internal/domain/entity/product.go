package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog item. The cash-desk engine reads Quantity and
// SellingPrice as snapshots when staging a cart; the catalog owns the
// stock decrement applied on sale completion.
type Product struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"organization_id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	SKU            string          `gorm:"size:100;unique;not null" json:"sku"`
	Quantity       int             `gorm:"default:0" json:"quantity"`
	QuantityAlert  int             `gorm:"default:0" json:"quantity_alert"`
	SellingPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Organization Organization     `gorm:"foreignKey:OrganizationID" json:"-"`
	Prediction   *StockPrediction `gorm:"foreignKey:ProductID" json:"prediction,omitempty"`
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// StockPrediction is the precomputed stockout forecast for a product.
// This service only renders it; the prediction service produces it and the
// record is never validated or recomputed here.
type StockPrediction struct {
	ID                         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID             uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	ProductID                  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"product_id"`
	DaysUntilStockout          int       `gorm:"not null" json:"days_until_stockout"`
	CurrentStock               int       `gorm:"not null" json:"current_stock"`
	RecommendedReorderQuantity int       `gorm:"not null" json:"recommended_reorder_quantity"`
	RecommendedReorderDate     time.Time `gorm:"not null" json:"recommended_reorder_date"`
	Confidence                 float64   `gorm:"not null" json:"confidence"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new prediction
func (p *StockPrediction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockPrediction model
func (StockPrediction) TableName() string {
	return "stock_predictions"
}
