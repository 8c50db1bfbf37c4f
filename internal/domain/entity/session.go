package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"gorm.io/gorm"
)

// CashdeskSession represents a cashier's continuous working period from
// drawer open to drawer close. At most one active session exists per cashier.
// TotalSales and TransactionCount are derived from the sales recorded against
// the session; they are cached here for listing but always recomputed through
// SessionService, never mutated independently. Once Status is closed the
// session is read-only.
type CashdeskSession struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	OrganizationID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"organization_id"`
	CashierID        uuid.UUID          `gorm:"type:uuid;not null;index" json:"cashier_id"`
	CashierName      string             `gorm:"size:255;not null" json:"cashier_name"`
	StartTime        time.Time          `gorm:"not null" json:"start_time"`
	EndTime          *time.Time         `json:"end_time,omitempty"`
	OpeningFloat     decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"opening_float"`
	ClosingCash      *decimal.Decimal   `gorm:"type:decimal(12,2)" json:"closing_cash,omitempty"`
	ExpectedCash     *decimal.Decimal   `gorm:"type:decimal(12,2)" json:"expected_cash,omitempty"`
	Discrepancy      *decimal.Decimal   `gorm:"type:decimal(12,2)" json:"discrepancy,omitempty"`
	Status           enum.SessionStatus `gorm:"default:0;index" json:"status"`
	TotalSales       decimal.Decimal    `gorm:"type:decimal(12,2);default:0" json:"total_sales"`
	TransactionCount int                `gorm:"default:0" json:"transaction_count"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`

	// Relationships
	Organization Organization           `gorm:"foreignKey:OrganizationID" json:"-"`
	Cashier      User                   `gorm:"foreignKey:CashierID" json:"-"`
	Movements    []PettyCashTransaction `gorm:"foreignKey:SessionID" json:"movements,omitempty"`
	Sales        []Sale                 `gorm:"foreignKey:SessionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new session
func (s *CashdeskSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashdeskSession model
func (CashdeskSession) TableName() string {
	return "cashdesk_sessions"
}

// IsActive reports whether the session still accepts sales and petty cash.
func (s *CashdeskSession) IsActive() bool {
	return s.Status == enum.SessionStatusActive
}

// PettyCashTransaction is a manual, non-sale cash movement in or out of the
// drawer. Entries are append-only: they are never edited or deleted once
// persisted, corrections are made by appending an offsetting entry of the
// opposite type.
type PettyCashTransaction struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	SessionID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"session_id"`
	CashierID   uuid.UUID          `gorm:"type:uuid;not null" json:"cashier_id"`
	Amount      decimal.Decimal    `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description string             `gorm:"size:255;not null" json:"description"`
	Type        enum.PettyCashType `gorm:"type:varchar(10);not null" json:"type"`
	CreatedAt   time.Time          `json:"timestamp"`

	// Relationships
	Session CashdeskSession `gorm:"foreignKey:SessionID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new petty cash entry
func (p *PettyCashTransaction) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PettyCashTransaction model
func (PettyCashTransaction) TableName() string {
	return "petty_cash_transactions"
}
