package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptLine is a single line item on a receipt.
type ReceiptLine struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Discount  decimal.Decimal `json:"discount"`
	Total     decimal.Decimal `json:"total"`
}

// ReceiptPayment is one tender shown on a receipt.
type ReceiptPayment struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference,omitempty"`
}

// Receipt is a value object projected from a completed sale and its
// payments. It is never persisted; print, export and email collaborators
// consume it. Change is recomputed exactly as settlement computed it.
type Receipt struct {
	Header        ReceiptHeader    `json:"header"`
	Reference     string           `json:"reference"`
	TransactionID string           `json:"transaction_id"`
	Date          string           `json:"date"`
	Cashier       string           `json:"cashier"`
	Customer      string           `json:"customer"`
	Lines         []ReceiptLine    `json:"lines"`
	Subtotal      decimal.Decimal  `json:"subtotal"`
	Discount      decimal.Decimal  `json:"discount"`
	Tax           decimal.Decimal  `json:"tax"`
	Total         decimal.Decimal  `json:"total"`
	Payments      []ReceiptPayment `json:"payments"`
	Change        decimal.Decimal  `json:"change"`
}
