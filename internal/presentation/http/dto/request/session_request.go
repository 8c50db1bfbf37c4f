package request

// OpenSessionRequest represents a session open request
type OpenSessionRequest struct {
	OpeningFloat float64 `json:"opening_float" binding:"min=0"`
}

// CloseSessionRequest represents a session close request. CountedCash is
// the physically counted drawer amount.
type CloseSessionRequest struct {
	CountedCash float64 `json:"counted_cash" binding:"min=0"`
}

// PettyCashRequest represents a petty cash movement request
type PettyCashRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Type        string  `json:"type" binding:"required,oneof=in out"`
	Description string  `json:"description" binding:"required,min=1,max=255"`
}

// SessionFilterRequest represents session filter parameters
type SessionFilterRequest struct {
	CashierID string `form:"cashier_id"`
	Status    string `form:"status" binding:"omitempty,oneof=active closed"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
