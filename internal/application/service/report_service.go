package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/money"
	"github.com/tilldesk/tilldesk-api/pkg/pagination"
)

// ReportService aggregates shift and daily summaries from the session,
// sale and petty-cash ledgers.
type ReportService struct {
	sessionRepo repository.SessionRepository
	saleRepo    repository.SaleRepository
	pettyRepo   repository.PettyCashRepository
}

// NewReportService creates a new report service
func NewReportService(
	sessionRepo repository.SessionRepository,
	saleRepo repository.SaleRepository,
	pettyRepo repository.PettyCashRepository,
) *ReportService {
	return &ReportService{
		sessionRepo: sessionRepo,
		saleRepo:    saleRepo,
		pettyRepo:   pettyRepo,
	}
}

// PaymentBreakdown represents totals for one payment method
type PaymentBreakdown struct {
	Method string          `json:"method"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// ShiftReport summarises one cashdesk session
type ShiftReport struct {
	Session          *entity.CashdeskSession `json:"session"`
	SaleCount        int64                   `json:"sale_count"`
	GrossSales       decimal.Decimal         `json:"gross_sales"`
	TotalDiscount    decimal.Decimal         `json:"total_discount"`
	TotalTax         decimal.Decimal         `json:"total_tax"`
	RefundedCount    int64                   `json:"refunded_count"`
	PettyCashIn      decimal.Decimal         `json:"petty_cash_in"`
	PettyCashOut     decimal.Decimal         `json:"petty_cash_out"`
	PaymentBreakdown []PaymentBreakdown      `json:"payment_breakdown"`
}

// GetShiftReport builds the end-of-shift summary for a session. Figures
// come from the sale and petty-cash ledgers, not the session's cached
// running totals, so the report stays truthful even if the cache drifts.
func (s *ReportService) GetShiftReport(ctx context.Context, sessionID uuid.UUID) (*ShiftReport, error) {
	session, err := s.sessionRepo.GetWithMovements(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}

	sales, err := s.saleRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report := &ShiftReport{
		Session:       session,
		SaleCount:     int64(len(sales)),
		GrossSales:    money.Zero,
		TotalDiscount: money.Zero,
		TotalTax:      money.Zero,
	}

	byMethod := make(map[enum.PaymentType]*PaymentBreakdown)
	order := make([]enum.PaymentType, 0, 4)
	for i := range sales {
		sale := &sales[i]
		report.GrossSales = report.GrossSales.Add(sale.Total)
		report.TotalDiscount = report.TotalDiscount.Add(sale.DiscountAmount)
		report.TotalTax = report.TotalTax.Add(sale.TaxAmount)
		if sale.Status != enum.SaleStatusCompleted {
			report.RefundedCount++
		}
		for _, p := range sale.Payments {
			entry, exists := byMethod[p.Type]
			if !exists {
				entry = &PaymentBreakdown{Method: string(p.Type), Amount: money.Zero}
				byMethod[p.Type] = entry
				order = append(order, p.Type)
			}
			entry.Count++
			entry.Amount = entry.Amount.Add(p.Amount)
		}
	}
	for _, typ := range order {
		report.PaymentBreakdown = append(report.PaymentBreakdown, *byMethod[typ])
	}

	cashIn, err := s.pettyRepo.SumByType(ctx, sessionID, enum.PettyCashIn)
	if err != nil {
		return nil, err
	}
	cashOut, err := s.pettyRepo.SumByType(ctx, sessionID, enum.PettyCashOut)
	if err != nil {
		return nil, err
	}
	report.PettyCashIn = cashIn
	report.PettyCashOut = cashOut

	return report, nil
}

// DailyReport summarises sales across sessions for one day
type DailyReport struct {
	Date          string          `json:"date"`
	SessionCount  int64           `json:"session_count"`
	SaleCount     int64           `json:"sale_count"`
	GrossSales    decimal.Decimal `json:"gross_sales"`
	TotalDiscount decimal.Decimal `json:"total_discount"`
	TotalTax      decimal.Decimal `json:"total_tax"`
}

// GetDailyReport builds the summary for all sales on a calendar day.
func (s *ReportService) GetDailyReport(ctx context.Context, day time.Time) (*DailyReport, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24 * time.Hour)

	report := &DailyReport{
		Date:          start.Format("2006-01-02"),
		GrossSales:    money.Zero,
		TotalDiscount: money.Zero,
		TotalTax:      money.Zero,
	}

	_, sessionCount, err := s.sessionRepo.List(ctx, &repository.SessionFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
		StartDate:  &start,
		EndDate:    &end,
	})
	if err != nil {
		return nil, err
	}
	report.SessionCount = sessionCount

	// Page through the day's sales; a single shift day stays small enough
	// for this to be a handful of queries.
	page := 1
	for {
		sales, total, err := s.saleRepo.List(ctx, &repository.SaleFilterParams{
			Pagination: &pagination.PaginationParams{Page: page, PerPage: 200},
			StartDate:  &start,
			EndDate:    &end,
		})
		if err != nil {
			return nil, err
		}
		for i := range sales {
			report.GrossSales = report.GrossSales.Add(sales[i].Total)
			report.TotalDiscount = report.TotalDiscount.Add(sales[i].DiscountAmount)
			report.TotalTax = report.TotalTax.Add(sales[i].TaxAmount)
		}
		report.SaleCount = total
		if int64(page*200) >= total || len(sales) == 0 {
			break
		}
		page++
	}

	return report, nil
}
