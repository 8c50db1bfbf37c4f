package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/pkg/apperror"
	"github.com/tilldesk/tilldesk-api/pkg/email"
	"github.com/tilldesk/tilldesk-api/pkg/printer"
	"github.com/tilldesk/tilldesk-api/pkg/utils"
	"go.uber.org/zap"
)

const receiptDateLayout = "02/01/2006 15:04"

// ReceiptService projects completed sales into receipts and delivers them
// to the configured thermal printer or by email.
type ReceiptService struct {
	saleRepo repository.SaleRepository
	orgRepo  repository.OrganizationRepository
	printer  printer.Printer
	mailer   *email.EmailService
	logger   *zap.Logger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(
	saleRepo repository.SaleRepository,
	orgRepo repository.OrganizationRepository,
	printer printer.Printer,
	mailer *email.EmailService,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		saleRepo: saleRepo,
		orgRepo:  orgRepo,
		printer:  printer,
		mailer:   mailer,
		logger:   logger,
	}
}

// Build assembles the receipt for a sale. The change line is recomputed
// from the stored payments with the same arithmetic settlement used, so
// the printed figure always matches what was handed over at the till.
func (s *ReceiptService) Build(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}

	org, err := s.orgRepo.GetByID(ctx, sale.OrganizationID)
	if err != nil {
		return nil, err
	}

	header := entity.ReceiptHeader{StoreName: "TillDesk"}
	if org != nil {
		header.StoreName = org.StoreName
		if org.Address != nil {
			header.Address = *org.Address
		}
		if org.Phone != nil {
			header.Phone = *org.Phone
		}
		if org.TaxID != nil {
			header.TaxID = *org.TaxID
		}
	}

	lines := make([]entity.ReceiptLine, len(sale.Items))
	for i, item := range sale.Items {
		lines[i] = entity.ReceiptLine{
			Name:      item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Discount:  item.Discount,
			Total:     item.Total,
		}
	}

	payments := make([]entity.ReceiptPayment, len(sale.Payments))
	for i, p := range sale.Payments {
		rp := entity.ReceiptPayment{
			Method: string(p.Type),
			Amount: p.Amount,
		}
		if p.Reference != nil {
			rp.Reference = *p.Reference
		}
		payments[i] = rp
	}

	return &entity.Receipt{
		Header:        header,
		Reference:     utils.GenerateReceiptNo(),
		TransactionID: sale.TransactionID,
		Date:          sale.CreatedAt.Format(receiptDateLayout),
		Cashier:       sale.CashierName,
		Customer:      sale.CustomerName,
		Lines:         lines,
		Subtotal:      sale.Subtotal,
		Discount:      sale.DiscountAmount,
		Tax:           sale.TaxAmount,
		Total:         sale.Total,
		Payments:      payments,
		Change:        ChangeFor(sale),
	}, nil
}

// Print builds the receipt for a sale and sends it to the thermal printer.
func (s *ReceiptService) Print(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.Build(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(renderESCPOS(receipt)); err != nil {
		s.logger.Error("receipt print failed",
			zap.String("sale_id", saleID.String()),
			zap.Error(err),
		)
		return nil, apperror.NewInternalError(err)
	}

	return receipt, nil
}

// Email builds the receipt for a sale and emails it to the given address.
func (s *ReceiptService) Email(ctx context.Context, saleID uuid.UUID, toEmail string) (*entity.Receipt, error) {
	if toEmail == "" {
		return nil, apperror.NewBadRequestError("Email address is required")
	}

	receipt, err := s.Build(ctx, saleID)
	if err != nil {
		return nil, err
	}

	data := email.ReceiptEmailData{
		StoreName: receipt.Header.StoreName,
		Address:   receipt.Header.Address,
		Reference: receipt.Reference,
		Date:      receipt.Date,
		Cashier:   receipt.Cashier,
		Subtotal:  receipt.Subtotal.StringFixed(2),
		Discount:  receipt.Discount.StringFixed(2),
		Tax:       receipt.Tax.StringFixed(2),
		Total:     receipt.Total.StringFixed(2),
		Change:    receipt.Change.StringFixed(2),
	}
	for _, line := range receipt.Lines {
		data.Lines = append(data.Lines, email.ReceiptLineData{
			Name:     line.Name,
			Quantity: line.Quantity,
			Total:    line.Total.StringFixed(2),
		})
	}
	for _, p := range receipt.Payments {
		data.Payments = append(data.Payments, email.ReceiptPaymentData{
			Method: p.Method,
			Amount: p.Amount.StringFixed(2),
		})
	}

	if err := s.mailer.SendReceiptEmail(toEmail, data); err != nil {
		s.logger.Error("receipt email failed",
			zap.String("sale_id", saleID.String()),
			zap.Error(err),
		)
		return nil, apperror.NewInternalError(err)
	}

	return receipt, nil
}

// renderESCPOS lays the receipt out for a 32-column thermal printer.
func renderESCPOS(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32)

	doc.SetAlign(printer.AlignCenter).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("Tax ID: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		TextF("Receipt: %s", r.Reference).
		TextF("Txn:     %s", r.TransactionID).
		TextF("Date:    %s", r.Date).
		TextF("Cashier: %s", r.Cashier).
		TextF("Cust:    %s", r.Customer).
		Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Quantity, line.Name, line.Total.StringFixed(2))
		if line.Discount.IsPositive() {
			doc.KeyValue("  discount", "-"+line.Discount.StringFixed(2))
		}
	}

	doc.Separator('-').
		KeyValue("Subtotal", r.Subtotal.StringFixed(2)).
		KeyValue("Discount", "-"+r.Discount.StringFixed(2)).
		KeyValue("Tax", r.Tax.StringFixed(2))

	doc.SetBold(true).
		KeyValue("TOTAL", r.Total.StringFixed(2)).
		SetBold(false)

	for _, p := range r.Payments {
		doc.KeyValue(p.Method, p.Amount.StringFixed(2))
	}
	doc.KeyValue("Change", r.Change.StringFixed(2))

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		Text("Thank you for your visit!").
		FeedLines(3).
		Cut()

	return doc.Bytes()
}
