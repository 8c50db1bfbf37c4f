package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	"github.com/tilldesk/tilldesk-api/internal/domain/enum"
	"go.uber.org/zap"
)

type fakeOrgRepo struct {
	org *entity.Organization
}

func (r *fakeOrgRepo) Create(_ context.Context, org *entity.Organization) error {
	r.org = org
	return nil
}

func (r *fakeOrgRepo) GetByID(_ context.Context, _ uuid.UUID) (*entity.Organization, error) {
	return r.org, nil
}

func (r *fakeOrgRepo) GetBySlug(_ context.Context, _ string) (*entity.Organization, error) {
	return r.org, nil
}

type capturePrinter struct {
	printed [][]byte
}

func (p *capturePrinter) Print(data []byte) error {
	p.printed = append(p.printed, data)
	return nil
}
func (p *capturePrinter) Close() error      { return nil }
func (p *capturePrinter) IsConnected() bool { return true }

func settledSale() *entity.Sale {
	ref := "AUTH-4711"
	return &entity.Sale{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		TransactionID:  "TXN-20260829-0001",
		CashierName:    "Alice Mwangi",
		CustomerName:   "walk-in",
		Subtotal:       dec("20.00"),
		DiscountAmount: dec("2.00"),
		TaxAmount:      dec("2.88"),
		Total:          dec("20.88"),
		Status:         enum.SaleStatusCompleted,
		CreatedAt:      time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC),
		Items: []entity.SaleItem{
			{
				ProductName: "Widget",
				UnitPrice:   dec("10.00"),
				Quantity:    2,
				Subtotal:    dec("20.00"),
				Discount:    dec("2.00"),
				TaxAmount:   dec("2.88"),
				Total:       dec("20.88"),
			},
		},
		Payments: []entity.PaymentMethod{
			{Type: enum.PaymentTypeCard, Amount: dec("10.88"), Reference: &ref},
			{Type: enum.PaymentTypeCash, Amount: dec("20.00")},
		},
	}
}

func newReceiptServiceForTest() (*ReceiptService, *fakeSaleRepo, *fakeOrgRepo, *capturePrinter) {
	addr := "42 Biashara St, Nairobi"
	saleRepo := &fakeSaleRepo{}
	orgRepo := &fakeOrgRepo{org: &entity.Organization{
		ID:        uuid.New(),
		StoreName: "Duka Mauzo",
		Address:   &addr,
	}}
	capture := &capturePrinter{}
	svc := NewReceiptService(saleRepo, orgRepo, capture, nil, zap.NewNop())
	return svc, saleRepo, orgRepo, capture
}

func TestBuildReceipt(t *testing.T) {
	svc, saleRepo, _, _ := newReceiptServiceForTest()
	sale := settledSale()
	saleRepo.sale = sale

	receipt, err := svc.Build(context.Background(), sale.ID)
	require.NoError(t, err)

	assert.Equal(t, "Duka Mauzo", receipt.Header.StoreName)
	assert.Equal(t, "42 Biashara St, Nairobi", receipt.Header.Address)
	assert.Equal(t, sale.TransactionID, receipt.TransactionID)
	assert.Equal(t, "29/08/2026 14:30", receipt.Date)
	assert.Equal(t, "Alice Mwangi", receipt.Cashier)
	assert.NotEmpty(t, receipt.Reference)

	require.Len(t, receipt.Lines, 1)
	assert.Equal(t, "Widget", receipt.Lines[0].Name)
	assert.Equal(t, 2, receipt.Lines[0].Quantity)
	assert.True(t, receipt.Lines[0].Discount.Equal(dec("2.00")))

	require.Len(t, receipt.Payments, 2)
	assert.Equal(t, "card", receipt.Payments[0].Method)
	assert.Equal(t, "AUTH-4711", receipt.Payments[0].Reference)

	// cash 20.00 against a cash allocation of 20.88 - 10.88 = 10.00
	assert.True(t, receipt.Change.Equal(dec("10.00")), "change %s", receipt.Change)
}

func TestBuildReceiptSaleNotFound(t *testing.T) {
	svc, _, _, _ := newReceiptServiceForTest()
	_, err := svc.Build(context.Background(), uuid.New())
	assert.Error(t, err)
}

func TestBuildReceiptDefaultsHeader(t *testing.T) {
	svc, saleRepo, orgRepo, _ := newReceiptServiceForTest()
	orgRepo.org = nil
	sale := settledSale()
	saleRepo.sale = sale

	receipt, err := svc.Build(context.Background(), sale.ID)
	require.NoError(t, err)
	assert.Equal(t, "TillDesk", receipt.Header.StoreName)
}

func TestPrintReceipt(t *testing.T) {
	svc, saleRepo, _, capture := newReceiptServiceForTest()
	sale := settledSale()
	saleRepo.sale = sale

	_, err := svc.Print(context.Background(), sale.ID)
	require.NoError(t, err)

	require.Len(t, capture.printed, 1)
	rendered := string(capture.printed[0])
	assert.Contains(t, rendered, "Duka Mauzo")
	assert.Contains(t, rendered, "Widget")
	assert.Contains(t, rendered, sale.TransactionID)
}
