package billing_test

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/billing"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

const (
	testCompanyID = "company-1"
	testInvoiceID = "invoice-1"
)

var testCreatedAt = time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	err      error
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.invoices[id], nil
}

type fakeItemRepo struct {
	records []*entity.InvoiceItemRecord
	created []*entity.InvoiceItemRecord
	err     error
}

func (r *fakeItemRepo) ListRecordsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceItemRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.InvoiceItemRecord
	for _, rec := range r.records {
		if rec.InvoiceID == invoiceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeItemRepo) CreateRecord(_ context.Context, rec *entity.InvoiceItemRecord) error {
	if r.err != nil {
		return r.err
	}
	r.created = append(r.created, rec)
	r.records = append(r.records, rec)
	return nil
}

type fakePaymentRepo struct {
	paid  decimal.Decimal
	calls int
}

func (r *fakePaymentRepo) SumPaidByInvoiceID(context.Context, string) (decimal.Decimal, error) {
	r.calls++
	return r.paid, nil
}

type fakePDFGenerator struct {
	got *billing.StatementData
	err error
}

func (g *fakePDFGenerator) GenerateStatementPDF(_ context.Context, data billing.StatementData) ([]byte, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.got = &data
	return []byte("%PDF-1.4"), nil
}

var errRepo = errors.New("db caída")

func testInvoice() *entity.Invoice {
	return &entity.Invoice{
		ID:        testInvoiceID,
		CompanyID: testCompanyID,
		AccountID: "account-1",
		Number:    "FV-100",
		Currency:  "USD",
		CreatedAt: testCreatedAt,
	}
}

func rec(id string, t entity.InvoiceItemType, amount string) *entity.InvoiceItemRecord {
	r := &entity.InvoiceItemRecord{
		ID:        id,
		InvoiceID: testInvoiceID,
		AccountID: "account-1",
		ItemType:  string(t),
		Currency:  "USD",
		CreatedAt: testCreatedAt,
	}
	if amount != "" {
		r.Amount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	}
	if t.RequiresLinkedItem() {
		linked := "item-1"
		r.LinkedItemID = &linked
	}
	return r
}
