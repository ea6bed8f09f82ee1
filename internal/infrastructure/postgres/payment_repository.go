package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo lee invoice_payments.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador.
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// SumPaidByInvoiceID suma los pagos exitosos de la factura.
func (r *PaymentRepo) SumPaidByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM invoice_payments
		WHERE invoice_id = $1 AND status = 'SUCCESS'`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum invoice payments: %w", err)
	}
	return total, nil
}
