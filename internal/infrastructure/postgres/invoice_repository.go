package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// GetByID obtiene la cabecera de una factura.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	const query = `
		SELECT id, company_id, account_id, number, currency, invoice_date, created_at
		FROM invoices WHERE id = $1`
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, query, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.AccountID, &inv.Number,
		&inv.Currency, &inv.InvoiceDate, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}
