package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.InvoiceItemRepository = (*InvoiceItemRepo)(nil)

// InvoiceItemRepo lee y escribe filas de invoice_items.
// amount es NUMERIC nullable: NULL se lee como NullDecimal{Valid: false}.
type InvoiceItemRepo struct {
	q Querier
}

// NewInvoiceItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceItemRepository(q Querier) *InvoiceItemRepo {
	return &InvoiceItemRepo{q: q}
}

// ListRecordsByInvoiceID devuelve las filas en orden de creación.
func (r *InvoiceItemRepo) ListRecordsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItemRecord, error) {
	const query = `
		SELECT id, invoice_id, account_id, item_type, COALESCE(description, ''),
		       amount, currency, linked_item_id, created_at
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceItemRecord
	for rows.Next() {
		var rec entity.InvoiceItemRecord
		if err := rows.Scan(
			&rec.ID, &rec.InvoiceID, &rec.AccountID, &rec.ItemType, &rec.Description,
			&rec.Amount, &rec.Currency, &rec.LinkedItemID, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		list = append(list, &rec)
	}
	return list, rows.Err()
}

// CreateRecord inserta una fila; asigna un UUID si no trae ID.
func (r *InvoiceItemRepo) CreateRecord(ctx context.Context, rec *entity.InvoiceItemRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	const query = `
		INSERT INTO invoice_items (id, invoice_id, account_id, item_type, description, amount, currency, linked_item_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.InvoiceID, rec.AccountID, rec.ItemType, nullIfEmpty(rec.Description),
		rec.Amount, rec.Currency, rec.LinkedItemID, rec.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice item already exists: %w", domain.ErrDuplicate)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("invoice or linked item not found: %w", domain.ErrNotFound)
		}
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
