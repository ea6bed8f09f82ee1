package invoicing

import (
	"fmt"
	"strings"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// ItemFactory convierte una fila persistida en un ítem en memoria.
type ItemFactory interface {
	FromRecord(rec *entity.InvoiceItemRecord) (*entity.InvoiceItem, error)
}

var _ ItemFactory = (*DefaultItemFactory)(nil)

// DefaultItemFactory fábrica usada por el servicio y por cmd/seed_items.
type DefaultItemFactory struct{}

// NewDefaultItemFactory construye la fábrica.
func NewDefaultItemFactory() *DefaultItemFactory {
	return &DefaultItemFactory{}
}

// FromRecord valida la fila y construye el ítem. No redondea el monto: se confía en que
// el valor almacenado ya está en la escala configurada.
func (f *DefaultItemFactory) FromRecord(rec *entity.InvoiceItemRecord) (*entity.InvoiceItem, error) {
	if rec == nil {
		return nil, fmt.Errorf("%w: registro nulo", ErrInvalidItemRecord)
	}
	if rec.ID == "" || rec.InvoiceID == "" {
		return nil, fmt.Errorf("%w: id e invoice_id son obligatorios", ErrInvalidItemRecord)
	}
	itemType, ok := entity.ParseInvoiceItemType(rec.ItemType)
	if !ok {
		return nil, fmt.Errorf("%w: %q (ítem %s)", ErrUnknownItemType, rec.ItemType, rec.ID)
	}
	currency := strings.ToUpper(strings.TrimSpace(rec.Currency))
	if currency == "" {
		return nil, fmt.Errorf("%w: moneda vacía (ítem %s)", ErrInvalidItemRecord, rec.ID)
	}

	var linked string
	if rec.LinkedItemID != nil {
		linked = strings.TrimSpace(*rec.LinkedItemID)
	}
	if itemType.RequiresLinkedItem() && linked == "" {
		return nil, fmt.Errorf("%w: %s (ítem %s)", ErrMissingLinkedItem, itemType, rec.ID)
	}

	return &entity.InvoiceItem{
		ID:           rec.ID,
		InvoiceID:    rec.InvoiceID,
		AccountID:    rec.AccountID,
		Type:         itemType,
		Description:  rec.Description,
		Amount:       rec.Amount,
		Currency:     currency,
		LinkedItemID: linked,
		CreatedAt:    rec.CreatedAt,
	}, nil
}
