package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de lectura de cabeceras de factura.
type InvoiceRepository interface {
	// GetByID devuelve (nil, nil) si la factura no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
}

// InvoiceItemRepository define el puerto de persistencia de las líneas de factura.
// Trabaja con registros crudos; la conversión a entity.InvoiceItem la hace la fábrica.
type InvoiceItemRepository interface {
	ListRecordsByInvoiceID(ctx context.Context, invoiceID string) ([]*entity.InvoiceItemRecord, error)
	CreateRecord(ctx context.Context, rec *entity.InvoiceItemRecord) error
}

// PaymentRepository expone lo pagado sobre una factura.
type PaymentRepository interface {
	// SumPaidByInvoiceID suma los pagos registrados; cero si no hay ninguno.
	SumPaidByInvoiceID(ctx context.Context, invoiceID string) (decimal.Decimal, error)
}
