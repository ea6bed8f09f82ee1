package billing

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
)

// StatementData todo lo necesario para renderizar el estado de cuenta de una factura.
type StatementData struct {
	Invoice *entity.Invoice
	Items   []*entity.InvoiceItem
	Summary invoicing.Summary
	Policy  invoicing.RoundingPolicy
}

// StatementPDFGenerator puerto de salida para el PDF del estado de cuenta.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, data StatementData) ([]byte, error)
}
