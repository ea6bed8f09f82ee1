package billing

import (
	"context"
	"fmt"
)

// StatementPDFUseCase genera el estado de cuenta (PDF) de una factura.
type StatementPDFUseCase struct {
	balance   *InvoiceBalanceUseCase
	generator StatementPDFGenerator
}

// NewStatementPDFUseCase construye el caso de uso.
func NewStatementPDFUseCase(balance *InvoiceBalanceUseCase, generator StatementPDFGenerator) *StatementPDFUseCase {
	return &StatementPDFUseCase{balance: balance, generator: generator}
}

// Download devuelve los bytes del PDF y el nombre de archivo sugerido.
func (uc *StatementPDFUseCase) Download(ctx context.Context, companyID, invoiceID string) ([]byte, string, error) {
	data, err := uc.balance.Statement(ctx, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateStatementPDF(ctx, *data)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar estado de cuenta: %w", err)
	}
	name := data.Invoice.Number
	if name == "" {
		name = data.Invoice.ID
	}
	return pdf, fmt.Sprintf("estado-cuenta-%s.pdf", name), nil
}
