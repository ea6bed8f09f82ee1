package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceBalanceResponse agregados de una factura, todos en la escala configurada.
type InvoiceBalanceResponse struct {
	InvoiceID             string `json:"invoice_id"`
	Number                string `json:"number"`
	Currency              string `json:"currency"`
	ItemCount             int    `json:"item_count"`
	ChargedAmount         string `json:"charged_amount"`
	OriginalChargedAmount string `json:"original_charged_amount"`
	TotalAdjAmount        string `json:"total_adj_amount"`
	CreditAdjAmount       string `json:"credit_adj_amount"`
	RefundAdjAmount       string `json:"refund_adj_amount"`
	CBAAmount             string `json:"cba_amount"`
	PaidAmount            string `json:"paid_amount"`
	Balance               string `json:"balance"`
}

// InvoiceItemResponse línea de factura expuesta por la API.
type InvoiceItemResponse struct {
	ID           string    `json:"id"`
	InvoiceID    string    `json:"invoice_id"`
	Type         string    `json:"type"`
	Description  string    `json:"description,omitempty"`
	Amount       *string   `json:"amount"` // null si no hay monto registrado
	Currency     string    `json:"currency"`
	LinkedItemID string    `json:"linked_item_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// InvoiceItemsResponse listado de líneas.
type InvoiceItemsResponse struct {
	InvoiceID string                `json:"invoice_id"`
	Items     []InvoiceItemResponse `json:"items"`
}

// CreateInvoiceItemRequest cuerpo de POST /api/invoices/:id/items.
type CreateInvoiceItemRequest struct {
	Type         string               `json:"type"`
	Description  string               `json:"description"`
	Amount       *decimal.Decimal `json:"amount"` // null u omitido: ítem sin monto
	LinkedItemID string               `json:"linked_item_id"`
}
