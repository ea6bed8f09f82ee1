package entity

import "time"

// Invoice representa la cabecera de una factura de la cartera.
type Invoice struct {
	ID          string
	CompanyID   string
	AccountID   string
	Number      string
	Currency    string
	InvoiceDate time.Time
	CreatedAt   time.Time
}
