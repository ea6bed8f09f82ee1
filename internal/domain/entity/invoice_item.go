package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemType clasifica una línea de factura (cargo, ajuste, crédito, reembolso...).
type InvoiceItemType string

// Tipos de ítem soportados.
const (
	ItemTypeFixed          InvoiceItemType = "FIXED"           // Cargo fijo (único)
	ItemTypeRecurring      InvoiceItemType = "RECURRING"       // Cargo recurrente del periodo
	ItemTypeExternalCharge InvoiceItemType = "EXTERNAL_CHARGE" // Cargo externo agregado manualmente
	ItemTypeRepairAdj      InvoiceItemType = "REPAIR_ADJ"      // Reparación de un cargo previo (reduce el cargo)
	ItemTypeItemAdj        InvoiceItemType = "ITEM_ADJ"        // Ajuste sobre un ítem concreto
	ItemTypeCreditAdj      InvoiceItemType = "CREDIT_ADJ"      // Ajuste por nota crédito
	ItemTypeRefundAdj      InvoiceItemType = "REFUND_ADJ"      // Ajuste por reembolso
	ItemTypeCBAAdj         InvoiceItemType = "CBA_ADJ"         // Movimiento contra el saldo a favor de la cuenta
)

// AllInvoiceItemTypes lista los tipos en el orden en que se documentan.
var AllInvoiceItemTypes = []InvoiceItemType{
	ItemTypeFixed,
	ItemTypeRecurring,
	ItemTypeExternalCharge,
	ItemTypeRepairAdj,
	ItemTypeItemAdj,
	ItemTypeCreditAdj,
	ItemTypeRefundAdj,
	ItemTypeCBAAdj,
}

// Valid indica si el tipo pertenece a la enumeración.
func (t InvoiceItemType) Valid() bool {
	for _, cur := range AllInvoiceItemTypes {
		if t == cur {
			return true
		}
	}
	return false
}

// RequiresLinkedItem indica si el tipo ajusta otro ítem y por tanto debe referenciarlo.
func (t InvoiceItemType) RequiresLinkedItem() bool {
	return t == ItemTypeItemAdj || t == ItemTypeRepairAdj
}

// ParseInvoiceItemType convierte texto persistido (sin distinguir mayúsculas) al tipo.
func ParseInvoiceItemType(s string) (InvoiceItemType, bool) {
	t := InvoiceItemType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.Valid()
}

// InvoiceItem representa una línea de factura ya construida en memoria.
// Amount.Valid == false significa que no hay monto registrado.
type InvoiceItem struct {
	ID           string
	InvoiceID    string
	AccountID    string
	Type         InvoiceItemType
	Description  string
	Amount       decimal.NullDecimal
	Currency     string
	LinkedItemID string // ítem ajustado (solo ITEM_ADJ y REPAIR_ADJ)
	CreatedAt    time.Time
}

// InvoiceItemRecord es la fila tal como se guarda en invoice_items.
// El tipo se conserva como texto para que la fábrica decida si es reconocible.
type InvoiceItemRecord struct {
	ID           string
	InvoiceID    string
	AccountID    string
	ItemType     string
	Description  string
	Amount       decimal.NullDecimal
	Currency     string
	LinkedItemID *string
	CreatedAt    time.Time
}
