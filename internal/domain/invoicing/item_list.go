// Package invoicing agrega los montos de las líneas de una factura: cargos, ajustes,
// créditos, reembolsos, saldo a favor y el saldo pendiente.
package invoicing

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// Aggregate identifica cada consulta de suma expuesta por ItemList.
type Aggregate string

const (
	AggregateCharged   Aggregate = "charged"
	AggregateTotalAdj  Aggregate = "total_adj"
	AggregateCreditAdj Aggregate = "credit_adj"
	AggregateRefundAdj Aggregate = "refund_adj"
	AggregateCBA       Aggregate = "cba"
	AggregateOriginal  Aggregate = "original_charged"
)

// categories tipos que cuentan para cada agregado. Un tipo puede aparecer en varios.
var categories = map[Aggregate][]entity.InvoiceItemType{
	// Las reparaciones reducen cargos previos y se incluyen para que el neto sea correcto.
	AggregateCharged: {
		entity.ItemTypeExternalCharge, entity.ItemTypeRecurring, entity.ItemTypeFixed, entity.ItemTypeRepairAdj,
	},
	AggregateTotalAdj: {
		entity.ItemTypeCreditAdj, entity.ItemTypeRefundAdj, entity.ItemTypeItemAdj,
	},
	AggregateCreditAdj: {entity.ItemTypeCreditAdj},
	AggregateRefundAdj: {entity.ItemTypeRefundAdj},
	AggregateCBA:       {entity.ItemTypeCBAAdj},
	AggregateOriginal: {
		entity.ItemTypeExternalCharge, entity.ItemTypeRecurring, entity.ItemTypeFixed,
	},
}

// CategoryTypes devuelve una copia de los tipos que suman en el agregado.
func CategoryTypes(a Aggregate) []entity.InvoiceItemType {
	return append([]entity.InvoiceItemType(nil), categories[a]...)
}

// ItemList contenedor ordenado de ítems de una misma factura con sus consultas de suma.
// No es seguro para uso concurrente con escrituras; el llamador serializa el acceso.
type ItemList struct {
	policy RoundingPolicy
	items  []*entity.InvoiceItem
}

// NewItemList crea una lista vacía que redondea con policy.
func NewItemList(policy RoundingPolicy) *ItemList {
	return &ItemList{policy: policy}
}

// NewItemListFromRecords convierte cada registro, en orden, con la fábrica.
// Ante el primer error no devuelve lista y retorna el error de la fábrica tal cual.
func NewItemListFromRecords(policy RoundingPolicy, factory ItemFactory, records []*entity.InvoiceItemRecord) (*ItemList, error) {
	l := &ItemList{policy: policy, items: make([]*entity.InvoiceItem, 0, len(records))}
	for _, rec := range records {
		item, err := factory.FromRecord(rec)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, ErrNilItem
		}
		l.items = append(l.items, item)
	}
	return l, nil
}

// Add agrega ítems al final. Rechaza la operación completa si alguno es nil.
func (l *ItemList) Add(items ...*entity.InvoiceItem) error {
	for _, it := range items {
		if it == nil {
			return ErrNilItem
		}
	}
	l.items = append(l.items, items...)
	return nil
}

// Len cantidad de ítems.
func (l *ItemList) Len() int { return len(l.items) }

// Items copia de la secuencia en orden de inserción.
func (l *ItemList) Items() []*entity.InvoiceItem {
	return append([]*entity.InvoiceItem(nil), l.items...)
}

// Policy política de redondeo con la que se construyó la lista.
func (l *ItemList) Policy() RoundingPolicy { return l.policy }

// ChargedAmount total facturado: FIXED, RECURRING, EXTERNAL_CHARGE y REPAIR_ADJ.
func (l *ItemList) ChargedAmount() decimal.Decimal { return l.AmountFor(AggregateCharged) }

// TotalAdjAmount total de ajustes: ITEM_ADJ, CREDIT_ADJ y REFUND_ADJ.
func (l *ItemList) TotalAdjAmount() decimal.Decimal { return l.AmountFor(AggregateTotalAdj) }

// CreditAdjAmount subtotal de CREDIT_ADJ.
func (l *ItemList) CreditAdjAmount() decimal.Decimal { return l.AmountFor(AggregateCreditAdj) }

// RefundAdjAmount subtotal de REFUND_ADJ.
func (l *ItemList) RefundAdjAmount() decimal.Decimal { return l.AmountFor(AggregateRefundAdj) }

// CBAAmount monto tomado de (o abonado a) el saldo a favor de la cuenta.
func (l *ItemList) CBAAmount() decimal.Decimal { return l.AmountFor(AggregateCBA) }

// OriginalChargedAmount suma de FIXED, RECURRING y EXTERNAL_CHARGE.
//
// Históricamente esta consulta comparaba la fecha de creación de cada ítem consigo misma,
// condición que siempre se cumple. Se conserva ese resultado observable: ningún ítem se
// excluye por su fecha. Si producto define una fecha de corte real, se filtra aquí.
func (l *ItemList) OriginalChargedAmount() decimal.Decimal {
	return l.sum(categories[AggregateOriginal], func(it *entity.InvoiceItem) bool {
		return it.CreatedAt.Equal(it.CreatedAt)
	})
}

// Balance saldo pendiente = cargos + ajustes + saldo a favor - pagado.
func (l *ItemList) Balance(paidAmount decimal.Decimal) decimal.Decimal {
	total := l.ChargedAmount().Add(l.TotalAdjAmount()).Add(l.CBAAmount()).Sub(paidAmount)
	return l.policy.Apply(total)
}

// AmountFor suma los montos de los ítems cuyo tipo pertenece al agregado.
func (l *ItemList) AmountFor(a Aggregate) decimal.Decimal {
	if a == AggregateOriginal {
		return l.OriginalChargedAmount()
	}
	return l.sum(categories[a], nil)
}

// Summary todos los agregados de una vez.
type Summary struct {
	ChargedAmount         decimal.Decimal
	OriginalChargedAmount decimal.Decimal
	TotalAdjAmount        decimal.Decimal
	CreditAdjAmount       decimal.Decimal
	RefundAdjAmount       decimal.Decimal
	CBAAmount             decimal.Decimal
	PaidAmount            decimal.Decimal
	Balance               decimal.Decimal
}

// Summary calcula todos los agregados y el saldo para paidAmount.
func (l *ItemList) Summary(paidAmount decimal.Decimal) Summary {
	return Summary{
		ChargedAmount:         l.ChargedAmount(),
		OriginalChargedAmount: l.OriginalChargedAmount(),
		TotalAdjAmount:        l.TotalAdjAmount(),
		CreditAdjAmount:       l.CreditAdjAmount(),
		RefundAdjAmount:       l.RefundAdjAmount(),
		CBAAmount:             l.CBAAmount(),
		PaidAmount:            l.policy.Apply(paidAmount),
		Balance:               l.Balance(paidAmount),
	}
}

// sum recorre todos los ítems una vez; los montos ausentes cuentan como cero.
// El acumulador empieza en cero escalado y el total se vuelve a escalar al final.
func (l *ItemList) sum(types []entity.InvoiceItemType, keep func(*entity.InvoiceItem) bool) decimal.Decimal {
	total := l.policy.Zero()
	for _, it := range l.items {
		if !isFromType(it, types) {
			continue
		}
		if keep != nil && !keep(it) {
			continue
		}
		if it.Amount.Valid {
			total = total.Add(it.Amount.Decimal)
		}
	}
	return l.policy.Apply(total)
}

func isFromType(it *entity.InvoiceItem, types []entity.InvoiceItemType) bool {
	for _, t := range types {
		if it.Type == t {
			return true
		}
	}
	return false
}
