// Package pdf genera el estado de cuenta de una factura con Maroto v2.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Estado de cuenta + N° factura + fecha               │
//	│  TABLA: Fecha | Tipo | Descripción | Monto                   │
//	│  RESUMEN: cargos / ajustes / saldo a favor / pagado / SALDO  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/billing"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ billing.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// MarotoStatementGenerator implementa billing.StatementPDFGenerator.
type MarotoStatementGenerator struct{}

// NewMarotoStatementGenerator construye el generador.
func NewMarotoStatementGenerator() *MarotoStatementGenerator { return &MarotoStatementGenerator{} }

// GenerateStatementPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStatementGenerator) GenerateStatementPDF(_ context.Context, data billing.StatementData) ([]byte, error) {
	if data.Invoice == nil {
		return nil, fmt.Errorf("pdf: factura requerida")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta "+data.Invoice.Number, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(data.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(data.Items, data.Policy)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRows(data.Summary, data.Policy, data.Invoice.Currency)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(inv *entity.Invoice) core.Row {
	date := inv.InvoiceDate.Format("02/01/2006")
	return row.New(16).Add(
		col.New(7).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Cuenta: "+inv.AccountID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Factura "+inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+date, props.Text{Size: 8, Align: align.Right, Top: 9, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 3, align.Left),
		h("Descripción", 4, align.Left),
		h("Monto", 3, align.Right),
	)
}

func itemRows(items []*entity.InvoiceItem, policy invoicing.RoundingPolicy) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		amount := "—"
		if it.Amount.Valid {
			amount = formatAmount(policy.Format(it.Amount.Decimal))
		}
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(it.CreatedAt.Format("02/01/2006"), props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(itemTypeLabel(it.Type), props.Text{Size: 8, Top: 1})),
			col.New(4).Add(text.New(it.Description, props.Text{Size: 8, Top: 1})),
			col.New(3).Add(text.New(amount, props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func summaryRows(s invoicing.Summary, policy invoicing.RoundingPolicy, currency string) []core.Row {
	entry := func(label string, v decimal.Decimal, strong bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Top: 1}
		if strong {
			p.Style = fontstyle.Bold
			p.Color = colorPrimary
			p.Size = 10
		}
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, p)),
			col.New(3).Add(text.New(formatAmount(policy.Format(v))+" "+currency, p)),
		)
	}
	return []core.Row{
		entry("Cargos:", s.ChargedAmount, false),
		entry("Ajustes:", s.TotalAdjAmount, false),
		entry("Saldo a favor aplicado:", s.CBAAmount, false),
		entry("Pagado:", s.PaidAmount, false),
		entry("SALDO:", s.Balance, true),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

var itemTypeLabels = map[entity.InvoiceItemType]string{
	entity.ItemTypeFixed:          "Cargo fijo",
	entity.ItemTypeRecurring:      "Cargo recurrente",
	entity.ItemTypeExternalCharge: "Cargo externo",
	entity.ItemTypeRepairAdj:      "Reparación",
	entity.ItemTypeItemAdj:        "Ajuste de ítem",
	entity.ItemTypeCreditAdj:      "Nota crédito",
	entity.ItemTypeRefundAdj:      "Reembolso",
	entity.ItemTypeCBAAdj:         "Saldo a favor",
}

func itemTypeLabel(t entity.InvoiceItemType) string {
	if l, ok := itemTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// formatAmount "-1234567.50" -> "-1.234.567,50" (miles con punto, decimales con coma).
func formatAmount(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	if hasFrac {
		return sign + string(buf) + "," + frac
	}
	return sign + string(buf)
}
