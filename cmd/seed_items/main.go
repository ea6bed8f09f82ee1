// seed_items importa una exportación CSV (ISO-8859-1) de líneas de factura del sistema anterior,
// valida cada fila con la fábrica de ítems, imprime los totales por factura y genera un script SQL.
//
// Uso: go run ./cmd/seed_items [ruta/items.csv] [salida.sql]
// Columnas: id;invoice_id;account_id;item_type;description;amount;currency;linked_item_id;created_at
// created_at en RFC3339; amount vacío = sin monto.
package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

const csvColumns = 9

var errNoRecords = errors.New("el CSV no tiene filas de datos")

func main() {
	csvPath := "items.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	outPath := filepath.Join("internal", "infrastructure", "postgres", "migrations", "900_seed_invoice_items.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	policy, err := invoicing.NewRoundingPolicy(cfg.Invoicing.NumberOfDecimals, cfg.Invoicing.RoundingMode)
	if err != nil {
		log.Fatal().Err(err).Msg("política de redondeo")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	records, err := readRecords(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}
	normalizeAmounts(records, policy)

	order, byInvoice := groupByInvoice(records)
	factory := invoicing.NewDefaultItemFactory()
	for _, invoiceID := range order {
		list, err := invoicing.NewItemListFromRecords(policy, factory, byInvoice[invoiceID])
		if err != nil {
			log.Fatal().Err(err).Str("invoice_id", invoiceID).Msg("fila inválida, no se genera el script")
		}
		fmt.Printf("%s\titems=%d\tcharged=%s\tadj=%s\tcba=%s\tbalance(sin pagos)=%s\n",
			invoiceID, list.Len(),
			policy.Format(list.ChargedAmount()),
			policy.Format(list.TotalAdjAmount()),
			policy.Format(list.CBAAmount()),
			policy.Format(list.Balance(decimal.Zero)),
		)
	}

	script, err := buildSQL(records)
	if err != nil {
		log.Fatal().Err(err).Str("file", csvPath).Msg("no se genera el script")
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("crear directorio de salida")
	}
	if err := os.WriteFile(outPath, []byte(script), 0o644); err != nil {
		log.Fatal().Err(err).Msg("escribir SQL")
	}
	log.Info().Int("rows", len(records)).Int("invoices", len(order)).Str("file", outPath).Msg("script generado")
}

// readRecords decodifica ISO-8859-1 y parsea el CSV separado por ';'. La primera fila es encabezado.
func readRecords(r io.Reader) ([]*entity.InvoiceItemRecord, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = csvColumns

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]*entity.InvoiceItemRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseRow(row []string) (*entity.InvoiceItemRecord, error) {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	rec := &entity.InvoiceItemRecord{
		ID:          row[0],
		InvoiceID:   row[1],
		AccountID:   row[2],
		ItemType:    row[3],
		Description: row[4],
		Currency:    row[6],
	}
	if row[5] != "" {
		// Exportaciones con coma decimal: "12,50".
		amount, err := decimal.NewFromString(strings.ReplaceAll(row[5], ",", "."))
		if err != nil {
			return nil, fmt.Errorf("amount %q: %w", row[5], err)
		}
		rec.Amount = decimal.NewNullDecimal(amount)
	}
	if row[7] != "" {
		linked := row[7]
		rec.LinkedItemID = &linked
	}
	createdAt, err := time.Parse(time.RFC3339, row[8])
	if err != nil {
		return nil, fmt.Errorf("created_at %q: %w", row[8], err)
	}
	rec.CreatedAt = createdAt
	return rec, nil
}

// groupByInvoice agrupa conservando el orden de aparición de facturas y filas.
func groupByInvoice(records []*entity.InvoiceItemRecord) ([]string, map[string][]*entity.InvoiceItemRecord) {
	var order []string
	by := make(map[string][]*entity.InvoiceItemRecord)
	for _, rec := range records {
		if _, ok := by[rec.InvoiceID]; !ok {
			order = append(order, rec.InvoiceID)
		}
		by[rec.InvoiceID] = append(by[rec.InvoiceID], rec)
	}
	return order, by
}

// normalizeAmounts lleva los montos a la escala de la política antes de persistirlos.
func normalizeAmounts(records []*entity.InvoiceItemRecord, policy invoicing.RoundingPolicy) {
	for _, rec := range records {
		if rec.Amount.Valid {
			rec.Amount.Decimal = policy.Apply(rec.Amount.Decimal)
		}
	}
}

func buildSQL(records []*entity.InvoiceItemRecord) (string, error) {
	if len(records) == 0 {
		return "", errNoRecords
	}
	var b strings.Builder
	b.WriteString("-- Generado por cmd/seed_items. No editar a mano.\n")
	b.WriteString("INSERT INTO invoice_items (id, invoice_id, account_id, item_type, description, amount, currency, linked_item_id, created_at) VALUES\n")
	for i, rec := range records {
		amount := "NULL"
		if rec.Amount.Valid {
			amount = rec.Amount.Decimal.String()
		}
		linked := "NULL"
		if rec.LinkedItemID != nil {
			linked = quote(*rec.LinkedItemID)
		}
		fmt.Fprintf(&b, "  (%s, %s, %s, %s, %s, %s, %s, %s, %s)",
			quote(rec.ID), quote(rec.InvoiceID), quote(rec.AccountID),
			quote(strings.ToUpper(rec.ItemType)), quote(rec.Description), amount,
			quote(strings.ToUpper(rec.Currency)), linked, quote(rec.CreatedAt.UTC().Format(time.RFC3339)),
		)
		if i < len(records)-1 {
			b.WriteString(",\n")
		}
	}
	b.WriteString("\nON CONFLICT (id) DO NOTHING;\n")
	return b.String(), nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
