package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/internal/application/billing"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
	apphttp "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Cartera-api/pkg/jwt"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de repositorio
// ──────────────────────────────────────────────────────────────────────────────

type memInvoices map[string]*entity.Invoice

func (m memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return m[id], nil
}

type memItems struct {
	records []*entity.InvoiceItemRecord
}

func (m *memItems) ListRecordsByInvoiceID(_ context.Context, invoiceID string) ([]*entity.InvoiceItemRecord, error) {
	var out []*entity.InvoiceItemRecord
	for _, r := range m.records {
		if r.InvoiceID == invoiceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memItems) CreateRecord(_ context.Context, rec *entity.InvoiceItemRecord) error {
	m.records = append(m.records, rec)
	return nil
}

type fixedPayments struct{ paid decimal.Decimal }

func (p fixedPayments) SumPaidByInvoiceID(context.Context, string) (decimal.Decimal, error) {
	return p.paid, nil
}

type stubPDF struct{}

func (stubPDF) GenerateStatementPDF(context.Context, billing.StatementData) ([]byte, error) {
	return []byte("%PDF-stub"), nil
}

func itemRecord(id string, t entity.InvoiceItemType, amount string) *entity.InvoiceItemRecord {
	r := &entity.InvoiceItemRecord{
		ID: id, InvoiceID: "inv-1", AccountID: "acc-1",
		ItemType: string(t), Currency: "USD", CreatedAt: time.Now(),
	}
	if amount != "" {
		r.Amount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
	}
	return r
}

// buildInvoiceApp monta el router real con repositorios en memoria.
func buildInvoiceApp(items *memItems) *fiber.App {
	invoices := memInvoices{
		"inv-1": {ID: "inv-1", CompanyID: testCompanyID, AccountID: "acc-1", Number: "FV-1", Currency: "USD"},
		"inv-2": {ID: "inv-2", CompanyID: "otra-empresa", AccountID: "acc-9", Number: "FV-2", Currency: "USD"},
	}
	balance := billing.NewInvoiceBalanceUseCase(
		invoices, items, fixedPayments{paid: decimal.RequireFromString("100")},
		invoicing.NewDefaultItemFactory(), invoicing.DefaultRoundingPolicy, logger.Nop(),
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Balance:   balance,
		Statement: billing.NewStatementPDFUseCase(balance, stubPDF{}),
		JWTSecret: testJWTSecret,
	})
	return app
}

func scenarioItems() *memItems {
	return &memItems{records: []*entity.InvoiceItemRecord{
		itemRecord("i1", entity.ItemTypeFixed, "100.00"),
		itemRecord("i2", entity.ItemTypeRecurring, "50.00"),
		itemRecord("i3", entity.ItemTypeCreditAdj, "-5.00"),
		itemRecord("i4", entity.ItemTypeExternalCharge, ""),
	}}
}

func send(t *testing.T, app *fiber.App, method, path, role, body string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// GET /api/invoices/:id/balance
// ──────────────────────────────────────────────────────────────────────────────

func TestGetBalance_PagosRegistrados(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/balance", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.InvoiceBalanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "150.00", body.ChargedAmount)
	assert.Equal(t, "-5.00", body.TotalAdjAmount)
	assert.Equal(t, "100.00", body.PaidAmount)
	assert.Equal(t, "45.00", body.Balance)
	assert.Equal(t, 4, body.ItemCount)
}

func TestGetBalance_PaidAmountEnQuery(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/balance?paid_amount=145", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.InvoiceBalanceResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "0.00", body.Balance)
}

func TestGetBalance_PaidAmountInvalido(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/balance?paid_amount=abc", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetBalance_SinToken(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/balance", "", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestGetBalance_FacturaDeOtraEmpresa(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-2/balance", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestGetBalance_FacturaInexistente(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/nada/balance", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetBalance_ItemPersistidoInvalido_Retorna422(t *testing.T) {
	items := scenarioItems()
	items.records[0].ItemType = "BONUS"
	app := buildInvoiceApp(items)

	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/balance", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_ITEM", body.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items
// ──────────────────────────────────────────────────────────────────────────────

func TestListItems(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/items", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.InvoiceItemsResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Items, 4)
	assert.Nil(t, body.Items[3].Amount)
}

func TestAddItem_Creado(t *testing.T) {
	items := &memItems{}
	app := buildInvoiceApp(items)

	resp := send(t, app, http.MethodPost, "/api/invoices/inv-1/items", pkgjwt.RoleCartera,
		`{"type":"EXTERNAL_CHARGE","description":"Instalación","amount":"80.5"}`)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, items.records, 1)
	assert.Equal(t, "80.5", items.records[0].Amount.Decimal.String())

	var body dto.InvoiceItemResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Amount)
	assert.Equal(t, "80.50", *body.Amount)
}

func TestAddItem_TipoInvalido_Retorna400(t *testing.T) {
	items := &memItems{}
	app := buildInvoiceApp(items)

	resp := send(t, app, http.MethodPost, "/api/invoices/inv-1/items", pkgjwt.RoleCartera, `{"type":"GIFT","amount":1}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Empty(t, items.records)
}

func TestAddItem_RolConsultaBloqueado(t *testing.T) {
	app := buildInvoiceApp(&memItems{})
	resp := send(t, app, http.MethodPost, "/api/invoices/inv-1/items", pkgjwt.RoleConsulta, `{"type":"FIXED","amount":1}`)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estado de cuenta
// ──────────────────────────────────────────────────────────────────────────────

func TestDownloadStatement(t *testing.T) {
	app := buildInvoiceApp(scenarioItems())
	resp := send(t, app, http.MethodGet, "/api/invoices/inv-1/statement.pdf", pkgjwt.RoleConsulta, "")
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estado-cuenta-FV-1.pdf")
}
