package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

// InvoiceBalanceUseCase consulta saldos y líneas de una factura y registra nuevas líneas.
type InvoiceBalanceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	itemRepo    repository.InvoiceItemRepository
	paymentRepo repository.PaymentRepository
	factory     invoicing.ItemFactory
	policy      invoicing.RoundingPolicy
	log         *logger.Logger
	now         func() time.Time
}

// NewInvoiceBalanceUseCase construye el caso de uso.
func NewInvoiceBalanceUseCase(
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.InvoiceItemRepository,
	paymentRepo repository.PaymentRepository,
	factory invoicing.ItemFactory,
	policy invoicing.RoundingPolicy,
	log *logger.Logger,
) *InvoiceBalanceUseCase {
	return &InvoiceBalanceUseCase{
		invoiceRepo: invoiceRepo,
		itemRepo:    itemRepo,
		paymentRepo: paymentRepo,
		factory:     factory,
		policy:      policy,
		log:         log.Component("billing"),
		now:         time.Now,
	}
}

// GetBalance calcula todos los agregados de la factura.
// Si paid es nil se usa la suma de pagos registrados.
//
// Retorna:
//   - domain.ErrNotFound  si la factura no existe.
//   - domain.ErrForbidden si pertenece a otra empresa.
//   - el error de la fábrica, sin envolver, si alguna línea persistida no es válida.
func (uc *InvoiceBalanceUseCase) GetBalance(ctx context.Context, companyID, invoiceID string, paid *decimal.Decimal) (*dto.InvoiceBalanceResponse, error) {
	inv, err := uc.loadInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	list, err := uc.loadItems(ctx, inv)
	if err != nil {
		return nil, err
	}

	paidAmount, err := uc.paidAmount(ctx, inv.ID, paid)
	if err != nil {
		return nil, err
	}
	s := list.Summary(paidAmount)

	uc.log.Debug().
		Str("invoice_id", inv.ID).
		Int("items", list.Len()).
		Str("balance", s.Balance.String()).
		Msg("saldo calculado")

	return &dto.InvoiceBalanceResponse{
		InvoiceID:             inv.ID,
		Number:                inv.Number,
		Currency:              inv.Currency,
		ItemCount:             list.Len(),
		ChargedAmount:         uc.policy.Format(s.ChargedAmount),
		OriginalChargedAmount: uc.policy.Format(s.OriginalChargedAmount),
		TotalAdjAmount:        uc.policy.Format(s.TotalAdjAmount),
		CreditAdjAmount:       uc.policy.Format(s.CreditAdjAmount),
		RefundAdjAmount:       uc.policy.Format(s.RefundAdjAmount),
		CBAAmount:             uc.policy.Format(s.CBAAmount),
		PaidAmount:            uc.policy.Format(s.PaidAmount),
		Balance:               uc.policy.Format(s.Balance),
	}, nil
}

// ListItems devuelve las líneas de la factura en orden de creación.
func (uc *InvoiceBalanceUseCase) ListItems(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceItemsResponse, error) {
	inv, err := uc.loadInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	list, err := uc.loadItems(ctx, inv)
	if err != nil {
		return nil, err
	}
	out := &dto.InvoiceItemsResponse{InvoiceID: inv.ID, Items: make([]dto.InvoiceItemResponse, 0, list.Len())}
	for _, it := range list.Items() {
		out.Items = append(out.Items, uc.toItemResponse(it))
	}
	return out, nil
}

// AddItem registra una línea nueva. La fila se valida con la misma fábrica que se usa al leer,
// así no se persiste nada que luego impida calcular el saldo.
func (uc *InvoiceBalanceUseCase) AddItem(ctx context.Context, companyID, invoiceID string, in dto.CreateInvoiceItemRequest) (*dto.InvoiceItemResponse, error) {
	if strings.TrimSpace(in.Type) == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.loadInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}

	rec := &entity.InvoiceItemRecord{
		ID:          uuid.New().String(),
		InvoiceID:   inv.ID,
		AccountID:   inv.AccountID,
		ItemType:    strings.ToUpper(strings.TrimSpace(in.Type)),
		Description: strings.TrimSpace(in.Description),
		Currency:    inv.Currency,
		CreatedAt:   uc.now().UTC(),
	}
	if in.Amount != nil {
		// Se guarda ya en la escala de la política: las líneas listadas deben sumar el total.
		rec.Amount = decimal.NewNullDecimal(uc.policy.Apply(*in.Amount))
	}
	if linked := strings.TrimSpace(in.LinkedItemID); linked != "" {
		rec.LinkedItemID = &linked
	}

	item, err := uc.factory.FromRecord(rec)
	if err != nil {
		return nil, err
	}
	if err := uc.itemRepo.CreateRecord(ctx, rec); err != nil {
		return nil, fmt.Errorf("guardar ítem: %w", err)
	}

	uc.log.Info().
		Str("invoice_id", inv.ID).
		Str("item_id", rec.ID).
		Str("type", string(item.Type)).
		Msg("ítem de factura registrado")

	resp := uc.toItemResponse(item)
	return &resp, nil
}

// Statement arma los datos del estado de cuenta (usado por el PDF).
func (uc *InvoiceBalanceUseCase) Statement(ctx context.Context, companyID, invoiceID string) (*StatementData, error) {
	inv, err := uc.loadInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	list, err := uc.loadItems(ctx, inv)
	if err != nil {
		return nil, err
	}
	paid, err := uc.paidAmount(ctx, inv.ID, nil)
	if err != nil {
		return nil, err
	}
	return &StatementData{
		Invoice: inv,
		Items:   list.Items(),
		Summary: list.Summary(paid),
		Policy:  uc.policy,
	}, nil
}

func (uc *InvoiceBalanceUseCase) loadInvoice(ctx context.Context, companyID, invoiceID string) (*entity.Invoice, error) {
	if invoiceID == "" {
		return nil, domain.ErrInvalidInput
	}
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

func (uc *InvoiceBalanceUseCase) loadItems(ctx context.Context, inv *entity.Invoice) (*invoicing.ItemList, error) {
	records, err := uc.itemRepo.ListRecordsByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listar ítems: %w", err)
	}
	list, err := invoicing.NewItemListFromRecords(uc.policy, uc.factory, records)
	if err != nil {
		uc.log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("ítem persistido inválido")
		return nil, err
	}
	return list, nil
}

func (uc *InvoiceBalanceUseCase) paidAmount(ctx context.Context, invoiceID string, paid *decimal.Decimal) (decimal.Decimal, error) {
	if paid != nil {
		return *paid, nil
	}
	total, err := uc.paymentRepo.SumPaidByInvoiceID(ctx, invoiceID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumar pagos: %w", err)
	}
	return total, nil
}

func (uc *InvoiceBalanceUseCase) toItemResponse(it *entity.InvoiceItem) dto.InvoiceItemResponse {
	r := dto.InvoiceItemResponse{
		ID:           it.ID,
		InvoiceID:    it.InvoiceID,
		Type:         string(it.Type),
		Description:  it.Description,
		Currency:     it.Currency,
		LinkedItemID: it.LinkedItemID,
		CreatedAt:    it.CreatedAt,
	}
	if it.Amount.Valid {
		s := uc.policy.Format(it.Amount.Decimal)
		r.Amount = &s
	}
	return r
}
