package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cartera-api/internal/application/billing"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
)

// InvoiceHandler maneja saldos, líneas y estado de cuenta de facturas (protegido).
type InvoiceHandler struct {
	balance   *billing.InvoiceBalanceUseCase
	statement *billing.StatementPDFUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(balance *billing.InvoiceBalanceUseCase, statement *billing.StatementPDFUseCase) *InvoiceHandler {
	return &InvoiceHandler{balance: balance, statement: statement}
}

// GetBalance devuelve cargos, ajustes, saldo a favor y saldo pendiente.
// GET /api/invoices/:id/balance?paid_amount=100.00
func (h *InvoiceHandler) GetBalance(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var paid *decimal.Decimal
	if raw := strings.TrimSpace(c.Query("paid_amount")); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paid_amount no es un número válido"})
		}
		paid = &d
	}
	resp, err := h.balance.GetBalance(c.Context(), companyID, c.Params("id"), paid)
	if err != nil {
		return readError(c, err)
	}
	return c.JSON(resp)
}

// ListItems lista las líneas de la factura.
// GET /api/invoices/:id/items
func (h *InvoiceHandler) ListItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	resp, err := h.balance.ListItems(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return readError(c, err)
	}
	return c.JSON(resp)
}

// AddItem registra una línea nueva en la factura.
// POST /api/invoices/:id/items
func (h *InvoiceHandler) AddItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInvoiceItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	item, err := h.balance.AddItem(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
		case errors.Is(err, domain.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el ítem ya existe"})
		}
		return readError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// DownloadStatement devuelve el estado de cuenta en PDF.
// GET /api/invoices/:id/statement.pdf
func (h *InvoiceHandler) DownloadStatement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	pdf, filename, err := h.statement.Download(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return readError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

// readError traduce errores de consulta. Un ítem persistido inválido no es culpa del
// cliente: se responde 422 para distinguirlo de un 400 por parámetros.
func readError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, invoicing.ErrInvalidItemRecord):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INVALID_ITEM", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "factura no encontrada"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
