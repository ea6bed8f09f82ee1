package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cartera-api/internal/application/billing"
	"github.com/jhoicas/Cartera-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Balance   *billing.InvoiceBalanceUseCase
	Statement *billing.StatementPDFUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	invoiceHandler := NewInvoiceHandler(deps.Balance, deps.Statement)
	invoices := api.Group("/invoices")
	invoices.Get("/:id/balance", invoiceHandler.GetBalance)
	invoices.Get("/:id/items", invoiceHandler.ListItems)
	invoices.Get("/:id/statement.pdf", invoiceHandler.DownloadStatement)
	invoices.Post("/:id/items", RequireRole(jwt.RoleAdmin, jwt.RoleCartera), invoiceHandler.AddItem)
}
