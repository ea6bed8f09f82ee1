package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Cartera-api/internal/application/billing"
	"github.com/jhoicas/Cartera-api/internal/domain/invoicing"
	infrapdf "github.com/jhoicas/Cartera-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	"github.com/jhoicas/Cartera-api/pkg/config"
	"github.com/jhoicas/Cartera-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})

	policy, err := invoicing.NewRoundingPolicy(cfg.Invoicing.NumberOfDecimals, cfg.Invoicing.RoundingMode)
	if err != nil {
		log.Fatal().Err(err).Msg("política de redondeo inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Int32("scale", policy.Scale).
		Str("rounding", string(policy.Mode)).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	balanceUC := billing.NewInvoiceBalanceUseCase(
		postgres.NewInvoiceRepository(pool),
		postgres.NewInvoiceItemRepository(pool),
		postgres.NewPaymentRepository(pool),
		invoicing.NewDefaultItemFactory(),
		policy,
		log,
	)
	statementUC := billing.NewStatementPDFUseCase(balanceUC, infrapdf.NewMarotoStatementGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	if _, err := os.Stat(cfg.HTTP.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerFile,
			Path:     "docs",
			Title:    "Cartera API",
		}))
	} else {
		log.Warn().Str("file", cfg.HTTP.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Balance:   balanceUC,
		Statement: statementUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
