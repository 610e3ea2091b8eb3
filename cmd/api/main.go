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

	"github.com/mennyrose/Bunker-data/internal/application/auth"
	"github.com/mennyrose/Bunker-data/internal/application/reporting"
	"github.com/mennyrose/Bunker-data/internal/domain/report"
	infraexcel "github.com/mennyrose/Bunker-data/internal/infrastructure/excel"
	infrapdf "github.com/mennyrose/Bunker-data/internal/infrastructure/pdf"
	"github.com/mennyrose/Bunker-data/internal/infrastructure/postgres"
	httpRouter "github.com/mennyrose/Bunker-data/internal/interfaces/http"
	"github.com/mennyrose/Bunker-data/pkg/config"
	"github.com/mennyrose/Bunker-data/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("loading configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	receiptRepo := postgres.NewReceiptRepository(pool, log)
	catalogRepo := postgres.NewCatalogRepository(pool)

	labels := report.DefaultLabels()
	labels.Battalion = cfg.Report.BattalionLabel

	xlsxExporter := infraexcel.NewSummaryExporter()
	pdfGenerator := infrapdf.NewSummaryPDFGenerator(cfg.App.Name)

	reportUC := reporting.NewUseCase(
		receiptRepo, catalogRepo,
		xlsxExporter, pdfGenerator,
		cfg.Report.DepotUnit, labels, log,
	)
	authUC := auth.NewUseCase(userRepo, cfg.JWT, log)

	// Warm the first snapshot so the first request does not pay the load.
	// A failure here is not fatal; the lazy path retries on demand.
	if _, err := reportUC.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial snapshot load failed")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Bunker Data API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ReportUC:  reportUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
