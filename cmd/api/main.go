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
	"github.com/shopspring/decimal"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/jhoicas/precios-api/internal/application/billing"
	"github.com/jhoicas/precios-api/internal/application/registry"
	"github.com/jhoicas/precios-api/internal/application/usecase"
	"github.com/jhoicas/precios-api/internal/domain/repository"
	"github.com/jhoicas/precios-api/internal/infrastructure/erpapi"
	infrapdf "github.com/jhoicas/precios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/precios-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/precios-api/internal/interfaces/http"
	"github.com/jhoicas/precios-api/pkg/config"
	"github.com/jhoicas/precios-api/pkg/logger"
	"github.com/jhoicas/precios-api/pkg/money"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("registry_source", cfg.Pricing.Source).
		Msg("iniciando aplicación")

	ivaPct, err := decimal.NewFromString(cfg.Pricing.IVAPercentage)
	if err != nil || ivaPct.IsNegative() {
		log.Fatal().Str("value", cfg.Pricing.IVAPercentage).Msg("PRICING_IVA_PERCENTAGE inválido")
	}

	ctx := context.Background()

	// Fuente del registro de monedas y del catálogo: base del ERP o su API REST.
	var (
		currencyRepo repository.CurrencyRepository
		productRepo  repository.ProductRepository
	)
	switch cfg.Pricing.Source {
	case config.SourceAPI:
		client := erpapi.NewClient(cfg.ERP)
		currencyRepo, productRepo = client, client
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		currencyRepo = postgres.NewCurrencyRepository(pool)
		productRepo = postgres.NewProductRepository(pool)
	}

	loader, err := registry.NewLoader(currencyRepo, cfg.Pricing.USDPivotRate, log)
	if err != nil {
		log.Fatal().Err(err).Msg("PRICING_USD_PIVOT_RATE inválido")
	}
	// Verificación temprana: el servicio arranca igual, cada petición recarga el registro.
	if reg, err := loader.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("registro de monedas no disponible al arrancar")
	} else if base, err := reg.Base(); err == nil {
		log.Info().Str("base", base.Code).Int("currencies", reg.Len()).Msg("registro de monedas listo")
	}

	format := money.NewFormatter(cfg.App.Locale)
	currencyUC := usecase.NewCurrencyUseCase(loader, format, log)
	pricingUC := billing.NewPricingUseCase(
		loader, productRepo,
		infrapdf.NewMarotoProformaGenerator(cfg.App.Name, format),
		format,
		billing.Defaults{ReferenceCurrency: cfg.Pricing.ReferenceCurrency, IVAPercentage: decimal.NewNullDecimal(ivaPct)},
		log,
	)

	var lim *limiter.Limiter
	if cfg.HTTP.RateLimit != "" {
		rate, err := limiter.NewRateFromFormatted(cfg.HTTP.RateLimit)
		if err != nil {
			log.Fatal().Err(err).Str("value", cfg.HTTP.RateLimit).Msg("HTTP_RATE_LIMIT inválido")
		}
		lim = limiter.New(memory.NewStore(), rate)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("access")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Precios API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Currencies: currencyUC,
		Pricing:    pricingUC,
		Limiter:    lim,
		Logger:     log,
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
