package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ulule/limiter/v3"

	"github.com/jhoicas/precios-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Currencies CurrencyService
	Pricing    PricingService
	Limiter    *limiter.Limiter // nil = sin límite
	Logger     *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger.Named("http")

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", RateLimit(deps.Limiter, log))

	currencies := api.Group("/currencies")
	currencyHandler := NewCurrencyHandler(deps.Currencies, log)
	currencies.Get("/", currencyHandler.List)
	currencies.Post("/convert", currencyHandler.Convert)
	currencies.Post("/igtf", currencyHandler.IGTF)
	currencies.Post("/validate", currencyHandler.ValidateChange)
	currencies.Get("/:code", currencyHandler.Get)

	pricing := api.Group("/pricing")
	pricingHandler := NewPricingHandler(deps.Pricing, log)
	pricing.Post("/preview", pricingHandler.Preview)
	pricing.Post("/preview/pdf", pricingHandler.PreviewPDF)
}
