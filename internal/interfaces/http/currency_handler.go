package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/pkg/logger"
)

// CurrencyService operaciones del registro de monedas. Lo implementa *usecase.CurrencyUseCase.
type CurrencyService interface {
	List(ctx context.Context) (*dto.CurrencyListResponse, error)
	Get(ctx context.Context, code string) (*dto.CurrencyResponse, error)
	Convert(ctx context.Context, in dto.ConvertRequest) (*dto.ConvertResponse, error)
	IGTF(ctx context.Context, in dto.IGTFRequest) (*dto.IGTFResponse, error)
	ValidateChange(ctx context.Context, in dto.CurrencyChangeRequest) (*dto.CurrencyChangeResponse, error)
}

// CurrencyHandler maneja las peticiones HTTP del registro de monedas.
type CurrencyHandler struct {
	svc CurrencyService
	log *logger.Logger
}

// NewCurrencyHandler construye el handler.
func NewCurrencyHandler(svc CurrencyService, log *logger.Logger) *CurrencyHandler {
	return &CurrencyHandler{svc: svc, log: log}
}

// List godoc
// @Summary      Listar monedas activas
// @Description  Devuelve el snapshot del registro con la moneda base y la fecha de la última tasa.
// @Tags         currencies
// @Produce      json
// @Success      200  {object}  dto.CurrencyListResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/currencies [get]
func (h *CurrencyHandler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener una moneda por código ISO
// @Tags         currencies
// @Produce      json
// @Param        code  path  string  true  "Código ISO 4217 (USD, VES, EUR)"
// @Success      200  {object}  dto.CurrencyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/currencies/{code} [get]
func (h *CurrencyHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Get(c.UserContext(), c.Params("code"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir un monto entre dos monedas
// @Tags         currencies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertRequest  true  "amount, from, to"
// @Success      200  {object}  dto.ConvertResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/currencies/convert [post]
func (h *CurrencyHandler) Convert(c *fiber.Ctx) error {
	var in dto.ConvertRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.Convert(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// IGTF godoc
// @Summary      Calcular IGTF de un pago
// @Description  Aplica las reglas de exención en orden: moneda no sujeta, moneda base, moneda exenta, monto bajo el mínimo; el mínimo exacto sí paga.
// @Tags         currencies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.IGTFRequest  true  "amount, currency, payment_method"
// @Success      200  {object}  dto.IGTFResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/currencies/igtf [post]
func (h *CurrencyHandler) IGTF(c *fiber.Ctx) error {
	var in dto.IGTFRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.IGTF(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ValidateChange godoc
// @Summary      Validar un cambio al registro sin aplicarlo
// @Description  Designación de moneda base, retiro de la marca de base y nuevas tasas; responde valid=false con la regla violada.
// @Tags         currencies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CurrencyChangeRequest  true  "set_base, unset_base, rates"
// @Success      200  {object}  dto.CurrencyChangeResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/currencies/validate [post]
func (h *CurrencyHandler) ValidateChange(c *fiber.Ctx) error {
	var in dto.CurrencyChangeRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.ValidateChange(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
