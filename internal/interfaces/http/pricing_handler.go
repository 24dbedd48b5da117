package http

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/pkg/logger"
)

// PricingService vista previa de facturas. Lo implementa *billing.PricingUseCase.
type PricingService interface {
	Preview(ctx context.Context, in dto.PreviewRequest) (*dto.PreviewResponse, error)
	PreviewPDF(ctx context.Context, in dto.PreviewRequest) ([]byte, string, error)
}

// PricingHandler maneja las peticiones HTTP de cotización.
type PricingHandler struct {
	svc PricingService
	log *logger.Logger
}

// NewPricingHandler construye el handler.
func NewPricingHandler(svc PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{svc: svc, log: log}
}

// Preview godoc
// @Summary      Vista previa de factura multimoneda
// @Description  Convierte los precios a la moneda de pago y calcula IVA e IGTF; unit_price y tax_exempt reemplazan los datos del producto si vienen.
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PreviewRequest  true  "líneas, moneda de pago y forma de pago"
// @Success      200  {object}  dto.PreviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/pricing/preview [post]
func (h *PricingHandler) Preview(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.svc.Preview(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// PreviewPDF godoc
// @Summary      Proforma PDF de la vista previa
// @Tags         pricing
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.PreviewRequest  true  "mismo cuerpo que /api/pricing/preview"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/pricing/preview/pdf [post]
func (h *PricingHandler) PreviewPDF(c *fiber.Ctx) error {
	var in dto.PreviewRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	pdfBytes, filename, err := h.svc.PreviewPDF(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdfBytes)
}
