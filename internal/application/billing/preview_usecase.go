package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
	"github.com/jhoicas/precios-api/internal/domain/repository"
	"github.com/jhoicas/precios-api/pkg/logger"
	"github.com/jhoicas/precios-api/pkg/money"
)

// Defaults valores por defecto de la vista previa cuando el request no los trae.
type Defaults struct {
	ReferenceCurrency string
	IVAPercentage     decimal.NullDecimal // vacío: se usa el IVA general (16)
}

// PricingUseCase arma la vista previa de una factura multimoneda. No persiste nada.
type PricingUseCase struct {
	source    RegistrySource
	products  repository.ProductRepository
	generator ProformaGenerator
	format    *money.Formatter
	defaults  Defaults
	log       *logger.Logger
	now       func() time.Time
}

// NewPricingUseCase construye el caso de uso. generator puede ser nil si no se exponen proformas.
func NewPricingUseCase(
	source RegistrySource,
	products repository.ProductRepository,
	generator ProformaGenerator,
	format *money.Formatter,
	defaults Defaults,
	log *logger.Logger,
) *PricingUseCase {
	return &PricingUseCase{
		source:    source,
		products:  products,
		generator: generator,
		format:    format,
		defaults:  defaults,
		log:       log.Named("pricing"),
		now:       time.Now,
	}
}

// Preview resuelve las líneas contra el catálogo, convierte a la moneda de pago
// y devuelve el desglose con IVA e IGTF.
func (uc *PricingUseCase) Preview(ctx context.Context, in dto.PreviewRequest) (*dto.PreviewResponse, error) {
	method, err := pricing.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	lines, err := uc.resolveLines(ctx, in.Items)
	if err != nil {
		return nil, err
	}
	reg, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	totalsIn := pricing.TotalsInput{
		Lines:         lines,
		ReferenceCode: in.ReferenceCurrency,
		TargetCode:    in.TargetCurrency,
		PaymentMethod: method,
		At:            uc.now(),
	}
	if strings.TrimSpace(totalsIn.ReferenceCode) == "" {
		totalsIn.ReferenceCode = uc.defaults.ReferenceCurrency
	}
	totalsIn.IVAPercentage = uc.defaults.IVAPercentage
	if in.IVAPercentage != nil {
		totalsIn.IVAPercentage = decimal.NewNullDecimal(*in.IVAPercentage)
	}
	if in.ManualRate != nil {
		totalsIn.ManualRate = decimal.NewNullDecimal(*in.ManualRate)
	}

	totals, err := pricing.ComputeInvoiceTotals(reg, totalsIn)
	if err != nil {
		return nil, err
	}

	out := uc.toPreviewResponse(totals)
	uc.log.Info().
		Str("preview_id", out.PreviewID).
		Str("reference", out.ReferenceCurrency).
		Str("target", out.TargetCurrency).
		Str("payment_method", out.PaymentMethod).
		Str("total", out.TotalAmount.String()).
		Bool("igtf", out.IGTFApplied).
		Bool("manual_rate", out.ManualRate).
		Msg("vista previa calculada")
	return out, nil
}

// resolveLines completa precio y exención desde el catálogo. Los valores
// explícitos del request tienen prioridad sobre los del producto.
func (uc *PricingUseCase) resolveLines(ctx context.Context, items []dto.PreviewItemRequest) ([]pricing.LineItem, error) {
	lines := make([]pricing.LineItem, 0, len(items))
	for i, it := range items {
		line := pricing.LineItem{
			ProductID:   it.ProductID,
			Description: it.Description,
			Quantity:    it.Quantity,
		}
		if it.UnitPrice != nil {
			line.UnitPrice = *it.UnitPrice
		}
		if it.TaxExempt != nil {
			line.TaxExempt = *it.TaxExempt
		}

		if it.UnitPrice == nil || it.TaxExempt == nil {
			if strings.TrimSpace(it.ProductID) == "" {
				return nil, fmt.Errorf("%w: línea %d sin producto ni precio", domain.ErrValidation, i+1)
			}
			p, err := uc.products.GetByID(ctx, it.ProductID)
			if err != nil {
				return nil, fmt.Errorf("obtener producto %s: %w", it.ProductID, err)
			}
			if p == nil {
				return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
			}
			if !p.IsActive {
				return nil, fmt.Errorf("%w: producto %s inactivo", domain.ErrValidation, p.SKU)
			}
			if it.UnitPrice == nil {
				line.UnitPrice = p.Price
			}
			if it.TaxExempt == nil {
				line.TaxExempt = p.TaxExempt
			}
			if line.Description == "" {
				line.Description = p.Name
			}
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (uc *PricingUseCase) toPreviewResponse(t pricing.InvoiceTotals) *dto.PreviewResponse {
	target := t.TargetCurrency
	out := &dto.PreviewResponse{
		PreviewID:          uuid.New().String(),
		ReferenceCurrency:  t.ReferenceCurrency.Code,
		TargetCurrency:     target.Code,
		TargetSymbol:       target.Symbol,
		TargetDecimals:     target.DecimalPlaces,
		PaymentMethod:      string(t.PaymentMethod),
		SubtotalReference:  t.SubtotalReference,
		TaxableBase:        t.TaxableBase,
		ExemptAmount:       t.ExemptAmount,
		SubtotalTarget:     t.SubtotalTarget,
		TaxableBaseTarget:  t.TaxableBaseTarget,
		ExemptAmountTarget: t.ExemptAmountTarget,
		IVAPercentage:      t.IVAPercentage,
		IVAAmount:          t.IVAAmount,
		IGTFApplied:        t.IGTFApplied,
		IGTFAmount:         t.IGTFAmount,
		IGTF:               dto.NewIGTFResponse(t.IGTF),
		TotalAmount:        t.TotalAmount,
		ExchangeRateUsed:   t.ExchangeRateUsed,
		EffectiveRate:      t.EffectiveRate,
		ManualRate:         t.ManualRate,
		ConversionPath:     t.ConversionPath,
		RateDate:           t.RateDate,
		Lines:              make([]dto.PreviewLineResponse, 0, len(t.Lines)),
		Display: dto.PreviewDisplay{
			Subtotal: uc.format.Format(t.SubtotalTarget, target.Symbol, target.DecimalPlaces),
			IVA:      uc.format.Format(t.IVAAmount, target.Symbol, target.DecimalPlaces),
			IGTF:     uc.format.Format(t.IGTFAmount, target.Symbol, target.DecimalPlaces),
			Total:    uc.format.Format(t.TotalAmount, target.Symbol, target.DecimalPlaces),
		},
	}
	for _, l := range t.Lines {
		out.Lines = append(out.Lines, dto.PreviewLineResponse{
			ProductID:      l.ProductID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			TaxExempt:      l.TaxExempt,
			TotalReference: l.TotalReference,
			TotalTarget:    l.TotalTarget,
		})
	}
	return out
}
