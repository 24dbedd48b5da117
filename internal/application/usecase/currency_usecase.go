package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
	"github.com/jhoicas/precios-api/pkg/logger"
	"github.com/jhoicas/precios-api/pkg/money"
)

// RegistrySource entrega un snapshot validado del registro de monedas.
// *registry.Loader la implementa.
type RegistrySource interface {
	Load(ctx context.Context) (*pricing.Registry, error)
}

// CurrencyUseCase consultas sobre el registro: listado, conversión, IGTF y validación de cambios.
type CurrencyUseCase struct {
	source RegistrySource
	format *money.Formatter
	log    *logger.Logger
	now    func() time.Time
}

// NewCurrencyUseCase construye el caso de uso.
func NewCurrencyUseCase(source RegistrySource, format *money.Formatter, log *logger.Logger) *CurrencyUseCase {
	return &CurrencyUseCase{source: source, format: format, log: log.Named("currency"), now: time.Now}
}

// List devuelve el snapshot completo con la moneda base.
func (uc *CurrencyUseCase) List(ctx context.Context) (*dto.CurrencyListResponse, error) {
	reg, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	return toCurrencyListResponse(reg), nil
}

// Get busca una moneda por código.
func (uc *CurrencyUseCase) Get(ctx context.Context, code string) (*dto.CurrencyResponse, error) {
	reg, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	c, err := reg.ByCode(code)
	if err != nil {
		return nil, err
	}
	out := toCurrencyResponse(c)
	return &out, nil
}

// Convert convierte un monto entre dos monedas del registro.
func (uc *CurrencyUseCase) Convert(ctx context.Context, in dto.ConvertRequest) (*dto.ConvertResponse, error) {
	reg, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	from, err := reg.ByCode(in.From)
	if err != nil {
		return nil, err
	}
	to, err := reg.ByCode(in.To)
	if err != nil {
		return nil, err
	}
	conv, err := pricing.Convert(in.Amount, from, to, reg)
	if err != nil {
		return nil, err
	}
	return &dto.ConvertResponse{
		From:            conv.FromCode,
		To:              conv.ToCode,
		OriginalAmount:  conv.OriginalAmount,
		ConvertedAmount: conv.ConvertedAmount,
		RateUsed:        conv.RateUsed,
		EffectiveRate:   conv.EffectiveRate,
		Path:            conv.Path,
		Formatted:       uc.format.Format(conv.ConvertedAmount, to.Symbol, to.DecimalPlaces),
	}, nil
}

// IGTF calcula el impuesto a las grandes transacciones financieras de un pago.
func (uc *CurrencyUseCase) IGTF(ctx context.Context, in dto.IGTFRequest) (*dto.IGTFResponse, error) {
	method, err := pricing.ParsePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	reg, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	c, err := reg.ByCode(in.Currency)
	if err != nil {
		return nil, err
	}
	res, err := pricing.CalculateIGTF(in.Amount, c, method)
	if err != nil {
		return nil, err
	}
	out := dto.NewIGTFResponse(res)
	return &out, nil
}

// ValidateChange aplica el cambio sobre una copia del registro sin persistir nada.
// Orden: designar base, desmarcar base, tasas. Una regla violada se informa en
// la respuesta; los errores de carga se devuelven.
func (uc *CurrencyUseCase) ValidateChange(ctx context.Context, in dto.CurrencyChangeRequest) (*dto.CurrencyChangeResponse, error) {
	reg, err := uc.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	next, err := applyChange(reg, in, uc.now())
	if err != nil {
		if isRuleViolation(err) {
			uc.log.Info().Err(err).Msg("cambio de registro rechazado")
			return &dto.CurrencyChangeResponse{Valid: false, Violations: []string{err.Error()}}, nil
		}
		return nil, err
	}
	return &dto.CurrencyChangeResponse{Valid: true, Registry: toCurrencyListResponse(next)}, nil
}

func applyChange(reg *pricing.Registry, in dto.CurrencyChangeRequest, at time.Time) (*pricing.Registry, error) {
	var err error
	if code := strings.TrimSpace(in.SetBase); code != "" {
		if reg, err = reg.WithBase(code); err != nil {
			return nil, err
		}
	}
	if code := strings.TrimSpace(in.UnsetBase); code != "" {
		c, err := reg.ByCode(code)
		if err != nil {
			return nil, err
		}
		c.IsBaseCurrency = false
		if reg, err = reg.Replace(c); err != nil {
			return nil, err
		}
	}
	for _, r := range in.Rates {
		if reg, err = reg.WithRate(r.Code, r.ExchangeRate, at); err != nil {
			return nil, fmt.Errorf("tasa %s: %w", r.Code, err)
		}
	}
	return reg, nil
}

func isRuleViolation(err error) bool {
	return errors.Is(err, domain.ErrConfiguration) ||
		errors.Is(err, domain.ErrInvalidRate) ||
		errors.Is(err, domain.ErrCurrencyNotFound) ||
		errors.Is(err, domain.ErrValidation)
}

// ── mapeo a DTO ──────────────────────────────────────────────────────────────

func toCurrencyResponse(c entity.Currency) dto.CurrencyResponse {
	out := dto.CurrencyResponse{
		ID:               c.ID,
		Code:             c.Code,
		Name:             c.Name,
		Symbol:           c.Symbol,
		ExchangeRate:     c.ExchangeRate,
		DecimalPlaces:    c.DecimalPlaces,
		IsBaseCurrency:   c.IsBaseCurrency,
		ConversionMethod: c.ConversionMethod,
		AppliesIGTF:      c.AppliesIGTF,
		IGTFRate:         c.EffectiveIGTFRate(),
		IGTFExempt:       c.IGTFExempt,
		RateUpdateMethod: c.RateUpdateMethod,
		LastRateUpdate:   c.LastRateUpdate,
	}
	if c.IGTFMinAmount.Valid {
		minAmount := c.IGTFMinAmount.Decimal
		out.IGTFMinAmount = &minAmount
	}
	return out
}

func toCurrencyListResponse(reg *pricing.Registry) *dto.CurrencyListResponse {
	out := &dto.CurrencyListResponse{
		Items:          make([]dto.CurrencyResponse, 0, reg.Len()),
		LastRateUpdate: reg.LastRateUpdate(),
	}
	for _, c := range reg.Currencies() {
		out.Items = append(out.Items, toCurrencyResponse(c))
	}
	if base, err := reg.Base(); err == nil {
		out.BaseCurrency = base.Code
	}
	return out
}
