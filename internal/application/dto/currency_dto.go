package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain/pricing"
)

// CurrencyResponse moneda del registro.
type CurrencyResponse struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	Name             string           `json:"name,omitempty"`
	Symbol           string           `json:"symbol"`
	ExchangeRate     decimal.Decimal  `json:"exchange_rate"`
	DecimalPlaces    int32            `json:"decimal_places"`
	IsBaseCurrency   bool             `json:"is_base_currency"`
	ConversionMethod string           `json:"conversion_method,omitempty"`
	AppliesIGTF      bool             `json:"applies_igtf"`
	IGTFRate         decimal.Decimal  `json:"igtf_rate"`
	IGTFExempt       bool             `json:"igtf_exempt"`
	IGTFMinAmount    *decimal.Decimal `json:"igtf_min_amount,omitempty"`
	RateUpdateMethod string           `json:"rate_update_method,omitempty"`
	LastRateUpdate   *time.Time       `json:"last_rate_update,omitempty"`
}

// CurrencyListResponse snapshot completo para GET /api/currencies.
type CurrencyListResponse struct {
	Items          []CurrencyResponse `json:"items"`
	BaseCurrency   string             `json:"base_currency"`
	LastRateUpdate *time.Time         `json:"last_rate_update,omitempty"`
}

// ConvertRequest body para POST /api/currencies/convert.
type ConvertRequest struct {
	Amount decimal.Decimal `json:"amount"`
	From   string          `json:"from" validate:"required,len=3,alpha"`
	To     string          `json:"to" validate:"required,len=3,alpha"`
}

// ConvertResponse resultado de la conversión.
type ConvertResponse struct {
	From            string          `json:"from"`
	To              string          `json:"to"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	ConvertedAmount decimal.Decimal `json:"converted_amount"`
	RateUsed        decimal.Decimal `json:"rate_used"`
	EffectiveRate   decimal.Decimal `json:"effective_rate"`
	Path            string          `json:"path"`
	Formatted       string          `json:"formatted"`
}

// IGTFRequest body para POST /api/currencies/igtf.
type IGTFRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3,alpha"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

// IGTFMetadataResponse trazabilidad del cálculo.
type IGTFMetadataResponse struct {
	CurrencyCode  string          `json:"currency_code"`
	Rate          decimal.Decimal `json:"rate"`
	PaymentMethod string          `json:"payment_method"`
	ReasonCode    string          `json:"reason_code,omitempty"`
	Reason        string          `json:"reason,omitempty"`
}

// IGTFResponse resultado del cálculo de IGTF.
type IGTFResponse struct {
	OriginalAmount decimal.Decimal      `json:"original_amount"`
	IGTFApplied    bool                 `json:"igtf_applied"`
	IGTFAmount     decimal.Decimal      `json:"igtf_amount"`
	TotalWithIGTF  decimal.Decimal      `json:"total_with_igtf"`
	Metadata       IGTFMetadataResponse `json:"metadata"`
}

// RateChange nueva tasa propuesta para una moneda.
type RateChange struct {
	Code         string          `json:"code" validate:"required,len=3,alpha"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

// CurrencyChangeRequest cambio propuesto al registro para POST /api/currencies/validate.
// Se aplica en orden: designar base, desmarcar base, tasas.
type CurrencyChangeRequest struct {
	SetBase   string       `json:"set_base,omitempty" validate:"omitempty,len=3,alpha"`
	UnsetBase string       `json:"unset_base,omitempty" validate:"omitempty,len=3,alpha"`
	Rates     []RateChange `json:"rates,omitempty" validate:"dive"`
}

// CurrencyChangeResponse registro resultante si el cambio es válido.
type CurrencyChangeResponse struct {
	Valid      bool                  `json:"valid"`
	Violations []string              `json:"violations,omitempty"`
	Registry   *CurrencyListResponse `json:"registry,omitempty"`
}

// NewIGTFResponse mapea el resultado del cálculo de IGTF.
func NewIGTFResponse(res pricing.IGTFResult) IGTFResponse {
	return IGTFResponse{
		OriginalAmount: res.OriginalAmount,
		IGTFApplied:    res.Applied,
		IGTFAmount:     res.Amount,
		TotalWithIGTF:  res.TotalWithIGTF,
		Metadata: IGTFMetadataResponse{
			CurrencyCode:  res.Metadata.CurrencyCode,
			Rate:          res.Metadata.Rate,
			PaymentMethod: string(res.Metadata.PaymentMethod),
			ReasonCode:    res.Metadata.ReasonCode,
			Reason:        res.Metadata.Reason,
		},
	}
}
