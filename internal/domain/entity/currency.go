package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de conversión de una moneda respecto a la moneda base.
const (
	ConversionDirect  = "direct"  // ExchangeRate = unidades de la base por 1 unidad de la moneda
	ConversionInverse = "inverse" // ExchangeRate = unidades de la moneda por 1 unidad de la base
	ConversionViaUSD  = "via_usd" // ExchangeRate = unidades de la moneda por 1 USD
)

// Origen de la tasa (informativo, no afecta el cálculo).
const (
	RateUpdateManual     = "manual"
	RateUpdateAPIBCV     = "api_bcv"
	RateUpdateAPIBinance = "api_binance"
)

// Códigos de moneda con tratamiento especial.
const (
	CodeVES = "VES" // bolívar: pivote cuando es la moneda base
	CodeUSD = "USD"
)

// DefaultIGTFRate porcentaje de IGTF cuando la moneda no define uno.
var DefaultIGTFRate = decimal.NewFromInt(3)

// Currency representa una moneda del registro (tasa relativa a la moneda base).
// DecimalPlaces solo se usa para redondeo de presentación.
type Currency struct {
	ID               string
	Code             string // ISO 4217 (USD, VES, EUR)
	Name             string
	Symbol           string
	ExchangeRate     decimal.Decimal
	DecimalPlaces    int32
	IsBaseCurrency   bool
	ConversionMethod string // direct | inverse | via_usd
	AppliesIGTF      bool
	IGTFRate         decimal.NullDecimal // porcentaje; vacío = 3.00
	IGTFExempt       bool
	IGTFMinAmount    decimal.NullDecimal
	RateUpdateMethod string
	IsActive         bool
	LastRateUpdate   *time.Time
}

// EffectiveIGTFRate devuelve el porcentaje de IGTF a aplicar.
func (c Currency) EffectiveIGTFRate() decimal.Decimal {
	if c.IGTFRate.Valid {
		return c.IGTFRate.Decimal
	}
	return DefaultIGTFRate
}
