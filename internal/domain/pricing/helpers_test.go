package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.Truef(t, d(expected).Equal(actual), "esperado %s, obtenido %s", expected, actual.String())
}

func ves() entity.Currency {
	return entity.Currency{
		ID: "cur-ves", Code: "VES", Name: "Bolívar", Symbol: "Bs.",
		ExchangeRate: d("1"), DecimalPlaces: 2, IsBaseCurrency: true,
		AppliesIGTF: true, IsActive: true, RateUpdateMethod: entity.RateUpdateManual,
	}
}

func usd() entity.Currency {
	return entity.Currency{
		ID: "cur-usd", Code: "USD", Name: "Dólar", Symbol: "$",
		ExchangeRate: d("36.50"), DecimalPlaces: 2,
		ConversionMethod: entity.ConversionDirect,
		AppliesIGTF:      true, IGTFRate: decimal.NewNullDecimal(d("3.00")),
		IsActive: true, RateUpdateMethod: entity.RateUpdateAPIBCV,
	}
}

func eur() entity.Currency {
	return entity.Currency{
		ID: "cur-eur", Code: "EUR", Name: "Euro", Symbol: "€",
		ExchangeRate: d("40.00"), DecimalPlaces: 2,
		ConversionMethod: entity.ConversionDirect,
		AppliesIGTF:      true, IsActive: true,
	}
}

// vesRegistry registro con VES como base: {VES: 1, USD: 36.50, EUR: 40.00}.
func vesRegistry(t *testing.T) *pricing.Registry {
	t.Helper()
	reg, err := pricing.NewRegistry([]entity.Currency{ves(), usd(), eur()})
	require.NoError(t, err)
	return reg
}
