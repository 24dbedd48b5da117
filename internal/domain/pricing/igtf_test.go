package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
)

func TestCalculateIGTF_DolaresPorTransferencia(t *testing.T) {
	res, err := pricing.CalculateIGTF(d("1000"), usd(), pricing.PaymentTransfer)
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assertDecimal(t, "30.00", res.Amount)
	assertDecimal(t, "1030.00", res.TotalWithIGTF)
	assertDecimal(t, "3", res.Metadata.Rate)
	assert.Equal(t, "USD", res.Metadata.CurrencyCode)
	assert.Empty(t, res.Metadata.ReasonCode)
}

func TestCalculateIGTF_MonedaBaseExenta(t *testing.T) {
	res, err := pricing.CalculateIGTF(d("1000"), ves(), pricing.PaymentCash)
	require.NoError(t, err)

	assert.False(t, res.Applied)
	assert.Equal(t, pricing.ReasonBaseCurrency, res.Metadata.ReasonCode)
	assert.NotEmpty(t, res.Metadata.Reason)
	assertDecimal(t, "0", res.Amount)
	assertDecimal(t, "1000", res.TotalWithIGTF)
}

func TestCalculateIGTF_BaseNuncaPagaAunqueNoEsteExenta(t *testing.T) {
	c := usd()
	c.IsBaseCurrency = true
	c.IGTFExempt = false
	for _, m := range []pricing.PaymentMethod{pricing.PaymentCash, pricing.PaymentTransfer, pricing.PaymentCard, pricing.PaymentMobilePayment} {
		res, err := pricing.CalculateIGTF(d("5000"), c, m)
		require.NoError(t, err)
		assert.False(t, res.Applied, "forma de pago %s", m)
		assert.Equal(t, pricing.ReasonBaseCurrency, res.Metadata.ReasonCode)
	}
}

func TestCalculateIGTF_OrdenDeReglas(t *testing.T) {
	// No sujeta gana sobre base y exenta.
	c := usd()
	c.AppliesIGTF = false
	c.IsBaseCurrency = true
	c.IGTFExempt = true
	res, err := pricing.CalculateIGTF(d("100"), c, pricing.PaymentCard)
	require.NoError(t, err)
	assert.Equal(t, pricing.ReasonNotSubject, res.Metadata.ReasonCode)

	// Exenta gana sobre mínimo.
	c = usd()
	c.IGTFExempt = true
	c.IGTFMinAmount = decimal.NewNullDecimal(d("500"))
	res, err = pricing.CalculateIGTF(d("100"), c, pricing.PaymentCash)
	require.NoError(t, err)
	assert.Equal(t, pricing.ReasonExempt, res.Metadata.ReasonCode)
}

func TestCalculateIGTF_ExencionIgualParaTodasLasFormasDePago(t *testing.T) {
	c := usd()
	c.IGTFExempt = true
	for _, m := range []pricing.PaymentMethod{pricing.PaymentCash, pricing.PaymentTransfer, pricing.PaymentCard} {
		res, err := pricing.CalculateIGTF(d("100"), c, m)
		require.NoError(t, err)
		assert.False(t, res.Applied)
		assert.Equal(t, pricing.ReasonExempt, res.Metadata.ReasonCode)
	}
}

func TestCalculateIGTF_MinimoInclusivo(t *testing.T) {
	c := usd()
	c.IGTFMinAmount = decimal.NewNullDecimal(d("100"))

	below, err := pricing.CalculateIGTF(d("99.99"), c, pricing.PaymentTransfer)
	require.NoError(t, err)
	assert.False(t, below.Applied)
	assert.Equal(t, pricing.ReasonBelowMinimum, below.Metadata.ReasonCode)

	equal, err := pricing.CalculateIGTF(d("100"), c, pricing.PaymentTransfer)
	require.NoError(t, err)
	assert.True(t, equal.Applied, "el monto igual al mínimo sí paga IGTF")
	assertDecimal(t, "3", equal.Amount)
}

func TestCalculateIGTF_TasaPorDefecto(t *testing.T) {
	c := usd()
	c.IGTFRate = decimal.NullDecimal{}
	res, err := pricing.CalculateIGTF(d("200"), c, pricing.PaymentCard)
	require.NoError(t, err)
	assertDecimal(t, "3.00", res.Metadata.Rate)
	assertDecimal(t, "6", res.Amount)
}

func TestCalculateIGTF_MonotonoYExacto(t *testing.T) {
	c := usd()
	c.IGTFRate = decimal.NewNullDecimal(d("3.00"))
	prev := decimal.NewFromInt(-1)
	for _, s := range []string{"0.01", "1", "10.50", "999.99", "1000", "123456.78"} {
		amount := d(s)
		res, err := pricing.CalculateIGTF(amount, c, pricing.PaymentTransfer)
		require.NoError(t, err)
		assert.True(t, res.Amount.Equal(amount.Mul(d("3")).Div(d("100"))), "igtf exacto para %s", s)
		assert.True(t, res.Amount.GreaterThan(prev), "igtf creciente en %s", s)
		prev = res.Amount
	}
}

func TestCalculateIGTF_Errores(t *testing.T) {
	_, err := pricing.CalculateIGTF(d("-1"), usd(), pricing.PaymentCash)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = pricing.CalculateIGTF(d("1"), usd(), pricing.PaymentMethod("bitcoin"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = pricing.CalculateIGTF(d("1"), usd(), "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := pricing.ParsePaymentMethod(" Transfer ")
	require.NoError(t, err)
	assert.Equal(t, pricing.PaymentTransfer, m)

	_, err = pricing.ParsePaymentMethod("cheque")
	assert.ErrorIs(t, err, domain.ErrValidation)
}
