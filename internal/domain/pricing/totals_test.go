package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
)

func twoTaxableLines() []pricing.LineItem {
	return []pricing.LineItem{
		{ProductID: "p-1", Description: "Harina PAN 1kg", Quantity: d("10"), UnitPrice: d("15")},
		{ProductID: "p-2", Description: "Aceite 1L", Quantity: d("5"), UnitPrice: d("10")},
	}
}

// Escenario: USD → VES, 200 USD gravados, IVA 16 %, tasa 36.50, destino base sin IGTF.
func TestComputeInvoiceTotals_USDaVES(t *testing.T) {
	reg := vesRegistry(t)

	out, err := pricing.ComputeInvoiceTotals(reg, pricing.TotalsInput{
		Lines:         twoTaxableLines(),
		ReferenceCode: "USD",
		TargetCode:    "VES",
		PaymentMethod: pricing.PaymentTransfer,
	})
	require.NoError(t, err)

	assertDecimal(t, "200", out.SubtotalReference)
	assertDecimal(t, "200", out.TaxableBase)
	assertDecimal(t, "0", out.ExemptAmount)
	assertDecimal(t, "7300.00", out.SubtotalTarget)
	assertDecimal(t, "16", out.IVAPercentage)
	assertDecimal(t, "1168.00", out.IVAAmount)
	assert.False(t, out.IGTFApplied)
	assert.Equal(t, pricing.ReasonBaseCurrency, out.IGTF.Metadata.ReasonCode)
	assertDecimal(t, "0", out.IGTFAmount)
	assertDecimal(t, "8468.00", out.TotalAmount)
	assertDecimal(t, "36.50", out.ExchangeRateUsed)
	assert.False(t, out.ManualRate)
	require.Len(t, out.Lines, 2)
	assertDecimal(t, "5475.00", out.Lines[0].TotalTarget)
}

func TestComputeInvoiceTotals_PagoEnDolaresConIGTF(t *testing.T) {
	reg := vesRegistry(t)
	lines := append(twoTaxableLines(), pricing.LineItem{
		ProductID: "p-3", Description: "Medicinas", Quantity: d("1"), UnitPrice: d("50"), TaxExempt: true,
	})

	out, err := pricing.ComputeInvoiceTotals(reg, pricing.TotalsInput{
		Lines:         lines,
		ReferenceCode: "USD",
		TargetCode:    "USD",
		PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)

	assertDecimal(t, "250", out.SubtotalReference)
	assertDecimal(t, "200", out.TaxableBase)
	assertDecimal(t, "50", out.ExemptAmount)
	assertDecimal(t, "250", out.SubtotalTarget)
	assertDecimal(t, "50", out.ExemptAmountTarget)
	assertDecimal(t, "32", out.IVAAmount)
	assert.True(t, out.IGTFApplied)
	assertDecimal(t, "7.50", out.IGTFAmount)
	assertDecimal(t, "289.50", out.TotalAmount)
	assertDecimal(t, "1", out.ExchangeRateUsed)
	assert.Equal(t, pricing.PathIdentity, out.ConversionPath)
}

func TestComputeInvoiceTotals_TasaManual(t *testing.T) {
	reg := vesRegistry(t)

	out, err := pricing.ComputeInvoiceTotals(reg, pricing.TotalsInput{
		Lines:         twoTaxableLines(),
		ReferenceCode: "USD",
		TargetCode:    "VES",
		PaymentMethod: pricing.PaymentCard,
		ManualRate:    decimal.NewNullDecimal(d("40")),
	})
	require.NoError(t, err)

	assert.True(t, out.ManualRate)
	assert.Equal(t, pricing.PathManual, out.ConversionPath)
	assertDecimal(t, "40", out.ExchangeRateUsed)
	assertDecimal(t, "8000", out.SubtotalTarget)
	assertDecimal(t, "1280", out.IVAAmount)
	assertDecimal(t, "9280", out.TotalAmount)
}

func TestComputeInvoiceTotals_TasaManualInvalida(t *testing.T) {
	reg := vesRegistry(t)
	_, err := pricing.ComputeInvoiceTotals(reg, pricing.TotalsInput{
		Lines:         twoTaxableLines(),
		ReferenceCode: "USD",
		TargetCode:    "VES",
		PaymentMethod: pricing.PaymentCard,
		ManualRate:    decimal.NewNullDecimal(decimal.Zero),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRate)
}

func TestComputeInvoiceTotals_ConsistenciaConRedondeo(t *testing.T) {
	reg := vesRegistry(t)
	lines := []pricing.LineItem{
		{Quantity: d("3"), UnitPrice: d("1.333")},
		{Quantity: d("7"), UnitPrice: d("0.77"), TaxExempt: true},
		{Quantity: d("1.5"), UnitPrice: d("19.99")},
	}
	for _, target := range []string{"VES", "USD", "EUR"} {
		for _, m := range []pricing.PaymentMethod{pricing.PaymentCash, pricing.PaymentTransfer} {
			out, err := pricing.ComputeInvoiceTotals(reg, pricing.TotalsInput{
				Lines: lines, ReferenceCode: "USD", TargetCode: target, PaymentMethod: m,
			})
			require.NoError(t, err)
			sum := out.SubtotalTarget.Add(out.IVAAmount).Add(out.IGTFAmount)
			assert.True(t, out.TotalAmount.Equal(sum), "total %s != %s en %s", out.TotalAmount, sum, target)
			assert.LessOrEqual(t, -out.TotalAmount.Exponent(), int32(2), "total redondeado a 2 decimales")
			assert.True(t, out.SubtotalTarget.Equal(out.TaxableBaseTarget.Add(out.ExemptAmountTarget)))
		}
	}
}

func TestComputeInvoiceTotals_FechaDeTasa(t *testing.T) {
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	in := pricing.TotalsInput{
		Lines: twoTaxableLines(), ReferenceCode: "USD", TargetCode: "VES",
		PaymentMethod: pricing.PaymentCash, At: at,
	}

	out, err := pricing.ComputeInvoiceTotals(vesRegistry(t), in)
	require.NoError(t, err)
	assert.True(t, at.Equal(out.RateDate), "sin fecha en el registro se usa At")

	updated := time.Date(2024, 5, 31, 16, 0, 0, 0, time.UTC)
	reg, err := pricing.NewRegistry([]entity.Currency{ves(), usd()}, pricing.WithLastRateUpdate(updated))
	require.NoError(t, err)
	out, err = pricing.ComputeInvoiceTotals(reg, in)
	require.NoError(t, err)
	assert.True(t, updated.Equal(out.RateDate), "la fecha del registro tiene prioridad")
}

func TestComputeInvoiceTotals_SinLineas(t *testing.T) {
	out, err := pricing.ComputeInvoiceTotals(vesRegistry(t), pricing.TotalsInput{
		ReferenceCode: "USD", TargetCode: "VES", PaymentMethod: pricing.PaymentCash,
	})
	require.NoError(t, err)
	assertDecimal(t, "0", out.TotalAmount)
}

func TestComputeInvoiceTotals_Errores(t *testing.T) {
	reg := vesRegistry(t)
	base := pricing.TotalsInput{
		Lines: twoTaxableLines(), ReferenceCode: "USD", TargetCode: "VES", PaymentMethod: pricing.PaymentCash,
	}

	in := base
	in.TargetCode = "COP"
	_, err := pricing.ComputeInvoiceTotals(reg, in)
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)

	in = base
	in.ReferenceCode = "GBP"
	_, err = pricing.ComputeInvoiceTotals(reg, in)
	assert.ErrorIs(t, err, domain.ErrCurrencyNotFound)

	in = base
	in.Lines = []pricing.LineItem{{Quantity: d("-1"), UnitPrice: d("1")}}
	_, err = pricing.ComputeInvoiceTotals(reg, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = base
	in.Lines = []pricing.LineItem{{Quantity: d("1"), UnitPrice: d("-1")}}
	_, err = pricing.ComputeInvoiceTotals(reg, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = base
	in.IVAPercentage = decimal.NewNullDecimal(d("-16"))
	_, err = pricing.ComputeInvoiceTotals(reg, in)
	assert.ErrorIs(t, err, domain.ErrValidation)

	in = base
	in.PaymentMethod = "trueque"
	_, err = pricing.ComputeInvoiceTotals(reg, in)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
