package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/internal/infrastructure/pdf"
	"github.com/jhoicas/precios-api/pkg/money"
)

func samplePreview() *dto.PreviewResponse {
	d := decimal.RequireFromString
	return &dto.PreviewResponse{
		PreviewID:         "0b6f2b9c-8a39-4d5e-9a53-2a7f4b1c9e10",
		ReferenceCurrency: "USD",
		TargetCurrency:    "VES",
		TargetSymbol:      "Bs.",
		TargetDecimals:    2,
		PaymentMethod:     "transfer",
		SubtotalTarget:    d("7300"),
		IVAPercentage:     d("16"),
		IVAAmount:         d("1168"),
		TotalAmount:       d("8468"),
		ExchangeRateUsed:  d("36.50"),
		RateDate:          time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Lines: []dto.PreviewLineResponse{
			{ProductID: "p-1", Description: "Harina PAN 1kg", Quantity: d("10"), UnitPrice: d("15"), TotalTarget: d("5475")},
			{ProductID: "p-2", Quantity: d("5"), UnitPrice: d("10"), TaxExempt: true, TotalTarget: d("1825")},
		},
		Display: dto.PreviewDisplay{Subtotal: "Bs. 7.300,00", IVA: "Bs. 1.168,00", IGTF: "Bs. 0,00", Total: "Bs. 8.468,00"},
	}
}

func TestGenerateProforma_DevuelvePDF(t *testing.T) {
	g := pdf.NewMarotoProformaGenerator("Comercial Andina C.A.", money.NewFormatter("es-VE"))

	out, err := g.GenerateProforma(context.Background(), samplePreview())

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "cabecera PDF")
}

func TestGenerateProforma_SinVistaPrevia(t *testing.T) {
	g := pdf.NewMarotoProformaGenerator("Comercial Andina C.A.", money.NewFormatter("es-VE"))

	_, err := g.GenerateProforma(context.Background(), nil)

	assert.Error(t, err)
}
