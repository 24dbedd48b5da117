// Package pdf genera la proforma en PDF de una vista previa de factura multimoneda.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor              │  PROFORMA + Fecha de tasa     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CONDICIONES: monedas / forma de pago / tasa usada           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Total            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / IVA / IGTF / TOTAL A PAGAR              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID de la vista previa + leyenda           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/precios-api/internal/application/billing"
	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var _ billing.ProformaGenerator = (*MarotoProformaGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoProformaGenerator implementa billing.ProformaGenerator usando Maroto v2.
type MarotoProformaGenerator struct {
	issuer string
	format *money.Formatter
}

// NewMarotoProformaGenerator construye el generador. issuer es el nombre que encabeza la proforma.
func NewMarotoProformaGenerator(issuer string, format *money.Formatter) *MarotoProformaGenerator {
	return &MarotoProformaGenerator{issuer: issuer, format: format}
}

// GenerateProforma genera el PDF y devuelve sus bytes.
func (g *MarotoProformaGenerator) GenerateProforma(_ context.Context, p *dto.PreviewResponse) ([]byte, error) {
	if p == nil {
		return nil, fmt.Errorf("pdf: vista previa vacía")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Proforma "+p.PreviewID, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(conditionsRow(p))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableDetailRows(p) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(p))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(p))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y PROFORMA + fecha de la tasa (der).
func (g *MarotoProformaGenerator) headerRow(p *dto.PreviewResponse) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.issuer, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Documento sin valor fiscal", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PROFORMA", props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Tasa del "+p.RateDate.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// conditionsRow: monedas, forma de pago y tasa aplicada.
func conditionsRow(p *dto.PreviewResponse) core.Row {
	rate := fmt.Sprintf("1 %s = %s %s", p.ReferenceCurrency, p.ExchangeRateUsed.String(), p.TargetCurrency)
	if p.ManualRate {
		rate += " (tasa manual)"
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CONDICIONES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Precios en %s   |   Pago en %s   |   Forma de pago: %s",
				p.ReferenceCurrency, p.TargetCurrency, paymentLabel(p.PaymentMethod),
			), props.Text{Size: 8, Top: 6}),
			text.New(rate, props.Text{Size: 8, Top: 10, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de detalles.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("IVA", 1, align.Center),
		h("Total", 3, align.Right),
	)
}

// tableDetailRows: una fila por línea; el precio unitario va en moneda de
// referencia y el total en moneda de pago.
func (g *MarotoProformaGenerator) tableDetailRows(p *dto.PreviewResponse) []core.Row {
	result := make([]core.Row, 0, len(p.Lines))
	for _, l := range p.Lines {
		iva := p.IVAPercentage.String() + "%"
		if l.TaxExempt {
			iva = "E"
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				nonEmpty(l.Description, l.ProductID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.UnitPrice.String()+" "+p.ReferenceCurrency,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				iva,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				g.format.Format(l.TotalTarget, p.TargetSymbol, p.TargetDecimals),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha con los montos ya formateados.
func totalsRow(p *dto.PreviewResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	igtfLabel := "IGTF:"
	if p.IGTFApplied {
		igtfLabel = fmt.Sprintf("IGTF (%s%%):", p.IGTF.Metadata.Rate.String())
	}
	labels := col.New(3).Add(
		label("Subtotal:"),
		text.New(fmt.Sprintf("IVA (%s%%):", p.IVAPercentage.String()), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5,
		}),
		text.New(igtfLabel, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 10,
		}),
		text.New("TOTAL A PAGAR:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2, Top: 16,
		}),
	)
	values := col.New(3).Add(
		value(p.Display.Subtotal, 0),
		value(p.Display.IVA, 5),
		value(p.Display.IGTF, 10),
		text.New(p.Display.Total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: 16,
		}),
	)
	return row.New(26).Add(col.New(3), labels, values, col.New(3))
}

// footerRow: QR con el ID de la vista previa + leyenda.
func footerRow(p *dto.PreviewResponse) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(p.PreviewID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Ref. "+p.PreviewID, props.Text{
				Size: 7, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New(
				"Montos calculados con la tasa vigente a la fecha indicada. "+
					"El IGTF aplica a pagos en divisas según la forma de pago. "+
					"Esta proforma no sustituye la factura.",
				props.Text{Size: 7, Top: 12, Left: 3, Color: colorGray},
			),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func paymentLabel(method string) string {
	switch method {
	case "cash":
		return "efectivo"
	case "transfer":
		return "transferencia"
	case "card":
		return "tarjeta"
	case "mobile_payment":
		return "pago móvil"
	}
	return method
}
