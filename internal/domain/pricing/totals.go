package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
)

// DefaultIVAPercentage alícuota general de IVA en Venezuela.
var DefaultIVAPercentage = decimal.NewFromInt(16)

// LineItem línea de la factura ya resuelta (precio en moneda de referencia).
type LineItem struct {
	ProductID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxExempt   bool
}

// TotalsInput datos para calcular los totales de una factura.
type TotalsInput struct {
	Lines         []LineItem
	ReferenceCode string // moneda de los precios (normalmente USD)
	TargetCode    string // moneda de pago
	PaymentMethod PaymentMethod
	IVAPercentage decimal.NullDecimal // vacío = 16
	ManualRate    decimal.NullDecimal // tasa multiplicativa referencia → pago
	At            time.Time           // fecha por defecto de la tasa; cero = ahora
}

// LineTotal total de una línea en ambas monedas.
type LineTotal struct {
	ProductID      string
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TaxExempt      bool
	TotalReference decimal.Decimal
	TotalTarget    decimal.Decimal
}

// InvoiceTotals desglose calculado de la factura. Los montos en moneda de pago
// están redondeados a sus DecimalPlaces y TotalAmount es su suma exacta.
type InvoiceTotals struct {
	ReferenceCurrency entity.Currency
	TargetCurrency    entity.Currency
	PaymentMethod     PaymentMethod

	SubtotalReference decimal.Decimal
	TaxableBase       decimal.Decimal // en moneda de referencia
	ExemptAmount      decimal.Decimal // en moneda de referencia

	SubtotalTarget     decimal.Decimal
	TaxableBaseTarget  decimal.Decimal
	ExemptAmountTarget decimal.Decimal
	IVAPercentage      decimal.Decimal
	IVAAmount          decimal.Decimal
	IGTF               IGTFResult
	IGTFApplied        bool
	IGTFAmount         decimal.Decimal
	TotalAmount        decimal.Decimal

	ExchangeRateUsed decimal.Decimal
	EffectiveRate    decimal.Decimal
	ManualRate       bool
	ConversionPath   string
	RateDate         time.Time

	Lines []LineTotal
}

// ComputeInvoiceTotals suma las líneas, convierte a la moneda de pago, calcula
// IVA sobre la base imponible convertida e IGTF sobre el subtotal convertido.
func ComputeInvoiceTotals(reg *Registry, in TotalsInput) (InvoiceTotals, error) {
	ref, err := reg.ByCode(in.ReferenceCode)
	if err != nil {
		return InvoiceTotals{}, err
	}
	target, err := reg.ByCode(in.TargetCode)
	if err != nil {
		return InvoiceTotals{}, err
	}
	if _, err := ParsePaymentMethod(string(in.PaymentMethod)); err != nil {
		return InvoiceTotals{}, err
	}
	ivaPct := DefaultIVAPercentage
	if in.IVAPercentage.Valid {
		ivaPct = in.IVAPercentage.Decimal
	}
	if ivaPct.IsNegative() {
		return InvoiceTotals{}, fmt.Errorf("%w: porcentaje de IVA negativo", domain.ErrValidation)
	}

	out := InvoiceTotals{
		ReferenceCurrency: ref,
		TargetCurrency:    target,
		PaymentMethod:     in.PaymentMethod,
		IVAPercentage:     ivaPct,
		SubtotalReference: decimal.Zero,
		TaxableBase:       decimal.Zero,
		ExemptAmount:      decimal.Zero,
		Lines:             make([]LineTotal, 0, len(in.Lines)),
	}

	for i, l := range in.Lines {
		if l.Quantity.IsNegative() {
			return InvoiceTotals{}, fmt.Errorf("%w: línea %d con cantidad negativa", domain.ErrValidation, i+1)
		}
		if l.UnitPrice.IsNegative() {
			return InvoiceTotals{}, fmt.Errorf("%w: línea %d con precio negativo", domain.ErrValidation, i+1)
		}
		lineTotal := l.UnitPrice.Mul(l.Quantity)
		out.SubtotalReference = out.SubtotalReference.Add(lineTotal)
		if l.TaxExempt {
			out.ExemptAmount = out.ExemptAmount.Add(lineTotal)
		} else {
			out.TaxableBase = out.TaxableBase.Add(lineTotal)
		}
		out.Lines = append(out.Lines, LineTotal{
			ProductID:      l.ProductID,
			Description:    l.Description,
			Quantity:       l.Quantity,
			UnitPrice:      l.UnitPrice,
			TaxExempt:      l.TaxExempt,
			TotalReference: lineTotal,
		})
	}

	conv, err := newConverter(reg, ref, target, in.ManualRate)
	if err != nil {
		return InvoiceTotals{}, err
	}
	out.ExchangeRateUsed = conv.rateUsed
	out.EffectiveRate = conv.effective
	out.ManualRate = conv.manual
	out.ConversionPath = conv.path

	places := target.DecimalPlaces
	subtotalTarget, err := conv.apply(out.SubtotalReference)
	if err != nil {
		return InvoiceTotals{}, err
	}
	taxableTarget, err := conv.apply(out.TaxableBase)
	if err != nil {
		return InvoiceTotals{}, err
	}
	out.SubtotalTarget = subtotalTarget.Round(places)
	out.TaxableBaseTarget = taxableTarget.Round(places)
	out.ExemptAmountTarget = out.SubtotalTarget.Sub(out.TaxableBaseTarget)
	out.IVAAmount = taxableTarget.Mul(ivaPct).Div(hundred).Round(places)

	for i := range out.Lines {
		lt, err := conv.apply(out.Lines[i].TotalReference)
		if err != nil {
			return InvoiceTotals{}, err
		}
		out.Lines[i].TotalTarget = lt.Round(places)
	}

	igtf, err := CalculateIGTF(out.SubtotalTarget, target, in.PaymentMethod)
	if err != nil {
		return InvoiceTotals{}, err
	}
	igtf.Amount = igtf.Amount.Round(places)
	igtf.TotalWithIGTF = igtf.OriginalAmount.Add(igtf.Amount)
	out.IGTF = igtf
	out.IGTFApplied = igtf.Applied
	out.IGTFAmount = igtf.Amount

	out.TotalAmount = out.SubtotalTarget.Add(out.IVAAmount).Add(out.IGTFAmount)
	out.RateDate = rateDate(reg, in.At)
	return out, nil
}

func rateDate(reg *Registry, at time.Time) time.Time {
	if t := reg.LastRateUpdate(); t != nil {
		return *t
	}
	if !at.IsZero() {
		return at
	}
	return time.Now()
}

// converter aplica la misma tasa a todos los montos de una factura.
type converter struct {
	reg       *Registry
	from, to  entity.Currency
	manual    bool
	manualFx  decimal.Decimal
	rateUsed  decimal.Decimal
	effective decimal.Decimal
	path      string
}

func newConverter(reg *Registry, from, to entity.Currency, manual decimal.NullDecimal) (*converter, error) {
	c := &converter{reg: reg, from: from, to: to}
	if manual.Valid && from.ID != to.ID {
		if !manual.Decimal.IsPositive() {
			return nil, fmt.Errorf("%w: tasa manual %s", domain.ErrInvalidRate, manual.Decimal.String())
		}
		c.manual = true
		c.manualFx = manual.Decimal
		c.rateUsed = manual.Decimal
		c.effective = manual.Decimal
		c.path = PathManual
		return c, nil
	}
	// Una conversión unitaria fija la tasa reportada y valida el camino.
	probe, err := Convert(one, from, to, reg)
	if err != nil {
		return nil, err
	}
	c.rateUsed = probe.RateUsed
	c.effective = probe.EffectiveRate
	c.path = probe.Path
	return c, nil
}

func (c *converter) apply(amount decimal.Decimal) (decimal.Decimal, error) {
	if c.manual {
		return amount.Mul(c.manualFx), nil
	}
	res, err := Convert(amount, c.from, c.to, c.reg)
	if err != nil {
		return decimal.Zero, err
	}
	return res.ConvertedAmount, nil
}
