package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
)

// Rutas de conversión reportadas en Conversion.Path.
const (
	PathIdentity = "identity"
	PathVESBase  = "ves_base"
	PathUSDBase  = "usd_base"
	PathUSDPivot = "usd_pivot"
	PathManual   = "manual"
)

var one = decimal.NewFromInt(1)

// Conversion resultado de convertir un monto entre dos monedas.
// RateUsed es la tasa reportada para auditoría (en triangulaciones corresponde
// al último tramo); EffectiveRate es el factor total origen → destino.
type Conversion struct {
	FromCode        string
	ToCode          string
	OriginalAmount  decimal.Decimal
	ConvertedAmount decimal.Decimal
	RateUsed        decimal.Decimal
	EffectiveRate   decimal.Decimal
	Path            string
}

// Convert convierte amount de from a to usando la moneda base del registro.
//
//	Base VES:  VES→X  tasa = 1/X.rate
//	           X→VES  tasa = X.rate
//	           X→Y    (monto*X.rate) * 1/Y.rate
//	Base USD:  USD→X  tasa = X.rate
//	           X→USD  tasa = 1/X.rate
//	           X→Y    (monto/X.rate) * Y.rate
//	Otra base: vía factores a la base según ConversionMethod, con la tasa pivote
//	           USD configurada cuando no hay camino directo.
func Convert(amount decimal.Decimal, from, to entity.Currency, reg *Registry) (Conversion, error) {
	if amount.IsNegative() {
		return Conversion{}, fmt.Errorf("%w: monto negativo %s", domain.ErrValidation, amount.String())
	}
	res := Conversion{FromCode: from.Code, ToCode: to.Code, OriginalAmount: amount}

	if from.ID == to.ID {
		res.ConvertedAmount = amount
		res.RateUsed = one
		res.EffectiveRate = one
		res.Path = PathIdentity
		return res, nil
	}

	base, err := reg.Base()
	if err != nil {
		return Conversion{}, err
	}

	switch base.Code {
	case entity.CodeVES:
		return convertVESBase(res, from, to, base)
	case entity.CodeUSD:
		return convertUSDBase(res, from, to, base)
	default:
		return convertViaPivot(res, from, to, base, reg.USDPivotRate())
	}
}

func convertVESBase(res Conversion, from, to, base entity.Currency) (Conversion, error) {
	res.Path = PathVESBase
	switch {
	case from.ID == base.ID:
		inv, err := reciprocal(to)
		if err != nil {
			return Conversion{}, err
		}
		res.RateUsed = inv
		res.EffectiveRate = inv
		res.ConvertedAmount = res.OriginalAmount.Mul(inv)
	case to.ID == base.ID:
		if err := requirePositive(from); err != nil {
			return Conversion{}, err
		}
		res.RateUsed = from.ExchangeRate
		res.EffectiveRate = from.ExchangeRate
		res.ConvertedAmount = res.OriginalAmount.Mul(from.ExchangeRate)
	default:
		if err := requirePositive(from); err != nil {
			return Conversion{}, err
		}
		inv, err := reciprocal(to)
		if err != nil {
			return Conversion{}, err
		}
		amountVES := res.OriginalAmount.Mul(from.ExchangeRate)
		res.RateUsed = inv
		res.EffectiveRate = from.ExchangeRate.Mul(inv)
		res.ConvertedAmount = amountVES.Mul(inv)
	}
	return res, nil
}

func convertUSDBase(res Conversion, from, to, base entity.Currency) (Conversion, error) {
	res.Path = PathUSDBase
	switch {
	case from.ID == base.ID:
		if err := requirePositive(to); err != nil {
			return Conversion{}, err
		}
		res.RateUsed = to.ExchangeRate
		res.EffectiveRate = to.ExchangeRate
		res.ConvertedAmount = res.OriginalAmount.Mul(to.ExchangeRate)
	case to.ID == base.ID:
		inv, err := reciprocal(from)
		if err != nil {
			return Conversion{}, err
		}
		res.RateUsed = inv
		res.EffectiveRate = inv
		res.ConvertedAmount = res.OriginalAmount.Mul(inv)
	default:
		if err := requirePositive(from); err != nil {
			return Conversion{}, err
		}
		if err := requirePositive(to); err != nil {
			return Conversion{}, err
		}
		amountUSD := res.OriginalAmount.Div(from.ExchangeRate)
		res.RateUsed = to.ExchangeRate
		res.EffectiveRate = to.ExchangeRate.Div(from.ExchangeRate)
		res.ConvertedAmount = amountUSD.Mul(to.ExchangeRate)
	}
	return res, nil
}

func convertViaPivot(res Conversion, from, to, base entity.Currency, pivot decimal.NullDecimal) (Conversion, error) {
	res.Path = PathUSDPivot
	fromFactor, err := factorToBase(from, base, pivot)
	if err != nil {
		return Conversion{}, err
	}
	toFactor, err := factorToBase(to, base, pivot)
	if err != nil {
		return Conversion{}, err
	}
	rate := fromFactor.Div(toFactor)
	res.RateUsed = rate
	res.EffectiveRate = rate
	res.ConvertedAmount = res.OriginalAmount.Mul(fromFactor).Div(toFactor)
	return res, nil
}

// factorToBase unidades de la moneda base que vale 1 unidad de c.
func factorToBase(c, base entity.Currency, pivot decimal.NullDecimal) (decimal.Decimal, error) {
	if c.ID == base.ID {
		return one, nil
	}
	needPivot := func() (decimal.Decimal, error) {
		if !pivot.Valid {
			return decimal.Zero, fmt.Errorf("%w: base %s requiere tasa pivote USD para convertir %s",
				domain.ErrConfiguration, base.Code, c.Code)
		}
		if !pivot.Decimal.IsPositive() {
			return decimal.Zero, fmt.Errorf("%w: tasa pivote USD %s", domain.ErrInvalidRate, pivot.Decimal.String())
		}
		return pivot.Decimal, nil
	}
	if c.Code == entity.CodeUSD {
		return needPivot()
	}
	if err := requirePositive(c); err != nil {
		return decimal.Zero, err
	}
	switch c.ConversionMethod {
	case entity.ConversionInverse:
		return one.Div(c.ExchangeRate), nil
	case entity.ConversionViaUSD:
		p, err := needPivot()
		if err != nil {
			return decimal.Zero, err
		}
		return p.Div(c.ExchangeRate), nil
	default:
		return c.ExchangeRate, nil
	}
}

func requirePositive(c entity.Currency) error {
	if !c.ExchangeRate.IsPositive() {
		return fmt.Errorf("%w: %s tiene tasa %s", domain.ErrInvalidRate, c.Code, c.ExchangeRate.String())
	}
	return nil
}

func reciprocal(c entity.Currency) (decimal.Decimal, error) {
	if err := requirePositive(c); err != nil {
		return decimal.Zero, err
	}
	return one.Div(c.ExchangeRate), nil
}
