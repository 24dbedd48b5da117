package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
)

// PaymentMethod forma de pago de la transacción.
type PaymentMethod string

const (
	PaymentCash          PaymentMethod = "cash"
	PaymentTransfer      PaymentMethod = "transfer"
	PaymentCard          PaymentMethod = "card"
	PaymentMobilePayment PaymentMethod = "mobile_payment"
)

// ParsePaymentMethod normaliza y valida la forma de pago.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case PaymentCash, PaymentTransfer, PaymentCard, PaymentMobilePayment:
		return m, nil
	}
	return "", fmt.Errorf("%w: forma de pago %q", domain.ErrValidation, s)
}

// Códigos de motivo cuando el IGTF no aplica.
const (
	ReasonNotSubject   = "CURRENCY_NOT_SUBJECT"
	ReasonBaseCurrency = "BASE_CURRENCY_EXEMPT"
	ReasonExempt       = "CURRENCY_EXEMPT"
	ReasonBelowMinimum = "BELOW_MINIMUM"
)

var reasonText = map[string]string{
	ReasonNotSubject:   "moneda no sujeta a IGTF",
	ReasonBaseCurrency: "las transacciones en moneda base están exentas",
	ReasonExempt:       "moneda marcada como exenta por defecto",
	ReasonBelowMinimum: "monto por debajo del mínimo",
}

var hundred = decimal.NewFromInt(100)

// IGTFMetadata datos de trazabilidad del cálculo.
type IGTFMetadata struct {
	CurrencyCode  string
	Rate          decimal.Decimal // porcentaje usado
	PaymentMethod PaymentMethod
	ReasonCode    string // vacío cuando aplica
	Reason        string
}

// IGTFResult resultado del cálculo de IGTF.
type IGTFResult struct {
	OriginalAmount decimal.Decimal
	Applied        bool
	Amount         decimal.Decimal
	TotalWithIGTF  decimal.Decimal
	Metadata       IGTFMetadata
}

// CalculateIGTF decide si la transacción paga IGTF y calcula el recargo.
// La primera regla que coincide decide:
//  1. la moneda no aplica IGTF
//  2. es la moneda base
//  3. la moneda está exenta (igual para todas las formas de pago)
//  4. el monto está por debajo del mínimo (el mínimo exacto sí paga)
//  5. recargo = monto * tasa / 100
func CalculateIGTF(amount decimal.Decimal, currency entity.Currency, method PaymentMethod) (IGTFResult, error) {
	if amount.IsNegative() {
		return IGTFResult{}, fmt.Errorf("%w: monto negativo %s", domain.ErrValidation, amount.String())
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return IGTFResult{}, err
	}

	rate := currency.EffectiveIGTFRate()
	res := IGTFResult{
		OriginalAmount: amount,
		Amount:         decimal.Zero,
		TotalWithIGTF:  amount,
		Metadata: IGTFMetadata{
			CurrencyCode:  currency.Code,
			Rate:          rate,
			PaymentMethod: method,
		},
	}

	if reason := exemptionReason(amount, currency); reason != "" {
		res.Metadata.ReasonCode = reason
		res.Metadata.Reason = reasonText[reason]
		return res, nil
	}

	res.Applied = true
	res.Amount = amount.Mul(rate).Div(hundred)
	res.TotalWithIGTF = amount.Add(res.Amount)
	return res, nil
}

func exemptionReason(amount decimal.Decimal, c entity.Currency) string {
	switch {
	case !c.AppliesIGTF:
		return ReasonNotSubject
	case c.IsBaseCurrency:
		return ReasonBaseCurrency
	case c.IGTFExempt:
		return ReasonExempt
	case c.IGTFMinAmount.Valid && amount.LessThan(c.IGTFMinAmount.Decimal):
		return ReasonBelowMinimum
	}
	return ""
}
