package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo del ERP tal como lo necesita el cotizador.
// Price está expresado en la moneda de referencia (normalmente USD).
type Product struct {
	ID          string
	SKU         string
	Name        string
	Price       decimal.Decimal
	TaxExempt   bool // exento de IVA
	UnitMeasure string
	IsActive    bool
	UpdatedAt   time.Time
}
