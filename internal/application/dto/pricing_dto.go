package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PreviewItemRequest línea de la vista previa. UnitPrice y TaxExempt son
// opcionales: si vienen, reemplazan los datos del producto.
type PreviewItemRequest struct {
	ProductID   string           `json:"product_id" validate:"required_without=UnitPrice"`
	Description string           `json:"description,omitempty"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	TaxExempt   *bool            `json:"tax_exempt,omitempty"`
}

// PreviewRequest body para POST /api/pricing/preview.
type PreviewRequest struct {
	Items             []PreviewItemRequest `json:"items" validate:"required,min=1,dive"`
	ReferenceCurrency string               `json:"reference_currency,omitempty" validate:"omitempty,len=3,alpha"`
	TargetCurrency    string               `json:"target_currency" validate:"required,len=3,alpha"`
	PaymentMethod     string               `json:"payment_method" validate:"required"`
	IVAPercentage     *decimal.Decimal     `json:"iva_percentage,omitempty"`
	ManualRate        *decimal.Decimal     `json:"manual_rate,omitempty"`
}

// PreviewLineResponse línea calculada.
type PreviewLineResponse struct {
	ProductID      string          `json:"product_id,omitempty"`
	Description    string          `json:"description,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxExempt      bool            `json:"tax_exempt"`
	TotalReference decimal.Decimal `json:"total_reference"`
	TotalTarget    decimal.Decimal `json:"total_target"`
}

// PreviewDisplay montos formateados para mostrar al usuario.
type PreviewDisplay struct {
	Subtotal string `json:"subtotal"`
	IVA      string `json:"iva"`
	IGTF     string `json:"igtf"`
	Total    string `json:"total"`
}

// PreviewResponse desglose de la factura.
type PreviewResponse struct {
	PreviewID          string                `json:"preview_id"`
	ReferenceCurrency  string                `json:"reference_currency"`
	TargetCurrency     string                `json:"target_currency"`
	TargetSymbol       string                `json:"target_symbol"`
	TargetDecimals     int32                 `json:"target_decimal_places"`
	PaymentMethod      string                `json:"payment_method"`
	SubtotalReference  decimal.Decimal       `json:"subtotal_reference"`
	TaxableBase        decimal.Decimal       `json:"taxable_base"`
	ExemptAmount       decimal.Decimal       `json:"exempt_amount"`
	SubtotalTarget     decimal.Decimal       `json:"subtotal_target"`
	TaxableBaseTarget  decimal.Decimal       `json:"taxable_base_target"`
	ExemptAmountTarget decimal.Decimal       `json:"exempt_amount_target"`
	IVAPercentage      decimal.Decimal       `json:"iva_percentage"`
	IVAAmount          decimal.Decimal       `json:"iva_amount"`
	IGTFApplied        bool                  `json:"igtf_applied"`
	IGTFAmount         decimal.Decimal       `json:"igtf_amount"`
	IGTF               IGTFResponse          `json:"igtf"`
	TotalAmount        decimal.Decimal       `json:"total_amount"`
	ExchangeRateUsed   decimal.Decimal       `json:"exchange_rate_used"`
	EffectiveRate      decimal.Decimal       `json:"effective_rate"`
	ManualRate         bool                  `json:"manual_rate"`
	ConversionPath     string                `json:"conversion_path"`
	RateDate           time.Time             `json:"rate_date"`
	Lines              []PreviewLineResponse `json:"lines"`
	Display            PreviewDisplay        `json:"display"`
}
