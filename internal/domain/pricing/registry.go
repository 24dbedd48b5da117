// Package pricing implementa el núcleo de precios multimoneda: registro de
// monedas, conversión vía moneda base, cálculo de IGTF y totales de factura.
//
// Todas las funciones son puras y sincrónicas; un *Registry es inmutable y se
// puede compartir entre goroutines sin sincronización.
package pricing

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
)

// Registry snapshot validado del registro de monedas.
type Registry struct {
	currencies   []entity.Currency
	byCode       map[string]int
	byID         map[string]int
	base         int // -1 si el registro está vacío
	usdPivotRate decimal.NullDecimal
	lastUpdate   *time.Time
}

// RegistryOption configura parámetros del snapshot que no vienen en las monedas.
type RegistryOption func(*Registry)

// WithUSDPivotRate define cuántas unidades de la moneda base vale 1 USD.
// Es obligatorio cuando la base no es VES ni USD.
func WithUSDPivotRate(rate decimal.Decimal) RegistryOption {
	return func(r *Registry) {
		r.usdPivotRate = decimal.NewNullDecimal(rate)
	}
}

// WithLastRateUpdate fija la fecha de la última actualización de tasas.
func WithLastRateUpdate(t time.Time) RegistryOption {
	return func(r *Registry) {
		tt := t
		r.lastUpdate = &tt
	}
}

// NewRegistry valida las monedas y construye el snapshot.
// Reglas: código ISO de 3 letras único, ID único, tasa > 0, DecimalPlaces >= 0,
// método de conversión conocido y exactamente una moneda base si no está vacío.
func NewRegistry(currencies []entity.Currency, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		currencies: make([]entity.Currency, 0, len(currencies)),
		byCode:     make(map[string]int, len(currencies)),
		byID:       make(map[string]int, len(currencies)),
		base:       -1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.usdPivotRate.Valid && !r.usdPivotRate.Decimal.IsPositive() {
		return nil, fmt.Errorf("%w: tasa pivote USD debe ser positiva", domain.ErrInvalidRate)
	}

	bases := 0
	for _, c := range currencies {
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		if err := validateCurrency(c); err != nil {
			return nil, err
		}
		if _, dup := r.byCode[c.Code]; dup {
			return nil, fmt.Errorf("%w: código de moneda duplicado %s", domain.ErrValidation, c.Code)
		}
		if _, dup := r.byID[c.ID]; dup {
			return nil, fmt.Errorf("%w: id de moneda duplicado %s", domain.ErrValidation, c.ID)
		}
		idx := len(r.currencies)
		r.currencies = append(r.currencies, c)
		r.byCode[c.Code] = idx
		r.byID[c.ID] = idx
		if c.IsBaseCurrency {
			bases++
			r.base = idx
		}
	}

	if len(r.currencies) > 0 && bases == 0 {
		return nil, fmt.Errorf("%w: no hay moneda base designada", domain.ErrConfiguration)
	}
	if bases > 1 {
		return nil, fmt.Errorf("%w: %d monedas marcadas como base", domain.ErrConfiguration, bases)
	}
	if r.lastUpdate == nil {
		r.lastUpdate = latestRateUpdate(r.currencies)
	}
	return r, nil
}

func validateCurrency(c entity.Currency) error {
	if c.ID == "" {
		return fmt.Errorf("%w: moneda %q sin id", domain.ErrValidation, c.Code)
	}
	if !isISOCode(c.Code) {
		return fmt.Errorf("%w: código de moneda %q inválido", domain.ErrValidation, c.Code)
	}
	if !c.ExchangeRate.IsPositive() {
		return fmt.Errorf("%w: %s tiene tasa %s", domain.ErrInvalidRate, c.Code, c.ExchangeRate.String())
	}
	if c.DecimalPlaces < 0 {
		return fmt.Errorf("%w: %s con decimales negativos", domain.ErrValidation, c.Code)
	}
	switch c.ConversionMethod {
	case "", entity.ConversionDirect, entity.ConversionInverse, entity.ConversionViaUSD:
	default:
		return fmt.Errorf("%w: %s con método de conversión %q", domain.ErrValidation, c.Code, c.ConversionMethod)
	}
	if c.IGTFRate.Valid && c.IGTFRate.Decimal.IsNegative() {
		return fmt.Errorf("%w: %s con porcentaje IGTF negativo", domain.ErrValidation, c.Code)
	}
	if c.IGTFMinAmount.Valid && c.IGTFMinAmount.Decimal.IsNegative() {
		return fmt.Errorf("%w: %s con monto mínimo IGTF negativo", domain.ErrValidation, c.Code)
	}
	return nil
}

func isISOCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	return true
}

func latestRateUpdate(currencies []entity.Currency) *time.Time {
	var latest *time.Time
	for _, c := range currencies {
		if c.LastRateUpdate == nil {
			continue
		}
		if latest == nil || c.LastRateUpdate.After(*latest) {
			t := *c.LastRateUpdate
			latest = &t
		}
	}
	return latest
}

// Len número de monedas del snapshot.
func (r *Registry) Len() int { return len(r.currencies) }

// Base devuelve la moneda base.
func (r *Registry) Base() (entity.Currency, error) {
	if r == nil || r.base < 0 {
		return entity.Currency{}, fmt.Errorf("%w: no hay moneda base designada", domain.ErrConfiguration)
	}
	return r.currencies[r.base], nil
}

// ByCode busca una moneda por código ISO (sin distinguir mayúsculas).
func (r *Registry) ByCode(code string) (entity.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if r != nil {
		if idx, ok := r.byCode[code]; ok {
			return r.currencies[idx], nil
		}
	}
	return entity.Currency{}, fmt.Errorf("%w: %s", domain.ErrCurrencyNotFound, code)
}

// ByID busca una moneda por ID.
func (r *Registry) ByID(id string) (entity.Currency, error) {
	if r != nil {
		if idx, ok := r.byID[id]; ok {
			return r.currencies[idx], nil
		}
	}
	return entity.Currency{}, fmt.Errorf("%w: id %s", domain.ErrCurrencyNotFound, id)
}

// Currencies copia de las monedas ordenadas por código.
func (r *Registry) Currencies() []entity.Currency {
	if r == nil {
		return nil
	}
	out := make([]entity.Currency, len(r.currencies))
	copy(out, r.currencies)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// USDPivotRate tasa pivote configurada (unidades de base por 1 USD).
func (r *Registry) USDPivotRate() decimal.NullDecimal {
	if r == nil {
		return decimal.NullDecimal{}
	}
	return r.usdPivotRate
}

// LastRateUpdate fecha de la última actualización de tasas, si se conoce.
func (r *Registry) LastRateUpdate() *time.Time {
	if r == nil {
		return nil
	}
	return r.lastUpdate
}

// ── Cambios validados (devuelven un snapshot nuevo) ──────────────────────────

// WithBase designa code como moneda base, desmarcando la anterior en el mismo paso.
func (r *Registry) WithBase(code string) (*Registry, error) {
	target, err := r.ByCode(code)
	if err != nil {
		return nil, err
	}
	next := r.cloneCurrencies()
	for i := range next {
		next[i].IsBaseCurrency = next[i].ID == target.ID
	}
	return NewRegistry(next, r.options()...)
}

// Replace sustituye la moneda con el mismo ID. Rechaza quitar la marca de base
// a la única moneda base: primero hay que designar otra con WithBase.
func (r *Registry) Replace(c entity.Currency) (*Registry, error) {
	current, err := r.ByID(c.ID)
	if err != nil {
		return nil, err
	}
	if current.IsBaseCurrency && !c.IsBaseCurrency {
		return nil, fmt.Errorf("%w: %s es la única moneda base; designe otra antes de desmarcarla",
			domain.ErrConfiguration, current.Code)
	}
	if !current.IsBaseCurrency && c.IsBaseCurrency {
		return nil, fmt.Errorf("%w: use WithBase para designar %s como moneda base",
			domain.ErrConfiguration, c.Code)
	}
	next := r.cloneCurrencies()
	next[r.byID[c.ID]] = c
	return NewRegistry(next, r.options()...)
}

// WithRate actualiza la tasa de una moneda y la marca con la fecha at.
func (r *Registry) WithRate(code string, rate decimal.Decimal, at time.Time) (*Registry, error) {
	c, err := r.ByCode(code)
	if err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: %s no acepta tasa %s", domain.ErrInvalidRate, c.Code, rate.String())
	}
	c.ExchangeRate = rate
	c.LastRateUpdate = &at
	next := r.cloneCurrencies()
	next[r.byID[c.ID]] = c
	opts := r.options()
	opts = append(opts, WithLastRateUpdate(at))
	return NewRegistry(next, opts...)
}

func (r *Registry) cloneCurrencies() []entity.Currency {
	out := make([]entity.Currency, len(r.currencies))
	copy(out, r.currencies)
	return out
}

func (r *Registry) options() []RegistryOption {
	var opts []RegistryOption
	if r.usdPivotRate.Valid {
		opts = append(opts, WithUSDPivotRate(r.usdPivotRate.Decimal))
	}
	if r.lastUpdate != nil {
		opts = append(opts, WithLastRateUpdate(*r.lastUpdate))
	}
	return opts
}
