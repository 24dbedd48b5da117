package postgres

import (
	"context"

	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/repository"
)

var _ repository.CurrencyRepository = (*CurrencyRepo)(nil)

// CurrencyRepo lectura del registro de monedas del ERP.
type CurrencyRepo struct {
	q Querier
}

// NewCurrencyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCurrencyRepository(q Querier) *CurrencyRepo {
	return &CurrencyRepo{q: q}
}

// ListActive devuelve las monedas activas ordenadas por código.
func (r *CurrencyRepo) ListActive(ctx context.Context) ([]*entity.Currency, error) {
	query := `
		SELECT id, code, COALESCE(name, ''), COALESCE(symbol, ''), exchange_rate, decimal_places,
		       is_base_currency, COALESCE(conversion_method, ''), applies_igtf, igtf_rate, igtf_exempt,
		       igtf_min_amount, COALESCE(rate_update_method, ''), is_active, last_rate_update
		FROM currencies
		WHERE is_active = TRUE
		ORDER BY code`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, wrapQueryError("list currencies", err)
	}
	defer rows.Close()

	var list []*entity.Currency
	for rows.Next() {
		var c entity.Currency
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Name, &c.Symbol, &c.ExchangeRate, &c.DecimalPlaces,
			&c.IsBaseCurrency, &c.ConversionMethod, &c.AppliesIGTF, &c.IGTFRate, &c.IGTFExempt,
			&c.IGTFMinAmount, &c.RateUpdateMethod, &c.IsActive, &c.LastRateUpdate,
		); err != nil {
			return nil, wrapQueryError("scan currency", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQueryError("list currencies", err)
	}
	return list, nil
}
