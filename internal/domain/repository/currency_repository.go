package repository

import (
	"context"

	"github.com/jhoicas/precios-api/internal/domain/entity"
)

// CurrencyRepository puerto de lectura del registro de monedas del ERP.
// El servicio no escribe monedas: las altas y cambios de tasa son del backend.
type CurrencyRepository interface {
	ListActive(ctx context.Context) ([]*entity.Currency, error)
}
