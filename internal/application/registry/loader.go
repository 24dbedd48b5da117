// Package registry arma snapshots validados del registro de monedas a partir
// del puerto de lectura.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
	"github.com/jhoicas/precios-api/internal/domain/repository"
	"github.com/jhoicas/precios-api/pkg/logger"
)

// Loader carga las monedas activas y construye un *pricing.Registry en cada llamada.
type Loader struct {
	repo  repository.CurrencyRepository
	pivot decimal.NullDecimal
	log   *logger.Logger
}

// NewLoader construye el cargador. pivotRate vacío = sin tasa pivote USD.
func NewLoader(repo repository.CurrencyRepository, pivotRate string, log *logger.Logger) (*Loader, error) {
	l := &Loader{repo: repo, log: log.Named("registry")}
	if s := strings.TrimSpace(pivotRate); s != "" {
		rate, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("%w: tasa pivote USD %q", domain.ErrConfiguration, pivotRate)
		}
		l.pivot = decimal.NewNullDecimal(rate)
	}
	return l, nil
}

// Load lee las monedas activas y valida el snapshot.
func (l *Loader) Load(ctx context.Context) (*pricing.Registry, error) {
	list, err := l.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar monedas: %w", err)
	}
	currencies := make([]entity.Currency, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		currencies = append(currencies, *c)
	}

	var opts []pricing.RegistryOption
	if l.pivot.Valid {
		opts = append(opts, pricing.WithUSDPivotRate(l.pivot.Decimal))
	}
	reg, err := pricing.NewRegistry(currencies, opts...)
	if err != nil {
		l.log.Warn().Err(err).Int("currencies", len(currencies)).Msg("registro de monedas inválido")
		// datos mal formados en el origen, no en la petición
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	l.log.Debug().Int("currencies", reg.Len()).Msg("registro de monedas cargado")
	return reg, nil
}
