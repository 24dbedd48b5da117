package repository

import (
	"context"

	"github.com/jhoicas/precios-api/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos para resolver líneas de factura.
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
