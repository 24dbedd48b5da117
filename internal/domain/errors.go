package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound = errors.New("recurso no encontrado")

	// Errores del núcleo de precios multimoneda.
	ErrConfiguration    = errors.New("configuración de monedas inválida")
	ErrCurrencyNotFound = errors.New("moneda no encontrada")
	ErrInvalidRate      = errors.New("tasa de cambio inválida")
	ErrValidation       = errors.New("datos inválidos")
)
