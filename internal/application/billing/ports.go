package billing

import (
	"context"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
)

// RegistrySource entrega un snapshot validado del registro de monedas.
type RegistrySource interface {
	Load(ctx context.Context) (*pricing.Registry, error)
}

// ProformaGenerator genera la proforma en PDF de una vista previa ya calculada.
type ProformaGenerator interface {
	GenerateProforma(ctx context.Context, preview *dto.PreviewResponse) ([]byte, error)
}
