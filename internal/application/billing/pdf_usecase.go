package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/internal/domain"
)

// PreviewPDF calcula la vista previa y la devuelve como proforma PDF.
func (uc *PricingUseCase) PreviewPDF(ctx context.Context, in dto.PreviewRequest) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("%w: generador de proformas no configurado", domain.ErrConfiguration)
	}
	preview, err := uc.Preview(ctx, in)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateProforma(ctx, preview)
	if err != nil {
		return nil, "", fmt.Errorf("proforma: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("proforma_%s.pdf", preview.PreviewID[:8]), nil
}
