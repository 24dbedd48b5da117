package billing_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/jhoicas/precios-api/internal/application/billing"
	"github.com/jhoicas/precios-api/internal/application/dto"
	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/pricing"
	"github.com/jhoicas/precios-api/pkg/logger"
	"github.com/jhoicas/precios-api/pkg/money"
)

// ── mocks ────────────────────────────────────────────────────────────────────

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

type MockProformaGenerator struct {
	mock.Mock
}

func (m *MockProformaGenerator) GenerateProforma(ctx context.Context, p *dto.PreviewResponse) ([]byte, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type staticSource struct {
	reg *pricing.Registry
}

func (s staticSource) Load(context.Context) (*pricing.Registry, error) { return s.reg, nil }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ptr[T any](v T) *T { return &v }

func newRegistry(t *testing.T) *pricing.Registry {
	t.Helper()
	reg, err := pricing.NewRegistry([]entity.Currency{
		{ID: "cur-ves", Code: "VES", Symbol: "Bs.", ExchangeRate: d("1"), DecimalPlaces: 2,
			IsBaseCurrency: true, AppliesIGTF: true, IsActive: true},
		{ID: "cur-usd", Code: "USD", Symbol: "$", ExchangeRate: d("36.50"), DecimalPlaces: 2,
			ConversionMethod: entity.ConversionDirect, AppliesIGTF: true, IsActive: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

// ── suite ────────────────────────────────────────────────────────────────────

type PricingUseCaseTestSuite struct {
	suite.Suite
	products  *MockProductRepository
	generator *MockProformaGenerator
	uc        *billing.PricingUseCase
}

func (s *PricingUseCaseTestSuite) SetupTest() {
	s.products = new(MockProductRepository)
	s.generator = new(MockProformaGenerator)
	s.uc = billing.NewPricingUseCase(
		staticSource{reg: newRegistry(s.T())},
		s.products,
		s.generator,
		money.NewFormatter("en"),
		billing.Defaults{ReferenceCurrency: "USD", IVAPercentage: decimal.NewNullDecimal(d("16"))},
		logger.Nop(),
	)
}

func (s *PricingUseCaseTestSuite) harina() *entity.Product {
	return &entity.Product{ID: "p-1", SKU: "HAR-1", Name: "Harina PAN 1kg", Price: d("15"), IsActive: true}
}

func (s *PricingUseCaseTestSuite) TestPreview_ResuelvePreciosDelCatalogo() {
	ctx := context.Background()
	s.products.On("GetByID", ctx, "p-1").Return(s.harina(), nil).Once()

	out, err := s.uc.Preview(ctx, dto.PreviewRequest{
		Items: []dto.PreviewItemRequest{
			{ProductID: "p-1", Quantity: d("10")},
			{Description: "Aceite 1L", Quantity: d("5"), UnitPrice: ptr(d("10")), TaxExempt: ptr(false)},
		},
		TargetCurrency: "VES",
		PaymentMethod:  "transfer",
	})

	s.Require().NoError(err)
	s.Equal("USD", out.ReferenceCurrency, "moneda de referencia por defecto")
	s.True(out.SubtotalTarget.Equal(d("7300")), out.SubtotalTarget.String())
	s.True(out.IVAAmount.Equal(d("1168")), out.IVAAmount.String())
	s.True(out.TotalAmount.Equal(d("8468")), out.TotalAmount.String())
	s.False(out.IGTFApplied)
	s.Equal("Harina PAN 1kg", out.Lines[0].Description)
	s.Equal("Bs. 8,468.00", out.Display.Total)
	s.Len(out.PreviewID, 36)
	s.products.AssertExpectations(s.T())
}

func (s *PricingUseCaseTestSuite) TestPreview_ValoresExplicitosTienenPrioridad() {
	ctx := context.Background()
	s.products.On("GetByID", ctx, "p-1").Return(s.harina(), nil).Once()

	out, err := s.uc.Preview(ctx, dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{ProductID: "p-1", Quantity: d("2"), UnitPrice: ptr(d("20"))}},
		TargetCurrency: "USD",
		PaymentMethod:  "cash",
		IVAPercentage:  ptr(d("8")),
	})

	s.Require().NoError(err)
	s.True(out.SubtotalTarget.Equal(d("40")))
	s.True(out.IVAAmount.Equal(d("3.2")))
	s.True(out.IGTFApplied)
	s.True(out.IGTFAmount.Equal(d("1.2")))
	s.True(out.TotalAmount.Equal(d("44.4")))
}

func (s *PricingUseCaseTestSuite) TestPreview_PrecioYExencionExplicitosNoConsultanCatalogo() {
	out, err := s.uc.Preview(context.Background(), dto.PreviewRequest{
		Items: []dto.PreviewItemRequest{
			{ProductID: "p-9", Quantity: d("1"), UnitPrice: ptr(d("50")), TaxExempt: ptr(true)},
		},
		TargetCurrency: "USD",
		PaymentMethod:  "card",
	})

	s.Require().NoError(err)
	s.True(out.ExemptAmount.Equal(d("50")))
	s.True(out.IVAAmount.IsZero())
	s.products.AssertNotCalled(s.T(), "GetByID", mock.Anything, mock.Anything)
}

func (s *PricingUseCaseTestSuite) TestPreview_TasaManual() {
	out, err := s.uc.Preview(context.Background(), dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{Quantity: d("200"), UnitPrice: ptr(d("1")), TaxExempt: ptr(false)}},
		TargetCurrency: "VES",
		PaymentMethod:  "transfer",
		ManualRate:     ptr(d("40")),
	})

	s.Require().NoError(err)
	s.True(out.ManualRate)
	s.Equal(pricing.PathManual, out.ConversionPath)
	s.True(out.TotalAmount.Equal(d("9280")))
}

func (s *PricingUseCaseTestSuite) TestPreview_ProductoInexistente() {
	ctx := context.Background()
	s.products.On("GetByID", ctx, "nope").Return(nil, nil).Once()

	_, err := s.uc.Preview(ctx, dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{ProductID: "nope", Quantity: d("1")}},
		TargetCurrency: "VES",
		PaymentMethod:  "cash",
	})

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PricingUseCaseTestSuite) TestPreview_ProductoInactivo() {
	ctx := context.Background()
	p := s.harina()
	p.IsActive = false
	s.products.On("GetByID", ctx, "p-1").Return(p, nil).Once()

	_, err := s.uc.Preview(ctx, dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{ProductID: "p-1", Quantity: d("1")}},
		TargetCurrency: "VES",
		PaymentMethod:  "cash",
	})

	s.ErrorIs(err, domain.ErrValidation)
}

func (s *PricingUseCaseTestSuite) TestPreview_LineaSinProductoNiPrecio() {
	_, err := s.uc.Preview(context.Background(), dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{Quantity: d("1")}},
		TargetCurrency: "VES",
		PaymentMethod:  "cash",
	})

	s.ErrorIs(err, domain.ErrValidation)
}

func (s *PricingUseCaseTestSuite) TestPreview_MonedaDestinoDesconocida() {
	_, err := s.uc.Preview(context.Background(), dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{Quantity: d("1"), UnitPrice: ptr(d("1")), TaxExempt: ptr(false)}},
		TargetCurrency: "COP",
		PaymentMethod:  "cash",
	})

	s.ErrorIs(err, domain.ErrCurrencyNotFound)
}

func (s *PricingUseCaseTestSuite) TestPreviewPDF_DevuelveBytesYNombre() {
	s.generator.On("GenerateProforma", mock.Anything, mock.AnythingOfType("*dto.PreviewResponse")).
		Return([]byte("%PDF-1.3"), nil).Once()

	pdfBytes, filename, err := s.uc.PreviewPDF(context.Background(), dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{Quantity: d("1"), UnitPrice: ptr(d("1")), TaxExempt: ptr(false)}},
		TargetCurrency: "VES",
		PaymentMethod:  "cash",
	})

	s.Require().NoError(err)
	s.Equal([]byte("%PDF-1.3"), pdfBytes)
	s.Regexp(`^proforma_[0-9a-f]{8}\.pdf$`, filename)
	s.generator.AssertExpectations(s.T())
}

func (s *PricingUseCaseTestSuite) TestPreviewPDF_SinGenerador() {
	uc := billing.NewPricingUseCase(staticSource{reg: newRegistry(s.T())}, s.products, nil,
		money.NewFormatter("en"), billing.Defaults{ReferenceCurrency: "USD"}, logger.Nop())

	_, _, err := uc.PreviewPDF(context.Background(), dto.PreviewRequest{})

	s.ErrorIs(err, domain.ErrConfiguration)
}

func (s *PricingUseCaseTestSuite) TestPreview_IVAPorDefectoCeroSeRespeta() {
	uc := billing.NewPricingUseCase(staticSource{reg: newRegistry(s.T())}, s.products, nil,
		money.NewFormatter("en"),
		billing.Defaults{ReferenceCurrency: "USD", IVAPercentage: decimal.NewNullDecimal(decimal.Zero)},
		logger.Nop())

	out, err := uc.Preview(context.Background(), dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{Quantity: d("1"), UnitPrice: ptr(d("100")), TaxExempt: ptr(false)}},
		TargetCurrency: "VES",
		PaymentMethod:  "transfer",
	})

	s.Require().NoError(err)
	s.True(out.IVAPercentage.IsZero(), out.IVAPercentage.String())
	s.True(out.IVAAmount.IsZero(), out.IVAAmount.String())
	s.True(out.TotalAmount.Equal(d("3650")), out.TotalAmount.String())
}

func (s *PricingUseCaseTestSuite) TestPreview_SinIVAPorDefectoUsaGeneral() {
	uc := billing.NewPricingUseCase(staticSource{reg: newRegistry(s.T())}, s.products, nil,
		money.NewFormatter("en"), billing.Defaults{ReferenceCurrency: "USD"}, logger.Nop())

	out, err := uc.Preview(context.Background(), dto.PreviewRequest{
		Items:          []dto.PreviewItemRequest{{Quantity: d("1"), UnitPrice: ptr(d("100")), TaxExempt: ptr(false)}},
		TargetCurrency: "VES",
		PaymentMethod:  "transfer",
	})

	s.Require().NoError(err)
	s.True(out.IVAPercentage.Equal(d("16")))
	s.True(out.IVAAmount.Equal(d("584")), out.IVAAmount.String())
}

func TestPricingUseCaseSuite(t *testing.T) {
	suite.Run(t, new(PricingUseCaseTestSuite))
}
