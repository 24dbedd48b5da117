// Package erpapi lee el registro de monedas y el catálogo de productos desde
// la API REST del ERP. Es la alternativa a leer la base de datos directamente.
package erpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/precios-api/internal/domain"
	"github.com/jhoicas/precios-api/internal/domain/entity"
	"github.com/jhoicas/precios-api/internal/domain/repository"
	"github.com/jhoicas/precios-api/pkg/config"
)

const maxBodyBytes = 4 << 20

var (
	_ repository.CurrencyRepository = (*Client)(nil)
	_ repository.ProductRepository  = (*Client)(nil)
)

// Client cliente HTTP de la API del ERP.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient construye el cliente con el timeout configurado.
func NewClient(cfg config.ERPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras de respuesta ──────────────────────────────────────────────────

// Los decimales pueden llegar como string o como número; decimal.Decimal acepta ambos.
type currencyPayload struct {
	ID               string              `json:"id"`
	Code             string              `json:"code"`
	Name             string              `json:"name"`
	Symbol           string              `json:"symbol"`
	ExchangeRate     decimal.Decimal     `json:"exchange_rate"`
	DecimalPlaces    *int32              `json:"decimal_places"`
	IsBaseCurrency   bool                `json:"is_base_currency"`
	ConversionMethod string              `json:"conversion_method"`
	AppliesIGTF      bool                `json:"applies_igtf"`
	IGTFRate         decimal.NullDecimal `json:"igtf_rate"`
	IGTFExempt       bool                `json:"igtf_exempt"`
	IGTFMinAmount    decimal.NullDecimal `json:"igtf_min_amount"`
	RateUpdateMethod string              `json:"rate_update_method"`
	IsActive         *bool               `json:"is_active"`
	LastRateUpdate   *time.Time          `json:"last_rate_update"`
}

type productPayload struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	TaxExempt   bool            `json:"tax_exempt"`
	UnitMeasure string          `json:"unit_measure"`
	IsActive    *bool           `json:"is_active"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// ListActiveCurrencies GET /currencies?is_active=true.
func (c *Client) ListActiveCurrencies(ctx context.Context) ([]*entity.Currency, error) {
	var body envelope[[]currencyPayload]
	found, err := c.getJSON(ctx, "/currencies?is_active=true", &body)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: el ERP no expone /currencies", domain.ErrConfiguration)
	}
	out := make([]*entity.Currency, 0, len(body.Data))
	for _, p := range body.Data {
		cur := p.toEntity()
		if !cur.IsActive {
			continue
		}
		out = append(out, cur)
	}
	return out, nil
}

// ListActive implementa repository.CurrencyRepository.
func (c *Client) ListActive(ctx context.Context) ([]*entity.Currency, error) {
	return c.ListActiveCurrencies(ctx)
}

// GetProduct GET /products/{id}. Devuelve (nil, nil) si el ERP responde 404.
func (c *Client) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var body envelope[productPayload]
	found, err := c.getJSON(ctx, "/products/"+url.PathEscape(id), &body)
	if err != nil || !found {
		return nil, err
	}
	p := body.Data
	active := true
	if p.IsActive != nil {
		active = *p.IsActive
	}
	return &entity.Product{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Price:       p.Price,
		TaxExempt:   p.TaxExempt,
		UnitMeasure: p.UnitMeasure,
		IsActive:    active,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// GetByID implementa repository.ProductRepository.
func (c *Client) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return c.GetProduct(ctx, id)
}

func (p currencyPayload) toEntity() *entity.Currency {
	cur := &entity.Currency{
		ID:               p.ID,
		Code:             strings.ToUpper(strings.TrimSpace(p.Code)),
		Name:             p.Name,
		Symbol:           p.Symbol,
		ExchangeRate:     p.ExchangeRate,
		DecimalPlaces:    2,
		IsBaseCurrency:   p.IsBaseCurrency,
		ConversionMethod: p.ConversionMethod,
		AppliesIGTF:      p.AppliesIGTF,
		IGTFRate:         p.IGTFRate,
		IGTFExempt:       p.IGTFExempt,
		IGTFMinAmount:    p.IGTFMinAmount,
		RateUpdateMethod: p.RateUpdateMethod,
		IsActive:         true,
		LastRateUpdate:   p.LastRateUpdate,
	}
	if p.DecimalPlaces != nil {
		cur.DecimalPlaces = *p.DecimalPlaces
	}
	if p.IsActive != nil {
		cur.IsActive = *p.IsActive
	}
	return cur
}

// getJSON hace GET y decodifica el cuerpo en out. found=false si el ERP responde 404.
func (c *Client) getJSON(ctx context.Context, path string, out any) (found bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return false, fmt.Errorf("erpapi: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("erpapi: timeout o cancelación: %w", ctx.Err())
		}
		return false, fmt.Errorf("erpapi: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return false, fmt.Errorf("erpapi: leer respuesta: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return false, fmt.Errorf("%w: el ERP rechazó el token (HTTP %d)", domain.ErrConfiguration, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return false, fmt.Errorf("erpapi: GET %s: HTTP %d: %s", path, resp.StatusCode, snippet(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("erpapi: decodificar %s: %w", path, err)
	}
	return true, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "…"
	}
	return s
}
