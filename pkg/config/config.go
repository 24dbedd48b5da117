package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Fuentes posibles del registro de monedas y productos.
const (
	SourcePostgres = "postgres"
	SourceAPI      = "api"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	DB      DBConfig
	HTTP    HTTPConfig
	Pricing PricingConfig
	ERP     ERPConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string // trace, debug, info, warn, error
	Locale   string // idioma para montos formateados (es-VE, en)
}

// DBConfig configuración de PostgreSQL (solo lectura sobre la base del ERP).
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN connection string con URL encoding para caracteres especiales en la contraseña.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host      string
	Port      int
	RateLimit string // formato ulule/limiter ("120-M"); vacío = sin límite
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PricingConfig parámetros del cotizador.
type PricingConfig struct {
	Source            string // postgres | api
	ReferenceCurrency string // moneda de los precios del catálogo
	IVAPercentage     string // decimal como texto; se valida al arrancar
	USDPivotRate      string // unidades de la base por 1 USD; vacío = sin pivote
}

// ERPConfig acceso a la API REST del ERP (cuando Source = api).
type ERPConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env opcional; no pisa variables ya definidas

	v := viper.New()
	v.SetConfigType("env")
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "precios-api"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
			Locale:   getString(v, "APP_LOCALE", "es-VE"),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "erp"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 10),
			MinConns:    getInt(v, "DB_MIN_CONNS", 1),
		},
		HTTP: HTTPConfig{
			Host:      getString(v, "HTTP_HOST", "0.0.0.0"),
			Port:      getInt(v, "HTTP_PORT", 8080),
			RateLimit: getString(v, "HTTP_RATE_LIMIT", "120-M"),
		},
		Pricing: PricingConfig{
			Source:            strings.ToLower(getString(v, "REGISTRY_SOURCE", SourcePostgres)),
			ReferenceCurrency: strings.ToUpper(getString(v, "PRICING_REFERENCE_CURRENCY", "USD")),
			IVAPercentage:     getString(v, "PRICING_IVA_PERCENTAGE", "16"),
			USDPivotRate:      getString(v, "PRICING_USD_PIVOT_RATE", ""),
		},
		ERP: ERPConfig{
			BaseURL: getString(v, "ERP_API_URL", "http://localhost:3001/api"),
			Token:   getString(v, "ERP_API_TOKEN", ""),
			Timeout: time.Duration(getInt(v, "ERP_API_TIMEOUT_SECONDS", 15)) * time.Second,
		},
	}

	if cfg.Pricing.Source != SourcePostgres && cfg.Pricing.Source != SourceAPI {
		return nil, fmt.Errorf("REGISTRY_SOURCE inválido %q (postgres | api)", cfg.Pricing.Source)
	}
	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
