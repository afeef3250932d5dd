// config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	Env      string
	LogLevel string
	Port     string

	// Backend REST de QuickCart
	APIBaseURL   string
	APITimeout   time.Duration
	ServiceToken string

	// Caché local (memory | redis | mongo)
	StoreDriver string
	RedisURL    string
	CacheTTL    time.Duration
	MongoURI    string
	MongoDBName string

	// RabbitMQ (vacío = deshabilitado)
	RabbitURL      string
	OrdersExchange string
	StatusExchange string
	NotifyExchange string

	PollInterval time.Duration
	PollTimeout  time.Duration

	FreeDeliveryThreshold decimal.Decimal
	DeliveryFee           decimal.Decimal
	HandlingFee           decimal.Decimal

	OfflineOrders  bool
	AllowedOrigins []string

	MerchantName    string
	MerchantAddress string
	MerchantEmail   string
	MerchantPhone   string
}

var defaults = map[string]any{
	"APP_ENV":                 "development",
	"LOG_LEVEL":               "info",
	"PORT":                    "8080",
	"API_BASE_URL":            "http://host.docker.internal:5000/api",
	"API_TIMEOUT":             "10s",
	"SERVICE_TOKEN":           "",
	"STORE_DRIVER":            "memory",
	"REDIS_URL":               "redis://host.docker.internal:6379/0",
	"CACHE_TTL":               "0s",
	"MONGO_URI":               "mongodb://host.docker.internal:27017",
	"MONGO_DB_NAME":           "quickcart",
	"RABBIT_URL":              "",
	"ORDERS_EXCHANGE":         "order_placed",
	"STATUS_EXCHANGE":         "order_status_changed",
	"NOTIFY_EXCHANGE":         "order_notifications",
	"POLL_INTERVAL":           "30s",
	"POLL_TIMEOUT":            "10s",
	"FREE_DELIVERY_THRESHOLD": "99",
	"DELIVERY_FEE":            "29",
	"HANDLING_FEE":            "5",
	"OFFLINE_ORDERS":          false,
	"ALLOWED_ORIGINS":         "*",
	"MERCHANT_NAME":           "QuickCart",
	"MERCHANT_ADDRESS":        "QuickCart Retail Pvt. Ltd.",
	"MERCHANT_EMAIL":          "support@quickcart.in",
	"MERCHANT_PHONE":          "+91-80-4000-1234",
}

// Load lee .env (si existe) y luego las variables de entorno.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		Env:             v.GetString("APP_ENV"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		Port:            v.GetString("PORT"),
		APIBaseURL:      strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		APITimeout:      v.GetDuration("API_TIMEOUT"),
		ServiceToken:    v.GetString("SERVICE_TOKEN"),
		StoreDriver:     strings.ToLower(v.GetString("STORE_DRIVER")),
		RedisURL:        v.GetString("REDIS_URL"),
		CacheTTL:        v.GetDuration("CACHE_TTL"),
		MongoURI:        v.GetString("MONGO_URI"),
		MongoDBName:     v.GetString("MONGO_DB_NAME"),
		RabbitURL:       v.GetString("RABBIT_URL"),
		OrdersExchange:  v.GetString("ORDERS_EXCHANGE"),
		StatusExchange:  v.GetString("STATUS_EXCHANGE"),
		NotifyExchange:  v.GetString("NOTIFY_EXCHANGE"),
		PollInterval:    v.GetDuration("POLL_INTERVAL"),
		PollTimeout:     v.GetDuration("POLL_TIMEOUT"),
		OfflineOrders:   v.GetBool("OFFLINE_ORDERS"),
		AllowedOrigins:  splitList(v.GetString("ALLOWED_ORIGINS")),
		MerchantName:    v.GetString("MERCHANT_NAME"),
		MerchantAddress: v.GetString("MERCHANT_ADDRESS"),
		MerchantEmail:   v.GetString("MERCHANT_EMAIL"),
		MerchantPhone:   v.GetString("MERCHANT_PHONE"),
	}

	var err error
	if cfg.FreeDeliveryThreshold, err = amount(v, "FREE_DELIVERY_THRESHOLD"); err != nil {
		return nil, err
	}
	if cfg.DeliveryFee, err = amount(v, "DELIVERY_FEE"); err != nil {
		return nil, err
	}
	if cfg.HandlingFee, err = amount(v, "HANDLING_FEE"); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case "memory", "redis", "mongo":
	default:
		return nil, fmt.Errorf("STORE_DRIVER inválido: %q", cfg.StoreDriver)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL debe ser positivo")
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

func amount(v *viper.Viper, key string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(v.GetString(key)))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s no es un importe válido: %w", key, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s no puede ser negativo", key)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
