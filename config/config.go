package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Fontes do feed de anúncios
const (
	FeedPostgres  = "postgres"
	FeedFirestore = "firestore"
)

// Provedores de autenticação
const (
	AuthJWT      = "jwt"
	AuthFirebase = "firebase"
)

// Config armazena todas as configurações do marketplace.
// Os valores vêm de variáveis de ambiente (o .env é carregado no main com godotenv).
type Config struct {
	// Geral
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Banco de Dados (PostgreSQL)
	DatabaseURL  string `env:"DATABASE_URL,required"`
	DBTimeoutSec int    `env:"DB_TIMEOUT_SEC" envDefault:"5"`

	// Cache (Redis)
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`
	CacheTTLMin     int    `env:"CACHE_TTL_MIN" envDefault:"5"`
	GuestCartTTLMin int    `env:"GUEST_CART_TTL_MIN" envDefault:"120"`

	// Segurança (JWT)
	JWTSecretKey   string `env:"JWT_SECRET_KEY,required"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`
	AuthProvider   string `env:"AUTH_PROVIDER" envDefault:"jwt"`

	// Rate Limiting
	RateLimitMaxRequests int `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"100"`
	RateLimitPeriodMin   int `env:"RATE_LIMIT_PERIOD_MIN" envDefault:"1"`

	// Feed de anúncios e Firebase
	ListingFeed           string `env:"LISTING_FEED" envDefault:"postgres"`
	FirestoreProjectID    string `env:"FIRESTORE_PROJECT_ID"`
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	// Eventos (vazio desativa a publicação)
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"shoemarket.events"`

	// Checkout
	ShippingFreeThreshold float64 `env:"SHIPPING_FREE_THRESHOLD" envDefault:"100"`
	ShippingFlatRate      float64 `env:"SHIPPING_FLAT_RATE" envDefault:"9.99"`
	TaxRate               float64 `env:"TAX_RATE" envDefault:"0.08"`
}

// LoadConfig carrega e valida as configurações a partir das variáveis de ambiente.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("erro de configuração: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifica as regras de consistência da configuração.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT inválida: %d", c.Port)
	}
	switch c.ListingFeed {
	case FeedPostgres:
	case FeedFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID é obrigatório quando LISTING_FEED=%s", FeedFirestore)
		}
	default:
		return fmt.Errorf("LISTING_FEED desconhecido: %q", c.ListingFeed)
	}
	switch c.AuthProvider {
	case AuthJWT:
	case AuthFirebase:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("FIRESTORE_PROJECT_ID é obrigatório quando AUTH_PROVIDER=%s", AuthFirebase)
		}
	default:
		return fmt.Errorf("AUTH_PROVIDER desconhecido: %q", c.AuthProvider)
	}
	if c.GuestCartTTLMin <= 0 {
		return fmt.Errorf("GUEST_CART_TTL_MIN deve ser positivo: %d", c.GuestCartTTLMin)
	}
	if c.TaxRate < 0 || c.TaxRate > 1 {
		return fmt.Errorf("TAX_RATE deve estar entre 0 e 1: %f", c.TaxRate)
	}
	return nil
}

// Addr é o endereço de escuta do servidor HTTP.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func (c *Config) DBTimeout() time.Duration { return time.Duration(c.DBTimeoutSec) * time.Second }

func (c *Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLMin) * time.Minute }

func (c *Config) GuestCartTTL() time.Duration { return time.Duration(c.GuestCartTTLMin) * time.Minute }

func (c *Config) TokenExpiry() time.Duration { return time.Duration(c.JWTExpiryHours) * time.Hour }

func (c *Config) RateLimitPeriod() time.Duration {
	return time.Duration(c.RateLimitPeriodMin) * time.Minute
}
