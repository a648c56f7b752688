package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/duylamasd/duylam-oauth2/pkg/config"
)

// Config holds all configuration for the auth service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"PORT" envDefault:"3500"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"auth"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"auth_secret"`
	PostgresDB   string `env:"AUTH_DB_NAME" envDefault:"auth_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	DBMaxConns   int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns   int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Redis (session store)
	RedisHost     string        `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int           `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string        `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Token signing keys (RS256 PEM files)
	PrivateKeyPath string        `env:"PRIVATE_KEY_PATH" envDefault:"certs/private.pem"`
	PublicKeyPath  string        `env:"PUBLIC_KEY_PATH" envDefault:"certs/public.pem"`
	TokenExpiry    time.Duration `env:"TOKEN_EXPIRY" envDefault:"1h"`

	// Credentials
	CredentialTTL time.Duration `env:"CREDENTIAL_TTL" envDefault:"720h"`

	// Passwords
	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// Twitter OAuth
	TwitterClientID     string `env:"TWITTER_CLIENT_ID" envDefault:""`
	TwitterClientSecret string `env:"TWITTER_CLIENT_SECRET" envDefault:""`
	TwitterCallbackURL  string `env:"TWITTER_CALLBACK_URL" envDefault:"http://localhost:3500/twitter/callback"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"0.1"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load auth config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}

	// Outside development, federated login must be explicitly configured or
	// explicitly absent; a half-set pair is a deployment mistake.
	if (cfg.TwitterClientID == "") != (cfg.TwitterClientSecret == "") {
		return nil, fmt.Errorf("TWITTER_CLIENT_ID and TWITTER_CLIENT_SECRET must be set together")
	}

	return cfg, nil
}
