package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v6"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig     `envPrefix:"SERVER_"`
	Database   DatabaseConfig   `envPrefix:"DB_"`
	Redis      RedisConfig      `envPrefix:"REDIS_"`
	RabbitMQ   RabbitMQConfig   `envPrefix:"RABBITMQ_"`
	JWT        JWTConfig        `envPrefix:"JWT_"`
	Gateway    GatewayConfig    `envPrefix:"GATEWAY_"`
	Cloudinary CloudinaryConfig `envPrefix:"CLOUDINARY_"`
	Security   SecurityConfig
	Onboarding OnboardingConfig `envPrefix:"ONBOARDING_"`
	RateLimit  RateLimitConfig  `envPrefix:"RATE_LIMIT_"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Env  string `env:"ENV" envDefault:"development"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD" envDefault:"postgres"`
	DBName   string `env:"NAME" envDefault:"seller_onboarding"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string `env:"URL" envDefault:"redis://localhost:6379"`
	Password string `env:"PASSWORD"`
}

// RabbitMQConfig holds RabbitMQ configuration. An empty URL disables event publishing.
type RabbitMQConfig struct {
	URL      string `env:"URL"`
	Exchange string `env:"EXCHANGE" envDefault:"seller.onboarding"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret       string        `env:"SECRET" envDefault:"change-this-in-production"`
	AccessExpiry time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
}

// GatewayConfig points at the marketplace REST API
type GatewayConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:5000/api"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

// CloudinaryConfig holds the logo asset host credentials
type CloudinaryConfig struct {
	URL    string `env:"URL"`
	Folder string `env:"FOLDER" envDefault:"store-logos"`
}

// SecurityConfig holds secrets used to protect data at rest
type SecurityConfig struct {
	DraftEncryptionSecret string `env:"DRAFT_ENCRYPTION_SECRET" envDefault:"change-this-draft-secret"`
}

// OnboardingConfig tunes draft persistence and transition locking
type OnboardingConfig struct {
	DraftTTL    time.Duration `env:"DRAFT_TTL" envDefault:"720h"`
	LockTTL     time.Duration `env:"LOCK_TTL" envDefault:"30s"`
	MaxLogoSize int64         `env:"MAX_LOGO_SIZE" envDefault:"5242880"`
}

// RateLimitConfig limits OTP sends per user
type RateLimitConfig struct {
	Enabled bool    `env:"ENABLED" envDefault:"true"`
	OTPRate float64 `env:"OTP_RPS" envDefault:"0.2"`
	OTPBurst int    `env:"OTP_BURST" envDefault:"3"`
}

var parseEnv = func(cfg *Config) error {
	return env.Parse(cfg)
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Gateway.Timeout <= 0 {
		return errors.New("GATEWAY_TIMEOUT must be positive")
	}
	if c.Onboarding.LockTTL <= c.Gateway.Timeout {
		return errors.New("ONBOARDING_LOCK_TTL must exceed GATEWAY_TIMEOUT")
	}
	if c.Onboarding.MaxLogoSize <= 0 {
		return errors.New("ONBOARDING_MAX_LOGO_SIZE must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
