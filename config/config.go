package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	JWT      JWTConfig      `envPrefix:"JWT_"`
	Billing  BillingConfig  `envPrefix:"BILLING_"`
	Admin    AdminConfig    `envPrefix:"ADMIN_"`
}

type ServerConfig struct {
	Port         string        `env:"PORT" envDefault:"8080"`
	Env          string        `env:"ENV" envDefault:"development"`
	ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
}

type DatabaseConfig struct {
	DSN             string        `env:"DSN" envDefault:"host=localhost user=vecindo password=vecindo dbname=vecindo port=5432 sslmode=disable TimeZone=America/Santiago"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"1h"`
}

type JWTConfig struct {
	AccessSecret  string        `env:"ACCESS_SECRET" envDefault:"change-me-in-production"`
	RefreshSecret string        `env:"REFRESH_SECRET" envDefault:"change-me-refresh"`
	AccessExpiry  time.Duration `env:"ACCESS_EXPIRY" envDefault:"15m"`
	RefreshExpiry time.Duration `env:"REFRESH_EXPIRY" envDefault:"168h"`
	Issuer        string        `env:"ISSUER" envDefault:"vecindo"`
}

type BillingConfig struct {
	// Monthly premium price in cents (CLP has no minor unit, so cents == pesos).
	PremiumPriceCents int64 `env:"PREMIUM_PRICE_CENTS" envDefault:"4990"`
	// How often the expired-subscription sweep runs; 0 disables it.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1h"`
}

type AdminConfig struct {
	Email    string `env:"EMAIL" envDefault:"admin@vecindo.cl"`
	Password string `env:"PASSWORD" envDefault:""`
}

// Load reads configuration from the environment, after loading an optional
// .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
