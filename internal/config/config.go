package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything the process reads from the environment. It is
// built once in main and handed to the components that need it; nothing else
// touches os.Getenv at request time.
type Config struct {
	Port        uint
	Env         string
	FrontendURL string

	DBHost     string
	DBPort     uint
	DBName     string
	DBUsername string
	DBPassword string
	DBSecretID string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenDays    int
	RefreshTokenDays   int

	ContactWebhookURL string
}

const (
	defaultPort             = 4000
	defaultAccessTokenDays  = 1
	defaultRefreshTokenDays = 7
)

// Load reads the environment into a Config and validates it. Missing JWT
// secrets are a startup error, never a per-request one.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        parsePositiveUint(os.Getenv("PORT"), defaultPort),
		Env:         os.Getenv("ENV"),
		FrontendURL: os.Getenv("FRONTEND_URL"),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     parsePositiveUint(os.Getenv("DB_PORT"), 5432),
		DBName:     os.Getenv("DB_NAME"),
		DBUsername: os.Getenv("DB_USERNAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBSecretID: os.Getenv("DB_SECRET_ID"),

		AccessTokenSecret:  os.Getenv("JWT_ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret: os.Getenv("JWT_REFRESH_TOKEN_SECRET"),
		AccessTokenDays:    parsePositiveInt(os.Getenv("JWT_ACCESS_TOKEN_EXPIRY"), defaultAccessTokenDays),
		RefreshTokenDays:   parsePositiveInt(os.Getenv("JWT_REFRESH_TOKEN_EXPIRY"), defaultRefreshTokenDays),

		ContactWebhookURL: os.Getenv("CONTACT_WEBHOOK_URL"),
	}

	if cfg.AccessTokenSecret == "" {
		return nil, fmt.Errorf("JWT_ACCESS_TOKEN_SECRET is not defined")
	}
	if cfg.RefreshTokenSecret == "" {
		return nil, fmt.Errorf("JWT_REFRESH_TOKEN_SECRET is not defined")
	}

	return cfg, nil
}

// IsProduction controls cookie Secure flags and .env loading.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func parsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func parsePositiveUint(s string, def uint) uint {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil || n == 0 {
		return def
	}
	return uint(n)
}
