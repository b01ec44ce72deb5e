package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	minProductionSecretLen = 32
)

// Config is read once at startup from the environment (and .env when present).
type Config struct {
	Port string `env:"PORT,default=8080"`
	Env  string `env:"APP_ENV,default=development"`

	JWTSecret    string        `env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN,default=168h"`

	// AllowedOriginsRaw accepts comma or semicolon separated origins.
	AllowedOriginsRaw string `env:"ALLOWED_ORIGINS,default=http://localhost:3000;http://localhost:8080"`

	DatabaseURL       string        `env:"DATABASE_URL"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=10"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME,default=2h"`

	// EncryptionKey is base64 for 32 raw bytes. Empty disables notes encryption.
	EncryptionKey string `env:"ENCRYPTION_KEY"`

	LoginRatePerMinute int `env:"LOGIN_RATE_PER_MINUTE,default=20"`
}

// Load reads .env (if any) and the process environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and rejects weak production secrets.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("required environment variables are not set: %v", missing)
	}
	if c.IsProduction() && len(c.JWTSecret) < minProductionSecretLen {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes in production", minProductionSecretLen)
	}
	if c.JWTExpiresIn <= 0 {
		return errors.New("JWT_EXPIRES_IN must be positive")
	}
	if _, err := c.EncryptionKeyBytes(); err != nil {
		return err
	}
	return nil
}

// AllowedOrigins splits ALLOWED_ORIGINS into trimmed, non-empty origins.
func (c *Config) AllowedOrigins() []string {
	parts := strings.FieldsFunc(c.AllowedOriginsRaw, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

func (c *Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// EncryptionKeyBytes decodes ENCRYPTION_KEY. It returns nil, nil when unset.
func (c *Config) EncryptionKeyBytes() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("ENCRYPTION_KEY is not valid base64: %w", err)
	}
	if len(key) != 32 {
		return nil, errors.New("ENCRYPTION_KEY must decode to 32 bytes")
	}
	return key, nil
}
