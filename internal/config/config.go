package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/mutualaid-backend/internal/trust"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// Database
	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"mutualaid_db"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`

	// JWT verification only; tokens are issued by the identity service
	JWTSecret string `envconfig:"JWT_SECRET"`

	// Admin
	AdminEmails  string `envconfig:"ADMIN_EMAILS"`
	AdminUserIDs string `envconfig:"ADMIN_USER_IDS"`
	AdminToken   string `envconfig:"ADMIN_TOKEN"`

	// Server
	Port        string `envconfig:"PORT" default:"8080"`
	CORSOrigins string `envconfig:"CORS_ORIGINS" default:"*"`
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`

	// Achievements and trust
	AchievementTimeout time.Duration `envconfig:"ACHIEVEMENT_TIMEOUT" default:"3s"`
	TrustTimeout       time.Duration `envconfig:"TRUST_TIMEOUT" default:"2s"`
	TrustTiersRaw      string        `envconfig:"TRUST_TIERS" default:"0:100:1000,3:100:3000,10:100:10000"`
	TrustTiers         *trust.Table  `ignored:"true"`

	LogRetentionDays int `envconfig:"LOG_RETENTION_DAYS" default:"30"`
}

// Load reads the environment, parses the trust tier table and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	table, err := trust.ParseTiers(cfg.TrustTiersRaw)
	if err != nil {
		return nil, fmt.Errorf("TRUST_TIERS: %w", err)
	}
	cfg.TrustTiers = table

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.DBPassword == "" {
		errs = append(errs, errors.New("DB_PASSWORD is required"))
	}
	if c.AchievementTimeout <= 0 {
		errs = append(errs, errors.New("ACHIEVEMENT_TIMEOUT must be > 0"))
	}
	if c.TrustTimeout <= 0 {
		errs = append(errs, errors.New("TRUST_TIMEOUT must be > 0"))
	}
	if c.LogRetentionDays <= 0 {
		errs = append(errs, errors.New("LOG_RETENTION_DAYS must be > 0"))
	}
	if c.TrustTiers == nil {
		errs = append(errs, errors.New("TRUST_TIERS is not parsed"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}
