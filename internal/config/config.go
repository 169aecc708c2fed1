package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string   `mapstructure:"PORT"`
	Env         string   `mapstructure:"ENV"`
	DatabaseURL string   `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32    `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32    `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`
	AuthSecret  string   `mapstructure:"AUTH_SECRET"`

	// Outreach engine settings.
	DispatchConcurrency int           `mapstructure:"DISPATCH_CONCURRENCY"`
	SendTimeout         time.Duration `mapstructure:"SEND_TIMEOUT"`
	NotifyGatewayURL    string        `mapstructure:"NOTIFY_GATEWAY_URL"`
	// AsOfDate pins the reference date for age computation (YYYY-MM-DD).
	// Empty means the wall clock; set it for reproducible runs.
	AsOfDate string `mapstructure:"AS_OF_DATE"`

	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DISPATCH_CONCURRENCY", 0) // 0 -> number of CPUs
	v.SetDefault("SEND_TIMEOUT", "30s")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("AUTH_SECRET")
	v.BindEnv("DISPATCH_CONCURRENCY")
	v.BindEnv("SEND_TIMEOUT")
	v.BindEnv("NOTIFY_GATEWAY_URL")
	v.BindEnv("AS_OF_DATE")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AsOf resolves the configured reference date. The zero time means "use the
// wall clock".
func (c *Config) AsOf() (time.Time, error) {
	if c.AsOfDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.AsOfDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("AS_OF_DATE must be YYYY-MM-DD: %w", err)
	}
	return t, nil
}

// Validate checks that the configuration is safe to run. Production requires
// a database and an auth secret; development may run fully in-memory and
// unauthenticated.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required in production")
		}
		if c.AuthSecret == "" {
			return fmt.Errorf("AUTH_SECRET is required in production")
		}
	}
	if c.DispatchConcurrency < 0 {
		return fmt.Errorf("DISPATCH_CONCURRENCY must not be negative, got %d", c.DispatchConcurrency)
	}
	if c.SendTimeout < 0 {
		return fmt.Errorf("SEND_TIMEOUT must not be negative, got %s", c.SendTimeout)
	}
	if _, err := c.AsOf(); err != nil {
		return err
	}
	return nil
}
