package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds process configuration, read from STOCKPILE_* environment
// variables with an optional config.yaml next to the binary.
type Config struct {
	Addr        string
	DatabaseURL string
	RedisAddr   string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	RateLimitPerSecond float64
	RateLimitBurst     int

	DashboardCacheTTL time.Duration

	SMTP SMTP
}

// SMTP configures low-stock alert mail. Alerts are disabled when Server is
// empty.
type SMTP struct {
	Server       string
	Port         string
	User         string
	Password     string
	From         string
	To           string
	AuthDisabled bool
}

func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":8080")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_addr", "")
	v.SetDefault("jwt_secret", "super-secret-key")
	v.SetDefault("access_token_ttl", "15m")
	v.SetDefault("refresh_token_ttl", "720h")
	v.SetDefault("rate_limit_per_second", 1.0)
	v.SetDefault("rate_limit_burst", 3)
	v.SetDefault("dashboard_cache_ttl", "30s")
	v.SetDefault("smtp.server", "")
	v.SetDefault("smtp.port", "587")
	v.SetDefault("smtp.user", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.to", "")
	v.SetDefault("smtp.auth_disabled", false)

	v.SetEnvPrefix("stockpile")
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	cfg := Config{
		Addr:               v.GetString("addr"),
		DatabaseURL:        v.GetString("database_url"),
		RedisAddr:          v.GetString("redis_addr"),
		JWTSecret:          v.GetString("jwt_secret"),
		AccessTokenTTL:     v.GetDuration("access_token_ttl"),
		RefreshTokenTTL:    v.GetDuration("refresh_token_ttl"),
		RateLimitPerSecond: v.GetFloat64("rate_limit_per_second"),
		RateLimitBurst:     v.GetInt("rate_limit_burst"),
		DashboardCacheTTL:  v.GetDuration("dashboard_cache_ttl"),
		SMTP: SMTP{
			Server:       v.GetString("smtp.server"),
			Port:         v.GetString("smtp.port"),
			User:         v.GetString("smtp.user"),
			Password:     v.GetString("smtp.password"),
			From:         v.GetString("smtp.from"),
			To:           v.GetString("smtp.to"),
			AuthDisabled: v.GetBool("smtp.auth_disabled"),
		},
	}

	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database_url is required (set STOCKPILE_DATABASE_URL)")
	}
	return cfg, nil
}
