package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Log       LogConfig       `mapstructure:"log"`
	Planning  PlanningConfig  `mapstructure:"planning"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Digest    DigestConfig    `mapstructure:"digest"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	TimeZone        string        `mapstructure:"timezone"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// PlanningConfig holds the reorder and forecast defaults used when a
// product or supplier does not carry its own values.
type PlanningConfig struct {
	LeadTimeDays     int     `mapstructure:"lead_time_days"`
	MaxLeadTimeDays  int     `mapstructure:"max_lead_time_days"`
	OrderCost        float64 `mapstructure:"order_cost"`
	HoldingRate      float64 `mapstructure:"holding_rate"`
	HorizonDays      int     `mapstructure:"horizon_days"`
	LookbackDays     int     `mapstructure:"lookback_days"`
	MaxHorizonDays   int     `mapstructure:"max_horizon_days"`
	MaxLookbackDays  int     `mapstructure:"max_lookback_days"`
	TrendThreshold   float64 `mapstructure:"trend_threshold"`
	HighConfidenceCV float64 `mapstructure:"high_confidence_cv"`
	MediumCV         float64 `mapstructure:"medium_confidence_cv"`
	SeasonalityMin   float64 `mapstructure:"seasonality_min_strength"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type DigestConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.timezone", "UTC")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl", 5*time.Minute)

	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")

	v.SetDefault("planning.lead_time_days", 7)
	v.SetDefault("planning.max_lead_time_days", 10)
	v.SetDefault("planning.order_cost", 25.0)
	v.SetDefault("planning.holding_rate", 0.25)
	v.SetDefault("planning.horizon_days", 30)
	v.SetDefault("planning.lookback_days", 90)
	v.SetDefault("planning.max_horizon_days", 365)
	v.SetDefault("planning.max_lookback_days", 730)
	v.SetDefault("planning.trend_threshold", 0.10)
	v.SetDefault("planning.high_confidence_cv", 0.25)
	v.SetDefault("planning.medium_confidence_cv", 0.50)
	v.SetDefault("planning.seasonality_min_strength", 0.30)

	v.SetDefault("rate_limit.rps", 5.0)
	v.SetDefault("rate_limit.burst", 10)

	v.SetDefault("digest.enabled", false)
	v.SetDefault("digest.smtp_host", "")
	v.SetDefault("digest.smtp_port", 587)
	v.SetDefault("digest.username", "")
	v.SetDefault("digest.password", "")
	v.SetDefault("digest.from", "")
	v.SetDefault("digest.to", "")
}

// Load reads configuration from defaults, an optional config.yaml and
// INVENTORY_* environment variables, in increasing order of precedence.
// DATABASE_URL and JWT_SECRET are honoured without the prefix.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/grocery-inventory")

	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", "INVENTORY_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("auth.jwt_secret", "INVENTORY_AUTH_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("redis.addr", "INVENTORY_REDIS_ADDR", "REDIS_ADDR")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("jwt secret is required (JWT_SECRET)")
	}
	if _, err := time.LoadLocation(c.Server.TimeZone); err != nil {
		return fmt.Errorf("server timezone: %w", err)
	}
	if c.Digest.Enabled && (c.Digest.SMTPHost == "" || c.Digest.To == "") {
		return errors.New("digest enabled but smtp host or recipient missing")
	}
	return nil
}
