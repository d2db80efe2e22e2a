package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	JWT      JWTConfig
	Mail     MailConfig
	NATS     NATSConfig
	SMTP     SMTPConfig
	Breaker  BreakerConfig
	Timeouts TimeoutConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheConfig holds customer cache settings
type CacheConfig struct {
	Backend string        // redis, memory
	TTL     time.Duration // entry lifetime in the Redis backend
}

// JWTConfig holds JWT settings
type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// MailConfig holds the creation-notification settings
type MailConfig struct {
	Channel string // nats, smtp
	From    string
	Sales   string // recipient of "new customer" notifications
	Timeout time.Duration
}

// NATSConfig holds NATS connection settings
type NATSConfig struct {
	URL     string
	Subject string
}

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// BreakerConfig holds circuit breaker settings for the notifier
type BreakerConfig struct {
	MinRequests    uint32        // minimum call volume before the failure ratio trips
	FailureRatio   float64       // failure rate that opens the breaker
	OpenTimeout    time.Duration // how long the breaker stays open before probing
	HalfOpenProbes uint32        // trial calls allowed while half-open
	Window         time.Duration // rolling window over which counts are collected
}

// TimeoutConfig holds the per-call I/O budgets
type TimeoutConfig struct {
	Short time.Duration // point lookups, writes, account creation
	Long  time.Duration // multi-record search
}

// Load loads configuration from TOML file and environment variables.
// Priority (highest to lowest):
// 1. Environment variables with CRM_ prefix (e.g. CRM_MONGO_URI)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("CRM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			IdleTimeout:  v.GetDuration("http.idle_timeout"),
		},
		Mongo: MongoConfig{
			URI:            v.GetString("mongo.uri"),
			Database:       v.GetString("mongo.database"),
			ConnectTimeout: v.GetDuration("mongo.connect_timeout"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Backend: v.GetString("cache.backend"),
			TTL:     v.GetDuration("cache.ttl"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Expiration: v.GetDuration("jwt.expiration"),
			Issuer:     v.GetString("jwt.issuer"),
		},
		Mail: MailConfig{
			Channel: v.GetString("mail.channel"),
			From:    v.GetString("mail.from"),
			Sales:   v.GetString("mail.sales"),
			Timeout: v.GetDuration("mail.timeout"),
		},
		NATS: NATSConfig{
			URL:     v.GetString("nats.url"),
			Subject: v.GetString("nats.subject"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("smtp.host"),
			Port:     v.GetInt("smtp.port"),
			Username: v.GetString("smtp.username"),
			Password: v.GetString("smtp.password"),
		},
		Breaker: BreakerConfig{
			MinRequests:    uint32(v.GetUint("breaker.min_requests")),
			FailureRatio:   v.GetFloat64("breaker.failure_ratio"),
			OpenTimeout:    v.GetDuration("breaker.open_timeout"),
			HalfOpenProbes: uint32(v.GetUint("breaker.half_open_probes")),
			Window:         v.GetDuration("breaker.window"),
		},
		Timeouts: TimeoutConfig{
			Short: v.GetDuration("timeouts.short"),
			Long:  v.GetDuration("timeouts.long"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "customer-service"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.Mongo.URI == "" {
		cfg.Mongo.URI = "mongodb://localhost:27017"
	}
	if cfg.Mongo.Database == "" {
		cfg.Mongo.Database = "customers"
	}
	if cfg.Mongo.ConnectTimeout == 0 {
		cfg.Mongo.ConnectTimeout = 10 * time.Second
	}
	if cfg.Redis.Host == "" {
		cfg.Redis.Host = "localhost"
	}
	if cfg.Redis.Port == 0 {
		cfg.Redis.Port = 6379
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "redis"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 10 * time.Minute
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 15 * time.Minute
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "customer-service"
	}
	if cfg.Mail.Channel == "" {
		cfg.Mail.Channel = "nats"
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = "noreply@crm.local"
	}
	if cfg.Mail.Sales == "" {
		cfg.Mail.Sales = "sales@crm.local"
	}
	if cfg.Mail.Timeout == 0 {
		cfg.Mail.Timeout = 500 * time.Millisecond
	}
	if cfg.NATS.URL == "" {
		cfg.NATS.URL = "nats://localhost:4222"
	}
	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = "customer.mail"
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = 587
	}
	if cfg.Breaker.MinRequests == 0 {
		cfg.Breaker.MinRequests = 5
	}
	if cfg.Breaker.FailureRatio == 0 {
		cfg.Breaker.FailureRatio = 0.5
	}
	if cfg.Breaker.OpenTimeout == 0 {
		cfg.Breaker.OpenTimeout = 30 * time.Second
	}
	if cfg.Breaker.HalfOpenProbes == 0 {
		cfg.Breaker.HalfOpenProbes = 1
	}
	if cfg.Breaker.Window == 0 {
		cfg.Breaker.Window = time.Minute
	}
	if cfg.Timeouts.Short == 0 {
		cfg.Timeouts.Short = 500 * time.Millisecond
	}
	if cfg.Timeouts.Long == 0 {
		cfg.Timeouts.Long = 2 * time.Second
	}
}

// validate checks configuration consistency
func (c *Config) validate() error {
	if c.App.Env == "production" && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}
	switch c.Cache.Backend {
	case "redis", "memory":
	default:
		return fmt.Errorf("cache.backend must be 'redis' or 'memory', got %q", c.Cache.Backend)
	}
	switch c.Mail.Channel {
	case "nats", "smtp":
	default:
		return fmt.Errorf("mail.channel must be 'nats' or 'smtp', got %q", c.Mail.Channel)
	}
	if c.Timeouts.Short > c.Timeouts.Long {
		return fmt.Errorf("timeouts.short must not exceed timeouts.long")
	}
	if c.Breaker.FailureRatio < 0 || c.Breaker.FailureRatio > 1 {
		return fmt.Errorf("breaker.failure_ratio must be within [0, 1]")
	}
	return nil
}
