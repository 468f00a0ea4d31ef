// Package config handles loading and validation of application configuration
// from environment variables and an optional YAML configuration file.
package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Environment represents the application's running environment (development or production).
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	// Validation constants
	minJWTLength = 32
)

// Delivery providers understood by DeliveryConfig.Provider.
const (
	ProviderEmailJS = "emailjs"
	ProviderResend  = "resend"
)

const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Environment    Environment `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Port           string      `mapstructure:"PORT" yaml:"port"`
	AllowedOrigins []string    `mapstructure:"ALLOWED_ORIGINS" yaml:"allowed_origins"`
	Version        string      `mapstructure:"VERSION" yaml:"version"`
	// JwtSecretKey signs operator tokens. The admin routes stay disabled while
	// it is empty.
	JwtSecretKey string `mapstructure:"JWT_SECRET_KEY" yaml:"jwt_secret_key"`
	// TrustedProxies is a list of CIDR ranges or IPs of trusted reverse proxies.
	// If empty, X-Forwarded-For headers are ignored entirely.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES" yaml:"trusted_proxies"`
}

// DatabaseConfig holds PostgreSQL connection details for the message archive.
type DatabaseConfig struct {
	Enabled      bool   `mapstructure:"ENABLED" yaml:"enabled"`
	Host         string `mapstructure:"HOST" yaml:"host"`
	Port         int    `mapstructure:"PORT" yaml:"port"`
	User         string `mapstructure:"USER" yaml:"user"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	Name         string `mapstructure:"NAME" yaml:"name"`
	SSLMode      string `mapstructure:"SSL_MODE" yaml:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"MAX_OPEN_CONNS" yaml:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"MAX_IDLE_CONNS" yaml:"max_idle_conns"`
	ConnMaxLife  string `mapstructure:"CONN_MAX_LIFE" yaml:"conn_max_life"`
}

// URL returns a postgres:// connection URL suitable for golang-migrate and other
// URL-based database tools.
func (c *DatabaseConfig) URL() string {
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		c.Name,
		sslmode,
	)
}

// RedisConfig holds Redis connection details.
type RedisConfig struct {
	Address      string `mapstructure:"ADDRESS" yaml:"address"`
	Password     string `mapstructure:"PASSWORD" yaml:"password"`
	DB           int    `mapstructure:"DB" yaml:"db"`
	UseTLS       bool   `mapstructure:"USE_TLS" yaml:"use_tls"`
	PoolSize     int    `mapstructure:"POOL_SIZE" yaml:"pool_size"`
	MinIdleConns int    `mapstructure:"MIN_IDLE_CONNS" yaml:"min_idle_conns"`
}

// DeliveryConfig identifies the transactional email account the contact form
// sends through.
type DeliveryConfig struct {
	// Provider is "emailjs" or "resend".
	Provider   string `mapstructure:"PROVIDER" yaml:"provider"`
	ServiceID  string `mapstructure:"SERVICE_ID" yaml:"service_id"`
	TemplateID string `mapstructure:"TEMPLATE_ID" yaml:"template_id"`
	PublicKey  string `mapstructure:"PUBLIC_KEY" yaml:"public_key"`
	// PrivateKey is the EmailJS access token required for server-side calls.
	PrivateKey     string `mapstructure:"PRIVATE_KEY" yaml:"private_key"`
	Endpoint       string `mapstructure:"ENDPOINT" yaml:"endpoint"`
	TimeoutSeconds int    `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// EmailConfig holds configuration for sending emails through Resend.
type EmailConfig struct {
	FromAddress  string `mapstructure:"FROM_ADDRESS" yaml:"from_address"`
	FromName     string `mapstructure:"FROM_NAME" yaml:"from_name"`
	ResendAPIKey string `mapstructure:"RESEND_API_KEY" yaml:"resend_api_key"`
	// Recipient receives contact notifications. Defaults to CONTACT.OWNER_EMAIL.
	Recipient string `mapstructure:"RECIPIENT" yaml:"recipient"`
}

// ContactConfig tunes the contact form controller.
type ContactConfig struct {
	OwnerEmail        string `mapstructure:"OWNER_EMAIL" yaml:"owner_email"`
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES" yaml:"session_ttl_minutes"`
	SubmitLockSeconds int    `mapstructure:"SUBMIT_LOCK_SECONDS" yaml:"submit_lock_seconds"`
	// MaxSessions caps the interactive form sessions held in memory.
	MaxSessions int `mapstructure:"MAX_SESSIONS" yaml:"max_sessions"`
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// Maximum submissions per window for a single client IP
	ContactRequestsPerMinute int `mapstructure:"CONTACT_REQUESTS_PER_MINUTE" yaml:"contact_requests_per_minute"`
	// Maximum form sessions created per window for a single client IP
	FormRequestsPerMinute int `mapstructure:"FORM_REQUESTS_PER_MINUTE" yaml:"form_requests_per_minute"`
	// Window duration in seconds for rate limiting
	WindowSeconds int `mapstructure:"WINDOW_SECONDS" yaml:"window_seconds"`
}

// WorkerPoolConfig sizes the background archive writers.
type WorkerPoolConfig struct {
	MaxWorkers             int `mapstructure:"MAX_WORKERS" yaml:"max_workers"`
	QueueSize              int `mapstructure:"QUEUE_SIZE" yaml:"queue_size"`
	JobTimeoutSeconds      int `mapstructure:"JOB_TIMEOUT_SECONDS" yaml:"job_timeout_seconds"`
	ShutdownTimeoutSeconds int `mapstructure:"SHUTDOWN_TIMEOUT_SECONDS" yaml:"shutdown_timeout_seconds"`
}

// PortfolioConfig points at an alternative catalog document.
type PortfolioConfig struct {
	CatalogPath string `mapstructure:"CATALOG_PATH" yaml:"catalog_path"`
}

// Config aggregates all application configuration sections.
type Config struct {
	Server    ServerConfig     `mapstructure:"SERVER" yaml:"server"`
	Database  DatabaseConfig   `mapstructure:"DATABASE" yaml:"database"`
	Redis     RedisConfig      `mapstructure:"REDIS" yaml:"redis"`
	Delivery  DeliveryConfig   `mapstructure:"DELIVERY" yaml:"delivery"`
	Email     EmailConfig      `mapstructure:"EMAIL" yaml:"email"`
	Contact   ContactConfig    `mapstructure:"CONTACT" yaml:"contact"`
	RateLimit RateLimitConfig  `mapstructure:"RATE_LIMIT" yaml:"rate_limit"`
	Portfolio PortfolioConfig  `mapstructure:"PORTFOLIO" yaml:"portfolio"`
	Archive   WorkerPoolConfig `mapstructure:"ARCHIVE" yaml:"archive"`
}

// IsDevelopment returns true if the application is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == EnvDevelopment
}

// IsProduction returns true if the application is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == EnvProduction
}

// DeliveryConfigured reports whether the selected provider has every
// credential it needs. Submissions fail closed when it does not.
func (c *Config) DeliveryConfigured() bool {
	switch c.Delivery.Provider {
	case ProviderResend:
		return c.Email.ResendAPIKey != "" && c.Email.FromAddress != "" && c.Email.Recipient != ""
	default:
		return c.Delivery.ServiceID != "" && c.Delivery.TemplateID != "" && c.Delivery.PublicKey != ""
	}
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.ENVIRONMENT", EnvDevelopment)
	v.SetDefault("SERVER.PORT", "8080")
	v.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	v.SetDefault("SERVER.TRUSTED_PROXIES", []string{})
	v.SetDefault("SERVER.VERSION", "dev")
	v.SetDefault("DATABASE.ENABLED", false)
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.PASSWORD", "")
	v.SetDefault("DATABASE.NAME", "portfolio")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 5)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 1)
	v.SetDefault("DATABASE.CONN_MAX_LIFE", "1h")
	v.SetDefault("REDIS.ADDRESS", "localhost:6379")
	v.SetDefault("REDIS.PASSWORD", "")
	v.SetDefault("REDIS.DB", 0)
	v.SetDefault("REDIS.USE_TLS", false)
	v.SetDefault("REDIS.POOL_SIZE", 3)
	v.SetDefault("REDIS.MIN_IDLE_CONNS", 1)
	v.SetDefault("DELIVERY.PROVIDER", ProviderEmailJS)
	v.SetDefault("DELIVERY.ENDPOINT", DefaultEmailJSEndpoint)
	v.SetDefault("DELIVERY.TIMEOUT_SECONDS", 15)
	v.SetDefault("EMAIL.FROM_NAME", "Portfolio Contact Form")
	v.SetDefault("CONTACT.SESSION_TTL_MINUTES", 30)
	v.SetDefault("CONTACT.SUBMIT_LOCK_SECONDS", 30)
	v.SetDefault("CONTACT.MAX_SESSIONS", 10000)
	v.SetDefault("RATE_LIMIT.CONTACT_REQUESTS_PER_MINUTE", 5)
	v.SetDefault("RATE_LIMIT.FORM_REQUESTS_PER_MINUTE", 10)
	v.SetDefault("RATE_LIMIT.WINDOW_SECONDS", 60)
	v.SetDefault("PORTFOLIO.CATALOG_PATH", "")
	v.SetDefault("ARCHIVE.MAX_WORKERS", 2)
	v.SetDefault("ARCHIVE.QUEUE_SIZE", 100)
	v.SetDefault("ARCHIVE.JOB_TIMEOUT_SECONDS", 10)
	v.SetDefault("ARCHIVE.SHUTDOWN_TIMEOUT_SECONDS", 10)
	v.SetDefault("LOG_LEVEL", "info")
}

var envBindings = [][2]string{
	// Server config
	{"SERVER.ENVIRONMENT", "SERVER_ENVIRONMENT"},
	{"SERVER.PORT", "PORT"},
	{"SERVER.ALLOWED_ORIGINS", "ALLOWED_ORIGINS"},
	{"SERVER.JWT_SECRET_KEY", "JWT_SECRET_KEY"},
	{"SERVER.TRUSTED_PROXIES", "TRUSTED_PROXIES"},
	{"SERVER.VERSION", "SERVER_VERSION"},
	// Database config
	{"DATABASE.ENABLED", "DB_ENABLED"},
	{"DATABASE.HOST", "DB_HOST"},
	{"DATABASE.PORT", "DB_PORT"},
	{"DATABASE.USER", "DB_USER"},
	{"DATABASE.PASSWORD", "DB_PASSWORD"},
	{"DATABASE.NAME", "DB_NAME"},
	{"DATABASE.SSL_MODE", "DB_SSL_MODE"},
	// Redis config
	{"REDIS.ADDRESS", "REDIS_ADDRESS"},
	{"REDIS.PASSWORD", "REDIS_PASSWORD"},
	{"REDIS.DB", "REDIS_DB"},
	{"REDIS.USE_TLS", "REDIS_USE_TLS"},
	// Delivery config
	{"DELIVERY.PROVIDER", "DELIVERY_PROVIDER"},
	{"DELIVERY.SERVICE_ID", "EMAILJS_SERVICE_ID"},
	{"DELIVERY.TEMPLATE_ID", "EMAILJS_TEMPLATE_ID"},
	{"DELIVERY.PUBLIC_KEY", "EMAILJS_PUBLIC_KEY"},
	{"DELIVERY.PRIVATE_KEY", "EMAILJS_PRIVATE_KEY"},
	{"DELIVERY.ENDPOINT", "DELIVERY_ENDPOINT"},
	{"DELIVERY.TIMEOUT_SECONDS", "DELIVERY_TIMEOUT_SECONDS"},
	// Email config
	{"EMAIL.FROM_ADDRESS", "EMAIL_FROM_ADDRESS"},
	{"EMAIL.FROM_NAME", "EMAIL_FROM_NAME"},
	{"EMAIL.RESEND_API_KEY", "RESEND_API_KEY"},
	{"EMAIL.RECIPIENT", "EMAIL_RECIPIENT"},
	// Contact config
	{"CONTACT.OWNER_EMAIL", "CONTACT_OWNER_EMAIL"},
	{"CONTACT.SESSION_TTL_MINUTES", "CONTACT_SESSION_TTL_MINUTES"},
	{"CONTACT.SUBMIT_LOCK_SECONDS", "CONTACT_SUBMIT_LOCK_SECONDS"},
	{"CONTACT.MAX_SESSIONS", "CONTACT_MAX_SESSIONS"},
	// Rate limit config
	{"RATE_LIMIT.CONTACT_REQUESTS_PER_MINUTE", "RATE_LIMIT_CONTACT_REQUESTS_PER_MINUTE"},
	{"RATE_LIMIT.FORM_REQUESTS_PER_MINUTE", "RATE_LIMIT_FORM_REQUESTS_PER_MINUTE"},
	{"RATE_LIMIT.WINDOW_SECONDS", "RATE_LIMIT_WINDOW_SECONDS"},
	// Portfolio config
	{"PORTFOLIO.CATALOG_PATH", "PORTFOLIO_CATALOG_PATH"},
	// Archive worker pool config
	{"ARCHIVE.MAX_WORKERS", "ARCHIVE_MAX_WORKERS"},
	{"ARCHIVE.QUEUE_SIZE", "ARCHIVE_QUEUE_SIZE"},
}

// LoadConfig loads configuration from environment variables only.
func LoadConfig() (*Config, error) {
	return LoadConfigFromFile("")
}

// LoadConfigFromFile loads configuration from the YAML file at path, when
// given, and then from environment variables, which take precedence. It sets
// defaults, unmarshals the configuration, and validates it.
func LoadConfigFromFile(path string) (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("SERVER.ENVIRONMENT"),
		"server_port", v.GetString("SERVER.PORT"),
		"delivery_provider", v.GetString("DELIVERY.PROVIDER"),
		"archive_enabled", v.GetBool("DATABASE.ENABLED"),
		"allowed_origins", v.GetStringSlice("SERVER.ALLOWED_ORIGINS"),
		"trusted_proxies", v.GetStringSlice("SERVER.TRUSTED_PROXIES"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	log := logger.GetLogger()

	if cfg.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if cfg.Server.JwtSecretKey != "" && len(cfg.Server.JwtSecretKey) < minJWTLength {
		return fmt.Errorf("JWT secret key must be at least %d characters long", minJWTLength)
	}
	if !containsWildcard(cfg.Server.AllowedOrigins) {
		for _, origin := range cfg.Server.AllowedOrigins {
			if _, err := url.ParseRequestURI(origin); err != nil {
				return fmt.Errorf("invalid allowed origin '%s': %w", origin, err)
			}
		}
	}

	if cfg.Database.Enabled {
		if cfg.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if cfg.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if cfg.Database.Name == "" {
			return fmt.Errorf("database name is required")
		}
		if cfg.Database.Password == "" {
			log.Warn("Database password is not set. Ensure this is intended (e.g., using trusted auth).")
		}
	}

	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis address is required")
	}
	if cfg.Redis.Password == "" && cfg.Redis.UseTLS {
		log.Warn("Redis password is not set, but TLS is enabled. Ensure this is correct for your Redis provider.")
	}

	if err := validateContactConfig(&cfg.Contact, &cfg.Email); err != nil {
		return err
	}
	if err := validateDeliveryConfig(cfg, log); err != nil {
		return err
	}
	if cfg.Contact.SubmitLockSeconds <= cfg.Delivery.TimeoutSeconds {
		return fmt.Errorf("contact submit lock (%ds) must exceed the delivery timeout (%ds)",
			cfg.Contact.SubmitLockSeconds, cfg.Delivery.TimeoutSeconds)
	}

	if cfg.RateLimit.ContactRequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit contact requests per minute must be positive")
	}
	if cfg.RateLimit.FormRequestsPerMinute <= 0 {
		return fmt.Errorf("rate limit form requests per minute must be positive")
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		return fmt.Errorf("rate limit window seconds must be positive")
	}

	if cfg.Database.Enabled && (cfg.Archive.MaxWorkers <= 0 || cfg.Archive.QueueSize <= 0) {
		return fmt.Errorf("archive workers and queue size must be positive")
	}

	return nil
}

func validateContactConfig(contact *ContactConfig, email *EmailConfig) error {
	if contact.OwnerEmail != "" {
		if _, err := mail.ParseAddress(contact.OwnerEmail); err != nil {
			return fmt.Errorf("invalid contact owner email '%s': %w", contact.OwnerEmail, err)
		}
	}
	if contact.SessionTTLMinutes <= 0 {
		return fmt.Errorf("contact session TTL must be positive")
	}
	if contact.SubmitLockSeconds <= 0 {
		return fmt.Errorf("contact submit lock must be positive")
	}
	if contact.MaxSessions <= 0 {
		return fmt.Errorf("contact max sessions must be positive")
	}
	if email.Recipient == "" {
		email.Recipient = contact.OwnerEmail
	}
	return nil
}

// validateDeliveryConfig rejects malformed delivery settings. Missing
// credentials are only reported: the form refuses to submit without them.
func validateDeliveryConfig(cfg *Config, log *zap.SugaredLogger) error {
	d := &cfg.Delivery
	switch d.Provider {
	case ProviderEmailJS, ProviderResend:
	default:
		return fmt.Errorf("unknown delivery provider '%s'", d.Provider)
	}

	if d.TimeoutSeconds <= 0 {
		return fmt.Errorf("delivery timeout must be positive")
	}
	if d.Provider == ProviderEmailJS {
		if _, err := url.ParseRequestURI(d.Endpoint); err != nil {
			return fmt.Errorf("invalid delivery endpoint: %w", err)
		}
	}
	if cfg.Email.FromAddress != "" {
		if _, err := mail.ParseAddress(cfg.Email.FromAddress); err != nil {
			return fmt.Errorf("invalid email from address '%s': %w", cfg.Email.FromAddress, err)
		}
	}

	if !cfg.DeliveryConfigured() {
		log.Warnw("Contact delivery is not fully configured, submissions will be refused",
			"provider", d.Provider)
	}
	return nil
}

// containsWildcard checks if the list of allowed origins contains the wildcard "*".
func containsWildcard(origins []string) bool {
	for _, origin := range origins {
		if origin == "*" {
			return true
		}
	}
	return false
}
