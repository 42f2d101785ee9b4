package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/vulcanent/vulcanweb/internal/logging"
	"github.com/vulcanent/vulcanweb/internal/ratelimit"
)

// DevSecretKey is the fallback session secret for local development
const DevSecretKey = "dev-secret-key"

// Config holds all configuration for the application
type Config struct {
	// Server Configuration
	Environment    string   `env:"ENV" envDefault:"development"`
	Host           string   `env:"HOST"`
	Port           string   `env:"PORT" envDefault:"5000"`
	SecretKey      string   `env:"SECRET_KEY" envDefault:"dev-secret-key"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Logging Configuration
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE" envDefault:"./logs/web.log"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	Mail Mail

	// Rate Limiting Configuration
	RateLimitEnabled bool   `env:"RATELIMIT_ENABLED" envDefault:"true"`
	RateLimitDefault string `env:"RATELIMIT_DEFAULT" envDefault:"200 per day, 50 per hour"`
	RateLimitForms   string `env:"RATELIMIT_FORMS" envDefault:"5 per minute, 20 per hour"`

	// Session / CSRF Configuration
	CSRFTimeLimit       time.Duration `env:"CSRF_TIME_LIMIT" envDefault:"1h"`
	SessionCookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`

	// Database Configuration (optional submission archive)
	DatabaseURL string `env:"DATABASE_URL"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPInsecure bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
}

// Mail holds the SMTP settings
type Mail struct {
	Server       string        `env:"MAIL_SERVER" envDefault:"smtp.gmail.com"`
	Port         int           `env:"MAIL_PORT" envDefault:"587"`
	UseTLS       bool          `env:"MAIL_USE_TLS" envDefault:"true"`
	UseSSL       bool          `env:"MAIL_USE_SSL" envDefault:"false"`
	Username     string        `env:"MAIL_USERNAME"`
	Password     string        `env:"MAIL_PASSWORD"`
	SenderName   string        `env:"MAIL_SENDER_NAME" envDefault:"Vulcan Enterprises"`
	Auth         string        `env:"MAIL_AUTH" envDefault:"plain"`
	Timeout      time.Duration `env:"MAIL_TIMEOUT" envDefault:"15s"`
	SuppressSend bool          `env:"MAIL_SUPPRESS_SEND" envDefault:"false"`
	RateLimit    string        `env:"MAIL_RATE_LIMIT" envDefault:"30 per minute"`
	Recipient    string        `env:"RECIPIENT_EMAIL"`
}

// Load loads the configuration from environment variables and .env files
func Load() (*Config, error) {
	envLocations := []string{".env"}

	// If ENV is set, try to load that specific file first
	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}

	return Parse(nil)
}

// Parse builds a Config from the given variables, or from the process
// environment when environ is nil.
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if c.IsProduction() && c.SecretKey == DevSecretKey {
		return fmt.Errorf("%w: SECRET_KEY must be set in production", logging.ErrInvalidConfig)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("%w: SECRET_KEY must not be empty", logging.ErrInvalidConfig)
	}
	if c.Mail.UseTLS && c.Mail.UseSSL {
		return fmt.Errorf("%w: MAIL_USE_TLS and MAIL_USE_SSL are mutually exclusive", logging.ErrInvalidConfig)
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("%w: MAIL_PORT %d out of range", logging.ErrInvalidConfig, c.Mail.Port)
	}
	switch strings.ToLower(c.Mail.Auth) {
	case "plain", "login", "cram-md5":
	default:
		return fmt.Errorf("%w: unsupported MAIL_AUTH %q", logging.ErrInvalidConfig, c.Mail.Auth)
	}
	if c.CSRFTimeLimit <= 0 {
		return fmt.Errorf("%w: CSRF_TIME_LIMIT must be positive", logging.ErrInvalidConfig)
	}
	if limits, err := ratelimit.ParseLimits(c.Mail.RateLimit); err != nil || len(limits) > 1 {
		return fmt.Errorf("%w: MAIL_RATE_LIMIT must be a single limit such as \"30 per minute\"", logging.ErrInvalidConfig)
	}
	if _, err := ratelimit.ParseLimits(c.RateLimitDefault); err != nil {
		return fmt.Errorf("%w: RATELIMIT_DEFAULT: %v", logging.ErrInvalidConfig, err)
	}
	if _, err := ratelimit.ParseLimits(c.RateLimitForms); err != nil {
		return fmt.Errorf("%w: RATELIMIT_FORMS: %v", logging.ErrInvalidConfig, err)
	}
	return nil
}

// IsProduction reports whether ENV is production
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// DefaultLimits returns the parsed per-IP limits applied to every page
func (c *Config) DefaultLimits() []ratelimit.Limit {
	limits, _ := ratelimit.ParseLimits(c.RateLimitDefault)
	return limits
}

// FormLimits returns the parsed per-IP limits applied to form submissions
func (c *Config) FormLimits() []ratelimit.Limit {
	limits, _ := ratelimit.ParseLimits(c.RateLimitForms)
	return limits
}

// SendLimit returns the pace for outgoing mail. ok is false when
// MAIL_RATE_LIMIT is empty and sends are not paced.
func (m Mail) SendLimit() (limit ratelimit.Limit, ok bool) {
	limits, _ := ratelimit.ParseLimits(m.RateLimit)
	if len(limits) == 0 {
		return ratelimit.Limit{}, false
	}
	return limits[0], true
}

// LogConfig returns the logger settings
func (c *Config) LogConfig() *logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.LogLevel
	lc.File = c.LogFile
	lc.Requests = c.LogRequests
	return lc
}

// Summary lists the effective settings with secrets masked
func (c *Config) Summary() [][2]string {
	return [][2]string{
		{"ENV", c.Environment},
		{"LISTEN", c.Addr()},
		{"SECRET_KEY", mask(c.SecretKey)},
		{"MAIL_SERVER", fmt.Sprintf("%s:%d", c.Mail.Server, c.Mail.Port)},
		{"MAIL_USE_TLS", fmt.Sprint(c.Mail.UseTLS)},
		{"MAIL_USE_SSL", fmt.Sprint(c.Mail.UseSSL)},
		{"MAIL_USERNAME", c.Mail.Username},
		{"MAIL_PASSWORD", mask(c.Mail.Password)},
		{"RECIPIENT_EMAIL", c.Mail.Recipient},
		{"MAIL_RATE_LIMIT", c.Mail.RateLimit},
		{"RATELIMIT_DEFAULT", c.RateLimitDefault},
		{"RATELIMIT_FORMS", c.RateLimitForms},
		{"DATABASE_URL", mask(c.DatabaseURL)},
		{"OTEL_EXPORTER_OTLP_ENDPOINT", c.OTLPEndpoint},
	}
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "********"
}
