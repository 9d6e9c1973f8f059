// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Store backends.
const (
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Premium backends.
const (
	PremiumMemory = "memory"
	PremiumRedis  = "redis"
)

// Analyzer modes.
const (
	AnalyzerStub   = "stub"
	AnalyzerRemote = "remote"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts. Analysis uploads can be slow, hence the long write timeout.
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Content store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"file"`
	DataFile     string `env:"DATA_FILE" envDefault:"mock_db.json"`
	DatabaseURL  string `env:"DATABASE_URL"`
	RedisURL     string `env:"REDIS_URL"`

	// Premium subscriptions
	PremiumBackend string `env:"PREMIUM_BACKEND" envDefault:"memory"`

	// Content analysis
	AnalyzerMode      string        `env:"ANALYZER_MODE" envDefault:"stub"`
	AnalyzerURL       string        `env:"ANALYZER_URL"`
	AnalyzerTimeout   time.Duration `env:"ANALYZER_TIMEOUT" envDefault:"60s"`
	StubAnalysisDelay time.Duration `env:"STUB_ANALYSIS_DELAY" envDefault:"2s"`
	SearchDelay       time.Duration `env:"SEARCH_DELAY" envDefault:"1s"`

	// On-chain analytics
	SubgraphURL string `env:"SUBGRAPH_URL"`

	// Request limits in bytes
	MaxUploadSize      int64 `env:"MAX_UPLOAD_SIZE" envDefault:"104857600"`
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Comma-separated list of allowed origins; "*" allows any.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Rate limiting
	RateLimitEnabled bool    `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitRPS     float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst   int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	TrustProxy       bool    `env:"TRUST_PROXY" envDefault:"false"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// NeedsRedis reports whether any component is backed by Redis.
func (c *Config) NeedsRedis() bool {
	return c.StoreBackend == StoreRedis || c.PremiumBackend == PremiumRedis
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Validate checks that the selected backends have what they need.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreBackend {
	case StoreFile:
		if c.DataFile == "" {
			errs = append(errs, errors.New("DATA_FILE is required for the file store"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case StoreRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend))
	}

	switch c.PremiumBackend {
	case PremiumMemory, PremiumRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown PREMIUM_BACKEND %q", c.PremiumBackend))
	}

	if c.NeedsRedis() && c.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required when a redis backend is selected"))
	}

	switch c.AnalyzerMode {
	case AnalyzerStub:
	case AnalyzerRemote:
		if c.AnalyzerURL == "" {
			errs = append(errs, errors.New("ANALYZER_URL is required in remote mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown ANALYZER_MODE %q", c.AnalyzerMode))
	}

	if c.MaxUploadSize <= 0 || c.MaxRequestBodySize <= 0 {
		errs = append(errs, errors.New("MAX_UPLOAD_SIZE and MAX_REQUEST_BODY_SIZE must be positive"))
	}
	if c.RateLimitEnabled && (c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0) {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
