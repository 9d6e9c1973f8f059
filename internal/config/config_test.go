package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	unset(t, "APP_ENV", "APP_PORT", "LOG_LEVEL", "LOG_FORMAT", "STORE_BACKEND", "DATA_FILE",
		"PREMIUM_BACKEND", "ANALYZER_MODE", "STUB_ANALYSIS_DELAY", "SEARCH_DELAY",
		"MAX_UPLOAD_SIZE", "MAX_REQUEST_BODY_SIZE", "CORS_ALLOWED_ORIGINS",
		"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected default AppEnv 'development', got %s", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected default AppPort 8080, got %d", cfg.AppPort)
	}
	if cfg.LogLevel != "info" || cfg.LogFormat != "json" {
		t.Errorf("unexpected log defaults: %s/%s", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.StoreBackend != StoreFile || cfg.DataFile != "mock_db.json" {
		t.Errorf("unexpected store defaults: %s %s", cfg.StoreBackend, cfg.DataFile)
	}
	if cfg.PremiumBackend != PremiumMemory || cfg.AnalyzerMode != AnalyzerStub {
		t.Errorf("unexpected backend defaults: %s %s", cfg.PremiumBackend, cfg.AnalyzerMode)
	}
	if cfg.StubAnalysisDelay != 2*time.Second || cfg.SearchDelay != time.Second {
		t.Errorf("unexpected delays: %v %v", cfg.StubAnalysisDelay, cfg.SearchDelay)
	}
	if cfg.MaxUploadSize != 100<<20 || cfg.MaxRequestBodySize != 1<<20 {
		t.Errorf("unexpected size limits: %d %d", cfg.MaxUploadSize, cfg.MaxRequestBodySize)
	}
	if got := cfg.GetCORSAllowedOrigins(); len(got) != 1 || got[0] != "*" {
		t.Errorf("unexpected CORS default: %v", got)
	}
}

// unset removes keys for the duration of the test. t.Setenv records the
// previous value so it is restored afterwards.
func unset(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	t.Setenv("STORE_BACKEND", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	valid := func() Config {
		return Config{
			StoreBackend:       StoreFile,
			DataFile:           "db.json",
			PremiumBackend:     PremiumMemory,
			AnalyzerMode:       AnalyzerStub,
			MaxUploadSize:      1,
			MaxRequestBodySize: 1,
			RateLimitEnabled:   true,
			RateLimitRPS:       1,
			RateLimitBurst:     1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"postgres without url", func(c *Config) { c.StoreBackend = StorePostgres }, "DATABASE_URL"},
		{"postgres with url", func(c *Config) { c.StoreBackend = StorePostgres; c.DatabaseURL = "postgres://x" }, ""},
		{"redis store without url", func(c *Config) { c.StoreBackend = StoreRedis }, "REDIS_URL"},
		{"redis premium without url", func(c *Config) { c.PremiumBackend = PremiumRedis }, "REDIS_URL"},
		{"redis premium with url", func(c *Config) { c.PremiumBackend = PremiumRedis; c.RedisURL = "redis://x" }, ""},
		{"unknown store", func(c *Config) { c.StoreBackend = "s3" }, "STORE_BACKEND"},
		{"unknown premium", func(c *Config) { c.PremiumBackend = "disk" }, "PREMIUM_BACKEND"},
		{"remote without url", func(c *Config) { c.AnalyzerMode = AnalyzerRemote }, "ANALYZER_URL"},
		{"unknown analyzer", func(c *Config) { c.AnalyzerMode = "magic" }, "ANALYZER_MODE"},
		{"zero upload size", func(c *Config) { c.MaxUploadSize = 0 }, "MAX_UPLOAD_SIZE"},
		{"zero burst", func(c *Config) { c.RateLimitBurst = 0 }, "RATE_LIMIT"},
		{"zero burst while disabled", func(c *Config) { c.RateLimitBurst = 0; c.RateLimitEnabled = false }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_GetCORSAllowedOrigins(t *testing.T) {
	t.Parallel()

	cfg := &Config{CORSAllowedOrigins: " https://a.example , ,https://b.example"}
	got := cfg.GetCORSAllowedOrigins()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("origins = %v", got)
	}

	if (&Config{}).GetCORSAllowedOrigins() != nil {
		t.Error("expected nil for empty origins")
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	t.Parallel()

	cfg := &Config{AppEnv: "development"}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return true")
	}

	cfg.AppEnv = "production"
	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment to return false")
	}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction to return true")
	}
}
