// Package main is the entrypoint for the ipvault API server.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ipvault/ipvault/internal/analysis"
	"github.com/ipvault/ipvault/internal/cache"
	"github.com/ipvault/ipvault/internal/config"
	"github.com/ipvault/ipvault/internal/metrics"
	"github.com/ipvault/ipvault/internal/repository"
	"github.com/ipvault/ipvault/internal/server"
	"github.com/ipvault/ipvault/internal/service"
	"github.com/ipvault/ipvault/internal/subgraph"
	"github.com/ipvault/ipvault/internal/upstream"
)

func main() {
	ctx := context.Background()

	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	srv := server.New(nil, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	var redisCache *cache.Cache
	if cfg.NeedsRedis() || (cfg.RateLimitEnabled && cfg.RedisURL != "") {
		redisCache, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		srv.OnShutdown("redis", func(context.Context) error { return redisCache.Close() })
		logger.Info("connected to Redis")
	}

	items, err := openItemStore(ctx, cfg, redisCache, logger)
	if err != nil {
		logger.Error("failed to open item store",
			slog.String("backend", cfg.StoreBackend),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL, cfg.RedisURL)),
		)
		os.Exit(1)
	}
	srv.OnShutdown("item store", func(context.Context) error { return items.Close() })
	logger.Info("item store ready", "backend", cfg.StoreBackend)

	var subscriptions repository.SubscriptionRepository
	if cfg.PremiumBackend == config.PremiumRedis {
		subscriptions = repository.NewRedisSubscriptionRepository(redisCache.Client())
	} else {
		subscriptions = repository.NewMemorySubscriptionRepository()
	}

	var analyzer analysis.Analyzer
	if cfg.AnalyzerMode == config.AnalyzerRemote {
		analyzer = analysis.NewRemote(cfg.AnalyzerURL, upstream.NewHTTPClient(cfg.AnalyzerTimeout))
	} else {
		analyzer = analysis.NewStub(cfg.StubAnalysisDelay)
	}
	logger.Info("analyzer configured", "mode", cfg.AnalyzerMode)

	if cfg.SubgraphURL == "" {
		logger.Warn("SUBGRAPH_URL is not set; analytics endpoints will fail")
	}
	subgraphClient := subgraph.NewClient(cfg.SubgraphURL, upstream.NewHTTPClient(0))

	recorder := metrics.NewPrometheus()

	var limiter cache.Limiter
	if cfg.RateLimitEnabled {
		if redisCache != nil {
			limiter = cache.NewRedisLimiter(redisCache, cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
		} else {
			local := cache.NewLocalLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
			evictCtx, stopEvict := context.WithCancel(ctx)
			go local.Run(evictCtx)
			srv.OnShutdown("local rate limiter", func(context.Context) error {
				stopEvict()
				return nil
			})
			limiter = local
		}
	}

	deps := routerDeps{
		cfg:    cfg,
		logger: logger,
		items: service.NewItemService(items, recorder, logger,
			service.WithSearchDelay(cfg.SearchDelay)),
		analysis:  service.NewAnalysisService(analyzer, recorder, logger),
		premium:   service.NewPremiumService(subscriptions, nil, recorder, logger),
		analytics: service.NewAnalyticsService(subgraphClient, recorder, logger),
		store:     items,
		limiter:   limiter,
		recorder:  recorder,
		exporter:  recorder.Handler(),
	}
	if redisCache != nil {
		deps.redis = redisCache
	}

	srv.SetHandler(newRouter(deps))

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"store", cfg.StoreBackend,
		"premium", cfg.PremiumBackend,
	)

	if err := srv.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// openItemStore selects the content store backend.
func openItemStore(ctx context.Context, cfg *config.Config, redisCache *cache.Cache, logger *slog.Logger) (repository.ItemRepository, error) {
	switch cfg.StoreBackend {
	case config.StoreFile:
		repo := repository.NewFileItemRepository(cfg.DataFile, logger)
		logger.Info("using file item store", "path", repo.Path())
		return repo, nil
	case config.StorePostgres:
		return repository.NewPostgresItemRepository(ctx, cfg.DatabaseURL)
	case config.StoreRedis:
		return repository.NewRedisItemRepository(redisCache.Client(), repository.DefaultItemsKey, logger), nil
	default:
		return nil, repository.ErrUnknownBackend
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(cfg.LogLevel)}

	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
