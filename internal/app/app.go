package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/KartikVerma96/paregrose/internal/auth"
	"github.com/KartikVerma96/paregrose/internal/config"
	"github.com/KartikVerma96/paregrose/internal/event"
	handler "github.com/KartikVerma96/paregrose/internal/handler/http"
	"github.com/KartikVerma96/paregrose/internal/repository"
	"github.com/KartikVerma96/paregrose/internal/repository/postgres"
	rediscache "github.com/KartikVerma96/paregrose/internal/repository/redis"
	"github.com/KartikVerma96/paregrose/internal/service"
	"github.com/KartikVerma96/paregrose/internal/storage"
	"github.com/KartikVerma96/paregrose/internal/storage/memory"
	"github.com/KartikVerma96/paregrose/internal/storage/s3"
	"github.com/KartikVerma96/paregrose/migrations"
	"github.com/KartikVerma96/paregrose/pkg/database"
	"github.com/KartikVerma96/paregrose/pkg/health"
	"github.com/KartikVerma96/paregrose/pkg/httpclient"
	pkgkafka "github.com/KartikVerma96/paregrose/pkg/kafka"
	"github.com/KartikVerma96/paregrose/pkg/tracing"
)

const serviceName = "paregrose"

// App wires together all dependencies and runs the storefront API.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	cache          redisCache
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// ConnectPostgres opens the pool described by cfg and applies pending
// migrations. The seed command shares it.
func ConnectPostgres(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	pool, err := database.NewPostgresPool(ctx, &database.PostgresConfig{
		Host:               cfg.PostgresHost,
		Port:               cfg.PostgresPort,
		User:               cfg.PostgresUser,
		Password:           cfg.PostgresPass,
		DBName:             cfg.PostgresDB,
		SSLMode:            cfg.PostgresSSL,
		MaxConns:           cfg.DBMaxConns,
		MinConns:           cfg.DBMinConns,
		MaxConnLifetime:    time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime:    time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
		SlowQueryThreshold: time.Duration(cfg.SlowQueryThresholdMs) * time.Millisecond,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")
	return pool, nil
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	pool, err := ConnectPostgres(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool, serviceName); err != nil {
		logger.Warn("pool metrics not registered", slog.String("error", err.Error()))
	}

	cache := connectCache(ctx, cfg, logger)

	// Events are optional; without brokers the emitter drops them.
	var producer *pkgkafka.Producer
	events := event.Nop()
	if cfg.EventsEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewEmitter(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	store, media, err := newStorage(ctx, cfg)
	if err != nil {
		_ = cache.close()
		pool.Close()
		return nil, err
	}
	logger.Info("image storage ready", slog.String("driver", cfg.StorageDriver))

	// Repositories.
	products := postgres.NewProductRepository(pool)
	variants := postgres.NewVariantRepository(pool)
	images := postgres.NewImageRepository(pool)
	categories := postgres.NewCategoryRepository(pool)
	subcategories := postgres.NewSubcategoryRepository(pool)
	carts := postgres.NewCartRepository(pool)
	users := postgres.NewUserRepository(pool)
	wishlist := postgres.NewWishlistRepository(pool)

	// Services.
	sessions := auth.NewSessionManager(cfg.JWTSecret, cfg.JWTExpiry)
	settings := service.NewSettingsService(
		postgres.NewSettingsRepository(pool),
		cache.settings,
		events, logger,
	)
	cartService := service.NewCartService(carts, products, variants, settings, logger)

	var authService *service.AuthService
	if cfg.GoogleClientID != "" {
		google := auth.NewGoogleVerifier(
			httpclient.New(httpclient.DefaultConfig("google-tokeninfo"), logger),
			cfg.GoogleTokenInfoURL, cfg.GoogleClientID,
		)
		authService = service.NewAuthService(users, sessions, google, cartService, events, logger)
	} else {
		logger.Info("google sign-in disabled: GOOGLE_CLIENT_ID not set")
		authService = service.NewAuthService(users, sessions, nil, cartService, events, logger)
	}

	services := handler.Services{
		Catalog: service.NewCatalogService(products, categories, subcategories, variants, images, logger),
		Products: service.NewProductService(service.ProductServiceDeps{
			Products:      products,
			Categories:    categories,
			Subcategories: subcategories,
			Variants:      variants,
			Images:        images,
			Settings:      settings,
			Storage:       store,
			Events:        events,
			Logger:        logger,
		}),
		Variants: service.NewVariantService(products, variants, events, logger),
		Images:   service.NewImageService(products, images, store, logger),
		Export:   service.NewExportService(products, categories, logger),
		Category: service.NewCategoryService(categories, subcategories, events, logger),
		Cart:     cartService,
		Auth:     authService,
		Users:    service.NewUserService(users, logger),
		Wishlist: service.NewWishlistService(wishlist, cartService, logger),
		Settings: settings,
		Analytics: service.NewAnalyticsService(
			postgres.NewAnalyticsRepository(pool),
			cache.analytics,
			settings, logger,
		),
	}

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.RegisterNonCritical("redis", cache.ping)
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", func(ctx context.Context) error {
			return producer.Ping(ctx)
		})
	}

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:    serviceName,
		TokenValidator: auth.CurrentUserValidator(sessions.TokenValidator(), users),
		CookieSecure:   cfg.CookieSecure,
		CORSOrigins:    cfg.CORSOrigins,
		AuthRateRPS:    cfg.AuthRateLimitRPS,
		AuthRateBurst:  cfg.AuthRateLimitBurst,
		PprofCIDRs:     cfg.PprofAllowedCIDRs,
		TrustedProxies: cfg.TrustedProxyCIDRs,
		RequestTimeout: cfg.RequestTimeout,
		Media:          media,
	}, services, healthHandler, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		cache:          cache,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// redisCache holds the Redis-backed caches. Without a connection both caches
// are nil and the services read PostgreSQL directly.
type redisCache struct {
	client    *redis.Client
	settings  repository.SettingsCache
	analytics repository.AnalyticsCache
}

// errCacheDisabled is reported by the readiness check when Redis was
// unreachable at startup.
var errCacheDisabled = errors.New("redis unreachable at startup, caching disabled")

// connectCache connects to Redis. An unreachable server is not fatal: the
// API starts with caching disabled.
func connectCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) redisCache {
	client, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		logger.Warn("redis unavailable, starting with caching disabled",
			slog.String("addr", cfg.RedisAddr),
			slog.String("error", err.Error()),
		)
		return redisCache{}
	}
	logger.Info("connected to Redis", slog.String("addr", cfg.RedisAddr))
	return redisCache{
		client:    client,
		settings:  rediscache.NewSettingsCache(client, rediscache.DefaultSettingsTTL),
		analytics: rediscache.NewAnalyticsCache(client, rediscache.DefaultAnalyticsTTL),
	}
}

func (c redisCache) ping(ctx context.Context) error {
	if c.client == nil {
		return errCacheDisabled
	}
	return c.client.Ping(ctx).Err()
}

func (c redisCache) close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

// newStorage builds the configured image store. The in-memory store also
// serves its objects, so it is returned as the media handler too.
func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, http.Handler, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		store, err := s3.New(ctx, s3.Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("init s3 storage: %w", err)
		}
		return store, nil, nil
	default:
		store := memory.New(cfg.PublicBaseURL)
		return store, store, nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return errors.Join(err, a.Shutdown())
	}

	return a.Shutdown()
}

// Shutdown stops components in order: HTTP server, tracer, Kafka producer,
// Redis, PostgreSQL.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	// Flush spans after the HTTP drain so in-flight request spans are captured.
	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.cache.close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
