package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cartapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/cart"
	catalogapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/catalog"
	financeapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/finance"
	paymentapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/payment"
	reviewapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/review"
	walletapp "github.com/ppts2545/EcomerceStore-sub001/internal/application/wallet"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/auth"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/backend"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/cache"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/config"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/logger"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/migration"
	paymentinfra "github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/persistence"
	"github.com/ppts2545/EcomerceStore-sub001/internal/infrastructure/telemetry"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/handler"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/middleware"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/router"
	"github.com/ppts2545/EcomerceStore-sub001/internal/interfaces/http/view"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	ctx := context.Background()

	// The OTLP log exporter has to exist before the logger so zap can bridge
	// into it; it reports its own setup through a bootstrap logger.
	bootLog, err := logger.NewForEnvironment(cfg.App.Env)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	serviceName := cfg.Telemetry.ServiceName
	if serviceName == "" {
		serviceName = cfg.App.Name
	}
	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, bootLog)
	if err != nil {
		panic("Failed to initialize log exporter: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}, telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
		ServiceName:    serviceName,
		LoggerProvider: logProvider,
		Level:          zapcore.InfoLevel,
	}))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       serviceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}

	// Create GORM logger backed by zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, log)
	if err != nil {
		log.Fatal("Failed to initialize migrations", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, log).RegisterOtelGorm(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	dbMetricsCfg := telemetry.DefaultDBMetricsConfig()
	if cfg.Telemetry.DBSlowQueryThresh > 0 {
		dbMetricsCfg.SlowQueryThreshold = cfg.Telemetry.DBSlowQueryThresh
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, meterProvider, dbMetricsCfg, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		dbMetrics.StartPoolStatsCollection(ctx)
	}

	stores, err := cache.NewStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to initialize cache stores", zap.Error(err))
	}

	backendClient, err := backend.NewClient(backend.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Invalid store backend configuration", zap.Error(err))
	}

	gateway, err := paymentinfra.NewGateway(&paymentinfra.EPayConfig{
		BaseURL: cfg.EPay.BaseURL,
		APIKey:  cfg.EPay.APIKey,
		Timeout: cfg.EPay.Timeout,
	})
	if err != nil {
		log.Fatal("Invalid ePay configuration", zap.Error(err))
	}
	if _, ok := gateway.(paymentinfra.UnconfiguredGateway); ok {
		log.Warn("ePay API key not set, checkout is disabled")
	}

	// Initialize repositories
	paymentRecords := persistence.NewGormPaymentRecordRepository(db.DB)
	financeTransactions := persistence.NewGormFinanceTransactionRepository(db.DB)
	walletRepo := persistence.NewGormWalletRepository(db.DB)

	var paymentMetrics paymentapp.Metrics
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:        meterProvider.Meter("storefront.business"),
			Logger:       log,
			PaymentStats: paymentRecords,
		})
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(ctx)
			paymentMetrics = businessMetrics
		}
	}

	// Initialize services
	catalogService := catalogapp.NewCatalogService(
		backend.NewCatalogSource(backendClient),
		stores.Listings,
		catalogapp.Config{
			RandomLimit:   cfg.Catalog.RandomLimit,
			StorePageSize: cfg.Catalog.StorePageSize,
			CacheTTL:      cfg.Catalog.CacheTTL,
		},
		log,
	)
	reviewService := reviewapp.NewReviewService(backend.NewReviewSource(backendClient), log)
	cartService := cartapp.NewCartService(backend.NewCartBackend(backendClient))
	paymentService := paymentapp.NewPaymentService(paymentapp.PaymentServiceConfig{
		Gateway:     gateway,
		Records:     paymentRecords,
		Idempotency: stores.Idempotency,
		Metrics:     paymentMetrics,
		Logger:      log,
		Config: paymentapp.Config{
			PublicBaseURL:  cfg.App.PublicBaseURL,
			WebhookURL:     cfg.EPay.WebhookURL,
			IdempotencyTTL: cfg.Payment.IdempotencyTTL,
		},
	})
	dashboardService := financeapp.NewDashboardService(financeTransactions, log)
	walletService := walletapp.NewWalletService(walletRepo, log)

	renderer, err := view.NewRenderer()
	if err != nil {
		log.Fatal("Failed to parse view templates", zap.Error(err))
	}

	healthChecks := map[string]handler.HealthCheck{
		"database": db.PingContext,
	}
	if stores.Redis != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return stores.Redis.Ping(ctx).Err()
		}
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. Tracing and metrics
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	tracingConfig := middleware.DefaultTracingConfig()
	tracingConfig.ServiceName = serviceName
	tracingConfig.Enabled = tracerProvider.IsEnabled()
	engine.Use(middleware.Tracing(tracingConfig))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       meterProvider.IsEnabled(),
		Logger:        log,
	}))

	writeLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	log.Info("Write rate limiting enabled",
		zap.Int("requests", cfg.HTTP.RateLimitRequests),
		zap.Duration("window", cfg.HTTP.RateLimitWindow),
	)
	pruneCtx, stopPrune := context.WithCancel(ctx)
	go pruneRateLimiter(pruneCtx, writeLimiter, cfg.HTTP.RateLimitWindow, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtConfig := middleware.JWTMiddlewareConfig{Validator: jwtService, Logger: log}
	r := router.Mount(engine, router.Handlers{
		Catalog:  handler.NewCatalogHandler(catalogService),
		Review:   handler.NewReviewHandler(reviewService),
		Cart:     handler.NewCartHandler(cartService),
		Payment:  handler.NewPaymentHandler(paymentService),
		Wallet:   handler.NewWalletHandler(walletService),
		Finance:  handler.NewFinanceHandler(dashboardService),
		Fragment: handler.NewFragmentHandler(renderer, catalogService),
		Health:   handler.NewHealthHandler(healthChecks),
	}, router.Guards{
		Auth:     middleware.JWTAuth(jwtConfig),
		Identify: middleware.OptionalJWTAuth(jwtConfig),
		Admin:    middleware.RequireRole(jwtService.AdminRole()),
		Writes:   middleware.RateLimit(writeLimiter),
	})
	for _, route := range r.Routes() {
		log.Debug("Route registered",
			zap.String("group", route.Group),
			zap.String("method", route.Method),
			zap.String("path", route.Path),
		)
	}

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	stopPrune()
	if businessMetrics != nil {
		businessMetrics.Stop()
	}
	if dbMetrics != nil {
		dbMetrics.Stop()
	}
	if err := stores.Close(); err != nil {
		log.Error("Error closing cache stores", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// pruneRateLimiter drops expired rate limit windows until ctx is done
func pruneRateLimiter(ctx context.Context, limiter *middleware.RateLimiter, every time.Duration, log *zap.Logger) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Prune(); n > 0 {
				log.Debug("Pruned rate limit windows", zap.Int("count", n))
			}
		}
	}
}
