package main

import (
	"context"
	"net/http"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/siteforge/siteforge/pkg/analytics"
	"github.com/siteforge/siteforge/pkg/api"
	"github.com/siteforge/siteforge/pkg/config"
	"github.com/siteforge/siteforge/pkg/middleware"
	"github.com/siteforge/siteforge/pkg/observability"
	"github.com/siteforge/siteforge/pkg/orders"
	"github.com/siteforge/siteforge/pkg/pageviews"
	"github.com/siteforge/siteforge/pkg/paymentlog"
	"github.com/siteforge/siteforge/pkg/platform"
	"github.com/siteforge/siteforge/pkg/revenue"
	"github.com/siteforge/siteforge/pkg/storage/postgres"
	"github.com/siteforge/siteforge/pkg/tenantreport"
	"github.com/siteforge/siteforge/pkg/tenants"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		observability.NewLogger(observability.ErrorLevel, os.Stderr).
			WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Observability.LogLevel, os.Stdout)
	logger.Info("Starting siteforge analytics server")

	ctx := context.Background()

	// Tracing (optional)
	otelProviders, err := observability.InitOTel(ctx, observability.OTelConfig{
		Enabled:        cfg.Observability.OTelEnabled,
		Endpoint:       cfg.Observability.OTelEndpoint,
		ServiceName:    cfg.Observability.OTelServiceName,
		ServiceVersion: cfg.Observability.OTelServiceVersion,
		Insecure:       cfg.Observability.OTelInsecure,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize OpenTelemetry")
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// PostgreSQL primary + replicas
	connManager, err := postgres.NewConnectionManager(postgres.ConnectionConfig{
		PrimaryURL:  cfg.Database.URL,
		ReplicaURLs: postgres.ParseReplicaURLs(cfg.Database.ReplicaURLs),
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
		Timeout:     cfg.Database.Timeout,
		MaxLifetime: cfg.Database.MaxLifetime,
		MaxIdleTime: cfg.Database.MaxIdleTime,
	}, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to PostgreSQL")
		os.Exit(1)
	}

	if err := postgres.EnsureSchema(ctx, connManager.Primary()); err != nil {
		logger.WithError(err).Error("Failed to bootstrap database schema")
		os.Exit(1)
	}

	// Redis (only needed when the KPI cache is enabled)
	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = postgres.NewRedisClient(postgres.RedisConfig{
			URL:        cfg.Redis.URL,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			MaxRetries: cfg.Redis.MaxRetries,
			PoolSize:   cfg.Redis.PoolSize,
		})
		if err != nil {
			logger.WithError(err).Error("Failed to connect to Redis")
			os.Exit(1)
		}
	}

	// Aggregation engine: composers are read-only and run against replicas
	engine := analytics.NewPostgresEngine(connManager.Replica()).WithMetrics(metrics)

	// Services
	nameResolver, err := tenants.NewNameResolver(connManager.Replica(), 0)
	if err != nil {
		logger.WithError(err).Error("Failed to create tenant name resolver")
		os.Exit(1)
	}

	paymentLog := paymentlog.NewMemoryProvider(0)

	pageviewSvc := pageviews.NewService(connManager.Primary(), engine, nameResolver, logger, metrics)
	revenueSvc := revenue.NewService(engine, metrics)
	tenantReportSvc := tenantreport.NewService(engine, pageviewSvc, metrics)
	orderSvc := orders.NewService(engine, metrics)

	var platformSvc platform.Service = platform.NewService(engine, pageviewSvc, paymentLog, metrics)
	var cachedPlatform *platform.CachedService
	if cfg.Cache.Enabled {
		cachedPlatform = platform.NewCachedService(platformSvc, redisClient, cfg.Cache.KPITTL, logger, metrics)
		platformSvc = cachedPlatform
	}

	// Scheduled KPI cache pre-warm
	var scheduler *cron.Cron
	if cachedPlatform != nil && cfg.Cache.WarmSchedule != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Cache.WarmSchedule, func() {
			if err := cachedPlatform.Warm(context.Background()); err != nil {
				logger.WithError(err).Warn("KPI cache pre-warm failed")
			}
		}); err != nil {
			logger.WithError(err).Error("Invalid KPI warm schedule")
			os.Exit(1)
		}
		scheduler.Start()
		logger.Infof("KPI cache pre-warm scheduled: %s", cfg.Cache.WarmSchedule)
	}

	// API server + middleware chain
	apiServer := api.NewServer(pageviewSvc, revenueSvc, platformSvc, tenantReportSvc, orderSvc, logger)

	var handler http.Handler = apiServer
	handler = middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logging(logger),
		middleware.Metrics(metrics),
	)(handler)
	if cfg.Observability.OTelEnabled {
		handler = otelhttp.NewHandler(handler, "siteforge-analytics")
	}

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Health and metrics on a separate port for probes and scraping
	healthChecker := observability.NewHealthChecker(connManager.Primary(), redisClient)
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", healthChecker.Liveness)
	healthMux.HandleFunc("/readyz", healthChecker.Readiness)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", observability.Handler(registry))
	}
	healthServer := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.HealthPort,
		Handler: healthMux,
	}

	go func() {
		logger.Infof("Health server listening on :%s", cfg.Server.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Health server failed")
		}
	}()

	go func() {
		logger.Infof("API server listening on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("API server failed")
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	shutdownManager := observability.NewShutdownManager(logger, server, cfg.Server.ShutdownTimeout)
	shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
		return healthServer.Shutdown(ctx)
	})
	if scheduler != nil {
		shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
			stopCtx := scheduler.Stop()
			select {
			case <-stopCtx.Done():
			case <-ctx.Done():
			}
			return nil
		})
	}
	if redisClient != nil {
		shutdownManager.RegisterShutdownFunc(func(context.Context) error {
			return redisClient.Close()
		})
	}
	shutdownManager.RegisterShutdownFunc(func(context.Context) error {
		return connManager.Close()
	})
	shutdownManager.RegisterShutdownFunc(func(ctx context.Context) error {
		return otelProviders.Shutdown(ctx)
	})

	if err := shutdownManager.WaitForShutdown(); err != nil {
		logger.WithError(err).Error("Shutdown finished with errors")
		os.Exit(1)
	}
}
