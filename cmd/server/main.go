// @title AweStore Backend API
// @version 1.0
// @description E-commerce storefront backend: product catalog, shopping cart, order lifecycle and shipment tracking.
// @BasePath /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT access token.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogapp "github.com/awestore/backend/internal/application/catalog"
	identityapp "github.com/awestore/backend/internal/application/identity"
	orderingapp "github.com/awestore/backend/internal/application/ordering"
	shoppingapp "github.com/awestore/backend/internal/application/shopping"
	trackingapp "github.com/awestore/backend/internal/application/tracking"
	"github.com/awestore/backend/internal/infrastructure/auth"
	"github.com/awestore/backend/internal/infrastructure/config"
	"github.com/awestore/backend/internal/infrastructure/event"
	"github.com/awestore/backend/internal/infrastructure/logger"
	"github.com/awestore/backend/internal/infrastructure/persistence"
	"github.com/awestore/backend/internal/infrastructure/storage"
	"github.com/awestore/backend/internal/infrastructure/telemetry"
	"github.com/awestore/backend/internal/interfaces/http/handler"
	"github.com/awestore/backend/internal/interfaces/http/middleware"
	"github.com/awestore/backend/internal/interfaces/http/router"
)

// version is injected at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync(log)

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers are no-ops when disabled, so the rest of the
	// wiring does not need to branch on cfg.Telemetry.Enabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownWithTimeout(tracerProvider.Shutdown, log, "tracer provider")

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownWithTimeout(meterProvider.Shutdown, log, "meter provider")

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Telemetry.DBTraceEnabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		tracingCfg.Enabled = true
		plugin := telemetry.NewDBTracingPlugin(tracingCfg, log)
		if err := plugin.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("failed to register database tracing", zap.Error(err))
		}
	}

	if meterProvider.IsEnabled() {
		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("db"), telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Warn("failed to initialize database metrics", zap.Error(err))
		} else {
			if sqlDB, err := db.DB.DB(); err == nil {
				dbMetrics.SetSQLDB(sqlDB)
				dbMetrics.StartPoolStatsCollection(ctx)
				defer dbMetrics.Stop()
			}
			if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
				log.Warn("failed to register database metrics plugin", zap.Error(err))
			}
		}
	}

	// Redis backs the token blacklist and rate limiting. When it is not
	// reachable both fall back to in-process implementations, which is
	// fine for a single instance but not for a multi-replica deployment.
	redisClient := newRedisClient(&cfg.Redis)
	var blacklist auth.TokenBlacklist
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklistWithClient(redisClient)
		defer redisClient.Close()
	} else {
		log.Warn("redis unavailable, using in-memory token blacklist")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	trackingRepo := persistence.NewGormTrackingRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// The event bus feeds the shipment tracking projection from order
	// lifecycle events.
	eventBus := event.NewInMemoryEventBus(log)
	projection := trackingapp.NewOrderProjectionHandler(trackingRepo, log)
	eventBus.Subscribe(projection, projection.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("failed to start event bus", zap.Error(err))
	}
	defer shutdownWithTimeout(eventBus.Stop, log, "event bus")

	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Provider == "s3" {
		objectStorage, err = storage.NewS3ObjectStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("failed to initialize S3 object storage", zap.Error(err))
		}
	} else {
		log.Info("object storage provider not configured, product image uploads are stubbed")
		objectStorage = storage.NewStubObjectStorage()
	}

	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	productService := catalogapp.NewProductService(productRepo, objectStorage, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, productRepo)
	cartService := shoppingapp.NewCartService(cartRepo, productRepo)
	orderService := orderingapp.NewOrderService(orderRepo, txScope)
	orderService.SetEventPublisher(eventBus)
	if meterProvider.IsEnabled() {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("business"),
			Logger: log,
		})
		if err != nil {
			log.Warn("failed to initialize business metrics", zap.Error(err))
		} else {
			orderService.SetBusinessMetrics(businessMetrics)
		}
	}
	trackingService := trackingapp.NewTrackingService(trackingRepo)
	customerService := identityapp.NewCustomerService(customerRepo, log)
	authService := identityapp.NewAuthService(userRepo, customerRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		engine.Use(middleware.RateLimit(newRateLimiter(redisClient, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)))
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		// A tighter per-IP budget on the credential endpoints to slow
		// down brute forcing, on top of the account lockout.
		authLimit := middleware.RateLimitByKey(
			newRateLimiter(redisClient, cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow),
			func(c *gin.Context) string { return "auth:" + c.ClientIP() },
		)
		engine.Use(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api/auth/") {
				authLimit(c)
				return
			}
			c.Next()
		})
	}

	engine.Use(middleware.JWTAuthWithConfig(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		SkipPaths: []string{
			"/health",
			"/ping",
			"/api/auth/register",
			"/api/auth/login",
			"/api/auth/refresh",
		},
		SkipPathPrefixes: []string{
			"/api/products",
			"/api/categories",
			"/api/tracking/number/",
		},
		Logger: log,
	}))

	handlers := router.Handlers{
		System:   handler.NewSystemHandler(version, db),
		Auth:     handler.NewAuthHandler(authService),
		Customer: handler.NewCustomerHandler(customerService),
		Product:  handler.NewProductHandler(productService),
		Category: handler.NewCategoryHandler(categoryService),
		Cart:     handler.NewCartHandler(cartService, customerService),
		Order:    handler.NewOrderHandler(orderService, customerService),
		Tracking: handler.NewTrackingHandler(trackingService, customerService),
	}
	router.New(engine, handlers).Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	log.Info("server stopped")
}

// newRedisClient connects to Redis and returns nil when the instance is
// not reachable so callers can fall back to in-process implementations.
func newRedisClient(cfg *config.RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil
	}
	return client
}

func newRateLimiter(client *redis.Client, limit int, window time.Duration) middleware.RateLimiter {
	if client != nil {
		return middleware.NewRedisRateLimiter(client, limit, window)
	}
	return middleware.NewInMemoryRateLimiter(limit, window)
}

func shutdownWithTimeout(fn func(context.Context) error, log *zap.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("shutdown failed", zap.String("component", name), zap.Error(err))
	}
}
