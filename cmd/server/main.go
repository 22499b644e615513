// Server is the dental lab backend API: price rule resolution, one-time
// base-price fixation, payment registration with idempotent retries and the
// client balance ledger.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	billingapp "github.com/dentallab/backend/internal/application/billing"
	clientapp "github.com/dentallab/backend/internal/application/client"
	pricingapp "github.com/dentallab/backend/internal/application/pricing"
	"github.com/dentallab/backend/internal/infrastructure/cache"
	"github.com/dentallab/backend/internal/infrastructure/config"
	"github.com/dentallab/backend/internal/infrastructure/logger"
	"github.com/dentallab/backend/internal/infrastructure/persistence"
	"github.com/dentallab/backend/internal/infrastructure/telemetry"
	"github.com/dentallab/backend/internal/interfaces/http/handler"
	"github.com/dentallab/backend/internal/interfaces/http/middleware"
	"github.com/dentallab/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting dental lab backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing. Disabled config yields a no-op provider, so the wiring below
	// is unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DefaultDBTracingConfig(), log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	// Repositories
	workRepo := persistence.NewGormWorkRepository(db.DB)
	ruleRepo := persistence.NewGormPricingRuleRepository(db.DB)
	fixedPriceRepo := persistence.NewGormFixedBasePriceRepository(db.DB)
	overrideRepo := persistence.NewGormPriceOverrideRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	allocationRepo := persistence.NewGormPaymentAllocationRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	balanceRepo := persistence.NewGormClientBalanceRepository(db.DB)
	movementRepo := persistence.NewGormBalanceMovementRepository(db.DB)

	// Money writes (payment registration, balance movements) run through a
	// single transaction scope so every commit is all-or-nothing.
	txScope := persistence.NewGormTransactionScope(db.DB)

	idemStore := cache.NewIdempotencyStore(cfg.Redis, log)

	repoSet := billingapp.RepoSet{
		Works:       workRepo,
		FixedPrices: fixedPriceRepo,
		Overrides:   overrideRepo,
		Allocations: allocationRepo,
		Movements:   movementRepo,
	}

	// Application services
	priceService := pricingapp.NewPriceService(ruleRepo, fixedPriceRepo, overrideRepo, workRepo, clientRepo)
	paymentService := billingapp.NewPaymentService(repoSet, paymentRepo, clientRepo, txScope, idemStore).
		WithIdempotencyTTL(cfg.Payment.IdempotencyTTL)
	workBalanceService := billingapp.NewWorkBalanceService(repoSet)
	balanceService := clientapp.NewBalanceService(balanceRepo, movementRepo, clientRepo, txScope)

	// HTTP engine and middleware chain
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())

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

	// System routes live outside the versioned API prefix
	systemHandler := handler.NewSystemHandler(db, version)
	systemHandler.RegisterRoutes(&engine.RouterGroup)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewPaymentHandler(paymentService, workBalanceService))
	r.Register(handler.NewPriceHandler(priceService))
	r.Register(handler.NewClientBalanceHandler(balanceService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
