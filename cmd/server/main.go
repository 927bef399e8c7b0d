package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	approvalapp "github.com/erp/erpcore/internal/application/approval"
	financeapp "github.com/erp/erpcore/internal/application/finance"
	inventoryapp "github.com/erp/erpcore/internal/application/inventory"
	orderapp "github.com/erp/erpcore/internal/application/order"
	tenantapp "github.com/erp/erpcore/internal/application/tenant"
	"github.com/erp/erpcore/internal/domain/approval"
	"github.com/erp/erpcore/internal/infrastructure/auth"
	"github.com/erp/erpcore/internal/infrastructure/cache"
	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/erp/erpcore/internal/infrastructure/persistence"
	"github.com/erp/erpcore/internal/infrastructure/telemetry"
	"github.com/erp/erpcore/internal/interfaces/http/handler"
	"github.com/erp/erpcore/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/erp/erpcore/docs"
)

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init --dir ../../ --generalInfo cmd/server/main.go --output ../../docs --outputTypes go --parseInternal --overridesFile ../../.swaggo

//	@title			ERP Core API
//	@version		1.0
//	@description	Multi-tenant inventory, order, finance and approval API

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.FromAppConfig(cfg.Log))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting ERP core",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	provider, err := telemetry.NewProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log = provider.BridgeLogger(log)

	if cfg.Profiling.Enabled {
		provider.LinkProfiles()
	}
	profiler, err := telemetry.NewProfiler(cfg.Profiling, map[string]string{"env": cfg.App.Env}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithSQL(!cfg.IsProduction()),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := persistence.RegisterNamespaceGuard(db.DB); err != nil {
		log.Fatal("Failed to register namespace guard", zap.Error(err))
	}
	if err := telemetry.RegisterDBTracing(db.DB, cfg.Telemetry, provider.TracerProvider(), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	metrics, err := telemetry.NewBusinessMetrics(provider.Meter("erp-core/business"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}

	// Application services
	scope := persistence.NewGormTransactionScope(db.DB)
	resolver := tenantapp.NewResolver(persistence.NewGormTenantRepository(db.DB), log)

	ledger := inventoryapp.NewLedgerService(scope, inventoryapp.Config{
		DefaultLocation: cfg.Inventory.DefaultLocation,
		MaxAuditItems:   cfg.Inventory.MaxAuditItems,
	}, log)
	ledger.SetMetrics(metrics)

	reconciler := financeapp.NewReconcilerService(scope, log)
	reconciler.SetMetrics(metrics)

	workflow := orderapp.NewWorkflowService(scope, ledger, reconciler, log)
	workflow.SetMetrics(metrics)

	store, redisClient, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	workflow.SetIdempotencyStore(store, cfg.POS.IdempotencyTTL)

	registry := approvalapp.NewRegistry()
	registry.Register(approval.TargetOrder, approvalapp.NewOrderUpdater(workflow))
	approvals := approvalapp.NewApprovalService(scope, registry, log)
	approvals.SetMetrics(metrics)

	engine, err := router.NewEngine(router.Dependencies{
		Config:         cfg,
		Logger:         log,
		Verifier:       auth.NewTokenVerifier(cfg.JWT),
		Resolver:       resolver,
		TracerProvider: provider.TracerProvider(),
		Meter:          provider.Meter("erp-core/http"),
		Orders:         handler.NewOrderHandler(workflow),
		Inventory:      handler.NewInventoryHandler(ledger),
		Finance:        handler.NewFinanceHandler(reconciler),
		Approvals:      handler.NewApprovalHandler(approvals),
		Health:         handler.NewHealthHandler(db.DB, redisClient, version, log),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
