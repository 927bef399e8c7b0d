package router

import (
	"fmt"
	"net/http"

	"github.com/erp/erpcore/internal/infrastructure/config"
	"github.com/erp/erpcore/internal/infrastructure/logger"
	"github.com/erp/erpcore/internal/interfaces/http/dto"
	"github.com/erp/erpcore/internal/interfaces/http/handler"
	"github.com/erp/erpcore/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Dependencies holds everything the engine is built from
type Dependencies struct {
	Config         *config.Config
	Logger         *zap.Logger
	Verifier       middleware.IdentityVerifier
	Resolver       middleware.NamespaceResolver
	TracerProvider trace.TracerProvider
	// Meter enables HTTP metrics when non-nil
	Meter metric.Meter

	Orders    *handler.OrderHandler
	Inventory *handler.InventoryHandler
	Finance   *handler.FinanceHandler
	Approvals *handler.ApprovalHandler
	Health    *handler.HealthHandler
}

// NewEngine builds the gin engine with the global middleware chain and all routes
func NewEngine(deps Dependencies) (*gin.Engine, error) {
	cfg := deps.Config
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		Enabled:        cfg.Telemetry.Enabled,
		TracerProvider: deps.TracerProvider,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.SpanEnricher())
	engine.Use(middleware.Secure())
	if deps.Meter != nil {
		httpMetrics, err := middleware.HTTPMetrics(deps.Meter)
		if err != nil {
			return nil, fmt.Errorf("http metrics: %w", err)
		}
		engine.Use(httpMetrics)
	}
	if cfg.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	}

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeRouteNotFound, "Route not found"))
	})

	engine.GET("/health", deps.Health.Check)
	if cfg.HTTP.SwaggerEnabled {
		// the document itself is registered by importing the docs package
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r := NewRouter(engine, WithMiddleware(
		middleware.Authenticate(deps.Verifier, log),
		middleware.TenantNamespace(middleware.TenantNamespaceConfig{
			Resolver:      deps.Resolver,
			RequireTenant: true,
			Logger:        log,
		}),
	))
	r.Register(orderRoutes(deps.Orders)).
		Register(posRoutes(deps.Orders)).
		Register(inventoryRoutes(deps.Inventory)).
		Register(financeRoutes(deps.Finance)).
		Register(approvalRoutes(deps.Approvals))
	r.Setup()

	return engine, nil
}

func orderRoutes(h *handler.OrderHandler) *DomainGroup {
	return NewDomainGroup("orders", "/orders").
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.Get).
		PUT("/:id/status", h.UpdateStatus)
}

func posRoutes(h *handler.OrderHandler) *DomainGroup {
	return NewDomainGroup("pos", "/pos").
		POST("/checkout", middleware.IdempotencyKey(), h.CheckoutPOS)
}

func inventoryRoutes(h *handler.InventoryHandler) *DomainGroup {
	return NewDomainGroup("inventory", "/inventory").
		GET("/stocks", h.ListStock).
		GET("/stocks/lookup", h.LookupStock).
		GET("/stocks/verify", h.VerifyStock).
		POST("/adjust", h.Adjust).
		POST("/transfer", h.Transfer).
		POST("/audits", h.RunAudit).
		GET("/audits/:id", h.GetAudit).
		GET("/logs", h.ListLogs).
		GET("/stats", h.Stats)
}

func financeRoutes(h *handler.FinanceHandler) *DomainGroup {
	return NewDomainGroup("finance", "/finance").
		POST("/transactions", h.RecordTransaction).
		GET("/transactions", h.ListTransactions).
		POST("/expenses", h.RecordExpense).
		POST("/invoices", h.CreateInvoice).
		GET("/invoices", h.ListInvoices).
		GET("/invoices/:id", h.GetInvoice)
}

func approvalRoutes(h *handler.ApprovalHandler) *DomainGroup {
	return NewDomainGroup("approvals", "/approvals").
		POST("", h.Request).
		GET("", h.List).
		GET("/:id", h.Get).
		PUT("/:id/resolve", h.Resolve)
}
