// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kopikeliling/internal/domain/auth"
	"kopikeliling/internal/domain/bookkeeping"
	"kopikeliling/internal/domain/catalogs"
	"kopikeliling/internal/domain/payroll"
	"kopikeliling/internal/domain/policy"
	"kopikeliling/internal/domain/recap"
	"kopikeliling/internal/domain/reconciliation"
	"kopikeliling/internal/domain/records"
	"kopikeliling/internal/domain/reports"
	"kopikeliling/internal/domain/stockopname"
	"kopikeliling/internal/infrastructure/http/v1/handlers"
	"kopikeliling/internal/infrastructure/http/v1/middleware"
	"kopikeliling/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Store is the shared Record Store
	Store *records.Store

	// Policy holds the payroll and reporting knobs
	Policy policy.Policy

	// Logger for request logging
	Logger *logger.Logger

	// AuthService guards /api/v1. Nil disables authentication.
	AuthService *auth.Service

	// Version is reported by /health/ready
	Version string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Store, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		if cfg.AuthService != nil {
			protected.Use(middleware.Auth(cfg.AuthService))
		}

		registerCatalogRoutes(protected, cfg)
		registerLedgerRoutes(protected, cfg)
		registerReportRoutes(protected, cfg)
	}

	return router
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}
	authHandler := handlers.NewAuthHandler(handlers.NewBaseHandler(), cfg.AuthService)
	rg.POST("/auth/login", authHandler.Login)
}

// registerCatalogRoutes registers the reference lists and the capital singleton.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- PRODUCTS ---
	{
		handler := handlers.NewProductHandler(baseHandler, catalogs.NewProducts(cfg.Store))
		group := rg.Group("/products")
		RegisterCatalogRoutes(group, handler)
		group.POST("/:id/move", handler.Move)
	}

	// --- RIDERS ---
	RegisterCatalogRoutes(rg.Group("/riders"),
		handlers.NewCatalogHandler(baseHandler, catalogs.NewRiders(cfg.Store).Service))

	// --- EXPENSE ITEMS ---
	RegisterCatalogRoutes(rg.Group("/expense-items"),
		handlers.NewCatalogHandler(baseHandler, catalogs.NewExpenseItems(cfg.Store)))

	// --- BOOKKEEPING ITEMS ---
	RegisterCatalogRoutes(rg.Group("/bookkeeping-items"),
		handlers.NewCatalogHandler(baseHandler, catalogs.NewBookkeepingItems(cfg.Store)))

	// --- CAPITAL ---
	{
		handler := handlers.NewCapitalHandler(baseHandler, catalogs.NewCapital(cfg.Store))
		rg.GET("/capital", handler.Get)
		rg.PUT("/capital", handler.Replace)
	}
}

// registerLedgerRoutes registers the endpoints that write ledger rows.
func registerLedgerRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	// --- TRANSACTIONS ---
	{
		handler := handlers.NewTransactionHandler(baseHandler, cfg.Store)
		group := rg.Group("/transactions")
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.PUT("/:id", handler.Update)
		group.DELETE("/:id", handler.Delete)
	}

	// --- RECAPS ---
	{
		handler := handlers.NewRecapHandler(baseHandler, recap.NewService(cfg.Store))
		group := rg.Group("/recaps")
		group.GET("", handler.History)
		group.POST("", handler.Submit)
		group.GET("/:key", handler.Get)
		group.GET("/:key/input", handler.EditInput)
		group.PUT("/:key", handler.Replace)
		group.DELETE("/:key", handler.Delete)
	}

	// --- BOOKKEEPING ---
	{
		handler := handlers.NewBookkeepingHandler(baseHandler, bookkeeping.NewService(cfg.Store))
		group := rg.Group("/bookkeeping")
		group.GET("", handler.History)
		group.POST("", handler.Purchase)
		group.PUT("/:id", handler.Update)
	}

	// --- PAYROLL ---
	{
		handler := handlers.NewPayrollHandler(baseHandler, payroll.NewService(cfg.Store, cfg.Policy))
		group := rg.Group("/payroll")
		group.GET("", handler.Estimates)
		group.POST("/pay", handler.Pay)
		group.GET("/riders/:riderId", handler.Breakdown)
		group.GET("/riders/:riderId/slip", handler.Slip)
	}

	// --- RECONCILIATION ---
	{
		handler := handlers.NewReconciliationHandler(baseHandler, reconciliation.NewService(cfg.Store))
		group := rg.Group("/reconciliation")
		group.GET("/recaps", handler.Recaps)
		group.GET("/bank", handler.BankDays)
		group.PUT("/bank", handler.SaveBank)
		group.POST("/corrections", handler.Correct)
	}

	// --- STOCK OPNAME ---
	{
		handler := handlers.NewStockOpnameHandler(baseHandler, stockopname.NewService(cfg.Store))
		group := rg.Group("/stock-opnames")
		group.GET("", handler.List)
		group.GET("/draft", handler.Draft)
		group.POST("", handler.Save)
		group.DELETE("/:id", handler.Delete)
	}

	// --- BACKUP ---
	{
		handler := handlers.NewBackupHandler(baseHandler, cfg.Store)
		rg.GET("/backup", handler.Export)
		rg.POST("/backup/restore", handler.Restore)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	reportHandler := handlers.NewReportsHandler(handlers.NewBaseHandler(), reports.NewService(cfg.Store, cfg.Policy))

	group := rg.Group("/reports")
	group.GET("/dashboard", reportHandler.Dashboard)
	group.GET("/summary", reportHandler.Summary)
	group.GET("/products", reportHandler.Products)
	group.GET("/categories", reportHandler.Categories)
	group.GET("/items", reportHandler.Items)
	group.GET("/items/:item", reportHandler.ItemHistory)
	group.GET("/daily", reportHandler.Daily)
	group.GET("/riders", reportHandler.Riders)
	group.GET("/qris", reportHandler.QRIS)
	group.GET("/coh", reportHandler.COH)
	group.GET("/cost-ratio", reportHandler.CostRatio)
	group.GET("/finance", reportHandler.Finance)
	group.GET("/flows", reportHandler.Flows)
}
