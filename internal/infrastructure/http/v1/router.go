// Package v1 provides HTTP API version 1.
package v1

import (
	"time"

	"github.com/gin-gonic/gin"

	"voltstock/internal/domain/bom"
	"voltstock/internal/domain/catalogs/category"
	"voltstock/internal/domain/catalogs/department"
	"voltstock/internal/domain/catalogs/material"
	"voltstock/internal/domain/catalogs/supplier"
	"voltstock/internal/domain/documents/inbound"
	"voltstock/internal/domain/documents/outbound"
	"voltstock/internal/domain/issuance"
	"voltstock/internal/domain/posting"
	"voltstock/internal/domain/registers/stockrecord"
	"voltstock/internal/domain/reports"
	"voltstock/internal/infrastructure/http/v1/handlers"
	"voltstock/internal/infrastructure/http/v1/middleware"
	"voltstock/internal/infrastructure/storage/postgres"
	"voltstock/internal/infrastructure/storage/postgres/bom_repo"
	"voltstock/internal/infrastructure/storage/postgres/catalog_repo"
	"voltstock/internal/infrastructure/storage/postgres/document_repo"
	"voltstock/internal/infrastructure/storage/postgres/register_repo"
	"voltstock/internal/infrastructure/storage/postgres/report_repo"
	"voltstock/pkg/logger"
	"voltstock/pkg/numerator"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (health checks, idempotency)
	Pool *postgres.Pool

	// TxManager runs transactions; repositories receive it at construction
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// Numerator for document and catalog code generation
	Numerator numerator.Generator

	// IdempotencyEnabled enables the X-Idempotency-Key middleware
	IdempotencyEnabled bool

	// IdempotencyTTL is how long completed keys replay (default 10m)
	IdempotencyTTL time.Duration
}

// NewRouter creates and configures the Gin router. Repositories and
// services are constructed once and shared across requests; per-request
// state travels in the context.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no operator context required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// Shared repositories
	materialRepo := catalog_repo.NewMaterialRepo(cfg.TxManager)
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	departmentRepo := catalog_repo.NewDepartmentRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	bomRepo := bom_repo.NewBOMRepo(cfg.TxManager)
	inboundRepo := document_repo.NewInboundRepo(cfg.TxManager)
	outboundRepo := document_repo.NewOutboundRepo(cfg.TxManager)
	recordRepo := register_repo.NewStockRecordRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	// Posting engine: every confirmation adjusts the ledger, appends
	// movement records and (for issues) accumulates BOM counters in one
	// transaction.
	recordService := stockrecord.NewService(recordRepo)
	engine := posting.NewEngine(cfg.TxManager, materialRepo, recordService, bomRepo)

	// Services
	materialService := material.NewService(materialRepo, cfg.TxManager, cfg.Numerator)
	categoryService := category.NewService(categoryRepo, cfg.TxManager, cfg.Numerator)
	departmentService := department.NewService(departmentRepo, cfg.TxManager, cfg.Numerator)
	supplierService := supplier.NewService(supplierRepo, cfg.TxManager, cfg.Numerator)
	bomService := bom.NewService(bomRepo, materialRepo, cfg.TxManager)
	planner := bom.NewPlanner(bomRepo, materialRepo)
	inboundService := inbound.NewService(inboundRepo, materialRepo, engine, cfg.Numerator, cfg.TxManager)
	outboundService := outbound.NewService(outboundRepo, materialRepo, departmentRepo, engine, cfg.Numerator, cfg.TxManager)
	recorder := issuance.NewRecorder(bomRepo, materialRepo, departmentRepo, outboundRepo, engine, cfg.Numerator)
	reportService := reports.NewService(reportRepo, materialRepo, departmentRepo)

	baseHandler := handlers.NewBaseHandler()

	// API v1
	v1 := router.Group("/api/v1")
	v1.Use(middleware.Operator())

	if cfg.IdempotencyEnabled {
		ttl := cfg.IdempotencyTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		store := postgres.NewIdempotencyStore(cfg.Pool, cfg.TxManager, ttl)
		v1.Use(middleware.Idempotency(store))
	}

	// Catalogs
	catalogs := v1.Group("/catalog")
	{
		materialHandler := handlers.NewMaterialHandler(baseHandler, materialService)
		materialsGroup := catalogs.Group("/materials")
		materialsGroup.GET("/low-stock", materialHandler.LowStock)
		RegisterCatalogRoutes(materialsGroup, materialHandler)

		RegisterCatalogRoutes(catalogs.Group("/categories"), handlers.NewCategoryHandler(baseHandler, categoryService))

		departmentHandler := handlers.NewDepartmentHandler(baseHandler, departmentService)
		departmentsGroup := catalogs.Group("/departments")
		departmentsGroup.GET("/production", departmentHandler.ListProduction)
		RegisterCatalogRoutes(departmentsGroup, departmentHandler)

		RegisterCatalogRoutes(catalogs.Group("/suppliers"), handlers.NewSupplierHandler(baseHandler, supplierService))
	}

	// Bill of materials
	{
		bomHandler := handlers.NewBOMHandler(baseHandler, bomService, planner)
		bomGroup := v1.Group("/bom")
		bomGroup.GET("", bomHandler.List)
		bomGroup.POST("", bomHandler.Create)
		bomGroup.GET("/:id", bomHandler.Get)
		bomGroup.PUT("/:id", bomHandler.Update)
		bomGroup.DELETE("/:id", bomHandler.Delete)
		bomGroup.POST("/:id/activate", bomHandler.Activate)
		bomGroup.POST("/:id/plan", bomHandler.Plan)
	}

	// Documents
	docs := v1.Group("/document")
	{
		RegisterDocumentRoutes(docs.Group("/inbound"), handlers.NewInboundHandler(baseHandler, inboundService))
		RegisterDocumentRoutes(docs.Group("/outbound"), handlers.NewOutboundHandler(baseHandler, outboundService))
	}

	// Issuance
	{
		issuanceHandler := handlers.NewIssuanceHandler(baseHandler, recorder)
		v1.POST("/issuance", issuanceHandler.Issue)
	}

	// Registers
	{
		recordHandler := handlers.NewStockRecordHandler(baseHandler, recordService)
		records := v1.Group("/registers/stock-records")
		records.GET("", recordHandler.List)
		records.GET("/order/:id", recordHandler.GetByOrder)
	}

	// Reports
	{
		reportsHandler := handlers.NewReportsHandler(baseHandler, reportService)
		reportsGroup := v1.Group("/reports")
		reportsGroup.GET("/workshop-balance", reportsHandler.WorkshopBalance)
		reportsGroup.GET("/department-balance", reportsHandler.DepartmentBalance)
		reportsGroup.GET("/stock-reference", reportsHandler.StockReference)
		reportsGroup.GET("/warehouse-stats", reportsHandler.WarehouseStats)
	}

	return router
}
