package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/config"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/handler"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/infra"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/middleware"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/model"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/repository"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/service"
	"github.com/Homsi700/Alwaseet-Group-App-sub002/internal/worker"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	productCache := infra.NewProductCache(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	inventorySvc := service.NewInventoryService(productRepo, movementRepo, dispatcher, productCache)
	productSvc := service.NewProductService(productRepo, categoryRepo, movementRepo, productCache)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, customerRepo, productRepo, inventorySvc)
	customerSvc := service.NewCustomerService(customerRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	reportSvc := service.NewReportService(productRepo, movementRepo, invoiceRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc, inventorySvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	inventoryH := handler.NewInventoryHandler(inventorySvc)
	invoicesH := handler.NewInvoicesHandler(invoiceSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	api := r.Group("/api", jwtMW)

	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier)
	managerUp := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	{
		// Products — all roles read (POS catalog), managers adjust stock,
		// admins write the catalog
		api.GET("/products", anyRole, productsH.List)
		api.GET("/products/:id", anyRole, productsH.GetByID)
		api.GET("/products/barcode/:barcode", anyRole, productsH.GetByBarcode)
		api.PATCH("/products/:id/stock", managerUp, productsH.AdjustStock)
		products := api.Group("/products", adminOnly)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Deactivate)
			products.PATCH("/:id/reactivate", productsH.Reactivate)
		}

		// Categories — all roles read, admins write
		api.GET("/categories", anyRole, categoriesH.List)
		categories := api.Group("/categories", adminOnly)
		{
			categories.POST("", categoriesH.Create)
			categories.PUT("/:id", categoriesH.Update)
			categories.DELETE("/:id", categoriesH.Deactivate)
		}

		// Stock movement ledger
		inventory := api.Group("/inventory", managerUp)
		{
			inventory.POST("/stock-movements", inventoryH.RecordMovement)
			inventory.GET("/stock-movements", inventoryH.ListMovements)
			inventory.DELETE("/stock-movements/:id", inventoryH.ReverseMovement)
		}

		// Sales invoices — cashiers sell; cancel, restock and delete need a
		// manager or admin
		api.POST("/sales/invoices", anyRole, invoicesH.Create)
		api.GET("/sales/invoices", anyRole, invoicesH.List)
		api.GET("/sales/invoices/:id", anyRole, invoicesH.GetByID)
		api.PUT("/sales/invoices/:id", managerUp, invoicesH.Update)
		api.POST("/sales/invoices/:id/cancel", managerUp, invoicesH.Cancel)
		api.POST("/sales/invoices/:id/restock", managerUp, invoicesH.Restock)
		api.DELETE("/sales/invoices/:id", adminOnly, invoicesH.Delete)

		// Customers
		api.GET("/sales/customers", anyRole, customersH.List)
		api.GET("/sales/customers/:id", anyRole, customersH.GetByID)
		customers := api.Group("/sales/customers", managerUp)
		{
			customers.POST("", customersH.Create)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Deactivate)
		}

		// Suppliers
		suppliers := api.Group("/purchases/suppliers", managerUp)
		{
			suppliers.POST("", suppliersH.Create)
			suppliers.GET("", suppliersH.List)
			suppliers.GET("/:id", suppliersH.GetByID)
			suppliers.PUT("/:id", suppliersH.Update)
			suppliers.DELETE("/:id", suppliersH.Deactivate)
		}

		// Reports — JSON only
		reports := api.Group("/reports", managerUp)
		{
			reports.GET("/inventory/low-stock", reportsH.LowStock)
			reports.GET("/inventory/valuation", reportsH.Valuation)
			reports.GET("/inventory/movements", reportsH.MovementSummary)
			reports.GET("/sales/summary", reportsH.SalesSummary)
		}

		// Users
		users := api.Group("/settings/users", adminOnly)
		{
			users.POST("", usersH.Create)
			users.GET("", usersH.List)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Deactivate)
			users.PATCH("/:id/reactivate", usersH.Reactivate)
		}
	}

	return r
}
