package router

import (
	"time"

	"verttraue/internal/config"
	"verttraue/internal/handler"
	"verttraue/internal/middleware"
	"verttraue/internal/repository"
	"verttraue/internal/service"
	"verttraue/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	affiliateRepo := repository.NewAffiliateRepository(db)
	kitRepo := repository.NewKitRepository(db)
	bundleRepo := repository.NewBundleRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	productSvc := service.NewProductService(productRepo, supplierRepo, saleRepo)
	supplierSvc := service.NewSupplierService(supplierRepo, productRepo)
	affiliateSvc := service.NewAffiliateService(affiliateRepo, productRepo, saleRepo)
	kitSvc := service.NewKitService(kitRepo, productRepo, saleRepo)
	bundleSvc := service.NewBundleService(bundleRepo, productRepo, saleRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, kitRepo, bundleRepo, affiliateRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	productsH := handler.NewProductsHandler(productSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	affiliatesH := handler.NewAffiliatesHandler(affiliateSvc)
	kitsH := handler.NewKitsHandler(kitSvc)
	bundlesH := handler.NewBundlesHandler(bundleSvc)
	salesH := handler.NewSalesHandler(saleSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: manager can operate the catalog and sales, admin additionally
		// manages users. Reads are open to both.
		read := middleware.RequireRole("admin", "manager")
		write := middleware.RequireRole("admin", "manager")
		adminOnly := middleware.RequireRole("admin")

		products := v1.Group("/products")
		{
			products.GET("", read, productsH.List)
			products.GET("/:id", read, productsH.Get)
			products.POST("", write, productsH.Create)
			products.PUT("/:id", write, productsH.Update)
			products.DELETE("/:id", write, productsH.Delete)
			products.PATCH("/:id/stock", write, productsH.AdjustStock)
			products.POST("/:id/photos", write, productsH.AddPhoto)
			products.DELETE("/:id/photos/:photoId", write, productsH.DeletePhoto)
		}

		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", read, suppliersH.List)
			suppliers.GET("/:id", read, suppliersH.Get)
			suppliers.GET("/:id/products", read, suppliersH.ListProducts)
			suppliers.POST("", write, suppliersH.Create)
			suppliers.PUT("/:id", write, suppliersH.Update)
			suppliers.DELETE("/:id", write, suppliersH.Delete)
		}

		affiliates := v1.Group("/affiliates")
		{
			affiliates.GET("", read, affiliatesH.List)
			affiliates.GET("/:id", read, affiliatesH.Get)
			affiliates.GET("/:id/stock", read, affiliatesH.ListStock)
			affiliates.POST("", write, affiliatesH.Create)
			affiliates.PUT("/:id", write, affiliatesH.Update)
			affiliates.DELETE("/:id", write, affiliatesH.Delete)
			affiliates.PUT("/:id/stock", write, affiliatesH.SetStock)
		}

		kits := v1.Group("/kits")
		{
			kits.GET("", read, kitsH.List)
			kits.GET("/:id", read, kitsH.Get)
			kits.POST("", write, kitsH.Create)
			kits.PUT("/:id", write, kitsH.Update)
			kits.DELETE("/:id", write, kitsH.Delete)
		}

		bundles := v1.Group("/bundles")
		{
			bundles.GET("", read, bundlesH.List)
			bundles.GET("/:id", read, bundlesH.Get)
			bundles.POST("", write, bundlesH.Create)
			bundles.PUT("/:id", write, bundlesH.Update)
			bundles.DELETE("/:id", write, bundlesH.Delete)
		}

		sales := v1.Group("/sales")
		{
			sales.GET("", read, salesH.List)
			sales.GET("/:id", read, salesH.Get)
			sales.POST("", write, salesH.Create)
			sales.PUT("/:id", write, salesH.Update)
			sales.PATCH("/:id/status", write, salesH.UpdateStatus)
			sales.POST("/:id/reconcile", write, salesH.Reconcile)
			sales.DELETE("/:id", write, salesH.Delete)
		}

		users := v1.Group("/users", adminOnly)
		{
			users.POST("", authH.CreateUser)
			users.GET("", authH.ListUsers)
			users.PUT("/:id", authH.UpdateUser)
			users.DELETE("/:id", authH.DeactivateUser)
			users.PATCH("/:id/reactivate", authH.ReactivateUser)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
