package router

import (
	"github.com/rameshmp2/rightmo-technical-test/internal/config"
	"github.com/rameshmp2/rightmo-technical-test/internal/handler"
	"github.com/rameshmp2/rightmo-technical-test/internal/infra"
	"github.com/rameshmp2/rightmo-technical-test/internal/middleware"
	"github.com/rameshmp2/rightmo-technical-test/internal/repository"
	"github.com/rameshmp2/rightmo-technical-test/internal/service"
	"github.com/rameshmp2/rightmo-technical-test/internal/storage"
	"github.com/rameshmp2/rightmo-technical-test/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// The image store is shared with the worker pool, so the caller owns it.
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, images *storage.ImageStore) *gin.Engine {
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

	// ── Infrastructure ───────────────────────────────────────────────────────
	denylist := infra.NewTokenDenylist(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, denylist, cfg)
	categorySvc := service.NewCategoryService(categoryRepo)
	productSvc := service.NewProductService(productRepo, categoryRepo, images, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	productsH := handler.NewProductsHandler(productSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	api := r.Group("/api")
	api.POST("/login", middleware.LoginRateLimiter(), authH.Login)

	// Uploaded images are served back under /storage, mirroring the stored
	// relative paths (products/<file>).
	r.Static("/storage", cfg.ImageStoragePath)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret, denylist)
	authd := api.Group("", jwtMW)
	{
		authd.POST("/logout", authH.Logout)
		authd.GET("/user", authH.User)

		authd.GET("/products", productsH.List)
		authd.GET("/products/categories", productsH.CategoriesInUse)
		authd.POST("/products", productsH.Create)
		authd.GET("/products/:id", productsH.Get)
		authd.PUT("/products/:id", productsH.Update)
		authd.PATCH("/products/:id", productsH.Update)
		authd.DELETE("/products/:id", productsH.Delete)

		authd.GET("/categories", categoriesH.List)
		authd.POST("/categories", categoriesH.Create)
		authd.GET("/categories/:id", categoriesH.Get)
		authd.PUT("/categories/:id", categoriesH.Update)
		authd.DELETE("/categories/:id", categoriesH.Delete)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
