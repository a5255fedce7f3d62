package handler

import (
	"splitpay-storefront/internal/adapter/http/middleware"
	redisStore "splitpay-storefront/internal/adapter/storage/redis"
	"splitpay-storefront/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	MerchantSvc    ports.MerchantService
	ProductSvc     ports.ProductService
	StoreSvc       ports.StoreService
	SettlementSvc  ports.SettlementService
	PayoutSvc      ports.PayoutService
	ReportingSvc   ports.ReportingService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	storeHandler := NewStoreHandler(deps.StoreSvc, deps.SettlementSvc)
	stores := v1.Group("/stores")
	{
		stores.GET("/:slug", rl("storefront"), storeHandler.GetStorefront)
		stores.POST("/:slug/sales", rl("sales"), storeHandler.CreateSale)
	}
	v1.POST("/sales/:id/confirm", rl("sales_confirm"), storeHandler.ConfirmSale)

	// --- JWT-authenticated routes (merchant dashboard) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	productHandler := NewProductHandler(deps.ProductSvc)
	products := v1.Group("/products", jwtAuth)
	{
		products.POST("", rl("dashboard"), productHandler.Create)
		products.GET("", rl("dashboard"), productHandler.List)
		products.PUT("/:id", rl("dashboard"), productHandler.Update)
		products.PUT("/:id/splits", rl("dashboard"), productHandler.SetSplits)
		products.DELETE("/:id", rl("dashboard"), productHandler.Delete)
	}

	payoutHandler := NewPayoutHandler(deps.PayoutSvc)
	payouts := v1.Group("/payouts", jwtAuth)
	{
		payouts.GET("", rl("dashboard"), payoutHandler.ListUnpaid)
		payouts.POST("/:id/pay", rl("dashboard"), payoutHandler.MarkPaid)
	}

	dashboardHandler := NewDashboardHandler(deps.ReportingSvc)
	dashboard := v1.Group("/dashboard", jwtAuth)
	{
		dashboard.GET("", rl("dashboard"), dashboardHandler.GetDashboard)
	}
	v1.GET("/sales", jwtAuth, rl("dashboard"), dashboardHandler.ListSales)

	merchantHandler := NewMerchantHandler(deps.MerchantSvc)
	merchants := v1.Group("/merchants/me", jwtAuth)
	{
		merchants.GET("", rl("dashboard"), merchantHandler.GetProfile)
		merchants.PUT("/password", rl("dashboard"), merchantHandler.UpdatePassword)
		merchants.PUT("/webhook", rl("dashboard"), merchantHandler.UpdateWebhookURL)
		merchants.DELETE("", rl("dashboard"), merchantHandler.DeleteAccount)
	}

	return r
}
