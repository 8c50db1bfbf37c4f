package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tilldesk/tilldesk-api/internal/config"
	"github.com/tilldesk/tilldesk-api/internal/domain/entity"
	domainRepo "github.com/tilldesk/tilldesk-api/internal/domain/repository"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/handler"
	"github.com/tilldesk/tilldesk-api/internal/presentation/http/middleware"
	"github.com/tilldesk/tilldesk-api/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth     *handler.AuthHandler
	Session  *handler.SessionHandler
	Checkout *handler.CheckoutHandler
	Product  *handler.ProductHandler
	Customer *handler.CustomerHandler
	Discount *handler.DiscountHandler
	Report   *handler.ReportHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	UserRepo        domainRepo.UserRepository
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(middleware.OrganizationMiddleware(deps.UserRepo))

		// Per-organization rate limiter
		rateLimiter := middleware.NewOrgRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/auth/password", h.Auth.ChangePassword)
	// Staff accounts are created by managers, not by self sign-up
	protected.POST("/auth/register", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Auth.Register)

	registerSessionRoutes(protected, h)
	registerCheckoutRoutes(protected, h, deps)
	registerProductRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerDiscountRoutes(protected, h)
	registerReportRoutes(protected, h)
}

func registerSessionRoutes(protected *gin.RouterGroup, h *Handlers) {
	sessions := protected.Group("/sessions")
	{
		sessions.POST("", h.Session.Open)
		sessions.GET("", h.Session.List)
		sessions.GET("/active", h.Session.GetActive)
		sessions.GET("/:id", h.Session.Get)
		sessions.POST("/:id/close", h.Session.Close)
		sessions.POST("/:id/petty-cash", h.Session.RecordPettyCash)
		sessions.GET("/:id/report", h.Session.ShiftReport)
	}
}

func registerCheckoutRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	sales := protected.Group("/sales")
	{
		// Checkout uses idempotency middleware so a retried request can
		// never charge the customer twice
		sales.POST("", middleware.IdempotencyRequired(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Checkout.Checkout)
		sales.GET("", h.Checkout.ListSales)
		sales.GET("/:id", h.Checkout.GetSale)
		sales.PUT("/:id/status", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Checkout.UpdateSaleStatus)
		sales.GET("/:id/receipt", h.Checkout.GetReceipt)
		sales.POST("/:id/receipt/print", h.Checkout.PrintReceipt)
		sales.POST("/:id/receipt/email", h.Checkout.EmailReceipt)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.POST("", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Product.Create)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/predictions", h.Product.ListPredictions)
		products.GET("/:id", h.Product.Get)
		products.PUT("/:id", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Product.Update)
		products.GET("/:id/prediction", h.Product.GetPrediction)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
	}
}

func registerDiscountRoutes(protected *gin.RouterGroup, h *Handlers) {
	discounts := protected.Group("/discounts")
	discounts.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	{
		discounts.GET("", h.Discount.List)
		discounts.POST("", h.Discount.Create)
		discounts.GET("/:id", h.Discount.Get)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(entity.RoleAdmin, entity.RoleManager))
	{
		reports.GET("/daily", h.Report.Daily)
	}
}
