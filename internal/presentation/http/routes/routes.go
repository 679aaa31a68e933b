package routes

import (
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/config"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/entity"
	domainRepo "github.com/Kosarefschulz/relocato-webapp-sub008/internal/domain/repository"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/infrastructure/logger"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/handler"
	"github.com/Kosarefschulz/relocato-webapp-sub008/internal/presentation/http/middleware"
	"github.com/Kosarefschulz/relocato-webapp-sub008/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Customer *handler.CustomerHandler
	Company  *handler.CompanyHandler
	Pricing  *handler.PricingHandler
	Quote    *handler.QuoteHandler
	Public   *handler.PublicQuoteHandler
}

// Deps holds shared dependencies needed by the routes. The rate limiters
// are owned by the caller, which stops them on shutdown.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	Logger          *zap.Logger
	IdempotencyRepo domainRepo.IdempotencyRepository
	UserLimiter     *middleware.RateLimiter
	PublicLimiter   *middleware.RateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(logger.Recovery(deps.Logger))
	router.Use(logger.GinMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS, deps.Cfg.App.FrontendURL))

	router.GET("/health", h.Health.Health)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Health)

		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)
		registerPublicRoutes(v1, h, deps)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))
		protected.Use(deps.UserLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
	}
}

// registerPublicRoutes serves the confirmation page. The token is the only
// credential, so these routes get a tighter per-IP limit.
func registerPublicRoutes(v1 *gin.RouterGroup, h *Handlers, deps *Deps) {
	public := v1.Group("/public/quotes")
	public.Use(deps.PublicLimiter.Middleware())
	{
		public.GET("/:token", h.Public.Show)
		public.POST("/:token/accept", h.Public.Accept)
		public.POST("/:token/reject", h.Public.Reject)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	protected.GET("/profile", h.Auth.Profile)

	protected.GET("/companies", h.Company.List)
	protected.GET("/companies/:key", h.Company.Get)

	registerUserRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerPricingRoutes(protected, h)
	registerQuoteRoutes(protected, h, deps)
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission(entity.PermissionManageUsers))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id/roles", h.User.UpdateRoles)
		users.PUT("/:id/active", h.User.SetActive)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission(entity.PermissionManageCustomers))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerPricingRoutes(protected *gin.RouterGroup, h *Handlers) {
	pricing := protected.Group("/pricing")
	{
		pricing.GET("/services", h.Pricing.Services)
		pricing.POST("/calculate", h.Pricing.Calculate)
	}
}

func registerQuoteRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	quotes := protected.Group("/quotes")
	quotes.Use(middleware.RequirePermission(entity.PermissionManageQuotes))
	{
		quotes.GET("", h.Quote.List)
		// Quote creation replays the first response for a repeated Idempotency-Key.
		quotes.POST("", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.Quote.Create)
		quotes.GET("/export", h.Quote.Export)
		quotes.GET("/:id", h.Quote.Get)
		quotes.PUT("/:id", h.Quote.Update)
		quotes.DELETE("/:id", h.Quote.Delete)
		quotes.PUT("/:id/status", h.Quote.ChangeStatus)
		quotes.POST("/:id/versions", h.Quote.CreateVersion)
		quotes.GET("/:id/pdf", h.Quote.PDF)
		quotes.POST("/:id/send", h.Quote.Send)
	}
}
