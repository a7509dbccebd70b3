package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/receiptflow/internal/config"
	"github.com/sangkips/receiptflow/internal/infrastructure/storage"
	"github.com/sangkips/receiptflow/internal/presentation/http/handler"
	"github.com/sangkips/receiptflow/internal/presentation/http/middleware"
	"github.com/sangkips/receiptflow/pkg/utils"
	"go.uber.org/zap"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Receipt      *handler.ReceiptHandler
	AdminReceipt *handler.AdminReceiptHandler
	Auth         *handler.AuthHandler
	Settings     *handler.SettingsHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager  *utils.JWTManager
	Cfg         *config.Config
	Logger      *zap.Logger
	RateLimiter *middleware.IPRateLimiter
	// FilesDir is served under storage.FilesRoute when PDFs are kept on local disk
	FilesDir string
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Logger))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))
	if deps.RateLimiter != nil {
		router.Use(deps.RateLimiter.Middleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	if deps.FilesDir != "" {
		router.Static(storage.FilesRoute, deps.FilesDir)
	}

	registerStorefrontRoutes(router, h)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthMiddleware(deps.JWTManager))
		admin.Use(middleware.RequireRole(utils.RoleAdmin))
		registerAdminRoutes(admin, h)
	}

	return router
}

// registerStorefrontRoutes registers the paths storefront clients call directly
func registerStorefrontRoutes(router *gin.Engine, h *Handlers) {
	router.POST("/webhook/payment-success/", h.Receipt.PaymentSuccess)
	router.GET("/receipts", h.Receipt.ListReceipts)
	router.GET("/receipts/:id", h.Receipt.GetReceipt)
}

func registerAdminRoutes(admin *gin.RouterGroup, h *Handlers) {
	receipts := admin.Group("/receipts")
	{
		receipts.GET("", h.AdminReceipt.List)
		receipts.POST("", h.AdminReceipt.Generate)
		receipts.GET("/export", h.AdminReceipt.Export)
		receipts.GET("/:id", h.AdminReceipt.Get)
		receipts.DELETE("/:id", h.AdminReceipt.Delete)
		receipts.POST("/:id/resend", h.AdminReceipt.Resend)
	}

	admin.GET("/stats", h.AdminReceipt.Stats)

	admin.GET("/settings", h.Settings.GetSettings)
	admin.PUT("/settings", h.Settings.UpdateSettings)
	admin.POST("/settings/test-email", h.Settings.SendTestEmail)
}
