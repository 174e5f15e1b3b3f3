// internal/router/router.go
package router

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/swordshop/backend/internal/config"
	"github.com/swordshop/backend/internal/handlers"
	"github.com/swordshop/backend/internal/metrics"
	"github.com/swordshop/backend/internal/middleware"
	"github.com/swordshop/backend/internal/models"
	"github.com/swordshop/backend/internal/repository"
	"github.com/swordshop/backend/internal/services"
	"github.com/swordshop/backend/internal/session"
)

const Version = "1.0.0"

// Initialize wires services and handlers onto a gin engine. The returned
// stop function releases the rate limiters' background sweepers.
func Initialize(cfg *config.Config, repos *repository.Repositories, sessions *session.Manager) (*gin.Engine, func(), error) {
	// Initialize services
	authorizationService := services.NewAuthorizationService(repos.Users, sessions)
	activityService := services.NewActivityService(repos.Activity)
	storageService, err := services.NewStorageService(cfg, authorizationService)
	if err != nil {
		return nil, nil, err
	}

	authService := services.NewAuthService(repos.Users, sessions, activityService)
	userService := services.NewUserService(repos.Users, repos.Categories, authorizationService, activityService)
	productService := services.NewProductService(repos.Products, repos.Categories, authorizationService, activityService)
	transactionService := services.NewTransactionService(repos.Transactions, repos.Products, authorizationService, activityService)
	supportService := services.NewSupportService(repos, authorizationService, activityService)
	adminService := services.NewAdminService(repos.Users, repos.Stats, authorizationService, activityService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg.Session)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	supportHandler := handlers.NewSupportHandler(supportService)
	adminHandler := handlers.NewAdminHandler(adminService)
	uploadHandler := handlers.NewUploadHandler(storageService)
	healthHandler := handlers.NewHealthHandler(repos.Health, Version)

	auth := middleware.NewAuth(cfg.Session.CookieName, func(c *gin.Context, token string) (*models.User, error) {
		return authorizationService.Resolve(c.Request.Context(), token)
	})

	generalLimiter := middleware.PerSecond(cfg.RateLimit.GeneralRPS, cfg.RateLimit.GeneralBurst)
	authLimiter := middleware.PerMinute(cfg.RateLimit.AuthPerMin, cfg.RateLimit.AuthBurst)
	stop := func() {
		generalLimiter.Stop()
		authLimiter.Stop()
	}
	var authRateLimit gin.HandlerFunc = func(c *gin.Context) { c.Next() }

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware())
	if cfg.RateLimit.Enabled {
		r.Use(generalLimiter.Middleware())
		authRateLimit = authLimiter.Middleware()
	}

	r.GET("/health", healthHandler.Health)
	if cfg.Metrics.Enabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	// Locally stored uploads are served from the same origin.
	if strings.HasPrefix(cfg.Storage.PublicBaseURL, "/") && cfg.AWS.AccessKeyID == "" {
		r.Static(cfg.Storage.PublicBaseURL, cfg.Storage.LocalDir)
	}

	api := r.Group("/api")
	{
		// Authentication routes
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authRateLimit, authHandler.Register)
			authGroup.POST("/login", authRateLimit, authHandler.Login)
			authGroup.POST("/admin/login", authRateLimit, authHandler.AdminLogin)
			authGroup.GET("/me", auth.Required(), authHandler.Me)
			authGroup.POST("/logout", auth.Required(), authHandler.Logout)
		}

		api.GET("/categories", userHandler.ListCategories)
		api.POST("/categories", auth.Required(), auth.AdminRequired(), userHandler.CreateCategory)

		api.GET("/users/:id", userHandler.GetProfile)

		products := api.Group("/products")
		{
			products.GET("", auth.Optional(), productHandler.ListProducts)
			products.GET("/:id", auth.Optional(), productHandler.GetProduct)
			products.POST("", auth.Required(), productHandler.CreateProduct)
			products.PATCH("/:id/status", auth.Required(), productHandler.UpdateStatus)
			products.PATCH("/:id/approval", auth.Required(), auth.AdminRequired(), productHandler.UpdateApproval)
		}

		api.POST("/uploads/images", auth.Required(), uploadHandler.UploadImage)

		transactions := api.Group("/transactions")
		transactions.Use(auth.Required())
		{
			transactions.GET("", transactionHandler.ListTransactions)
			transactions.GET("/:id", transactionHandler.GetTransaction)
			transactions.POST("", transactionHandler.Purchase)
			transactions.PATCH("/:id/status", transactionHandler.UpdateStatus)
		}

		reports := api.Group("/reports")
		reports.Use(auth.Required())
		{
			reports.GET("", auth.AdminRequired(), supportHandler.ListReports)
			reports.POST("", supportHandler.CreateReport)
			reports.PATCH("/:id/status", auth.AdminRequired(), supportHandler.UpdateReportStatus)
		}

		support := api.Group("/support")
		support.Use(auth.Required())
		{
			support.GET("", auth.AdminRequired(), supportHandler.ListTickets)
			support.GET("/my-tickets", supportHandler.MyTickets)
			support.POST("", supportHandler.CreateTicket)
			support.PATCH("/:id/status", auth.AdminRequired(), supportHandler.UpdateTicketStatus)
			support.GET("/:id/messages", supportHandler.ListMessages)
			support.POST("/:id/messages", supportHandler.PostMessage)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(auth.Required(), auth.AdminRequired())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/statistics", adminHandler.Statistics)
			admin.GET("/activity", adminHandler.RecentActivity)
			admin.GET("/support/all", supportHandler.ListTickets)
		}
	}

	return r, stop, nil
}
