package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"dompet/internal/alerts"
	"dompet/internal/auth"
	"dompet/internal/config"
	"dompet/internal/currency"
	"dompet/internal/database"
	"dompet/internal/handlers"
	"dompet/internal/ledger"
	"dompet/internal/logger"
	"dompet/internal/middleware"
	"dompet/internal/models"
	"dompet/internal/report"
	"dompet/internal/settings"
	"dompet/internal/storage"
	"dompet/internal/validator"

	_ "dompet/internal/docs" // Import swagger docs
)

// @title           Dompet API
// @version         1.0
// @description     Dompet is a personal finance tracker: a transaction ledger with currency-aware aggregate reports, budget alerts, and PIN-protected access.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()
	ctx := context.Background()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Database and blob store
	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	store := storage.NewGormStore(dbManager.DB())

	// Core components. Settings load first so the ledger's working currency
	// is known before rates are warmed.
	settingsMgr := settings.NewManager(store)
	settingsMgr.SetDefaultCurrency(appConfig.DefaultCurrency)
	appSettings, err := settingsMgr.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	ledgerStore := ledger.New(store)
	if err := ledgerStore.Load(ctx); err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}

	rateClient := currency.NewExchangeRateClient(&http.Client{Timeout: 10 * time.Second}, appConfig.RatesBaseURL)
	converter := currency.NewConverter(rateClient)
	converter.LoadRates(ctx, appSettings.Currency)

	engine := report.NewEngine(ledgerStore, converter)
	authService := auth.NewService(store)
	alertService := alerts.NewService(store, settingsMgr, engine, alerts.LogNotifier{})

	// Re-warm the rate cache whenever the working currency changes.
	settingsMgr.OnChange(func(s models.AppSettings) {
		if s.Currency != converter.BaseCurrency() {
			converter.LoadRates(context.Background(), s.Currency)
		}
	})

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	transactionHandler := handlers.NewTransactionHandler(ledgerStore, settingsMgr, converter, alertService)
	reportHandler := handlers.NewReportHandler(engine, settingsMgr, converter)
	settingsHandler := handlers.NewSettingsHandler(settingsMgr)

	// Router
	validator.Register()
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	authRoutes.POST("/setup", authHandler.Setup)
	authRoutes.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/recent", transactionHandler.GetRecentTransactions)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	reports := protected.Group("/reports")
	reports.GET("/summary", reportHandler.GetSummary)
	reports.GET("/trend", reportHandler.GetTrend)
	reports.GET("/categories", reportHandler.GetCategories)

	settingsRoutes := protected.Group("/settings")
	settingsRoutes.GET("", settingsHandler.GetSettings)
	settingsRoutes.PUT("", settingsHandler.UpdateSettings)

	log.Infof("Starting Dompet backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
