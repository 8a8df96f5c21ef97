package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"nidhi/internal/config"
	"nidhi/internal/database"
	"nidhi/internal/logger"
	"nidhi/internal/middleware"
	"nidhi/internal/oracle"
	"nidhi/internal/provider"
	"nidhi/internal/server"
	"nidhi/internal/services"
	"nidhi/internal/validator"

	_ "nidhi/internal/docs" // Import swagger docs
)

// @title           Nidhi API
// @version         1.0
// @description     Nidhi tracks a multi-asset portfolio: equities, gold, mutual funds, real estate, fixed deposits, provident funds and crypto, with a transaction ledger and live valuation.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("database close error: %v", err)
		}
	}()

	if appConfig.AutoMigrate {
		if err := dbManager.RunMigrations(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	validator.Register()

	httpClient := &http.Client{Timeout: appConfig.PriceTimeout}
	rateLimit := provider.WithRateLimit(appConfig.PriceRequestsPerSecond)

	amfi := provider.NewAMFIProvider(httpClient, provider.WithBaseURL(appConfig.AMFINavURL), rateLimit)
	providers := []provider.Provider{
		provider.NewYahooProvider(httpClient, provider.WithBaseURL(appConfig.YahooBaseURL), rateLimit),
		provider.NewGoldProvider(httpClient, provider.WithBaseURL(appConfig.YahooBaseURL), rateLimit),
		amfi,
		provider.NewCoinGeckoProvider(httpClient, appConfig.BaseCurrency, provider.WithBaseURL(appConfig.CoinGeckoBaseURL), rateLimit),
	}
	newConverter := func(target string) oracle.CurrencyConverter {
		return provider.NewForexConverter(httpClient, target, provider.WithBaseURL(appConfig.YahooBaseURL), rateLimit)
	}
	prices := oracle.NewOracle(providers, newConverter, oracle.Config{
		Timeout:     appConfig.PriceTimeout,
		Concurrency: appConfig.PriceConcurrency,
	}, logger.Named("oracle"))

	h := server.NewHandlers(dbManager.DB(), prices, amfi, services.SettingsFromConfig(appConfig))

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server.RegisterRoutes(router, h, appConfig.PipelineAPIKeyHash)

	if appConfig.PipelineAPIKeyHash == "" {
		log.Warn("PIPELINE_API_KEY_HASH is not set; pipeline endpoints will answer 503")
	}
	log.Infof("Starting Nidhi server on port %s (base currency %s)", appConfig.Port, appConfig.BaseCurrency)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
