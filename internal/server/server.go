// Package server assembles the services, handlers and routes of the HTTP API.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"nidhi/internal/handlers"
	"nidhi/internal/middleware"
	"nidhi/internal/oracle"
	"nidhi/internal/services"
	"nidhi/internal/store"
)

// Handlers groups the HTTP handlers served under /api/v1.
type Handlers struct {
	Positions    *handlers.PositionHandler
	Stakes       *handlers.StakingHandler
	Reports      *handlers.ReportHandler
	Transactions *handlers.TransactionHandler
	Snapshots    *handlers.PortfolioSnapshotHandler
}

// NewHandlers wires the services over db and prices. Portfolio and staking
// mutations share one locker so a crypto lot is never sold and staked at once.
func NewHandlers(db *gorm.DB, prices oracle.PriceSource, schemes services.SchemeSearcher, settings services.Settings) Handlers {
	locks := store.NewKeyedLocker()

	portfolioService := services.NewPortfolioService(db, prices, locks, settings)
	stakingService := services.NewStakingService(db, prices, locks, settings)
	reportService := services.NewReportService(db, prices, settings)
	transactionService := services.NewTransactionService(db)
	snapshotService := services.NewPortfolioSnapshotService(db, reportService)
	auditService := services.NewAuditService(db)

	return Handlers{
		Positions:    handlers.NewPositionHandler(portfolioService, reportService, stakingService, auditService),
		Stakes:       handlers.NewStakingHandler(stakingService, auditService),
		Reports:      handlers.NewReportHandler(reportService, schemes),
		Transactions: handlers.NewTransactionHandler(transactionService),
		Snapshots:    handlers.NewPortfolioSnapshotHandler(snapshotService, auditService),
	}
}

// RegisterRoutes mounts the API on router. Pipeline routes authenticate with
// the X-API-Key header checked against pipelineKeyHash; everything else
// requires a bearer token.
func RegisterRoutes(router *gin.Engine, h Handlers, pipelineKeyHash string) {
	v1 := router.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pipeline := v1.Group("/pipeline")
	pipeline.Use(middleware.PipelineAuthMiddleware(pipelineKeyHash))
	pipeline.GET("/maturities", h.Reports.PipelineMaturities)
	pipeline.POST("/snapshots", h.Snapshots.ComputeSnapshots)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	portfolio := protected.Group("/portfolio")
	portfolio.GET("/summary", h.Reports.Summary)
	portfolio.GET("/realized-profits", h.Reports.RealizedProfits)
	portfolio.GET("/maturities", h.Reports.Maturities)
	portfolio.GET("/snapshots", h.Snapshots.GetSnapshots)
	portfolio.POST("/snapshots", h.Snapshots.RecordSnapshot)

	protected.GET("/crypto/stats", h.Reports.CryptoStats)
	protected.GET("/mutual-funds/search", h.Reports.SearchSchemes)

	positions := protected.Group("/positions/:class")
	positions.GET("", h.Positions.ListPositions)
	positions.POST("", h.Positions.OpenPosition)
	positions.GET("/:id", h.Positions.GetPosition)
	positions.PUT("/:id", h.Positions.UpdatePosition)
	positions.DELETE("/:id", h.Positions.RemovePosition)
	positions.POST("/:id/sell", h.Positions.Sell)
	positions.POST("/:id/mature", h.Positions.Mature)
	positions.POST("/:id/contributions", h.Positions.Contribute)
	positions.POST("/:id/transfer", h.Positions.Transfer)
	positions.POST("/:id/stake", h.Positions.Stake)

	stakes := protected.Group("/stakes")
	stakes.GET("", h.Stakes.ListStakes)
	stakes.POST("/:id/unstake", h.Stakes.Unstake)

	transactions := protected.Group("/transactions")
	transactions.GET("", h.Transactions.ListTransactions)
	transactions.GET("/stats", h.Reports.TransactionStats)
	transactions.GET("/:id", h.Transactions.GetTransaction)
}
