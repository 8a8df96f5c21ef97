package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/services"
)

const minSchemeQueryLength = 2

// ReportHandler handles portfolio aggregation requests.
type ReportHandler struct {
	reportService services.ReportServicer
	schemes       services.SchemeSearcher
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, schemes services.SchemeSearcher) *ReportHandler {
	return &ReportHandler{reportService: reportService, schemes: schemes}
}

// MaturityQuery is the window for upcoming maturities.
type MaturityQuery struct {
	WithinDays int `form:"within_days" binding:"omitempty,min=1,max=3650"`
}

// Summary handles the portfolio summary.
// @Summary     Portfolio summary
// @Description Invested amount, current value and growth per asset class and in total
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.PortfolioSummary "Summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// RealizedProfits handles the realized profit breakdown.
// @Summary     Realized profits
// @Description Total realized profit, by asset class, and the top assets
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RealizedProfitReport "Realized profits"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/realized-profits [get]
func (h *ReportHandler) RealizedProfits(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	report, err := h.reportService.RealizedProfits(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// TransactionStats handles ledger statistics.
// @Summary     Transaction statistics
// @Description Entry counts, investment and profit by class and kind, optionally for one class and year
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       asset_class query    string false "Asset class"
// @Param       year        query    int    false "Calendar year"
// @Success     200         {object} services.TransactionStats "Statistics"
// @Failure     400         {object} ErrorResponse "Invalid input"
// @Router      /transactions/stats [get]
func (h *ReportHandler) TransactionStats(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter services.StatsFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		invalidInput(c, err)
		return
	}
	if filter.AssetClass != "" {
		filter.AssetClass, _ = models.ParseAssetClass(string(filter.AssetClass))
	}

	stats, err := h.reportService.TransactionStats(c.Request.Context(), ownerID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// CryptoStats handles the crypto breakdown.
// @Summary     Crypto statistics
// @Description Coin and platform distribution, staked value and estimated rewards
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.CryptoStats "Crypto statistics"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /crypto/stats [get]
func (h *ReportHandler) CryptoStats(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	stats, err := h.reportService.CryptoStats(c.Request.Context(), ownerID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Maturities handles the owner's upcoming maturities.
// @Summary     Upcoming maturities
// @Description Fixed deposits, provident funds and stake lockups ending within the window
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       within_days query    int false "Window in days (default 30)"
// @Success     200         {object} map[string][]services.Maturity "Maturities"
// @Failure     400         {object} ErrorResponse "Invalid input"
// @Router      /portfolio/maturities [get]
func (h *ReportHandler) Maturities(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	h.maturities(c, ownerID)
}

// PipelineMaturities handles upcoming maturities across every owner.
// @Summary     Upcoming maturities for all owners
// @Description Notification feed of maturities across owners (pipeline endpoint)
// @Tags        pipeline
// @Produce     json
// @Param       X-API-Key   header   string true  "Pipeline API key"
// @Param       within_days query    int    false "Window in days (default 30)"
// @Success     200         {object} map[string][]services.Maturity "Maturities"
// @Failure     401         {object} ErrorResponse "Invalid API key"
// @Failure     503         {object} ErrorResponse "Pipeline not configured"
// @Router      /pipeline/maturities [get]
func (h *ReportHandler) PipelineMaturities(c *gin.Context) {
	h.maturities(c, "")
}

func (h *ReportHandler) maturities(c *gin.Context, ownerID string) {
	var q MaturityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidInput(c, err)
		return
	}

	maturities, err := h.reportService.UpcomingMaturities(c.Request.Context(), ownerID, q.WithinDays)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"maturities": maturities})
}

// SearchSchemes handles mutual fund scheme lookup.
// @Summary     Search mutual fund schemes
// @Description Look up schemes by name or scheme code
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Param       q   query    string true "Name fragment or scheme code"
// @Success     200 {object} map[string][]provider.Scheme "Matching schemes"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     503 {object} ErrorResponse "Scheme source unavailable"
// @Router      /mutual-funds/search [get]
func (h *ReportHandler) SearchSchemes(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if len(q) < minSchemeQueryLength {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "q must be at least 2 characters"))
		return
	}

	schemes, err := h.schemes.Search(c.Request.Context(), q)
	if err != nil {
		if _, ok := apperrors.As(err); !ok {
			err = apperrors.Wrap(apperrors.ErrPriceUnavailable, err)
		}
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schemes": schemes})
}
