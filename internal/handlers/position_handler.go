package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/services"
)

// PositionHandler handles position lifecycle and valuation requests.
type PositionHandler struct {
	portfolioService services.PortfolioServicer
	reportService    services.ReportServicer
	stakingService   services.StakingServicer
	auditService     services.AuditServicer
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(
	portfolioService services.PortfolioServicer,
	reportService services.ReportServicer,
	stakingService services.StakingServicer,
	auditService services.AuditServicer,
) *PositionHandler {
	return &PositionHandler{
		portfolioService: portfolioService,
		reportService:    reportService,
		stakingService:   stakingService,
		auditService:     auditService,
	}
}

// ListPositions handles listing the valued open positions of one class.
// @Summary     List positions
// @Description Open positions of one asset class with current price, value and profit
// @Tags        positions
// @Produce     json
// @Security    BearerAuth
// @Param       class path     string true "Asset class (equity, gold, mutual-fund, real-estate, fixed-deposit, provident-fund, crypto)"
// @Success     200   {object} map[string][]services.Holding "Valued holdings"
// @Failure     400   {object} ErrorResponse "Unknown asset class"
// @Failure     401   {object} ErrorResponse "Unauthorized"
// @Router      /positions/{class} [get]
func (h *PositionHandler) ListPositions(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.reportService.Holdings(c.Request.Context(), ownerID, class)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// OpenPosition handles opening a new position.
// @Summary     Open a position
// @Description Open a position; the body fields depend on the asset class. Dates are RFC3339.
// @Tags        positions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string true "Asset class"
// @Param       request body     object true "Class-specific position fields"
// @Success     201     {object} map[string]any "Position opened"
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     401     {object} ErrorResponse "Unauthorized"
// @Router      /positions/{class} [post]
func (h *PositionHandler) OpenPosition(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	in, _ := services.NewOpenInput(class)
	if err := c.ShouldBindJSON(in); err != nil {
		invalidInput(c, err)
		return
	}

	position, err := h.portfolioService.OpenPosition(c.Request.Context(), ownerID, in)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditOpenPosition, string(class), position.GetID(), c.ClientIP(),
		map[string]any{"symbol": position.LedgerSymbol(), "quantity": position.TotalHeld().String()})

	c.JSON(http.StatusCreated, gin.H{"position": position})
}

// GetPosition handles retrieving one valued position.
// @Summary     Get a position
// @Description One position with its valuation; fixed deposits and provident funds include accrual details
// @Tags        positions
// @Produce     json
// @Security    BearerAuth
// @Param       class path     string true "Asset class"
// @Param       id    path     string true "Position ID"
// @Success     200   {object} services.Holding "Valued holding"
// @Failure     401   {object} ErrorResponse "Unauthorized"
// @Failure     404   {object} ErrorResponse "Position not found"
// @Router      /positions/{class}/{id} [get]
func (h *PositionHandler) GetPosition(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.reportService.Holding(c.Request.Context(), ownerID, class, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// UpdatePosition handles editing descriptive fields of a position.
// @Summary     Update a position
// @Description Edit descriptive fields; quantities change only through lifecycle operations
// @Tags        positions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string               true "Asset class"
// @Param       id      path     string               true "Position ID"
// @Param       request body     services.UpdateInput true "Fields to update"
// @Success     200     {object} map[string]any "Updated position"
// @Failure     400     {object} ErrorResponse "Invalid input"
// @Failure     404     {object} ErrorResponse "Position not found"
// @Failure     409     {object} ErrorResponse "Concurrent modification"
// @Router      /positions/{class}/{id} [put]
func (h *PositionHandler) UpdatePosition(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	position, err := h.portfolioService.UpdatePosition(c.Request.Context(), ownerID, class, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditUpdatePosition, string(class), position.GetID(), c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"position": position})
}

// RemovePosition handles deleting a position and its ledger history.
// @Summary     Remove a position
// @Description Delete a position together with its ledger entries; refused while a stake is active
// @Tags        positions
// @Produce     json
// @Security    BearerAuth
// @Param       class path     string true "Asset class"
// @Param       id    path     string true "Position ID"
// @Success     200   {object} map[string]string "Position removed"
// @Failure     404   {object} ErrorResponse "Position not found"
// @Failure     409   {object} ErrorResponse "Position has an active stake"
// @Router      /positions/{class}/{id} [delete]
func (h *PositionHandler) RemovePosition(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	id := c.Param("id")
	if err := h.portfolioService.RemovePosition(c.Request.Context(), ownerID, class, id); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditRemovePosition, string(class), id, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Position removed"})
}

// Sell handles disposing part or all of a tradable position.
// @Summary     Sell a position
// @Description Dispose a quantity at a price; the price is looked up when omitted
// @Tags        positions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string             true "Asset class"
// @Param       id      path     string             true "Position ID"
// @Param       request body     services.SellInput true "Sale details"
// @Success     200     {object} map[string]models.LedgerEntry "Sell ledger entry"
// @Failure     400     {object} ErrorResponse "Invalid input, insufficient quantity or unsupported class"
// @Failure     404     {object} ErrorResponse "Position not found"
// @Failure     409     {object} ErrorResponse "Concurrent modification"
// @Router      /positions/{class}/{id}/sell [post]
func (h *PositionHandler) Sell(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.SellInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	entry, err := h.portfolioService.Sell(c.Request.Context(), ownerID, class, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditSellPosition, string(class), entry.PositionRef, c.ClientIP(),
		map[string]any{"quantity": entry.Quantity.String(), "amount": entry.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

// Mature handles closing a fixed deposit or provident fund.
// @Summary     Mature a position
// @Description Close a fixed deposit or provident fund; the amount is computed when omitted
// @Tags        positions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string               true "Asset class"
// @Param       id      path     string               true "Position ID"
// @Param       request body     services.MatureInput true "Maturity details"
// @Success     200     {object} map[string]models.LedgerEntry "Maturity ledger entry"
// @Failure     400     {object} ErrorResponse "Invalid input or unsupported class"
// @Failure     404     {object} ErrorResponse "Position not found"
// @Router      /positions/{class}/{id}/mature [post]
func (h *PositionHandler) Mature(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.MatureInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	entry, err := h.portfolioService.Mature(c.Request.Context(), ownerID, class, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditMaturePosition, string(class), entry.PositionRef, c.ClientIP(),
		map[string]any{"amount": entry.Amount.String()})

	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

// Contribute handles adding a contribution to a provident fund.
// @Summary     Contribute to a provident fund
// @Tags        positions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string                   true "Asset class (provident-fund)"
// @Param       id      path     string                   true "Position ID"
// @Param       request body     services.ContributeInput true "Contribution"
// @Success     201     {object} map[string]models.LedgerEntry "Contribution ledger entry"
// @Failure     400     {object} ErrorResponse "Invalid input or unsupported class"
// @Failure     404     {object} ErrorResponse "Position not found"
// @Router      /positions/{class}/{id}/contributions [post]
func (h *PositionHandler) Contribute(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := requireClass(class, models.AssetClassProvidentFund, "Contribution"); err != nil {
		respondWithError(c, err)
		return
	}

	var req services.ContributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	entry, err := h.portfolioService.Contribute(c.Request.Context(), ownerID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditContribute, string(class), entry.PositionRef, c.ClientIP(),
		map[string]any{"amount": entry.Amount.String()})

	c.JSON(http.StatusCreated, gin.H{"transaction": entry})
}

// Transfer handles moving a crypto lot between platforms or wallets.
// @Summary     Transfer a crypto lot
// @Tags        positions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string                 true "Asset class (crypto)"
// @Param       id      path     string                 true "Position ID"
// @Param       request body     services.TransferInput true "Destination and fee"
// @Success     200     {object} map[string]models.LedgerEntry "Transfer ledger entry"
// @Failure     400     {object} ErrorResponse "Invalid input or unsupported class"
// @Failure     404     {object} ErrorResponse "Position not found"
// @Router      /positions/{class}/{id}/transfer [post]
func (h *PositionHandler) Transfer(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if err := requireClass(class, models.AssetClassCrypto, "Transfer"); err != nil {
		respondWithError(c, err)
		return
	}

	var req services.TransferInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	entry, err := h.portfolioService.Transfer(c.Request.Context(), ownerID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditTransfer, string(class), entry.PositionRef, c.ClientIP(),
		map[string]any{"to_platform": req.ToPlatform, "to_wallet": req.ToWallet})

	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}

// Stake handles locking part of a crypto lot in a staking position.
// @Summary     Stake crypto
// @Tags        staking
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       class   path     string              true "Asset class (crypto)"
// @Param       id      path     string              true "Position ID"
// @Param       request body     services.StakeInput true "Stake details"
// @Success     201     {object} map[string]models.StakingPosition "Staking position"
// @Failure     400     {object} ErrorResponse "Invalid input, insufficient quantity or unsupported class"
// @Failure     404     {object} ErrorResponse "Position not found"
// @Router      /positions/{class}/{id}/stake [post]
func (h *PositionHandler) Stake(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	class, err := parseClass(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if class != models.AssetClassCrypto {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrUnsupportedOperation, "Only crypto positions can be staked"))
		return
	}

	var req services.StakeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	stake, err := h.stakingService.Stake(c.Request.Context(), ownerID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditStake, "staking_position", stake.ID, c.ClientIP(),
		map[string]any{"crypto_id": stake.CryptoID, "quantity": stake.StakedQuantity.String(), "platform": stake.Platform})

	c.JSON(http.StatusCreated, gin.H{"stake": stake})
}
