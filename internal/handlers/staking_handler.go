package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/services"
)

// StakingHandler handles staking listing and release.
type StakingHandler struct {
	stakingService services.StakingServicer
	auditService   services.AuditServicer
}

// NewStakingHandler creates a new StakingHandler.
func NewStakingHandler(stakingService services.StakingServicer, auditService services.AuditServicer) *StakingHandler {
	return &StakingHandler{stakingService: stakingService, auditService: auditService}
}

// ListStakes handles listing the owner's staking positions.
// @Summary     List stakes
// @Description Staking positions, newest first, with days remaining in the lockup
// @Tags        staking
// @Produce     json
// @Security    BearerAuth
// @Param       active query    bool false "Only active (true) or only ended (false) stakes"
// @Success     200    {object} map[string][]services.StakeView "Stakes"
// @Failure     400    {object} ErrorResponse "Invalid input"
// @Failure     401    {object} ErrorResponse "Unauthorized"
// @Router      /stakes [get]
func (h *StakingHandler) ListStakes(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var active *bool
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "active must be true or false"))
			return
		}
		active = &b
	}

	stakes, err := h.stakingService.ListStakes(c.Request.Context(), ownerID, active)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stakes": stakes})
}

// Unstake handles releasing a staking position.
// @Summary     Unstake
// @Description Return the staked quantity to its lot and book rewards as a new zero-cost lot
// @Tags        staking
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path     string                true "Stake ID"
// @Param       request body     services.UnstakeInput true "Rewards and date"
// @Success     200     {object} services.UnstakeResult "Unstake result"
// @Failure     400     {object} ErrorResponse "Invalid input or stake not active"
// @Failure     404     {object} ErrorResponse "Stake not found"
// @Router      /stakes/{id}/unstake [post]
func (h *StakingHandler) Unstake(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req services.UnstakeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.stakingService.Unstake(c.Request.Context(), ownerID, c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditUnstake, "staking_position", result.Stake.ID, c.ClientIP(),
		map[string]any{"actual_rewards": result.Stake.ActualRewards.String()})

	c.JSON(http.StatusOK, result)
}
