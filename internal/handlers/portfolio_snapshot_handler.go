package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/pagination"
	"nidhi/internal/models"
	"nidhi/internal/services"
)

// PortfolioSnapshotHandler handles portfolio snapshot requests.
type PortfolioSnapshotHandler struct {
	snapshotService services.PortfolioSnapshotServicer
	auditService    services.AuditServicer
}

// NewPortfolioSnapshotHandler creates a new PortfolioSnapshotHandler.
func NewPortfolioSnapshotHandler(snapshotService services.PortfolioSnapshotServicer, auditService services.AuditServicer) *PortfolioSnapshotHandler {
	return &PortfolioSnapshotHandler{snapshotService: snapshotService, auditService: auditService}
}

// ComputeSnapshotsRequest represents the request payload for computing snapshots.
type ComputeSnapshotsRequest struct {
	RecordedAt time.Time `json:"recorded_at" binding:"required"`
}

// ComputeSnapshots handles computing and recording portfolio snapshots.
// @Summary     Compute portfolio snapshots
// @Description Compute and record portfolio snapshots for all owners (pipeline endpoint)
// @Tags        pipeline
// @Accept      json
// @Produce     json
// @Param       X-API-Key  header   string                   true "Pipeline API key"
// @Param       request    body     ComputeSnapshotsRequest  true "Snapshot parameters"
// @Success     200        {object} map[string]int           "Snapshots recorded count"
// @Failure     400        {object} ErrorResponse            "Invalid input"
// @Failure     401        {object} ErrorResponse            "Invalid API key"
// @Failure     503        {object} ErrorResponse            "Pipeline not configured"
// @Router      /pipeline/snapshots [post]
func (h *PortfolioSnapshotHandler) ComputeSnapshots(c *gin.Context) {
	var req ComputeSnapshotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	count, err := h.snapshotService.ComputeAndRecordSnapshots(c.Request.Context(), req.RecordedAt)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"snapshots_recorded": count})
}

// RecordSnapshot handles recording a snapshot of the caller's portfolio now.
// @Summary     Record a portfolio snapshot
// @Tags        portfolio
// @Produce     json
// @Security    BearerAuth
// @Success     201 {object} map[string]models.PortfolioSnapshot "Recorded snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/snapshots [post]
func (h *PortfolioSnapshotHandler) RecordSnapshot(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.snapshotService.RecordSnapshot(c.Request.Context(), ownerID, time.Now().UTC().Truncate(time.Second))
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(ownerID, models.AuditRecordSnapshot, "portfolio_snapshot", snapshot.ID, c.ClientIP(), nil)

	c.JSON(http.StatusCreated, gin.H{"snapshot": snapshot})
}

// GetSnapshots handles retrieving portfolio snapshots for the authenticated owner.
// @Summary     Get portfolio snapshots
// @Description Get paginated portfolio snapshots for a date range
// @Tags        portfolio
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       from_date query string true  "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date   query string true  "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.PortfolioSnapshot] "Paginated snapshots"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /portfolio/snapshots [get]
func (h *PortfolioSnapshotHandler) GetSnapshots(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	from, err := optionalTimeQuery(c, "from_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	to, err := optionalTimeQuery(c, "to_date")
	if err != nil {
		respondWithError(c, err)
		return
	}
	if from == nil || to == nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "from_date and to_date are required"))
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.snapshotService.GetSnapshots(ownerID, *from, *to, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
