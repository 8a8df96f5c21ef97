package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nidhi/internal/models"
	"nidhi/internal/pagination"
	"nidhi/internal/services"
)

// TransactionHandler handles ledger read requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// TransactionQuery holds the ledger listing filters.
type TransactionQuery struct {
	pagination.PageRequest
	AssetClass string `form:"asset_class" binding:"omitempty,asset_class"`
	Kind       string `form:"kind" binding:"omitempty,entry_kind"`
	Symbol     string `form:"symbol" binding:"omitempty,max=300"`
}

// ListTransactions handles listing ledger entries.
// @Summary     List transactions
// @Description Ledger entries, newest first. The date range matches any of the entry's dates.
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       asset_class query    string false "Asset class"
// @Param       kind        query    string false "Entry kind (buy, sell, deposit, mature, premature-withdrawal, invest, contribute, stake, unstake, transfer)"
// @Param       symbol      query    string false "Symbol"
// @Param       from_date   query    string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to_date     query    string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       page        query    int    false "Page number (default 1)"
// @Param       page_size   query    int    false "Items per page (default 20, max 100)"
// @Success     200         {object} pagination.PageResponse[models.LedgerEntry] "Paginated transactions"
// @Failure     400         {object} ErrorResponse "Invalid input"
// @Failure     401         {object} ErrorResponse "Unauthorized"
// @Router      /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var q TransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidInput(c, err)
		return
	}

	filter := services.TransactionFilter{
		Kind:   models.EntryKind(q.Kind),
		Symbol: strings.TrimSpace(q.Symbol),
	}
	if q.AssetClass != "" {
		filter.Class, _ = models.ParseAssetClass(q.AssetClass)
	}
	if filter.From, err = optionalTimeQuery(c, "from_date"); err != nil {
		respondWithError(c, err)
		return
	}
	if filter.To, err = optionalTimeQuery(c, "to_date"); err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.ListTransactions(ownerID, filter, q.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetTransaction handles retrieving one ledger entry.
// @Summary     Get a transaction
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id  path     string true "Transaction ID"
// @Success     200 {object} map[string]models.LedgerEntry "Transaction"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction not found"
// @Router      /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	ownerID, err := getOwnerID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.transactionService.GetTransaction(ownerID, c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": entry})
}
