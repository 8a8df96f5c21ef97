package services

import (
	"nidhi/internal/ledger"
	"nidhi/internal/models"
	"nidhi/internal/pagination"

	"gorm.io/gorm"
)

// transactionService exposes the ledger read side.
type transactionService struct {
	ledger *ledger.Ledger
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{ledger: ledger.New(db)}
}

// ListTransactions returns the owner's ledger entries, newest first.
func (s *transactionService) ListTransactions(ownerID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error) {
	f := ledger.Filter{
		OwnerID: ownerID,
		Class:   filter.Class,
		Symbol:  filter.Symbol,
		From:    filter.From,
		To:      filter.To,
	}
	if filter.Kind != "" {
		f.Kinds = []models.EntryKind{filter.Kind}
	}
	return s.ledger.Query(f, page)
}

// GetTransaction returns one ledger entry owned by ownerID.
func (s *transactionService) GetTransaction(ownerID, id string) (*models.LedgerEntry, error) {
	return s.ledger.Get(ownerID, id)
}
