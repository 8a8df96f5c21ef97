// Package store persists open positions. Every quantity change is a
// compare-and-swap on the row version, and a position whose holding would
// reach zero must be closed rather than written.
package store

import (
	"errors"
	"fmt"
	"slices"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioRepository is the position persistence contract used by the
// lifecycle and reporting services.
type PortfolioRepository interface {
	WithTx(tx *gorm.DB) PortfolioRepository
	Open(p models.Position) error
	Get(ownerID string, class models.AssetClass, id string) (models.Position, error)
	List(ownerID string, class models.AssetClass) ([]models.Position, error)
	ListOpenPositions(ownerID string) ([]models.Position, error)
	AdjustQuantity(p models.Position, delta decimal.Decimal, alsoColumns ...string) error
	Update(p models.Position, columns ...string) error
	Close(p models.Position) error
}

// PositionStore is the gorm-backed PortfolioRepository.
type PositionStore struct {
	db *gorm.DB
}

var _ PortfolioRepository = (*PositionStore)(nil)

// NewPositionStore creates a new PositionStore.
func NewPositionStore(db *gorm.DB) *PositionStore {
	return &PositionStore{db: db}
}

// WithTx returns a store bound to tx.
func (s *PositionStore) WithTx(tx *gorm.DB) PortfolioRepository {
	return &PositionStore{db: tx}
}

// Open inserts a new position. The holding must be positive.
func (s *PositionStore) Open(p models.Position) error {
	if !p.TotalHeld().IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Quantity must be greater than zero")
	}
	if err := s.db.Create(p).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Get loads a position owned by ownerID. A position owned by someone else is
// reported as not found.
func (s *PositionStore) Get(ownerID string, class models.AssetClass, id string) (models.Position, error) {
	p, ok := models.NewPosition(class)
	if !ok {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset class")
	}
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrPositionNotFound
	}

	q := s.db
	if class == models.AssetClassProvidentFund {
		q = q.Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC, id ASC")
		})
	}
	if err := q.Where("id = ? AND owner_id = ?", id, ownerID).First(p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPositionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return p, nil
}

// List returns ownerID's open positions of one class in creation order.
func (s *PositionStore) List(ownerID string, class models.AssetClass) ([]models.Position, error) {
	var (
		out []models.Position
		err error
	)
	switch class {
	case models.AssetClassEquity:
		out, err = listOf[models.Equity](s.db, ownerID)
	case models.AssetClassGold:
		out, err = listOf[models.Gold](s.db, ownerID)
	case models.AssetClassMutualFund:
		out, err = listOf[models.MutualFund](s.db, ownerID)
	case models.AssetClassRealEstate:
		out, err = listOf[models.RealEstate](s.db, ownerID)
	case models.AssetClassFixedDeposit:
		out, err = listOf[models.FixedDeposit](s.db, ownerID)
	case models.AssetClassProvidentFund:
		out, err = listOf[models.ProvidentFund](s.db.Preload("Contributions", func(db *gorm.DB) *gorm.DB {
			return db.Order("year ASC, id ASC")
		}), ownerID)
	case models.AssetClassCrypto:
		out, err = listOf[models.Crypto](s.db, ownerID)
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset class")
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return out, nil
}

// ListOpenPositions returns every open position of ownerID across all
// classes, grouped in models.AssetClasses order.
func (s *PositionStore) ListOpenPositions(ownerID string) ([]models.Position, error) {
	var all []models.Position
	for _, class := range models.AssetClasses {
		ps, err := s.List(ownerID, class)
		if err != nil {
			return nil, err
		}
		all = append(all, ps...)
	}
	return all, nil
}

// AdjustQuantity adds delta to the position's free quantity and writes it,
// together with any alsoColumns the caller changed in memory, guarded by the
// version read with the position. A disposal that exceeds the free quantity
// fails with ErrInsufficientQuantity; one that empties the holding fails with
// ErrInvariantViolation because the caller must Close instead.
func (s *PositionStore) AdjustQuantity(p models.Position, delta decimal.Decimal, alsoColumns ...string) error {
	col := p.QuantityColumn()
	if col == "" {
		return apperrors.WithMessage(apperrors.ErrUnsupportedOperation, "Position has no divisible quantity")
	}
	next := p.FreeQuantity().Add(delta)
	if next.IsNegative() {
		return apperrors.ErrInsufficientQuantity
	}

	prev := p.FreeQuantity()
	p.SetFreeQuantity(next)
	if err := s.save(p, append([]string{col}, alsoColumns...)); err != nil {
		p.SetFreeQuantity(prev)
		return err
	}
	return nil
}

// Update writes the named columns of p under the version guard.
func (s *PositionStore) Update(p models.Position, columns ...string) error {
	if len(columns) == 0 {
		return nil
	}
	return s.save(p, columns)
}

func (s *PositionStore) save(p models.Position, columns []string) error {
	if !p.TotalHeld().IsPositive() {
		return apperrors.Wrap(apperrors.ErrInvariantViolation,
			fmt.Errorf("%s position %s would be left with holding %s", p.AssetClass(), p.GetID(), p.TotalHeld()))
	}

	prev := p.GetVersion()
	p.SetVersion(prev + 1)
	res := s.db.Model(p).
		Select(append(slices.Clone(columns), "version")).
		Where("owner_id = ? AND version = ?", p.GetOwnerID(), prev).
		Updates(p)
	if res.Error != nil {
		p.SetVersion(prev)
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		p.SetVersion(prev)
		return apperrors.ErrConcurrentModification
	}
	return nil
}

// Close hard-deletes the position and, for provident funds, its
// contributions. Ledger entries are untouched.
func (s *PositionStore) Close(p models.Position) error {
	if p.AssetClass() == models.AssetClassProvidentFund {
		if err := s.db.Where("fund_id = ?", p.GetID()).Delete(&models.ProvidentFundContribution{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	res := s.db.Where("owner_id = ? AND version = ?", p.GetOwnerID(), p.GetVersion()).Delete(p)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrConcurrentModification
	}
	return nil
}

// listOf loads every row of T for ownerID; UUIDv7 ids keep creation order.
func listOf[T any, PT interface {
	*T
	models.Position
}](db *gorm.DB, ownerID string) ([]models.Position, error) {
	var rows []T
	if err := db.Where("owner_id = ?", ownerID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]models.Position, len(rows))
	for i := range rows {
		out[i] = PT(&rows[i])
	}
	return out, nil
}
