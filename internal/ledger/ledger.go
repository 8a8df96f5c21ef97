// Package ledger is the append-only log of position lifecycle events.
package ledger

import (
	"errors"
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/pagination"
	"nidhi/internal/uuid"

	"gorm.io/gorm"
)

// dateColumns are the envelope dates a range filter treats as alternatives.
var dateColumns = []string{"buy_date", "sell_date", "invest_date", "maturity_date", "event_date"}

// Filter narrows a ledger query. Zero values mean "any".
type Filter struct {
	OwnerID     string
	Class       models.AssetClass
	Kinds       []models.EntryKind
	Symbol      string
	PositionRef string
	// From and To bound whichever date the entry carries, inclusive.
	From *time.Time
	To   *time.Time
}

// YearRange returns the inclusive bounds of a calendar year in UTC.
func YearRange(year int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to = from.AddDate(1, 0, 0).Add(-time.Nanosecond)
	return from, to
}

// Ledger reads and appends ledger entries.
type Ledger struct {
	db *gorm.DB
}

// New creates a new Ledger.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a ledger bound to tx.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// Record appends one entry. Envelope invariants are checked before the insert.
func (l *Ledger) Record(entry *models.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if err := l.db.Create(entry).Error; err != nil {
		if _, ok := apperrors.As(err); ok {
			return err
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Get returns one of ownerID's entries.
func (l *Ledger) Get(ownerID, id string) (*models.LedgerEntry, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrTransactionNotFound
	}
	var entry models.LedgerEntry
	if err := l.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &entry, nil
}

// Query returns a page of matching entries, newest event first.
func (l *Ledger) Query(f Filter, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error) {
	result, err := pagination.Fetch[models.LedgerEntry](l.db, f.scope, "event_date DESC, id DESC", page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// All returns every matching entry in insertion order.
func (l *Ledger) All(f Filter) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := l.db.Scopes(f.scope).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}

// PurgePosition deletes every entry of one position. It is only used when a
// position is explicitly removed; disposals never purge history.
func (l *Ledger) PurgePosition(ownerID, positionRef string) (int64, error) {
	res := l.db.Where("owner_id = ? AND position_ref = ?", ownerID, positionRef).Delete(&models.LedgerEntry{})
	if res.Error != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	return res.RowsAffected, nil
}

func (f Filter) scope(db *gorm.DB) *gorm.DB {
	db = db.Where("owner_id = ?", f.OwnerID)
	if f.Class != "" {
		db = db.Where("asset_class = ?", f.Class)
	}
	if len(f.Kinds) > 0 {
		db = db.Where("kind IN ?", f.Kinds)
	}
	if f.Symbol != "" {
		db = db.Where("symbol = ?", f.Symbol)
	}
	if f.PositionRef != "" {
		db = db.Where("position_ref = ?", f.PositionRef)
	}
	if f.From == nil && f.To == nil {
		return db
	}

	var anyDate *gorm.DB
	for _, col := range dateColumns {
		cond := pagination.Between(col, f.From, f.To)(db.Session(&gorm.Session{NewDB: true}))
		if anyDate == nil {
			anyDate = cond
		} else {
			anyDate = anyDate.Or(cond)
		}
	}
	return db.Where(anyDate)
}
