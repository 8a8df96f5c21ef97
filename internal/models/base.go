package models

import (
	"time"

	"nidhi/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base contains common columns for all tables. Rows are hard-deleted; closed
// positions live on only through their ledger entries.
type Base struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	return nil
}

// Holding carries the columns shared by every position table.
type Holding struct {
	Base
	OwnerID string `gorm:"type:uuid;not null;index" json:"owner_id"`
	// Version is bumped on every mutation and used as the compare-and-swap
	// precondition for quantity changes.
	Version int64  `gorm:"not null;default:1" json:"version"`
	Notes   string `json:"notes,omitempty"`
}

// GetID returns the position id.
func (h *Holding) GetID() string { return h.ID }

// GetOwnerID returns the owning user's id.
func (h *Holding) GetOwnerID() string { return h.OwnerID }

// GetVersion returns the optimistic-lock version.
func (h *Holding) GetVersion() int64 { return h.Version }

// SetVersion records the version written by the store.
func (h *Holding) SetVersion(v int64) { h.Version = v }

// BeforeCreate assigns the id and starts the version counter.
func (h *Holding) BeforeCreate(tx *gorm.DB) error {
	if h.Version == 0 {
		h.Version = 1
	}
	return h.Base.BeforeCreate(tx)
}

var hundred = decimal.NewFromInt(100)

// Percent returns part/whole*100 rounded to two places, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}
