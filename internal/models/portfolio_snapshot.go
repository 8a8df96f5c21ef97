package models

import (
	"time"

	"nidhi/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PortfolioSnapshot is a point-in-time copy of an owner's portfolio totals.
// Snapshots are immutable time-series rows.
type PortfolioSnapshot struct {
	ID             string          `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID        string          `gorm:"type:uuid;not null;index:idx_snapshot_owner_recorded,priority:1" json:"owner_id"`
	RecordedAt     time.Time       `gorm:"not null;index:idx_snapshot_owner_recorded,priority:2" json:"recorded_at"`
	Currency       string          `gorm:"not null" json:"currency"`
	TotalInvested  decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"total_invested"`
	TotalValue     decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"total_value"`
	RealizedProfit decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"realized_profit"`
	PositionCount  int             `gorm:"not null" json:"position_count"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PortfolioSnapshot) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
