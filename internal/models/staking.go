package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StakingPosition locks part of a crypto lot on a platform for a lockup period.
// CryptoID is a weak reference used for value lookups only.
type StakingPosition struct {
	Base
	OwnerID          string          `gorm:"type:uuid;not null;index" json:"owner_id"`
	CryptoID         string          `gorm:"type:uuid;not null;index" json:"crypto_id"`
	CoinID           string          `gorm:"not null" json:"coin_id"`
	Symbol           string          `gorm:"not null" json:"symbol"`
	StakedQuantity   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"staked_quantity"`
	Platform         string          `gorm:"not null" json:"platform"`
	StartDate        time.Time       `gorm:"not null" json:"start_date"`
	LockupDays       int             `gorm:"not null" json:"lockup_days"`
	EstimatedAPY     decimal.Decimal `gorm:"column:estimated_apy;type:numeric(30,10);not null" json:"estimated_apy"`
	EstimatedRewards decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"estimated_rewards"`
	IsActive         bool            `gorm:"not null;index" json:"is_active"`
	EndDate          *time.Time      `json:"end_date,omitempty"`
	ActualRewards    decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"actual_rewards"`
	RewardLotID      *string         `gorm:"type:uuid" json:"reward_lot_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
}

// LockupEndsAt returns the end of the lockup period.
func (s *StakingPosition) LockupEndsAt() time.Time {
	return s.StartDate.AddDate(0, 0, s.LockupDays)
}
