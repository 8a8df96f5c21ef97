package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Crypto is a lot of one coin held on a platform or wallet. Quantity is the
// free amount; StakedQuantity is locked by active staking positions.
type Crypto struct {
	Holding
	CoinID         string          `gorm:"not null;index" json:"coin_id"`
	Symbol         string          `gorm:"not null" json:"symbol"`
	Name           string          `json:"name"`
	Quantity       decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"quantity"`
	StakedQuantity decimal.Decimal `gorm:"type:numeric(30,10);not null;default:0" json:"staked_quantity"`
	UnitCost       decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"unit_cost"`
	AcquiredAt     time.Time       `gorm:"not null" json:"acquired_at"`
	Platform       string          `json:"platform,omitempty"`
	WalletAddress  string          `json:"wallet_address,omitempty"`
}

// TableName pins the table name.
func (Crypto) TableName() string { return "crypto_holdings" }

func (c *Crypto) AssetClass() AssetClass { return AssetClassCrypto }
func (c *Crypto) LedgerSymbol() string { return strings.ToUpper(c.Symbol) }
func (c *Crypto) LedgerName() string { return c.Name }
func (c *Crypto) PriceIdentifier() string { return c.CoinID }
func (c *Crypto) FreeQuantity() decimal.Decimal { return c.Quantity }
func (c *Crypto) SetFreeQuantity(q decimal.Decimal) { c.Quantity = q }
func (c *Crypto) QuantityColumn() string { return "quantity" }
func (c *Crypto) TotalHeld() decimal.Decimal { return c.Quantity.Add(c.StakedQuantity) }
func (c *Crypto) CostBasis() decimal.Decimal { return c.TotalHeld().Mul(c.UnitCost) }
