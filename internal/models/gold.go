package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// GoldPriceIdentifier is the oracle key for the per-gram gold rate.
const GoldPriceIdentifier = "gold"

// Gold is a physical or paper gold holding measured in grams.
type Gold struct {
	Holding
	Form        GoldForm        `gorm:"not null" json:"form"`
	Purity      string          `gorm:"not null" json:"purity"`
	Grams       decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"grams"`
	UnitCost    decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"unit_cost"`
	AcquiredAt  time.Time       `gorm:"not null" json:"acquired_at"`
	Description string          `json:"description,omitempty"`
}

// TableName pins the table name.
func (Gold) TableName() string { return "gold_holdings" }

func (g *Gold) AssetClass() AssetClass { return AssetClassGold }

// LedgerSymbol groups gold entries by form and purity, e.g. "coin 24K".
func (g *Gold) LedgerSymbol() string { return fmt.Sprintf("%s %s", g.Form, g.Purity) }
func (g *Gold) LedgerName() string { return fmt.Sprintf("Gold %s (%s)", g.Form, g.Purity) }

func (g *Gold) PriceIdentifier() string { return GoldPriceIdentifier }
func (g *Gold) FreeQuantity() decimal.Decimal { return g.Grams }
func (g *Gold) SetFreeQuantity(q decimal.Decimal) { g.Grams = q }
func (g *Gold) QuantityColumn() string { return "grams" }
func (g *Gold) TotalHeld() decimal.Decimal { return g.Grams }
func (g *Gold) CostBasis() decimal.Decimal { return g.Grams.Mul(g.UnitCost) }
