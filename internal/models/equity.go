package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Equity is a listed stock or ETF holding.
type Equity struct {
	Holding
	Symbol     string          `gorm:"not null;index" json:"symbol"`
	Name       string          `json:"name"`
	Exchange   string          `json:"exchange,omitempty"`
	Sector     string          `json:"sector,omitempty"`
	Quantity   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"quantity"`
	UnitCost   decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"unit_cost"`
	AcquiredAt time.Time       `gorm:"not null" json:"acquired_at"`
}

// TableName pins the table name.
func (Equity) TableName() string { return "equities" }

func (e *Equity) AssetClass() AssetClass { return AssetClassEquity }
func (e *Equity) LedgerSymbol() string { return e.Symbol }
func (e *Equity) LedgerName() string { return e.Name }

// PriceIdentifier is "EXCHANGE:SYMBOL" when the exchange is known.
func (e *Equity) PriceIdentifier() string {
	if e.Exchange == "" {
		return e.Symbol
	}
	return e.Exchange + ":" + e.Symbol
}

func (e *Equity) FreeQuantity() decimal.Decimal { return e.Quantity }
func (e *Equity) SetFreeQuantity(q decimal.Decimal) { e.Quantity = q }
func (e *Equity) QuantityColumn() string { return "quantity" }
func (e *Equity) TotalHeld() decimal.Decimal { return e.Quantity }
func (e *Equity) CostBasis() decimal.Decimal { return e.Quantity.Mul(e.UnitCost) }
