package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MutualFund is a holding of units in a scheme identified by its AMFI code.
// InvestmentAmount is the cost basis of the units still held.
type MutualFund struct {
	Holding
	SchemeCode       string          `gorm:"not null;index" json:"scheme_code"`
	SchemeName       string          `gorm:"not null" json:"scheme_name"`
	Units            decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"units"`
	InvestmentAmount decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"investment_amount"`
	PurchaseNAV      decimal.Decimal `gorm:"column:purchase_nav;type:numeric(30,10);not null" json:"purchase_nav"`
	PurchaseDate     time.Time       `gorm:"not null" json:"purchase_date"`
}

// TableName pins the table name.
func (MutualFund) TableName() string { return "mutual_funds" }

func (m *MutualFund) AssetClass() AssetClass { return AssetClassMutualFund }
func (m *MutualFund) LedgerSymbol() string { return m.SchemeCode }
func (m *MutualFund) LedgerName() string { return m.SchemeName }
func (m *MutualFund) PriceIdentifier() string { return m.SchemeCode }
func (m *MutualFund) FreeQuantity() decimal.Decimal { return m.Units }
func (m *MutualFund) SetFreeQuantity(q decimal.Decimal) { m.Units = q }
func (m *MutualFund) QuantityColumn() string { return "units" }
func (m *MutualFund) TotalHeld() decimal.Decimal { return m.Units }
func (m *MutualFund) CostBasis() decimal.Decimal { return m.InvestmentAmount }
