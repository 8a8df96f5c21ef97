package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProvidentFundTenureYears is the fixed account horizon.
const ProvidentFundTenureYears = 15

// ProvidentFund is a long-term contribution account compounding annually.
type ProvidentFund struct {
	Holding
	AccountNumber   string                      `gorm:"not null" json:"account_number"`
	BankName        string                      `gorm:"not null" json:"bank_name"`
	OpenDate        time.Time                   `gorm:"not null" json:"open_date"`
	MaturityDate    time.Time                   `gorm:"not null;index" json:"maturity_date"`
	CurrentRate     decimal.Decimal             `gorm:"type:numeric(30,10);not null" json:"current_rate"`
	TotalInvestment decimal.Decimal             `gorm:"type:numeric(30,10);not null" json:"total_investment"`
	Contributions   []ProvidentFundContribution `gorm:"foreignKey:FundID;constraint:OnDelete:CASCADE" json:"contributions"`
}

// TableName pins the table name.
func (ProvidentFund) TableName() string { return "provident_funds" }

func (p *ProvidentFund) AssetClass() AssetClass { return AssetClassProvidentFund }
func (p *ProvidentFund) LedgerSymbol() string { return p.AccountNumber }
func (p *ProvidentFund) LedgerName() string { return p.BankName }
func (p *ProvidentFund) PriceIdentifier() string { return "" }
func (p *ProvidentFund) FreeQuantity() decimal.Decimal { return p.TotalInvestment }
func (p *ProvidentFund) SetFreeQuantity(q decimal.Decimal) { p.TotalInvestment = q }
func (p *ProvidentFund) QuantityColumn() string { return "total_investment" }
func (p *ProvidentFund) TotalHeld() decimal.Decimal { return p.TotalInvestment }
func (p *ProvidentFund) CostBasis() decimal.Decimal { return p.TotalInvestment }

// ProvidentFundContribution is one deposit into a provident fund account.
type ProvidentFundContribution struct {
	Base
	FundID        string          `gorm:"type:uuid;not null;index" json:"fund_id"`
	Year          int             `gorm:"not null" json:"year"`
	Amount        decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"amount"`
	ContributedAt time.Time       `gorm:"not null" json:"contributed_at"`
}
