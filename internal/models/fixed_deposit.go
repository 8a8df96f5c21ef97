package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FixedDeposit is a term deposit accruing simple or compound interest.
type FixedDeposit struct {
	Holding
	BankName             string               `gorm:"not null" json:"bank_name"`
	AccountNumber        string               `json:"account_number,omitempty"`
	Principal            decimal.Decimal      `gorm:"type:numeric(30,10);not null" json:"principal"`
	NominalRate          decimal.Decimal      `gorm:"type:numeric(30,10);not null" json:"nominal_rate"`
	StartDate            time.Time            `gorm:"not null" json:"start_date"`
	MaturityDate         time.Time            `gorm:"not null;index" json:"maturity_date"`
	InterestType         InterestType         `gorm:"not null" json:"interest_type"`
	CompoundingFrequency CompoundingFrequency `json:"compounding_frequency,omitempty"`
}

// TableName pins the table name.
func (FixedDeposit) TableName() string { return "fixed_deposits" }

func (f *FixedDeposit) AssetClass() AssetClass { return AssetClassFixedDeposit }
func (f *FixedDeposit) LedgerSymbol() string { return f.BankName }
func (f *FixedDeposit) LedgerName() string { return f.BankName }
func (f *FixedDeposit) PriceIdentifier() string { return "" }
func (f *FixedDeposit) FreeQuantity() decimal.Decimal { return f.Principal }
func (f *FixedDeposit) SetFreeQuantity(q decimal.Decimal) { f.Principal = q }
func (f *FixedDeposit) QuantityColumn() string { return "principal" }
func (f *FixedDeposit) TotalHeld() decimal.Decimal { return f.Principal }
func (f *FixedDeposit) CostBasis() decimal.Decimal { return f.Principal }
