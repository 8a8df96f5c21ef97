package models

import "github.com/shopspring/decimal"

// Position is an open holding of one asset class for one owner. Every
// position table implements it so the store and reports can treat the seven
// classes uniformly.
type Position interface {
	GetID() string
	GetOwnerID() string
	GetVersion() int64
	SetVersion(v int64)

	AssetClass() AssetClass
	// LedgerSymbol is the grouping key written on ledger entries.
	LedgerSymbol() string
	LedgerName() string
	// PriceIdentifier is the key handed to the price oracle; empty when the
	// class is valued without a market price.
	PriceIdentifier() string

	// FreeQuantity is the amount a disposal may draw from.
	FreeQuantity() decimal.Decimal
	SetFreeQuantity(q decimal.Decimal)
	// QuantityColumn names the column holding FreeQuantity, empty when the
	// position is indivisible.
	QuantityColumn() string
	// TotalHeld must stay positive while the position is open.
	TotalHeld() decimal.Decimal

	CostBasis() decimal.Decimal
}

// NewPosition returns an empty, addressable model for the class.
func NewPosition(class AssetClass) (Position, bool) {
	switch class {
	case AssetClassEquity:
		return &Equity{}, true
	case AssetClassGold:
		return &Gold{}, true
	case AssetClassMutualFund:
		return &MutualFund{}, true
	case AssetClassRealEstate:
		return &RealEstate{}, true
	case AssetClassFixedDeposit:
		return &FixedDeposit{}, true
	case AssetClassProvidentFund:
		return &ProvidentFund{}, true
	case AssetClassCrypto:
		return &Crypto{}, true
	}
	return nil, false
}

// UnitCost returns the average cost per unit of FreeQuantity.
func UnitCost(p Position) decimal.Decimal {
	held := p.TotalHeld()
	if held.IsZero() {
		return decimal.Zero
	}
	return p.CostBasis().Div(held)
}

// All returns every gorm model for AutoMigrate.
func All() []any {
	return []any{
		&Equity{},
		&Gold{},
		&MutualFund{},
		&RealEstate{},
		&FixedDeposit{},
		&ProvidentFund{},
		&ProvidentFundContribution{},
		&Crypto{},
		&StakingPosition{},
		&LedgerEntry{},
		&PortfolioSnapshot{},
		&AuditLog{},
	}
}
