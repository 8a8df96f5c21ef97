package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RealEstate is an indivisible property holding.
type RealEstate struct {
	Holding
	PropertyName     string          `gorm:"not null" json:"property_name"`
	PropertyType     PropertyType    `gorm:"not null" json:"property_type"`
	Location         string          `json:"location,omitempty"`
	Area             decimal.Decimal `gorm:"type:numeric(30,10)" json:"area"`
	PurchasePrice    decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"purchase_price"`
	CurrentValuation decimal.Decimal `gorm:"type:numeric(30,10)" json:"current_valuation"`
	PurchaseDate     time.Time       `gorm:"not null" json:"purchase_date"`
}

// TableName pins the table name.
func (RealEstate) TableName() string { return "real_estates" }

func (r *RealEstate) AssetClass() AssetClass { return AssetClassRealEstate }
func (r *RealEstate) LedgerSymbol() string { return r.PropertyName }
func (r *RealEstate) LedgerName() string { return r.PropertyName }
func (r *RealEstate) PriceIdentifier() string { return "" }

// FreeQuantity is always one property.
func (r *RealEstate) FreeQuantity() decimal.Decimal { return decimal.NewFromInt(1) }
func (r *RealEstate) SetFreeQuantity(decimal.Decimal) {}
func (r *RealEstate) QuantityColumn() string { return "" }
func (r *RealEstate) TotalHeld() decimal.Decimal { return r.PurchasePrice }
func (r *RealEstate) CostBasis() decimal.Decimal { return r.PurchasePrice }

// Valuation is the latest appraisal, falling back to the purchase price.
func (r *RealEstate) Valuation() decimal.Decimal {
	if r.CurrentValuation.IsPositive() {
		return r.CurrentValuation
	}
	return r.PurchasePrice
}
