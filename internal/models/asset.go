package models

import "strings"

// AssetClass identifies which position table a holding lives in.
type AssetClass string

const (
	AssetClassEquity        AssetClass = "equity"
	AssetClassGold          AssetClass = "gold"
	AssetClassMutualFund    AssetClass = "mutualFund"
	AssetClassRealEstate    AssetClass = "realEstate"
	AssetClassFixedDeposit  AssetClass = "fixedDeposit"
	AssetClassProvidentFund AssetClass = "providentFund"
	AssetClassCrypto        AssetClass = "crypto"
)

// AssetClasses lists every class in reporting order.
var AssetClasses = []AssetClass{
	AssetClassEquity,
	AssetClassGold,
	AssetClassMutualFund,
	AssetClassRealEstate,
	AssetClassFixedDeposit,
	AssetClassProvidentFund,
	AssetClassCrypto,
}

var assetClassSlugs = map[string]AssetClass{
	"equity":         AssetClassEquity,
	"equities":       AssetClassEquity,
	"stock":          AssetClassEquity,
	"stocks":         AssetClassEquity,
	"gold":           AssetClassGold,
	"mutual-fund":    AssetClassMutualFund,
	"mutual-funds":   AssetClassMutualFund,
	"mutualfund":     AssetClassMutualFund,
	"real-estate":    AssetClassRealEstate,
	"realestate":     AssetClassRealEstate,
	"fixed-deposit":  AssetClassFixedDeposit,
	"fixed-deposits": AssetClassFixedDeposit,
	"fixeddeposit":   AssetClassFixedDeposit,
	"fd":             AssetClassFixedDeposit,
	"provident-fund": AssetClassProvidentFund,
	"providentfund":  AssetClassProvidentFund,
	"ppf":            AssetClassProvidentFund,
	"crypto":         AssetClassCrypto,
}

// ParseAssetClass accepts either the canonical class name or its URL slug.
func ParseAssetClass(s string) (AssetClass, bool) {
	c, ok := assetClassSlugs[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// Slug returns the URL form of the class.
func (c AssetClass) Slug() string {
	switch c {
	case AssetClassMutualFund:
		return "mutual-fund"
	case AssetClassRealEstate:
		return "real-estate"
	case AssetClassFixedDeposit:
		return "fixed-deposit"
	case AssetClassProvidentFund:
		return "provident-fund"
	default:
		return string(c)
	}
}

// IsValid reports whether c is a known class.
func (c AssetClass) IsValid() bool {
	for _, v := range AssetClasses {
		if v == c {
			return true
		}
	}
	return false
}

// Tradable reports whether positions of this class are disposed by selling
// a quantity at a price.
func (c AssetClass) Tradable() bool {
	switch c {
	case AssetClassEquity, AssetClassGold, AssetClassMutualFund, AssetClassCrypto, AssetClassRealEstate:
		return true
	default:
		return false
	}
}

// Maturing reports whether positions of this class close through maturity.
func (c AssetClass) Maturing() bool {
	return c == AssetClassFixedDeposit || c == AssetClassProvidentFund
}

// InterestType selects the fixed-deposit accrual model.
type InterestType string

const (
	InterestSimple   InterestType = "simple"
	InterestCompound InterestType = "compound"
)

// CompoundingFrequency is how often compound interest is credited.
type CompoundingFrequency string

const (
	CompoundingQuarterly  CompoundingFrequency = "quarterly"
	CompoundingSemiannual CompoundingFrequency = "semiannual"
	CompoundingAnnual     CompoundingFrequency = "annual"
)

// PeriodsPerYear returns n for the compound-interest formula. Unknown values
// compound quarterly.
func (f CompoundingFrequency) PeriodsPerYear() int {
	switch f {
	case CompoundingAnnual:
		return 1
	case CompoundingSemiannual:
		return 2
	default:
		return 4
	}
}

// ParseCompoundingFrequency also accepts the "half-yearly"/"yearly" spellings.
func ParseCompoundingFrequency(s string) (CompoundingFrequency, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "quarterly":
		return CompoundingQuarterly, true
	case "semiannual", "semi-annual", "half-yearly", "halfyearly":
		return CompoundingSemiannual, true
	case "annual", "yearly":
		return CompoundingAnnual, true
	}
	return "", false
}

// GoldForm is the physical form of a gold holding.
type GoldForm string

const (
	GoldCoin    GoldForm = "coin"
	GoldBar     GoldForm = "bar"
	GoldJewelry GoldForm = "jewelry"
	GoldETF     GoldForm = "etf"
	GoldOther   GoldForm = "other"
)

// PropertyType classifies a real-estate holding.
type PropertyType string

const (
	PropertyResidential PropertyType = "residential"
	PropertyCommercial  PropertyType = "commercial"
	PropertyLand        PropertyType = "land"
	PropertyOther       PropertyType = "other"
)
