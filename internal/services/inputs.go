package services

import (
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

// OpenInput describes a new position. Each asset class has its own input
// type; handlers bind the JSON body straight into it.
type OpenInput interface {
	AssetClass() models.AssetClass
}

// EquityInput opens a stock or ETF lot.
type EquityInput struct {
	Symbol     string          `json:"symbol" binding:"required,max=20"`
	Name       string          `json:"name" binding:"required,max=200"`
	Exchange   string          `json:"exchange" binding:"max=20"`
	Sector     string          `json:"sector" binding:"max=100"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitCost   decimal.Decimal `json:"unit_cost" swaggertype:"string"`
	AcquiredAt *time.Time      `json:"acquired_at"`
	Notes      string          `json:"notes" binding:"max=500"`
}

// GoldInput opens a gold holding.
type GoldInput struct {
	Form        models.GoldForm `json:"form" binding:"required,gold_form"`
	Purity      string          `json:"purity" binding:"required,max=10"`
	Grams       decimal.Decimal `json:"grams" swaggertype:"string"`
	UnitCost    decimal.Decimal `json:"unit_cost" swaggertype:"string"`
	AcquiredAt  *time.Time      `json:"acquired_at"`
	Description string          `json:"description" binding:"max=200"`
	Notes       string          `json:"notes" binding:"max=500"`
}

// MutualFundInput opens a mutual fund holding by invested amount. Units are
// amount / NAV; the NAV is looked up when omitted.
type MutualFundInput struct {
	SchemeCode   string              `json:"scheme_code" binding:"required,max=20"`
	SchemeName   string              `json:"scheme_name" binding:"required,max=300"`
	Amount       decimal.Decimal     `json:"amount" swaggertype:"string"`
	NAV          decimal.NullDecimal `json:"nav" swaggertype:"string"`
	PurchaseDate *time.Time          `json:"purchase_date"`
	Notes        string              `json:"notes" binding:"max=500"`
}

// RealEstateInput opens a property holding.
type RealEstateInput struct {
	PropertyName     string              `json:"property_name" binding:"required,max=200"`
	PropertyType     models.PropertyType `json:"property_type" binding:"required,property_type"`
	Location         string              `json:"location" binding:"max=200"`
	Area             decimal.Decimal     `json:"area" swaggertype:"string"`
	PurchasePrice    decimal.Decimal     `json:"purchase_price" swaggertype:"string"`
	CurrentValuation decimal.Decimal     `json:"current_valuation" swaggertype:"string"`
	PurchaseDate     *time.Time          `json:"purchase_date"`
	Notes            string              `json:"notes" binding:"max=500"`
}

// FixedDepositInput opens a term deposit.
type FixedDepositInput struct {
	BankName             string                      `json:"bank_name" binding:"required,max=200"`
	AccountNumber        string                      `json:"account_number" binding:"max=50"`
	Principal            decimal.Decimal             `json:"principal" swaggertype:"string"`
	InterestRate         decimal.Decimal             `json:"interest_rate" swaggertype:"string"`
	StartDate            time.Time                   `json:"start_date" binding:"required"`
	MaturityDate         time.Time                   `json:"maturity_date" binding:"required"`
	InterestType         models.InterestType         `json:"interest_type" binding:"required,interest_type"`
	CompoundingFrequency models.CompoundingFrequency `json:"compounding_frequency" binding:"omitempty,compounding"`
	Notes                string                      `json:"notes" binding:"max=500"`
}

// ProvidentFundInput opens a provident fund account with its first contribution.
type ProvidentFundInput struct {
	AccountNumber string          `json:"account_number" binding:"required,max=50"`
	BankName      string          `json:"bank_name" binding:"required,max=200"`
	OpenDate      time.Time       `json:"open_date" binding:"required"`
	InterestRate  decimal.Decimal `json:"interest_rate" swaggertype:"string"`
	InitialAmount decimal.Decimal `json:"initial_amount" swaggertype:"string"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// CryptoInput opens a crypto lot.
type CryptoInput struct {
	CoinID        string          `json:"coin_id" binding:"required,max=100"`
	Symbol        string          `json:"symbol" binding:"required,max=20"`
	Name          string          `json:"name" binding:"max=100"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitCost      decimal.Decimal `json:"unit_cost" swaggertype:"string"`
	AcquiredAt    *time.Time      `json:"acquired_at"`
	Platform      string          `json:"platform" binding:"max=100"`
	WalletAddress string          `json:"wallet_address" binding:"max=200"`
	Notes         string          `json:"notes" binding:"max=500"`
}

func (EquityInput) AssetClass() models.AssetClass { return models.AssetClassEquity }
func (GoldInput) AssetClass() models.AssetClass { return models.AssetClassGold }
func (MutualFundInput) AssetClass() models.AssetClass { return models.AssetClassMutualFund }
func (RealEstateInput) AssetClass() models.AssetClass { return models.AssetClassRealEstate }
func (FixedDepositInput) AssetClass() models.AssetClass { return models.AssetClassFixedDeposit }
func (ProvidentFundInput) AssetClass() models.AssetClass { return models.AssetClassProvidentFund }
func (CryptoInput) AssetClass() models.AssetClass { return models.AssetClassCrypto }

// NewOpenInput returns an empty input for class, ready to be bound.
func NewOpenInput(class models.AssetClass) (OpenInput, bool) {
	switch class {
	case models.AssetClassEquity:
		return &EquityInput{}, true
	case models.AssetClassGold:
		return &GoldInput{}, true
	case models.AssetClassMutualFund:
		return &MutualFundInput{}, true
	case models.AssetClassRealEstate:
		return &RealEstateInput{}, true
	case models.AssetClassFixedDeposit:
		return &FixedDepositInput{}, true
	case models.AssetClassProvidentFund:
		return &ProvidentFundInput{}, true
	case models.AssetClassCrypto:
		return &CryptoInput{}, true
	}
	return nil, false
}

// UpdateInput edits descriptive fields of a position. Nil fields are left
// unchanged; quantities are changed only through lifecycle operations.
type UpdateInput struct {
	Name             *string             `json:"name" binding:"omitempty,max=200"`
	Notes            *string             `json:"notes" binding:"omitempty,max=500"`
	Sector           *string             `json:"sector" binding:"omitempty,max=100"`
	Platform         *string             `json:"platform" binding:"omitempty,max=100"`
	Location         *string             `json:"location" binding:"omitempty,max=200"`
	Description      *string             `json:"description" binding:"omitempty,max=200"`
	CurrentValuation decimal.NullDecimal `json:"current_valuation" swaggertype:"string"`
	InterestRate     decimal.NullDecimal `json:"interest_rate" swaggertype:"string"`
}

// SellInput disposes part or all of a tradable position. Price is per unit,
// except for real estate where it is the sale price of the property.
type SellInput struct {
	Quantity decimal.Decimal     `json:"quantity" swaggertype:"string"`
	Price    decimal.NullDecimal `json:"price" swaggertype:"string"`
	SellDate *time.Time          `json:"sell_date"`
}

// MatureInput closes a fixed deposit or provident fund. The amount is
// computed from the position's terms when omitted.
type MatureInput struct {
	MaturityAmount   decimal.NullDecimal `json:"maturity_amount" swaggertype:"string"`
	PrematurePenalty decimal.NullDecimal `json:"premature_penalty" swaggertype:"string"`
	MaturityDate     *time.Time          `json:"maturity_date"`
}

// ContributeInput adds a yearly contribution to a provident fund.
type ContributeInput struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
	Year   int             `json:"year" binding:"omitempty,min=1900,max=2200"`
	Date   *time.Time      `json:"date"`
}

// TransferInput moves a whole crypto lot to another platform or wallet.
type TransferInput struct {
	ToPlatform string          `json:"to_platform" binding:"max=100"`
	ToWallet   string          `json:"to_wallet" binding:"max=200"`
	Fee        decimal.Decimal `json:"fee" swaggertype:"string"`
	Date       *time.Time      `json:"date"`
}

// StakeInput locks part of a crypto lot.
type StakeInput struct {
	Quantity     decimal.Decimal `json:"quantity" swaggertype:"string"`
	Platform     string          `json:"platform" binding:"required,max=100"`
	LockupDays   int             `json:"lockup_days" binding:"min=0,max=3650"`
	EstimatedAPY decimal.Decimal `json:"estimated_apy" swaggertype:"string"`
	StartDate    *time.Time      `json:"start_date"`
	Notes        string          `json:"notes" binding:"max=500"`
}

// UnstakeInput releases a staking position. RewardUnitPrice values the
// rewards for the realized profit; the live price is used when omitted.
type UnstakeInput struct {
	ActualRewards   decimal.Decimal     `json:"actual_rewards" swaggertype:"string"`
	RewardUnitPrice decimal.NullDecimal `json:"reward_unit_price" swaggertype:"string"`
	UnstakeDate     *time.Time          `json:"unstake_date"`
}

func requirePositive(v decimal.Decimal, field string) error {
	if !v.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must be greater than zero")
	}
	return nil
}

func requireNonNegative(v decimal.Decimal, field string) error {
	if v.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, field+" must not be negative")
	}
	return nil
}

func dateOr(t *time.Time, fallback time.Time) time.Time {
	if t == nil || t.IsZero() {
		return fallback
	}
	return *t
}
