package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDetails is the kind-specific part of a ledger entry. The set of
// variants is closed: each one fills the envelope columns it owns.
type EntryDetails interface {
	Kind() EntryKind
	EventDate() time.Time
	fill(e *LedgerEntry)
}

// Realized is carried by every closing variant.
type Realized struct {
	Profit           decimal.Decimal `json:"profit"`
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`
}

type realizer interface{ realized() Realized }

func (r Realized) realized() Realized { return r }

// NewRealized computes profit and its percentage of costBasis.
func NewRealized(profit, costBasis decimal.Decimal) Realized {
	return Realized{Profit: profit, ProfitPercentage: Percent(profit, costBasis)}
}

func datePtr(t time.Time) *time.Time { return &t }

// BuyDetails records the acquisition of a tradable lot.
type BuyDetails struct {
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	BuyDate   time.Time       `json:"buy_date"`
	Platform  string          `json:"platform,omitempty"`
	// Reward marks a zero-cost lot opened from staking rewards.
	Reward bool `json:"reward,omitempty"`
}

func (d *BuyDetails) Kind() EntryKind      { return KindBuy }
func (d *BuyDetails) EventDate() time.Time { return d.BuyDate }
func (d *BuyDetails) fill(e *LedgerEntry) {
	e.Quantity = d.Quantity
	e.Amount = d.Quantity.Mul(d.UnitPrice)
	e.BuyDate = datePtr(d.BuyDate)
}

// SellDetails records a partial or full disposal at a price.
type SellDetails struct {
	Quantity  decimal.Decimal `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buy_price"`
	SellPrice decimal.Decimal `json:"sell_price"`
	CostBasis decimal.Decimal `json:"cost_basis"`
	Proceeds  decimal.Decimal `json:"proceeds"`
	BuyDate   time.Time       `json:"buy_date"`
	SellDate  time.Time       `json:"sell_date"`
	Closed    bool            `json:"closed"`
	Realized
}

func (d *SellDetails) Kind() EntryKind      { return KindSell }
func (d *SellDetails) EventDate() time.Time { return d.SellDate }
func (d *SellDetails) fill(e *LedgerEntry) {
	e.Quantity = d.Quantity
	e.Amount = d.Proceeds
	e.BuyDate = datePtr(d.BuyDate)
	e.SellDate = datePtr(d.SellDate)
}

// DepositDetails records opening a fixed deposit.
type DepositDetails struct {
	Principal              decimal.Decimal      `json:"principal"`
	NominalRate            decimal.Decimal      `json:"nominal_rate"`
	InterestType           InterestType         `json:"interest_type"`
	CompoundingFrequency   CompoundingFrequency `json:"compounding_frequency,omitempty"`
	InvestDate             time.Time            `json:"invest_date"`
	ScheduledMaturityDate  time.Time            `json:"scheduled_maturity_date"`
	ExpectedMaturityAmount decimal.Decimal      `json:"expected_maturity_amount"`
}

func (d *DepositDetails) Kind() EntryKind      { return KindDeposit }
func (d *DepositDetails) EventDate() time.Time { return d.InvestDate }
func (d *DepositDetails) fill(e *LedgerEntry) {
	e.Amount = d.Principal
	e.InvestDate = datePtr(d.InvestDate)
}

// InvestDetails records opening a provident fund account.
type InvestDetails struct {
	Amount                decimal.Decimal `json:"amount"`
	Rate                  decimal.Decimal `json:"rate"`
	InvestDate            time.Time       `json:"invest_date"`
	ScheduledMaturityDate time.Time       `json:"scheduled_maturity_date"`
}

func (d *InvestDetails) Kind() EntryKind      { return KindInvest }
func (d *InvestDetails) EventDate() time.Time { return d.InvestDate }
func (d *InvestDetails) fill(e *LedgerEntry) {
	e.Amount = d.Amount
	e.InvestDate = datePtr(d.InvestDate)
}

// ContributeDetails records a provident fund contribution.
type ContributeDetails struct {
	Amount     decimal.Decimal `json:"amount"`
	Year       int             `json:"year"`
	InvestDate time.Time       `json:"invest_date"`
}

func (d *ContributeDetails) Kind() EntryKind      { return KindContribute }
func (d *ContributeDetails) EventDate() time.Time { return d.InvestDate }
func (d *ContributeDetails) fill(e *LedgerEntry) {
	e.Amount = d.Amount
	e.InvestDate = datePtr(d.InvestDate)
}

// MaturityDetails records a fixed deposit or provident fund closing, either
// at term or as a premature withdrawal.
type MaturityDetails struct {
	InvestAmount          decimal.Decimal `json:"invest_amount"`
	MaturityAmount        decimal.Decimal `json:"maturity_amount"`
	PrematurePenalty      decimal.Decimal `json:"premature_penalty"`
	InvestDate            time.Time       `json:"invest_date"`
	MaturityDate          time.Time       `json:"maturity_date"`
	ScheduledMaturityDate time.Time       `json:"scheduled_maturity_date"`
	Premature             bool            `json:"premature"`
	Realized
}

func (d *MaturityDetails) Kind() EntryKind {
	if d.Premature {
		return KindPrematureWithdrawal
	}
	return KindMature
}
func (d *MaturityDetails) EventDate() time.Time { return d.MaturityDate }
func (d *MaturityDetails) fill(e *LedgerEntry) {
	e.Amount = d.MaturityAmount
	e.InvestDate = datePtr(d.InvestDate)
	e.MaturityDate = datePtr(d.MaturityDate)
}

// StakeDetails records locking crypto into a staking position.
type StakeDetails struct {
	StakingID        string          `json:"staking_id"`
	Quantity         decimal.Decimal `json:"quantity"`
	Platform         string          `json:"platform"`
	StakeDate        time.Time       `json:"stake_date"`
	LockupDays       int             `json:"lockup_days"`
	EstimatedAPY     decimal.Decimal `json:"estimated_apy"`
	EstimatedRewards decimal.Decimal `json:"estimated_rewards"`
}

func (d *StakeDetails) Kind() EntryKind      { return KindStake }
func (d *StakeDetails) EventDate() time.Time { return d.StakeDate }
func (d *StakeDetails) fill(e *LedgerEntry) {
	e.Quantity = d.Quantity
}

// UnstakeDetails records releasing a staking position. Amount is the value of
// the rewards at RewardUnitPrice; profit is always zero because the rewards
// open a zero-cost lot whose disposal realizes them.
type UnstakeDetails struct {
	StakingID           string          `json:"staking_id"`
	Quantity            decimal.Decimal `json:"quantity"`
	StakeDate           time.Time       `json:"stake_date"`
	UnstakeDate         time.Time       `json:"unstake_date"`
	StakingDurationDays int             `json:"staking_duration_days"`
	Rewards             decimal.Decimal `json:"rewards"`
	RewardUnitPrice     decimal.Decimal `json:"reward_unit_price"`
	RewardLotID         string          `json:"reward_lot_id,omitempty"`
	Realized
}

func (d *UnstakeDetails) Kind() EntryKind      { return KindUnstake }
func (d *UnstakeDetails) EventDate() time.Time { return d.UnstakeDate }
func (d *UnstakeDetails) fill(e *LedgerEntry) {
	e.Quantity = d.Quantity
	e.Amount = d.Rewards.Mul(d.RewardUnitPrice)
}

// TransferDetails records moving a crypto lot between platforms or wallets.
type TransferDetails struct {
	Quantity     decimal.Decimal `json:"quantity"`
	FromPlatform string          `json:"from_platform,omitempty"`
	ToPlatform   string          `json:"to_platform,omitempty"`
	FromWallet   string          `json:"from_wallet,omitempty"`
	ToWallet     string          `json:"to_wallet,omitempty"`
	Fee          decimal.Decimal `json:"fee"`
	TransferDate time.Time       `json:"transfer_date"`
}

func (d *TransferDetails) Kind() EntryKind      { return KindTransfer }
func (d *TransferDetails) EventDate() time.Time { return d.TransferDate }
func (d *TransferDetails) fill(e *LedgerEntry) {
	e.Quantity = d.Quantity
	e.Amount = d.Fee
}
