package models

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EntryKind is the lifecycle event a ledger entry records.
type EntryKind string

const (
	KindBuy                 EntryKind = "buy"
	KindSell                EntryKind = "sell"
	KindDeposit             EntryKind = "deposit"
	KindMature              EntryKind = "mature"
	KindPrematureWithdrawal EntryKind = "premature-withdrawal"
	KindInvest              EntryKind = "invest"
	KindContribute          EntryKind = "contribute"
	KindStake               EntryKind = "stake"
	KindUnstake             EntryKind = "unstake"
	KindTransfer            EntryKind = "transfer"
)

// EntryKinds lists every kind.
var EntryKinds = []EntryKind{
	KindBuy, KindSell, KindDeposit, KindMature, KindPrematureWithdrawal,
	KindInvest, KindContribute, KindStake, KindUnstake, KindTransfer,
}

// IsValid reports whether k is a known kind.
func (k EntryKind) IsValid() bool {
	for _, v := range EntryKinds {
		if v == k {
			return true
		}
	}
	return false
}

// Closing kinds realize a profit and always carry one.
func (k EntryKind) Closing() bool {
	switch k {
	case KindSell, KindMature, KindPrematureWithdrawal, KindUnstake:
		return true
	}
	return false
}

// Acquisition kinds put money into a position.
func (k EntryKind) Acquisition() bool {
	switch k {
	case KindBuy, KindDeposit, KindInvest, KindContribute:
		return true
	}
	return false
}

// LedgerEntry is the immutable envelope of one lifecycle event. The
// kind-specific payload lives in Details; the columns duplicated on the
// envelope exist for filtering and aggregation.
type LedgerEntry struct {
	ID          string     `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string     `gorm:"type:uuid;not null;index:idx_ledger_owner_class_kind,priority:1" json:"owner_id"`
	AssetClass  AssetClass `gorm:"not null;index:idx_ledger_owner_class_kind,priority:2" json:"asset_class"`
	Kind        EntryKind  `gorm:"not null;index:idx_ledger_owner_class_kind,priority:3" json:"kind"`
	PositionRef string     `gorm:"type:uuid;not null;index" json:"position_ref"`
	Symbol      string     `gorm:"index" json:"symbol"`
	Name        string     `json:"name,omitempty"`

	Quantity         decimal.Decimal     `gorm:"type:numeric(30,10);not null;default:0" json:"quantity"`
	Amount           decimal.Decimal     `gorm:"type:numeric(30,10);not null;default:0" json:"amount"`
	Profit           decimal.NullDecimal `gorm:"type:numeric(30,10)" json:"profit"`
	ProfitPercentage decimal.NullDecimal `gorm:"type:numeric(30,10)" json:"profit_percentage"`

	BuyDate      *time.Time `gorm:"index" json:"buy_date,omitempty"`
	SellDate     *time.Time `gorm:"index" json:"sell_date,omitempty"`
	InvestDate   *time.Time `gorm:"index" json:"invest_date,omitempty"`
	MaturityDate *time.Time `gorm:"index" json:"maturity_date,omitempty"`
	EventDate    time.Time  `gorm:"not null;index" json:"event_date"`

	Payload   string       `gorm:"type:text;not null" json:"-"`
	Details   EntryDetails `gorm:"-" json:"details"`
	CreatedAt time.Time    `json:"created_at"`
}

// TableName pins the table name.
func (LedgerEntry) TableName() string { return "ledger_entries" }

// NewLedgerEntry builds the envelope for a position event from its variant.
func NewLedgerEntry(p Position, d EntryDetails) *LedgerEntry {
	e := &LedgerEntry{
		OwnerID:     p.GetOwnerID(),
		AssetClass:  p.AssetClass(),
		Kind:        d.Kind(),
		PositionRef: p.GetID(),
		Symbol:      p.LedgerSymbol(),
		Name:        p.LedgerName(),
		Details:     d,
	}
	e.apply()
	return e
}

// apply copies the variant's indexed fields onto the envelope.
func (e *LedgerEntry) apply() {
	d := e.Details
	e.Kind = d.Kind()
	e.EventDate = d.EventDate()
	d.fill(e)
	if r, ok := d.(realizer); ok {
		realized := r.realized()
		e.Profit = decimal.NewNullDecimal(realized.Profit)
		e.ProfitPercentage = decimal.NewNullDecimal(realized.ProfitPercentage)
	} else {
		e.Profit = decimal.NullDecimal{}
		e.ProfitPercentage = decimal.NullDecimal{}
	}
}

// Validate checks the envelope invariants: closing kinds carry a profit,
// every other kind never does.
func (e *LedgerEntry) Validate() error {
	if e.Details == nil {
		return apperrors.Wrap(apperrors.ErrInvariantViolation, fmt.Errorf("ledger entry without details"))
	}
	if e.Kind != e.Details.Kind() || !e.Kind.IsValid() {
		return apperrors.Wrap(apperrors.ErrInvariantViolation, fmt.Errorf("ledger kind %q does not match details %T", e.Kind, e.Details))
	}
	if e.Kind.Closing() != e.Profit.Valid || e.Profit.Valid != e.ProfitPercentage.Valid {
		return apperrors.Wrap(apperrors.ErrInvariantViolation, fmt.Errorf("ledger kind %q has profit=%v", e.Kind, e.Profit.Valid))
	}
	if e.OwnerID == "" || e.PositionRef == "" || !e.AssetClass.IsValid() {
		return apperrors.Wrap(apperrors.ErrInvariantViolation, fmt.Errorf("ledger envelope incomplete"))
	}
	return nil
}

// BeforeCreate assigns the id and serializes the variant payload.
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New()
	}
	if err := e.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(e.Details)
	if err != nil {
		return fmt.Errorf("encoding ledger details: %w", err)
	}
	e.Payload = string(raw)
	return nil
}

// BeforeUpdate rejects every update; entries are append-only.
func (e *LedgerEntry) BeforeUpdate(tx *gorm.DB) error {
	return apperrors.Wrap(apperrors.ErrInvariantViolation, fmt.Errorf("ledger entry %s is immutable", e.ID))
}

// AfterFind decodes the variant payload.
func (e *LedgerEntry) AfterFind(tx *gorm.DB) error {
	d, err := DecodeEntryDetails(e.Kind, []byte(e.Payload))
	if err != nil {
		return err
	}
	e.Details = d
	return nil
}

// DecodeEntryDetails returns the concrete variant for kind.
func DecodeEntryDetails(kind EntryKind, raw []byte) (EntryDetails, error) {
	var d EntryDetails
	switch kind {
	case KindBuy:
		d = &BuyDetails{}
	case KindSell:
		d = &SellDetails{}
	case KindDeposit:
		d = &DepositDetails{}
	case KindMature, KindPrematureWithdrawal:
		d = &MaturityDetails{}
	case KindInvest:
		d = &InvestDetails{}
	case KindContribute:
		d = &ContributeDetails{}
	case KindStake:
		d = &StakeDetails{}
	case KindUnstake:
		d = &UnstakeDetails{}
	case KindTransfer:
		d = &TransferDetails{}
	default:
		return nil, fmt.Errorf("unknown ledger kind %q", kind)
	}
	if err := json.Unmarshal(raw, d); err != nil {
		return nil, fmt.Errorf("decoding %s details: %w", kind, err)
	}
	return d, nil
}
