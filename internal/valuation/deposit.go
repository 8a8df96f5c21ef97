// Package valuation holds the pure interest calculators for time-accruing
// instruments. Years are 365-day years measured from wall-clock durations.
package valuation

import (
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

const (
	day  = 24 * time.Hour
	year = 365 * day
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// YearsBetween returns the elapsed time from start to end in 365-day years.
// The result is negative when end precedes start.
func YearsBetween(start, end time.Time) decimal.Decimal {
	return decimal.NewFromInt(end.Sub(start).Milliseconds()).
		Div(decimal.NewFromInt(year.Milliseconds()))
}

// DaysUntil returns whole days from now until t, floored at zero.
func DaysUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(d / day)
}

// DepositTerms are the inputs of the fixed-deposit formulas.
type DepositTerms struct {
	Principal    decimal.Decimal
	Rate         decimal.Decimal // annual, percent
	InterestType models.InterestType
	Frequency    models.CompoundingFrequency
	StartDate    time.Time
	MaturityDate time.Time
}

// TermsOf extracts the deposit terms of a fixed deposit position.
func TermsOf(fd *models.FixedDeposit) DepositTerms {
	return DepositTerms{
		Principal:    fd.Principal,
		Rate:         fd.NominalRate,
		InterestType: fd.InterestType,
		Frequency:    fd.CompoundingFrequency,
		StartDate:    fd.StartDate,
		MaturityDate: fd.MaturityDate,
	}
}

const powPrecision = 28

// ValueAt returns the deposit value after t years, rounded to two places.
//
//	simple:   P * (1 + r/100 * t)
//	compound: P * (1 + r/100/n) ^ (n*t)
func (d DepositTerms) ValueAt(t decimal.Decimal) decimal.Decimal {
	if t.IsNegative() {
		t = decimal.Zero
	}
	rate := d.Rate.Div(hundred)

	if d.InterestType == models.InterestSimple {
		return d.Principal.Mul(one.Add(rate.Mul(t))).Round(2)
	}

	n := d.Frequency.PeriodsPerYear()
	periods := decimal.NewFromInt(int64(n))
	factor, err := one.Add(rate.Div(periods)).PowWithPrecision(t.Mul(periods), powPrecision)
	if err != nil {
		// Only a zero or negative base fails, which a non-negative rate rules out.
		return d.Principal.Round(2)
	}
	return d.Principal.Mul(factor).Round(2)
}

// TermYears is the full deposit term in years.
func (d DepositTerms) TermYears() decimal.Decimal {
	return YearsBetween(d.StartDate, d.MaturityDate)
}

// MaturityValue is the value at the end of the term.
func (d DepositTerms) MaturityValue() decimal.Decimal {
	return d.ValueAt(d.TermYears())
}

// ValueOn is the value accrued by the given date, capped at the maturity value.
func (d DepositTerms) ValueOn(date time.Time) decimal.Decimal {
	return d.ValueAt(decimal.Min(d.TermYears(), YearsBetween(d.StartDate, date)))
}

// DepositValuation is the derived state of a fixed deposit at an instant.
type DepositValuation struct {
	MaturityAmount decimal.Decimal `json:"maturity_amount"`
	CurrentValue   decimal.Decimal `json:"current_value"`
	InterestEarned decimal.Decimal `json:"interest_earned"`
	DaysRemaining  int             `json:"days_remaining"`
	IsMatured      bool            `json:"is_matured"`
}

// ValueDeposit evaluates terms at now.
func ValueDeposit(d DepositTerms, now time.Time) DepositValuation {
	current := d.ValueOn(now)
	return DepositValuation{
		MaturityAmount: d.MaturityValue(),
		CurrentValue:   current,
		InterestEarned: current.Sub(d.Principal),
		DaysRemaining:  DaysUntil(now, d.MaturityDate),
		IsMatured:      !now.Before(d.MaturityDate),
	}
}
