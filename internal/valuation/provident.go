package valuation

import (
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

// Contribution is one yearly deposit into a provident fund account.
type Contribution struct {
	Year   int
	Amount decimal.Decimal
}

// ContributionsOf lists the contributions of an account.
func ContributionsOf(pf *models.ProvidentFund) []Contribution {
	out := make([]Contribution, 0, len(pf.Contributions))
	for _, c := range pf.Contributions {
		out = append(out, Contribution{Year: c.Year, Amount: c.Amount})
	}
	return out
}

// FutureValue compounds each contribution annually over what is left of its
// own fifteen-year horizon:
//
//	fv(c) = amount * (1 + rate/100) ^ max(0, 15 - (currentYear - year))
//
// The exponent is per contribution, not per account.
func FutureValue(contributions []Contribution, rate decimal.Decimal, currentYear int) decimal.Decimal {
	growth := one.Add(rate.Div(hundred))
	total := decimal.Zero
	for _, c := range contributions {
		periods := max(0, models.ProvidentFundTenureYears-(currentYear-c.Year))
		v := c.Amount
		for range periods {
			v = v.Mul(growth)
		}
		total = total.Add(v)
	}
	return total.Round(2)
}

// ProvidentFundValuation is the derived state of an account at an instant.
type ProvidentFundValuation struct {
	CurrentValue    decimal.Decimal `json:"current_value"`
	TotalInvestment decimal.Decimal `json:"total_investment"`
	InterestEarned  decimal.Decimal `json:"interest_earned"`
	YearsRemaining  int             `json:"years_remaining"`
	IsMatured       bool            `json:"is_matured"`
}

// ValueProvidentFund evaluates an account at now.
func ValueProvidentFund(pf *models.ProvidentFund, now time.Time) ProvidentFundValuation {
	value := FutureValue(ContributionsOf(pf), pf.CurrentRate, now.Year())
	yearsRemaining := 0
	if remaining := YearsBetween(now, pf.MaturityDate); remaining.IsPositive() {
		yearsRemaining = int(remaining.IntPart())
	}
	return ProvidentFundValuation{
		CurrentValue:    value,
		TotalInvestment: pf.TotalInvestment,
		InterestEarned:  value.Sub(pf.TotalInvestment),
		YearsRemaining:  yearsRemaining,
		IsMatured:       !now.Before(pf.MaturityDate),
	}
}
