package valuation

import (
	"testing"
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestYearsBetween(t *testing.T) {
	assert.True(t, YearsBetween(date(2025, 1, 1), date(2028, 1, 1)).Equal(dec("3")))
	assert.True(t, YearsBetween(date(2025, 1, 1), date(2027, 1, 1)).Equal(dec("2")))
	assert.True(t, YearsBetween(date(2027, 1, 1), date(2025, 1, 1)).IsNegative())
}

func TestDaysUntil(t *testing.T) {
	now := date(2025, 6, 1)
	assert.Equal(t, 30, DaysUntil(now, date(2025, 7, 1)))
	assert.Equal(t, 0, DaysUntil(now, date(2025, 5, 1)))
	assert.Equal(t, 0, DaysUntil(now, now))
	assert.Equal(t, 0, DaysUntil(now, now.Add(23*time.Hour)))
}

func TestDepositTerms_MaturityValue(t *testing.T) {
	t.Run("compound quarterly", func(t *testing.T) {
		terms := DepositTerms{
			Principal:    dec("100000"),
			Rate:         dec("8"),
			InterestType: models.InterestCompound,
			Frequency:    models.CompoundingQuarterly,
			StartDate:    date(2025, 1, 1),
			MaturityDate: date(2027, 1, 1),
		}
		// 100000 * 1.02^8
		assert.Equal(t, "117165.94", terms.MaturityValue().StringFixed(2))
	})

	t.Run("simple", func(t *testing.T) {
		terms := DepositTerms{
			Principal:    dec("50000"),
			Rate:         dec("6"),
			InterestType: models.InterestSimple,
			StartDate:    date(2025, 1, 1),
			MaturityDate: date(2028, 1, 1),
		}
		assert.True(t, terms.MaturityValue().Equal(dec("59000")), "got %s", terms.MaturityValue())
	})

	t.Run("frequencies", func(t *testing.T) {
		base := DepositTerms{
			Principal:    dec("10000"),
			Rate:         dec("12"),
			InterestType: models.InterestCompound,
			StartDate:    date(2025, 1, 1),
			MaturityDate: date(2026, 1, 1),
		}
		annual, semi, quarterly := base, base, base
		annual.Frequency = models.CompoundingAnnual
		semi.Frequency = models.CompoundingSemiannual
		quarterly.Frequency = models.CompoundingQuarterly

		assert.Equal(t, "11200.00", annual.MaturityValue().StringFixed(2))
		assert.Equal(t, "11236.00", semi.MaturityValue().StringFixed(2))
		assert.Equal(t, "11255.09", quarterly.MaturityValue().StringFixed(2))
	})

	t.Run("large principal keeps paise", func(t *testing.T) {
		terms := DepositTerms{
			Principal:    dec("987654321987654.32"),
			Rate:         dec("7.5"),
			InterestType: models.InterestCompound,
			Frequency:    models.CompoundingQuarterly,
			StartDate:    date(2025, 1, 1),
			MaturityDate: date(2028, 1, 1),
		}
		// 987654321987654.32 * 1.01875^12
		assert.Equal(t, "1234287780640356.18", terms.MaturityValue().StringFixed(2))
	})

	t.Run("unknown frequency compounds quarterly", func(t *testing.T) {
		terms := DepositTerms{
			Principal:    dec("10000"),
			Rate:         dec("12"),
			InterestType: models.InterestCompound,
			Frequency:    "weekly",
			StartDate:    date(2025, 1, 1),
			MaturityDate: date(2026, 1, 1),
		}
		assert.Equal(t, "11255.09", terms.MaturityValue().StringFixed(2))
	})
}

func TestDepositTerms_CompoundMonotonic(t *testing.T) {
	terms := DepositTerms{
		Principal:    dec("250000"),
		Rate:         dec("7.25"),
		InterestType: models.InterestCompound,
		Frequency:    models.CompoundingQuarterly,
		StartDate:    date(2024, 3, 15),
		MaturityDate: date(2029, 3, 15),
	}
	maturity := terms.MaturityValue()

	prev := decimal.Zero
	for d := terms.StartDate.AddDate(0, 0, -30); d.Before(terms.MaturityDate.AddDate(1, 0, 0)); d = d.AddDate(0, 0, 11) {
		v := terms.ValueOn(d)
		require.True(t, v.GreaterThanOrEqual(prev), "value decreased at %s: %s < %s", d, v, prev)
		require.True(t, v.LessThanOrEqual(maturity), "value %s exceeds maturity %s at %s", v, maturity, d)
		prev = v
	}
	assert.True(t, prev.Equal(maturity))
}

func TestDepositTerms_ValueBeforeStart(t *testing.T) {
	terms := DepositTerms{
		Principal:    dec("1000"),
		Rate:         dec("5"),
		InterestType: models.InterestSimple,
		StartDate:    date(2030, 1, 1),
		MaturityDate: date(2031, 1, 1),
	}
	assert.True(t, terms.ValueOn(date(2029, 1, 1)).Equal(dec("1000")))
}

func TestValueDeposit(t *testing.T) {
	terms := DepositTerms{
		Principal:    dec("50000"),
		Rate:         dec("6"),
		InterestType: models.InterestSimple,
		StartDate:    date(2025, 1, 1),
		MaturityDate: date(2028, 1, 1),
	}

	t.Run("midway", func(t *testing.T) {
		v := ValueDeposit(terms, date(2026, 1, 1))
		assert.True(t, v.MaturityAmount.Equal(dec("59000")))
		assert.True(t, v.CurrentValue.Equal(dec("53000")), "got %s", v.CurrentValue)
		assert.True(t, v.InterestEarned.Equal(dec("3000")))
		assert.Equal(t, 730, v.DaysRemaining)
		assert.False(t, v.IsMatured)
	})

	t.Run("after maturity", func(t *testing.T) {
		v := ValueDeposit(terms, date(2030, 6, 1))
		assert.True(t, v.CurrentValue.Equal(v.MaturityAmount))
		assert.Equal(t, 0, v.DaysRemaining)
		assert.True(t, v.IsMatured)
	})

	t.Run("on maturity date", func(t *testing.T) {
		v := ValueDeposit(terms, date(2028, 1, 1))
		assert.True(t, v.IsMatured)
	})
}
