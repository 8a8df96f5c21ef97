package valuation

import (
	"testing"

	"nidhi/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestFutureValue(t *testing.T) {
	t.Run("each contribution uses its own horizon", func(t *testing.T) {
		contributions := []Contribution{
			{Year: 2024, Amount: dec("1000")},
			{Year: 2025, Amount: dec("1000")},
		}
		// 2024 compounds 14 times, 2025 compounds 15 times at 10%.
		got := FutureValue(contributions, dec("10"), 2025)
		assert.Equal(t, "7974.75", got.StringFixed(2))
	})

	t.Run("contributions older than the horizon stop growing", func(t *testing.T) {
		got := FutureValue([]Contribution{{Year: 2000, Amount: dec("500")}}, dec("7.1"), 2025)
		assert.True(t, got.Equal(dec("500")))
	})

	t.Run("zero rate", func(t *testing.T) {
		got := FutureValue([]Contribution{{Year: 2025, Amount: dec("1500")}, {Year: 2020, Amount: dec("500")}}, dec("0"), 2025)
		assert.True(t, got.Equal(dec("2000")))
	})

	t.Run("no contributions", func(t *testing.T) {
		assert.True(t, FutureValue(nil, dec("7.1"), 2025).IsZero())
	})
}

func TestValueProvidentFund(t *testing.T) {
	pf := &models.ProvidentFund{
		OpenDate:        date(2020, 4, 1),
		MaturityDate:    date(2035, 4, 1),
		CurrentRate:     dec("7.1"),
		TotalInvestment: dec("3000"),
		Contributions: []models.ProvidentFundContribution{
			{Year: 2020, Amount: dec("1000")},
			{Year: 2021, Amount: dec("1000")},
			{Year: 2022, Amount: dec("1000")},
		},
	}

	v := ValueProvidentFund(pf, date(2025, 4, 1))
	assert.Equal(t, 10, v.YearsRemaining)
	assert.False(t, v.IsMatured)
	assert.True(t, v.TotalInvestment.Equal(dec("3000")))
	assert.Equal(t, "6389.79", v.CurrentValue.StringFixed(2))
	assert.True(t, v.InterestEarned.Equal(v.CurrentValue.Sub(dec("3000"))))

	matured := ValueProvidentFund(pf, date(2036, 1, 1))
	assert.True(t, matured.IsMatured)
	assert.Equal(t, 0, matured.YearsRemaining)
}
