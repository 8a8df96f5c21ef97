package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"nidhi/internal/models"
	"nidhi/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// D parses a decimal literal, panicking on malformed input.
func D(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewOwnerID returns a fresh owner id.
func NewOwnerID() string {
	return uuid.New()
}

func create(t *testing.T, db *gorm.DB, p any) {
	t.Helper()
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("failed to create %T fixture: %v", p, err)
	}
}

// CreateTestEquity creates an NSE equity lot.
func CreateTestEquity(t *testing.T, db *gorm.DB, ownerID, quantity, unitCost string) *models.Equity {
	t.Helper()

	n := nextID()
	e := &models.Equity{
		Holding:    models.Holding{OwnerID: ownerID},
		Symbol:     fmt.Sprintf("TST%d", n),
		Name:       fmt.Sprintf("Test Stock %d", n),
		Exchange:   "NSE",
		Quantity:   D(quantity),
		UnitCost:   D(unitCost),
		AcquiredAt: time.Now().AddDate(0, -6, 0),
	}
	create(t, db, e)
	return e
}

// CreateTestGold creates a 24K gold coin holding.
func CreateTestGold(t *testing.T, db *gorm.DB, ownerID, grams, unitCost string) *models.Gold {
	t.Helper()

	g := &models.Gold{
		Holding:    models.Holding{OwnerID: ownerID},
		Form:       models.GoldCoin,
		Purity:     "24K",
		Grams:      D(grams),
		UnitCost:   D(unitCost),
		AcquiredAt: time.Now().AddDate(-1, 0, 0),
	}
	create(t, db, g)
	return g
}

// CreateTestMutualFund creates a mutual fund holding with the given units and
// invested amount.
func CreateTestMutualFund(t *testing.T, db *gorm.DB, ownerID, units, investment string) *models.MutualFund {
	t.Helper()

	n := nextID()
	u, amount := D(units), D(investment)
	m := &models.MutualFund{
		Holding:          models.Holding{OwnerID: ownerID},
		SchemeCode:       fmt.Sprintf("%d", 100000+n),
		SchemeName:       fmt.Sprintf("Test Scheme %d - Direct Growth", n),
		Units:            u,
		InvestmentAmount: amount,
		PurchaseNAV:      amount.Div(u),
		PurchaseDate:     time.Now().AddDate(-1, 0, 0),
	}
	create(t, db, m)
	return m
}

// CreateTestRealEstate creates a residential property bought at price.
func CreateTestRealEstate(t *testing.T, db *gorm.DB, ownerID, price string) *models.RealEstate {
	t.Helper()

	r := &models.RealEstate{
		Holding:       models.Holding{OwnerID: ownerID},
		PropertyName:  fmt.Sprintf("Test Flat %d", nextID()),
		PropertyType:  models.PropertyResidential,
		Location:      "Pune",
		PurchasePrice: D(price),
		PurchaseDate:  time.Now().AddDate(-3, 0, 0),
	}
	create(t, db, r)
	return r
}

// CreateTestFixedDeposit creates a fixed deposit running from start to maturity.
func CreateTestFixedDeposit(t *testing.T, db *gorm.DB, ownerID, principal, rate string, interest models.InterestType, start, maturity time.Time) *models.FixedDeposit {
	t.Helper()

	f := &models.FixedDeposit{
		Holding:              models.Holding{OwnerID: ownerID},
		BankName:             fmt.Sprintf("Test Bank %d", nextID()),
		Principal:            D(principal),
		NominalRate:          D(rate),
		StartDate:            start,
		MaturityDate:         maturity,
		InterestType:         interest,
		CompoundingFrequency: models.CompoundingQuarterly,
	}
	create(t, db, f)
	return f
}

// CreateTestProvidentFund creates a provident fund account opened on openDate
// with one contribution per amount, in consecutive years starting at the
// opening year.
func CreateTestProvidentFund(t *testing.T, db *gorm.DB, ownerID, rate string, openDate time.Time, amounts ...string) *models.ProvidentFund {
	t.Helper()

	total := decimal.Zero
	contributions := make([]models.ProvidentFundContribution, 0, len(amounts))
	for i, a := range amounts {
		amount := D(a)
		total = total.Add(amount)
		contributions = append(contributions, models.ProvidentFundContribution{
			Year:          openDate.Year() + i,
			Amount:        amount,
			ContributedAt: openDate.AddDate(i, 0, 0),
		})
	}
	p := &models.ProvidentFund{
		Holding:         models.Holding{OwnerID: ownerID},
		AccountNumber:   fmt.Sprintf("PPF%06d", nextID()),
		BankName:        "Test Post Office",
		OpenDate:        openDate,
		MaturityDate:    openDate.AddDate(models.ProvidentFundTenureYears, 0, 0),
		CurrentRate:     D(rate),
		TotalInvestment: total,
		Contributions:   contributions,
	}
	create(t, db, p)
	return p
}

// CreateTestCrypto creates a crypto lot of coinID on a test exchange.
func CreateTestCrypto(t *testing.T, db *gorm.DB, ownerID, coinID, quantity, unitCost string) *models.Crypto {
	t.Helper()

	c := &models.Crypto{
		Holding:    models.Holding{OwnerID: ownerID},
		CoinID:     coinID,
		Symbol:     coinID[:min(3, len(coinID))],
		Name:       coinID,
		Quantity:   D(quantity),
		UnitCost:   D(unitCost),
		AcquiredAt: time.Now().AddDate(0, -3, 0),
		Platform:   "TestExchange",
	}
	create(t, db, c)
	return c
}
