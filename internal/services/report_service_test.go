package services

import (
	"context"
	"testing"
	"time"

	"nidhi/internal/ledger"
	"nidhi/internal/models"
	"nidhi/internal/testutil"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func classSummary(t *testing.T, s *PortfolioSummary, class models.AssetClass) ClassSummary {
	t.Helper()
	for _, cs := range s.Classes {
		if cs.AssetClass == class {
			return cs
		}
	}
	t.Fatalf("class %s missing from summary", class)
	return ClassSummary{}
}

// recordSell writes a closing entry directly, bypassing the lifecycle.
func recordSell(t *testing.T, db *gorm.DB, p models.Position, profit string, sellDate *time.Time) {
	t.Helper()
	d := &models.SellDetails{
		Quantity:  testutil.D("1"),
		SellPrice: testutil.D("1"),
		Proceeds:  testutil.D("1"),
		SellDate:  *sellDate,
		Realized:  models.NewRealized(testutil.D(profit), testutil.D("100")),
	}
	if err := ledger.New(db).Record(models.NewLedgerEntry(p, d)); err != nil {
		t.Fatalf("failed to record sell: %v", err)
	}
}

func TestReportService_Summary(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	prices := newFakePrices()
	svc := NewReportService(db, prices, testSettings())
	owner := testutil.NewOwnerID()

	eq := testutil.CreateTestEquity(t, db, owner, "10", "100")
	prices.set(models.AssetClassEquity, eq.PriceIdentifier(), "150")
	testutil.CreateTestMutualFund(t, db, owner, "100", "10000")
	testutil.CreateTestRealEstate(t, db, owner, "5000000")
	testutil.CreateTestFixedDeposit(t, db, owner, "50000", "6", models.InterestSimple, date(2025, 6, 15), date(2026, 6, 15))
	testutil.CreateTestEquity(t, db, testutil.NewOwnerID(), "1000", "1000")

	summary, err := svc.Summary(ctx, owner)
	testutil.AssertNoError(t, err)

	t.Run("live_price", func(t *testing.T) {
		cs := classSummary(t, summary, models.AssetClassEquity)
		testutil.AssertDecimal(t, "equity value", cs.CurrentValue, "1500")
		testutil.AssertDecimal(t, "equity growth", cs.GrowthPercentage, "50")
		if cs.FallbackValued != 0 {
			t.Errorf("expected no fallback, got %d", cs.FallbackValued)
		}
	})

	t.Run("mutual_fund_fallback", func(t *testing.T) {
		cs := classSummary(t, summary, models.AssetClassMutualFund)
		testutil.AssertDecimal(t, "mf value", cs.CurrentValue, "10500")
		testutil.AssertDecimal(t, "mf growth", cs.GrowthPercentage, "5")
		if cs.FallbackValued != 1 {
			t.Errorf("expected one fallback, got %d", cs.FallbackValued)
		}
	})

	t.Run("fixed_deposit_at_maturity", func(t *testing.T) {
		cs := classSummary(t, summary, models.AssetClassFixedDeposit)
		testutil.AssertDecimal(t, "fd value", cs.CurrentValue, "53000")
	})

	t.Run("empty_class_has_zero_growth", func(t *testing.T) {
		cs := classSummary(t, summary, models.AssetClassGold)
		if cs.Positions != 0 || !cs.GrowthPercentage.IsZero() {
			t.Errorf("expected empty gold summary, got %+v", cs)
		}
	})

	t.Run("totals", func(t *testing.T) {
		if summary.PositionCount != 4 {
			t.Errorf("expected 4 positions, got %d", summary.PositionCount)
		}
		testutil.AssertDecimal(t, "invested", summary.TotalInvested, "5061000")
		testutil.AssertDecimal(t, "value", summary.TotalValue, "5065000")
		testutil.AssertDecimal(t, "profit", summary.TotalProfit, "4000")
		if summary.Currency != "INR" {
			t.Errorf("expected INR, got %s", summary.Currency)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		again, err := svc.Summary(ctx, owner)
		testutil.AssertNoError(t, err)
		if !again.TotalValue.Equal(summary.TotalValue) || !again.TotalInvested.Equal(summary.TotalInvested) {
			t.Errorf("summary changed between calls: %s/%s vs %s/%s",
				summary.TotalInvested, summary.TotalValue, again.TotalInvested, again.TotalValue)
		}
	})

	t.Run("one_price_pass_per_summary", func(t *testing.T) {
		before := prices.resolved
		_, err := svc.Summary(ctx, owner)
		testutil.AssertNoError(t, err)
		if prices.resolved != before+1 {
			t.Errorf("expected a single resolve pass, got %d", prices.resolved-before)
		}
	})
}

func TestReportService_Holdings(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	prices := newFakePrices()
	svc := NewReportService(db, prices, testSettings())
	owner := testutil.NewOwnerID()

	c := testutil.CreateTestCrypto(t, db, owner, "bitcoin", "0.5", "4000000")
	db.Model(c).Update("staked_quantity", testutil.D("0.5"))
	prices.set(models.AssetClassCrypto, "bitcoin", "5000000")
	fd := testutil.CreateTestFixedDeposit(t, db, owner, "100000", "8", models.InterestCompound, date(2025, 1, 1), date(2027, 1, 1))

	t.Run("crypto_includes_staked", func(t *testing.T) {
		holdings, err := svc.Holdings(ctx, owner, models.AssetClassCrypto)
		testutil.AssertNoError(t, err)
		if len(holdings) != 1 {
			t.Fatalf("expected 1 holding, got %d", len(holdings))
		}
		h := holdings[0]
		testutil.AssertDecimal(t, "quantity", h.Quantity, "1")
		testutil.AssertDecimal(t, "value", h.CurrentValue, "5000000")
		testutil.AssertDecimal(t, "profit", h.Profit, "1000000")
		testutil.AssertDecimal(t, "profit %", h.ProfitPercentage, "25")
		if h.Basis != PriceLive {
			t.Errorf("expected live basis, got %s", h.Basis)
		}
	})

	t.Run("deposit_details", func(t *testing.T) {
		h, err := svc.Holding(ctx, owner, models.AssetClassFixedDeposit, fd.ID)
		testutil.AssertNoError(t, err)
		if h.Deposit == nil {
			t.Fatal("expected deposit valuation")
		}
		testutil.AssertDecimal(t, "maturity amount", h.Deposit.MaturityAmount, "117165.94")
		if h.Deposit.IsMatured {
			t.Error("deposit should not be matured")
		}
		if h.Basis != PriceCalculated {
			t.Errorf("expected calculated basis, got %s", h.Basis)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		_, err := svc.Holding(ctx, testutil.NewOwnerID(), models.AssetClassFixedDeposit, fd.ID)
		testutil.AssertAppError(t, err, "POSITION_NOT_FOUND")
	})
}

func TestReportService_RealizedProfits(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db, newFakePrices(), testSettings())
	owner := testutil.NewOwnerID()
	when := datePtr(2026, 1, 10)

	// Seven assets; b and c tie and keep ledger order.
	var lots []*models.Equity
	for range 7 {
		lots = append(lots, testutil.CreateTestEquity(t, db, owner, "10", "100"))
	}
	recordSell(t, db, lots[0], "100", when)
	recordSell(t, db, lots[1], "300", when)
	recordSell(t, db, lots[2], "300", when)
	recordSell(t, db, lots[3], "-50", when)
	recordSell(t, db, lots[4], "20", when)
	recordSell(t, db, lots[5], "10", when)
	recordSell(t, db, lots[6], "5", when)
	recordSell(t, db, lots[0], "250", when)
	gold := testutil.CreateTestGold(t, db, owner, "10", "6000")
	recordSell(t, db, gold, "75", when)

	report, err := svc.RealizedProfits(ctx, owner)
	testutil.AssertNoError(t, err)

	testutil.AssertDecimal(t, "total", report.TotalProfit, "1010")

	if len(report.ByClass) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(report.ByClass))
	}
	testutil.AssertDecimal(t, "equity", report.ByClass[0].Profit, "935")
	if report.ByClass[0].Count != 8 {
		t.Errorf("expected 8 equity entries, got %d", report.ByClass[0].Count)
	}

	if len(report.TopAssets) != TopAssetsLimit {
		t.Fatalf("expected %d top assets, got %d", TopAssetsLimit, len(report.TopAssets))
	}
	want := []string{lots[0].Symbol, lots[1].Symbol, lots[2].Symbol, gold.LedgerSymbol(), lots[4].Symbol}
	for i, w := range want {
		if report.TopAssets[i].Symbol != w {
			t.Errorf("rank %d: expected %s, got %s", i, w, report.TopAssets[i].Symbol)
		}
	}
	testutil.AssertDecimal(t, "top profit", report.TopAssets[0].Profit, "350")
}

func TestReportService_TransactionStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db, newFakePrices(), testSettings())
	portfolio := newTestPortfolioService(db, newFakePrices())
	owner := testutil.NewOwnerID()

	eq, err := portfolio.OpenPosition(ctx, owner, &EquityInput{
		Symbol: "TCS", Name: "TCS", Quantity: testutil.D("10"), UnitCost: testutil.D("100"), AcquiredAt: datePtr(2025, 5, 1),
	})
	testutil.AssertNoError(t, err)
	_, err = portfolio.Sell(ctx, owner, models.AssetClassEquity, eq.GetID(), SellInput{
		Quantity: testutil.D("4"), Price: nullDecimal("150"), SellDate: datePtr(2026, 2, 1),
	})
	testutil.AssertNoError(t, err)
	_, err = portfolio.OpenPosition(ctx, owner, &GoldInput{
		Form: models.GoldCoin, Purity: "22K", Grams: testutil.D("8"), UnitCost: testutil.D("5000"), AcquiredAt: datePtr(2026, 3, 1),
	})
	testutil.AssertNoError(t, err)

	t.Run("all_time", func(t *testing.T) {
		stats, err := svc.TransactionStats(ctx, owner, StatsFilter{})
		testutil.AssertNoError(t, err)
		if stats.TotalTransactions != 3 {
			t.Errorf("expected 3 transactions, got %d", stats.TotalTransactions)
		}
		testutil.AssertDecimal(t, "investment", stats.TotalInvestment, "41000")
		testutil.AssertDecimal(t, "profit", stats.TotalProfit, "200")
		if len(stats.ByKind) != 2 || stats.ByKind[0].Kind != models.KindBuy || stats.ByKind[0].Count != 2 {
			t.Errorf("unexpected kind breakdown %+v", stats.ByKind)
		}
	})

	t.Run("year_2026", func(t *testing.T) {
		stats, err := svc.TransactionStats(ctx, owner, StatsFilter{Year: 2026})
		testutil.AssertNoError(t, err)
		// The sell carries its 2025 buy date too, and still matches by sell date.
		if stats.TotalTransactions != 2 {
			t.Errorf("expected 2 transactions in 2026, got %d", stats.TotalTransactions)
		}
		testutil.AssertDecimal(t, "investment", stats.TotalInvestment, "40000")
	})

	t.Run("class_filter", func(t *testing.T) {
		stats, err := svc.TransactionStats(ctx, owner, StatsFilter{AssetClass: models.AssetClassEquity})
		testutil.AssertNoError(t, err)
		if stats.TotalTransactions != 2 || len(stats.ByClass) != 1 {
			t.Errorf("expected 2 equity transactions, got %d", stats.TotalTransactions)
		}
	})
}

func TestReportService_CryptoStats(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	prices := newFakePrices()
	prices.set(models.AssetClassCrypto, "bitcoin", "5000000")
	prices.set(models.AssetClassCrypto, "ethereum", "200000")
	svc := NewReportService(db, prices, testSettings())
	staking := newTestStakingService(db, prices)
	owner := testutil.NewOwnerID()

	testutil.CreateTestCrypto(t, db, owner, "bitcoin", "0.3", "4000000")
	eth := testutil.CreateTestCrypto(t, db, owner, "ethereum", "10", "150000")
	_, err := staking.Stake(ctx, owner, eth.ID, StakeInput{
		Quantity: testutil.D("5"), Platform: "Lido", LockupDays: 365, EstimatedAPY: testutil.D("4"),
	})
	testutil.AssertNoError(t, err)

	stats, err := svc.CryptoStats(ctx, owner)
	testutil.AssertNoError(t, err)

	testutil.AssertDecimal(t, "value", stats.TotalValue, "3500000")
	testutil.AssertDecimal(t, "invested", stats.TotalInvested, "2700000")
	testutil.AssertDecimal(t, "staked value", stats.StakedValue, "1000000")
	testutil.AssertDecimal(t, "reward value", stats.EstimatedRewardValue, "40000")
	if stats.ActiveStakes != 1 {
		t.Errorf("expected 1 active stake, got %d", stats.ActiveStakes)
	}
	if len(stats.Coins) != 2 || stats.Coins[0].Key != "ETH" {
		t.Fatalf("expected ETH first, got %+v", stats.Coins)
	}
	testutil.AssertDecimal(t, "eth share", stats.Coins[0].Percentage, "57.14")
	if len(stats.Platforms) != 1 || !stats.Platforms[0].Percentage.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected a single platform at 100%%, got %+v", stats.Platforms)
	}
}

func TestReportService_UpcomingMaturities(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewReportService(db, newFakePrices(), testSettings())
	staking := newTestStakingService(db, newFakePrices())
	owner := testutil.NewOwnerID()
	other := testutil.NewOwnerID()

	soon := testutil.CreateTestFixedDeposit(t, db, owner, "10000", "7", models.InterestSimple, date(2025, 6, 20), date(2026, 6, 20))
	testutil.CreateTestFixedDeposit(t, db, owner, "10000", "7", models.InterestSimple, date(2025, 6, 20), date(2027, 6, 20))
	testutil.CreateTestFixedDeposit(t, db, other, "10000", "7", models.InterestSimple, date(2025, 6, 18), date(2026, 6, 18))
	pf := testutil.CreateTestProvidentFund(t, db, owner, "7.1", date(2011, 7, 1), "1000")
	c := testutil.CreateTestCrypto(t, db, owner, "solana", "10", "10000")
	stake, err := staking.Stake(ctx, owner, c.ID, StakeInput{
		Quantity: testutil.D("2"), Platform: "Jito", LockupDays: 20, StartDate: datePtr(2026, 6, 1),
	})
	testutil.AssertNoError(t, err)

	t.Run("owner_window", func(t *testing.T) {
		got, err := svc.UpcomingMaturities(ctx, owner, 30)
		testutil.AssertNoError(t, err)
		if len(got) != 3 {
			t.Fatalf("expected 3 maturities, got %d", len(got))
		}
		if got[0].PositionID != soon.ID || got[0].Type != MaturityFixedDeposit {
			t.Errorf("expected the fixed deposit first, got %+v", got[0])
		}
		testutil.AssertDecimal(t, "fd amount", got[0].Amount, "10700")
		if got[1].StakeID != stake.ID || got[1].Type != MaturityStakeLockup {
			t.Errorf("expected the stake lockup second, got %+v", got[1])
		}
		if got[2].PositionID != pf.ID || got[2].Type != MaturityProvidentFund {
			t.Errorf("expected the provident fund last, got %+v", got[2])
		}
	})

	t.Run("all_owners", func(t *testing.T) {
		got, err := svc.UpcomingMaturities(ctx, "", 30)
		testutil.AssertNoError(t, err)
		if len(got) != 4 {
			t.Errorf("expected 4 maturities across owners, got %d", len(got))
		}
	})

	t.Run("default_window", func(t *testing.T) {
		got, err := svc.UpcomingMaturities(ctx, owner, 0)
		testutil.AssertNoError(t, err)
		if len(got) != 3 {
			t.Errorf("expected the 30-day default window, got %d", len(got))
		}
	})
}
