package services

import (
	"context"
	"testing"

	"nidhi/internal/models"
	"nidhi/internal/pagination"
	"nidhi/internal/testutil"
)

func TestTransactionService(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	portfolio := newTestPortfolioService(db, newFakePrices())
	svc := NewTransactionService(db)
	owner := testutil.NewOwnerID()

	eq, err := portfolio.OpenPosition(ctx, owner, &EquityInput{
		Symbol: "infy", Name: "Infosys", Exchange: "NSE",
		Quantity: testutil.D("20"), UnitCost: testutil.D("1500"), AcquiredAt: datePtr(2025, 3, 10),
	})
	testutil.AssertNoError(t, err)
	_, err = portfolio.Sell(ctx, owner, models.AssetClassEquity, eq.GetID(), SellInput{
		Quantity: testutil.D("5"), Price: nullDecimal("1600"), SellDate: datePtr(2026, 4, 1),
	})
	testutil.AssertNoError(t, err)
	_, err = portfolio.OpenPosition(ctx, owner, &CryptoInput{
		CoinID: "bitcoin", Symbol: "btc", Quantity: testutil.D("0.1"), UnitCost: testutil.D("5000000"), AcquiredAt: datePtr(2026, 5, 1),
	})
	testutil.AssertNoError(t, err)

	t.Run("lists_newest_first", func(t *testing.T) {
		result, err := svc.ListTransactions(owner, TransactionFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 3 {
			t.Fatalf("expected 3 entries, got %d", result.TotalItems)
		}
		if result.Data[0].AssetClass != models.AssetClassCrypto {
			t.Errorf("expected the crypto buy first, got %s", result.Data[0].AssetClass)
		}
		if result.Data[1].Kind != models.KindSell {
			t.Errorf("expected the sell second, got %s", result.Data[1].Kind)
		}
	})

	t.Run("filters_by_kind", func(t *testing.T) {
		result, err := svc.ListTransactions(owner, TransactionFilter{Kind: models.KindSell}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 {
			t.Fatalf("expected 1 sell, got %d", result.TotalItems)
		}
		testutil.AssertDecimal(t, "profit", result.Data[0].Profit.Decimal, "500")
	})

	t.Run("filters_by_class_and_symbol", func(t *testing.T) {
		result, err := svc.ListTransactions(owner, TransactionFilter{Class: models.AssetClassEquity, Symbol: "INFY"}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 2 {
			t.Errorf("expected 2 INFY entries, got %d", result.TotalItems)
		}
	})

	t.Run("filters_by_date_range", func(t *testing.T) {
		from, to := date(2026, 1, 1), date(2026, 4, 30)
		result, err := svc.ListTransactions(owner, TransactionFilter{From: &from, To: &to}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		if result.TotalItems != 1 || result.Data[0].Kind != models.KindSell {
			t.Errorf("expected only the sell in range, got %d entries", result.TotalItems)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		result, err := svc.ListTransactions(owner, TransactionFilter{}, pagination.PageRequest{Page: 2, PageSize: 2})
		testutil.AssertNoError(t, err)
		if len(result.Data) != 1 || result.TotalPages != 2 {
			t.Errorf("expected 1 item on page 2 of 2, got %d of %d", len(result.Data), result.TotalPages)
		}
	})

	t.Run("get_and_isolation", func(t *testing.T) {
		list, err := svc.ListTransactions(owner, TransactionFilter{}, pagination.PageRequest{})
		testutil.AssertNoError(t, err)
		id := list.Data[0].ID

		entry, err := svc.GetTransaction(owner, id)
		testutil.AssertNoError(t, err)
		if _, ok := entry.Details.(*models.BuyDetails); !ok {
			t.Errorf("expected buy details, got %T", entry.Details)
		}

		_, err = svc.GetTransaction(testutil.NewOwnerID(), id)
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
		_, err = svc.GetTransaction(owner, "not-a-uuid")
		testutil.AssertAppError(t, err, "TRANSACTION_NOT_FOUND")
	})
}
