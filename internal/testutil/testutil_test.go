package testutil_test

import (
	"testing"
	"time"

	"nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each table.
	var count int64
	for _, table := range []string{
		"equities", "gold_holdings", "mutual_funds", "real_estates", "fixed_deposits",
		"provident_funds", "provident_fund_contributions", "crypto_holdings",
		"staking_positions", "ledger_entries", "portfolio_snapshots", "audit_logs",
	} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	a := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, a)
	b := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, b)

	testutil.CreateTestEquity(t, a, testutil.NewOwnerID(), "1", "1")

	var count int64
	b.Model(&models.Equity{}).Count(&count)
	if count != 0 {
		t.Errorf("expected a fresh database, found %d equities", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	owner := testutil.NewOwnerID()

	eq := testutil.CreateTestEquity(t, db, owner, "10", "250.5")
	if eq.ID == "" || eq.Version != 1 {
		t.Errorf("expected id and version 1, got %q/%d", eq.ID, eq.Version)
	}
	testutil.AssertDecimal(t, "cost basis", eq.CostBasis(), "2505")

	mf := testutil.CreateTestMutualFund(t, db, owner, "100", "10000")
	testutil.AssertDecimal(t, "purchase nav", mf.PurchaseNAV, "100")

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pf := testutil.CreateTestProvidentFund(t, db, owner, "7.1", start, "1000", "2000")
	testutil.AssertDecimal(t, "total investment", pf.TotalInvestment, "3000")
	var contributions int64
	db.Model(&models.ProvidentFundContribution{}).Where("fund_id = ?", pf.ID).Count(&contributions)
	if contributions != 2 {
		t.Errorf("expected 2 contributions, got %d", contributions)
	}

	c := testutil.CreateTestCrypto(t, db, owner, "bitcoin", "0.5", "4000000")
	if c.LedgerSymbol() != "BIT" {
		t.Errorf("expected symbol BIT, got %s", c.LedgerSymbol())
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrPositionNotFound, "custom message")
	testutil.AssertAppError(t, err, "POSITION_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
