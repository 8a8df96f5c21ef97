package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nidhi/internal/models"
	"nidhi/internal/oracle"

	"github.com/shopspring/decimal"
)

// fakePrices is a PriceSource with fixed prices; unknown keys are unavailable.
type fakePrices struct {
	mu       sync.Mutex
	prices   map[oracle.Key]decimal.Decimal
	resolved int
}

var _ oracle.PriceSource = (*fakePrices)(nil)

func newFakePrices() *fakePrices {
	return &fakePrices{prices: make(map[oracle.Key]decimal.Decimal)}
}

func (f *fakePrices) set(class models.AssetClass, identifier, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prices[oracle.Key{Class: class, Identifier: identifier}] = decimal.RequireFromString(price)
}

func (f *fakePrices) lookup(k oracle.Key, currency string) oracle.Result {
	price, ok := f.prices[k]
	if !ok {
		return oracle.Result{Err: fmt.Errorf("no price for %s/%s", k.Class, k.Identifier)}
	}
	return oracle.Result{Quote: oracle.Quote{Price: price, Currency: currency, Source: "fake", AsOf: testNow}}
}

func (f *fakePrices) GetUnitPrice(ctx context.Context, class models.AssetClass, identifier, currency string) oracle.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookup(oracle.Key{Class: class, Identifier: identifier}, currency)
}

func (f *fakePrices) Resolve(ctx context.Context, currency string, keys []oracle.Key) map[oracle.Key]oracle.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolved++
	out := make(map[oracle.Key]oracle.Result, len(keys))
	for _, k := range keys {
		out[k] = f.lookup(k, currency)
	}
	return out
}

var testNow = time.Date(2026, time.June, 15, 10, 0, 0, 0, time.UTC)

func testSettings() Settings {
	return Settings{
		BaseCurrency:           "INR",
		MutualFundFallbackRate: decimal.RequireFromString("0.05"),
		MutationRetries:        3,
		Now:                    func() time.Time { return testNow },
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func nullDecimal(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func strPtr(s string) *string { return &s }
