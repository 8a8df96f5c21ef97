package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ForexConverter fetches exchange rates from Yahoo Finance and converts
// prices from their quote currency to a target currency (e.g. INR).
// Rates are cached for the lifetime of the converter, so one instance
// should be used per valuation pass.
type ForexConverter struct {
	chart          yahooChart
	targetCurrency string
	mu             sync.RWMutex
	rates          map[string]decimal.Decimal // "USD" -> 83.2 means 1 USD = 83.2 INR
}

// NewForexConverter creates a new ForexConverter that converts to the given target currency.
func NewForexConverter(httpClient *http.Client, targetCurrency string, opts ...Option) *ForexConverter {
	return &ForexConverter{
		chart:          yahooChart{newSource(httpClient, yahooChartURL, opts)},
		targetCurrency: strings.ToUpper(targetCurrency),
		rates:          make(map[string]decimal.Decimal),
	}
}

// TargetCurrency returns the target currency code (e.g. "INR").
func (f *ForexConverter) TargetCurrency() string {
	return f.targetCurrency
}

// NeedsConversion returns true if the given currency differs from the target.
func (f *ForexConverter) NeedsConversion(fromCurrency string) bool {
	return fromCurrency != "" && strings.ToUpper(fromCurrency) != f.targetCurrency
}

// GetRate fetches (or returns cached) the rate from fromCurrency to the
// target currency, using Yahoo tickers such as "USDINR=X".
func (f *ForexConverter) GetRate(ctx context.Context, fromCurrency string) (decimal.Decimal, error) {
	from := strings.ToUpper(fromCurrency)
	if from == f.targetCurrency {
		return decimal.NewFromInt(1), nil
	}

	f.mu.RLock()
	rate, ok := f.rates[from]
	f.mu.RUnlock()
	if ok {
		return rate, nil
	}

	rate, _, err := f.chart.quote(ctx, from+f.targetCurrency+"=X")
	if err != nil {
		return decimal.Zero, fmt.Errorf("forex %s->%s: %w", from, f.targetCurrency, err)
	}

	f.mu.Lock()
	f.rates[from] = rate
	f.mu.Unlock()

	return rate, nil
}

// Convert converts an amount from the given currency to the target currency.
func (f *ForexConverter) Convert(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error) {
	if !f.NeedsConversion(fromCurrency) {
		return amount, nil
	}

	rate, err := f.GetRate(ctx, fromCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rate), nil
}
