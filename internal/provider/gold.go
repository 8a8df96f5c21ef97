package provider

import (
	"context"
	"net/http"
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

const (
	goldFuturesTicker = "GC=F"
	gramsPerTroyOunce = "31.1035"
)

// GoldProvider prices gold per gram from the COMEX futures quote, which is
// per troy ounce in USD. Conversion to the reporting currency is left to the
// caller's forex step.
type GoldProvider struct {
	yahooChart
}

// NewGoldProvider creates a gold price provider backed by Yahoo Finance.
func NewGoldProvider(httpClient *http.Client, opts ...Option) *GoldProvider {
	return &GoldProvider{yahooChart{newSource(httpClient, yahooChartURL, opts)}}
}

// Name returns the provider's display name.
func (p *GoldProvider) Name() string { return "Yahoo Finance Gold" }

// Supports returns true for gold only.
func (p *GoldProvider) Supports(class models.AssetClass) bool {
	return class == models.AssetClassGold
}

// BatchSize is one: there is a single gold rate.
func (p *GoldProvider) BatchSize() int { return 1 }

// FetchPrices returns the per-gram price for every identifier.
func (p *GoldProvider) FetchPrices(ctx context.Context, identifiers []string) ([]PriceResult, []FetchError) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	perOunce, currency, err := p.quote(ctx, goldFuturesTicker)
	if err != nil {
		return nil, failAll(identifiers, err)
	}
	perGram := perOunce.Div(decimal.RequireFromString(gramsPerTroyOunce))

	now := time.Now().UTC()
	results := make([]PriceResult, 0, len(identifiers))
	for _, id := range identifiers {
		results = append(results, PriceResult{
			Identifier: id,
			Price:      perGram,
			Currency:   currency,
			RecordedAt: now,
		})
	}
	return results, nil
}
