package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// exchangeSuffixes maps exchange codes to Yahoo Finance ticker suffixes.
var exchangeSuffixes = map[string]string{
	"NSE":      ".NS",
	"BSE":      ".BO",
	"TSX":      ".TO",
	"TSXV":     ".V",
	"LSE":      ".L",
	"HKEX":     ".HK",
	"ASX":      ".AX",
	"SGX":      ".SI",
	"KRX":      ".KS",
	"KOSDAQ":   ".KQ",
	"BURSA":    ".KL",
	"JPX":      ".T",
	"FRA":      ".F",
	"XETRA":    ".DE",
	"SIX":      ".SW",
	"EURONEXT": ".PA",
}

// yahooChartResponse is the subset of the v8 chart response we read.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooChart is a single-ticker quote from the chart endpoint.
type yahooChart struct {
	source
}

// quote returns the regular market price and currency of ticker. Prices
// quoted in pence are normalized to pounds.
func (c *yahooChart) quote(ctx context.Context, ticker string) (decimal.Decimal, string, error) {
	resp, err := c.get(ctx, c.baseURL+"/"+url.PathEscape(ticker)+"?interval=1d&range=1d")
	if err != nil {
		return decimal.Zero, "", err
	}
	defer func() { _ = resp.Body.Close() }()

	var chartResp yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return decimal.Zero, "", fmt.Errorf("decoding chart for %s: %w", ticker, err)
	}
	if chartResp.Chart.Error != nil {
		return decimal.Zero, "", fmt.Errorf("chart error for %s: %s: %s", ticker, chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 {
		return decimal.Zero, "", fmt.Errorf("no chart results for %s", ticker)
	}

	meta := chartResp.Chart.Result[0].Meta
	if meta.RegularMarketPrice <= 0 {
		return decimal.Zero, "", fmt.Errorf("invalid price for %s: %f", ticker, meta.RegularMarketPrice)
	}
	price := decimal.NewFromFloat(meta.RegularMarketPrice)
	currency := meta.Currency
	if currency == "GBp" || currency == "GBX" {
		price = price.Div(decimal.NewFromInt(100))
		currency = "GBP"
	}
	return price, strings.ToUpper(currency), nil
}

// YahooProvider prices listed equities from the Yahoo Finance chart endpoint.
type YahooProvider struct {
	yahooChart
}

// NewYahooProvider creates a new Yahoo Finance price provider.
func NewYahooProvider(httpClient *http.Client, opts ...Option) *YahooProvider {
	return &YahooProvider{yahooChart{newSource(httpClient, yahooChartURL, opts)}}
}

// Name returns the provider's display name.
func (p *YahooProvider) Name() string { return "Yahoo Finance" }

// Supports returns true for equities.
func (p *YahooProvider) Supports(class models.AssetClass) bool {
	return class == models.AssetClassEquity
}

// BatchSize is one: the chart endpoint quotes a single ticker.
func (p *YahooProvider) BatchSize() int { return 1 }

// YahooTicker converts an "EXCHANGE:SYMBOL" identifier into a Yahoo ticker.
// Identifiers without an exchange, or with an unknown one, pass through.
func YahooTicker(identifier string) string {
	exchange, symbol, ok := strings.Cut(identifier, ":")
	if !ok {
		return strings.ToUpper(identifier)
	}
	if suffix, found := exchangeSuffixes[strings.ToUpper(exchange)]; found {
		return strings.ToUpper(symbol) + suffix
	}
	return strings.ToUpper(symbol)
}

// FetchPrices fetches the current price of each identifier.
func (p *YahooProvider) FetchPrices(ctx context.Context, identifiers []string) ([]PriceResult, []FetchError) {
	var results []PriceResult
	var fetchErrors []FetchError

	for _, id := range identifiers {
		price, currency, err := p.quote(ctx, YahooTicker(id))
		if err != nil {
			fetchErrors = append(fetchErrors, FetchError{Identifier: id, Err: err})
			continue
		}
		results = append(results, PriceResult{
			Identifier: id,
			Price:      price,
			Currency:   currency,
			RecordedAt: time.Now().UTC(),
		})
	}
	return results, fetchErrors
}
