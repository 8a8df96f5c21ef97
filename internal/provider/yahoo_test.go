package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"nidhi/internal/models"
)

// v8ChartResponse builds a v8 chart JSON body for one ticker.
func v8ChartResponse(symbol string, price float64, currency string) map[string]any {
	return map[string]any{
		"chart": map[string]any{
			"result": []any{
				map[string]any{"meta": map[string]any{
					"symbol":             symbol,
					"currency":           currency,
					"regularMarketPrice": price,
				}},
			},
			"error": nil,
		},
	}
}

// v8ChartErrorResponse builds a v8 chart error body.
func v8ChartErrorResponse(code, description string) map[string]any {
	return map[string]any{
		"chart": map[string]any{
			"result": nil,
			"error":  map[string]any{"code": code, "description": description},
		},
	}
}

type chartQuote struct {
	price    float64
	currency string
}

// newChartServer serves chart responses keyed by ticker and counts requests.
func newChartServer(t *testing.T, quotes map[string]chartQuote, hits *int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			*hits++
		}
		ticker := strings.TrimPrefix(r.URL.Path, "/")
		w.Header().Set("Content-Type", "application/json")
		q, ok := quotes[ticker]
		if !ok {
			_ = json.NewEncoder(w).Encode(v8ChartErrorResponse("Not Found", "No data found for "+ticker))
			return
		}
		_ = json.NewEncoder(w).Encode(v8ChartResponse(ticker, q.price, q.currency))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestYahooTicker(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AAPL", "AAPL"},
		{"NSE:RELIANCE", "RELIANCE.NS"},
		{"bse:tcs", "TCS.BO"},
		{"LSE:VOD", "VOD.L"},
		{"NASDAQ:MSFT", "MSFT"},
	}
	for _, tt := range tests {
		if got := YahooTicker(tt.in); got != tt.want {
			t.Errorf("YahooTicker(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestYahooProvider_Supports(t *testing.T) {
	p := NewYahooProvider(http.DefaultClient)
	if !p.Supports(models.AssetClassEquity) {
		t.Error("expected Supports(equity) = true")
	}
	for _, c := range []models.AssetClass{models.AssetClassCrypto, models.AssetClassGold, models.AssetClassMutualFund} {
		if p.Supports(c) {
			t.Errorf("expected Supports(%q) = false", c)
		}
	}
}

func TestYahooProvider_FetchPrices(t *testing.T) {
	server := newChartServer(t, map[string]chartQuote{
		"RELIANCE.NS": {2950.5, "INR"},
		"AAPL":        {190.25, "USD"},
		"VOD.L":       {72.5, "GBp"},
	}, nil)

	p := NewYahooProvider(server.Client(), WithBaseURL(server.URL))

	t.Run("mixed success and failure", func(t *testing.T) {
		results, fetchErrors := p.FetchPrices(context.Background(), []string{"NSE:RELIANCE", "AAPL", "NOPE"})
		if len(results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(results))
		}
		if len(fetchErrors) != 1 || fetchErrors[0].Identifier != "NOPE" {
			t.Fatalf("expected one error for NOPE, got %v", fetchErrors)
		}
		byID := map[string]PriceResult{}
		for _, r := range results {
			byID[r.Identifier] = r
		}
		if got := byID["NSE:RELIANCE"]; got.Price.String() != "2950.5" || got.Currency != "INR" {
			t.Errorf("RELIANCE = %s %s", got.Price, got.Currency)
		}
		if got := byID["AAPL"]; got.Price.String() != "190.25" || got.Currency != "USD" {
			t.Errorf("AAPL = %s %s", got.Price, got.Currency)
		}
	})

	t.Run("pence normalized to pounds", func(t *testing.T) {
		results, _ := p.FetchPrices(context.Background(), []string{"LSE:VOD"})
		if len(results) != 1 {
			t.Fatalf("expected 1 result, got %d", len(results))
		}
		if results[0].Price.String() != "0.725" || results[0].Currency != "GBP" {
			t.Errorf("VOD = %s %s, want 0.725 GBP", results[0].Price, results[0].Currency)
		}
	})
}

func TestYahooProvider_FetchPrices_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	p := NewYahooProvider(server.Client(), WithBaseURL(server.URL))
	results, fetchErrors := p.FetchPrices(context.Background(), []string{"AAPL", "MSFT"})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
	if len(fetchErrors) != 2 {
		t.Errorf("expected 2 errors, got %d", len(fetchErrors))
	}
}

func TestYahooProvider_FetchPrices_CancelledContext(t *testing.T) {
	server := newChartServer(t, map[string]chartQuote{"AAPL": {1, "USD"}}, nil)
	p := NewYahooProvider(server.Client(), WithBaseURL(server.URL))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, fetchErrors := p.FetchPrices(ctx, []string{"AAPL"})
	if len(results) != 0 || len(fetchErrors) != 1 {
		t.Errorf("expected cancelled lookup to fail, got %d results %d errors", len(results), len(fetchErrors))
	}
}
