package provider

import (
	"context"
	"testing"

	"nidhi/internal/models"
)

func TestGoldProvider_FetchPrices(t *testing.T) {
	hits := 0
	server := newChartServer(t, map[string]chartQuote{"GC=F": {3110.35, "USD"}}, &hits)
	p := NewGoldProvider(server.Client(), WithBaseURL(server.URL))

	if !p.Supports(models.AssetClassGold) || p.Supports(models.AssetClassEquity) {
		t.Fatal("gold provider should support gold only")
	}

	results, fetchErrors := p.FetchPrices(context.Background(), []string{models.GoldPriceIdentifier})
	if len(fetchErrors) != 0 {
		t.Fatalf("unexpected errors: %v", fetchErrors)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if got := results[0].Price.StringFixed(2); got != "100.00" {
		t.Errorf("per gram = %s, want 100.00", got)
	}
	if results[0].Currency != "USD" {
		t.Errorf("currency = %s, want USD", results[0].Currency)
	}
	if hits != 1 {
		t.Errorf("expected 1 request, got %d", hits)
	}
}

func TestGoldProvider_FetchPrices_Unavailable(t *testing.T) {
	server := newChartServer(t, map[string]chartQuote{}, nil)
	p := NewGoldProvider(server.Client(), WithBaseURL(server.URL))

	results, fetchErrors := p.FetchPrices(context.Background(), []string{models.GoldPriceIdentifier})
	if len(results) != 0 || len(fetchErrors) != 1 {
		t.Errorf("expected 0 results and 1 error, got %d and %d", len(results), len(fetchErrors))
	}
}
