package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

func TestForexConverter_NeedsConversion(t *testing.T) {
	fc := NewForexConverter(http.DefaultClient, "INR")

	tests := []struct {
		currency string
		want     bool
	}{
		{"USD", true},
		{"usd", true},
		{"INR", false},
		{"inr", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := fc.NeedsConversion(tt.currency); got != tt.want {
			t.Errorf("NeedsConversion(%q) = %v, want %v", tt.currency, got, tt.want)
		}
	}
}

func TestForexConverter_GetRate_Cached(t *testing.T) {
	hits := 0
	server := newChartServer(t, map[string]chartQuote{"USDINR=X": {83.25, "INR"}}, &hits)
	fc := NewForexConverter(server.Client(), "INR", WithBaseURL(server.URL))

	for i := 0; i < 3; i++ {
		rate, err := fc.GetRate(context.Background(), "usd")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rate.String() != "83.25" {
			t.Errorf("rate = %s, want 83.25", rate)
		}
	}
	if hits != 1 {
		t.Errorf("expected 1 request, got %d", hits)
	}
}

func TestForexConverter_GetRate_SameCurrency(t *testing.T) {
	fc := NewForexConverter(http.DefaultClient, "INR")
	rate, err := fc.GetRate(context.Background(), "INR")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("rate = %s, want 1", rate)
	}
}

func TestForexConverter_Convert(t *testing.T) {
	server := newChartServer(t, map[string]chartQuote{"USDINR=X": {80, "INR"}}, nil)
	fc := NewForexConverter(server.Client(), "INR", WithBaseURL(server.URL))

	got, err := fc.Convert(context.Background(), decimal.RequireFromString("12.5"), "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != "1000" {
		t.Errorf("converted = %s, want 1000", got)
	}

	if _, err := fc.Convert(context.Background(), decimal.NewFromInt(1), "EUR"); err == nil {
		t.Error("expected error for unknown pair")
	}
}
