// Package provider fetches unit prices for portfolio assets from external
// market data sources.
package provider

import (
	"context"
	"fmt"
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

// PriceResult is a successfully fetched unit price, in the currency the
// source quotes it in.
type PriceResult struct {
	Identifier string
	Price      decimal.Decimal
	Currency   string
	RecordedAt time.Time
}

// FetchError represents a failed price fetch for one identifier.
type FetchError struct {
	Identifier string
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to fetch price for %s: %v", e.Identifier, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error { return e.Err }

// Provider fetches current unit prices for a set of identifiers.
type Provider interface {
	// Name returns the provider's display name (e.g., "Yahoo Finance", "CoinGecko").
	Name() string

	// Supports returns true if this provider prices the given asset class.
	Supports(class models.AssetClass) bool

	// BatchSize is the largest number of identifiers one FetchPrices call
	// should receive. Zero means unlimited.
	BatchSize() int

	// FetchPrices fetches current prices for the given identifiers.
	// A provider returns as many prices as possible; one failing identifier
	// never prevents the others from resolving.
	FetchPrices(ctx context.Context, identifiers []string) ([]PriceResult, []FetchError)
}

// failAll creates FetchErrors for every identifier of a failed batch.
func failAll(identifiers []string, err error) []FetchError {
	errs := make([]FetchError, len(identifiers))
	for i, id := range identifiers {
		errs[i] = FetchError{Identifier: id, Err: err}
	}
	return errs
}
