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

const (
	coinGeckoURL      = "https://api.coingecko.com/api/v3"
	coinGeckoBatchMax = 50
)

// CoinGeckoProvider prices cryptocurrencies by CoinGecko coin id.
type CoinGeckoProvider struct {
	source
	vsCurrency string
}

// NewCoinGeckoProvider creates a provider quoting in vsCurrency (e.g. "INR").
func NewCoinGeckoProvider(httpClient *http.Client, vsCurrency string, opts ...Option) *CoinGeckoProvider {
	if vsCurrency == "" {
		vsCurrency = "USD"
	}
	return &CoinGeckoProvider{
		source:     newSource(httpClient, coinGeckoURL, opts),
		vsCurrency: strings.ToLower(vsCurrency),
	}
}

// Name returns the provider's display name.
func (p *CoinGeckoProvider) Name() string { return "CoinGecko" }

// Supports returns true for crypto only.
func (p *CoinGeckoProvider) Supports(class models.AssetClass) bool {
	return class == models.AssetClassCrypto
}

// BatchSize caps the ids sent in one simple/price request.
func (p *CoinGeckoProvider) BatchSize() int { return coinGeckoBatchMax }

// FetchPrices fetches prices for a batch of coin ids in one request.
func (p *CoinGeckoProvider) FetchPrices(ctx context.Context, identifiers []string) ([]PriceResult, []FetchError) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	ids := make([]string, len(identifiers))
	for i, id := range identifiers {
		ids[i] = strings.ToLower(id)
	}

	q := url.Values{}
	q.Set("ids", strings.Join(ids, ","))
	q.Set("vs_currencies", p.vsCurrency)

	resp, err := p.get(ctx, p.baseURL+"/simple/price?"+q.Encode())
	if err != nil {
		return nil, failAll(identifiers, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, failAll(identifiers, fmt.Errorf("decoding response: %w", err))
	}

	now := time.Now().UTC()
	var results []PriceResult
	var fetchErrors []FetchError
	for i, id := range identifiers {
		price, ok := body[ids[i]][p.vsCurrency]
		if !ok || price <= 0 {
			fetchErrors = append(fetchErrors, FetchError{Identifier: id, Err: fmt.Errorf("coin %s not found in response", id)})
			continue
		}
		results = append(results, PriceResult{
			Identifier: id,
			Price:      decimal.NewFromFloat(price),
			Currency:   strings.ToUpper(p.vsCurrency),
			RecordedAt: now,
		})
	}
	return results, fetchErrors
}
