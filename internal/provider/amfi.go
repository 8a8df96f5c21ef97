package provider

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nidhi/internal/models"

	"github.com/shopspring/decimal"
)

const (
	amfiNavURL = "https://www.amfiindia.com/spages/NAVAll.txt"

	// MaxSchemeSearchResults caps scheme search responses.
	MaxSchemeSearchResults = 20
)

// Scheme is one row of the AMFI NAV file.
type Scheme struct {
	Code                string          `json:"scheme_code"`
	Name                string          `json:"scheme_name"`
	ISINGrowth          string          `json:"isin_growth,omitempty"`
	ISINDivReinvestment string          `json:"isin_div_reinvestment,omitempty"`
	NAV                 decimal.Decimal `json:"nav"`
	Date                string          `json:"date,omitempty"`
}

// AMFIProvider prices Indian mutual funds by scheme code from the daily
// AMFI NAV file. One download serves a whole batch.
type AMFIProvider struct {
	source
}

// NewAMFIProvider creates a new AMFI NAV provider.
func NewAMFIProvider(httpClient *http.Client, opts ...Option) *AMFIProvider {
	return &AMFIProvider{newSource(httpClient, amfiNavURL, opts)}
}

// Name returns the provider's display name.
func (p *AMFIProvider) Name() string { return "AMFI" }

// Supports returns true for mutual funds.
func (p *AMFIProvider) Supports(class models.AssetClass) bool {
	return class == models.AssetClassMutualFund
}

// BatchSize is unlimited: the file covers every scheme.
func (p *AMFIProvider) BatchSize() int { return 0 }

// FetchPrices looks up the NAV of each scheme code.
func (p *AMFIProvider) FetchPrices(ctx context.Context, identifiers []string) ([]PriceResult, []FetchError) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	wanted := make(map[string]bool, len(identifiers))
	for _, id := range identifiers {
		wanted[id] = true
	}

	found := make(map[string]Scheme, len(identifiers))
	err := p.scan(ctx, func(s Scheme) bool {
		if wanted[s.Code] {
			found[s.Code] = s
		}
		return len(found) < len(wanted)
	})
	if err != nil {
		return nil, failAll(identifiers, err)
	}

	now := time.Now().UTC()
	var results []PriceResult
	var fetchErrors []FetchError
	for _, id := range identifiers {
		s, ok := found[id]
		if !ok {
			fetchErrors = append(fetchErrors, FetchError{Identifier: id, Err: fmt.Errorf("scheme %s not found in NAV file", id)})
			continue
		}
		results = append(results, PriceResult{Identifier: id, Price: s.NAV, Currency: "INR", RecordedAt: now})
	}
	return results, fetchErrors
}

// Search returns schemes whose name contains query (case-insensitive) or
// whose code equals it, at most MaxSchemeSearchResults.
func (p *AMFIProvider) Search(ctx context.Context, query string) ([]Scheme, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Scheme{}, nil
	}

	results := []Scheme{}
	err := p.scan(ctx, func(s Scheme) bool {
		if s.Code == q || strings.Contains(strings.ToLower(s.Name), q) {
			results = append(results, s)
		}
		return len(results) < MaxSchemeSearchResults
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// scan downloads the NAV file and calls visit for every priced scheme until
// visit returns false.
func (p *AMFIProvider) scan(ctx context.Context, visit func(Scheme) bool) error {
	resp, err := p.get(ctx, p.baseURL)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	return parseNAVFile(resp.Body, visit)
}

// parseNAVFile reads the semicolon separated layout
//
//	Scheme Code;ISIN Div Payout/ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date
//
// skipping headers, fund-house section titles and rows without a NAV.
func parseNAVFile(r io.Reader, visit func(Scheme) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		parts := strings.Split(strings.TrimSpace(scanner.Text()), ";")
		if len(parts) < 5 {
			continue
		}
		code := strings.TrimSpace(parts[0])
		nav, err := decimal.NewFromString(strings.TrimSpace(parts[4]))
		if code == "" || err != nil || !nav.IsPositive() {
			continue
		}
		s := Scheme{
			Code:                code,
			ISINGrowth:          strings.TrimSpace(parts[1]),
			ISINDivReinvestment: strings.TrimSpace(parts[2]),
			Name:                strings.TrimSpace(parts[3]),
			NAV:                 nav,
		}
		if len(parts) > 5 {
			s.Date = strings.TrimSpace(parts[5])
		}
		if !visit(s) {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading NAV file: %w", err)
	}
	return nil
}
