// Package oracle resolves current unit prices for portfolio positions. It is
// the single place where price-source failures are absorbed: every lookup
// yields a Result that is either a quote or an explicit unavailable marker.
package oracle

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/models"
	"nidhi/internal/provider"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Key identifies one price lookup.
type Key struct {
	Class      models.AssetClass
	Identifier string
}

// Quote is a unit price in the requested currency.
type Quote struct {
	Price    decimal.Decimal `json:"price"`
	Currency string          `json:"currency"`
	Source   string          `json:"source"`
	AsOf     time.Time       `json:"as_of"`
}

// Result is a quote or the reason it is unavailable.
type Result struct {
	Quote Quote
	Err   error
}

// Available reports whether the lookup produced a usable price.
func (r Result) Available() bool { return r.Err == nil && r.Quote.Price.IsPositive() }

func unavailable(err error) Result {
	return Result{Err: apperrors.Wrap(apperrors.ErrPriceUnavailable, err)}
}

// PriceSource is the price lookup contract the valuation layer depends on.
type PriceSource interface {
	GetUnitPrice(ctx context.Context, class models.AssetClass, identifier, currency string) Result
	Resolve(ctx context.Context, currency string, keys []Key) map[Key]Result
}

// CurrencyConverter converts quotes into the requested currency.
type CurrencyConverter interface {
	NeedsConversion(fromCurrency string) bool
	Convert(ctx context.Context, amount decimal.Decimal, fromCurrency string) (decimal.Decimal, error)
}

// ConverterFactory builds a converter for one resolve pass, so cached rates
// never outlive the pass that fetched them.
type ConverterFactory func(targetCurrency string) CurrencyConverter

// Config bounds the work a single resolve pass may do.
type Config struct {
	// Timeout applies to each provider call, conversion included.
	Timeout time.Duration
	// Concurrency caps provider calls in flight.
	Concurrency int
}

// Oracle fans price lookups out to providers.
type Oracle struct {
	providers    []provider.Provider
	newConverter ConverterFactory
	config       Config
	logger       *zap.SugaredLogger
}

// NewOracle creates a new Oracle. The first provider supporting a class wins.
func NewOracle(providers []provider.Provider, newConverter ConverterFactory, cfg Config, logger *zap.SugaredLogger) *Oracle {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Oracle{
		providers:    providers,
		newConverter: newConverter,
		config:       cfg,
		logger:       logger,
	}
}

// GetUnitPrice resolves a single price.
func (o *Oracle) GetUnitPrice(ctx context.Context, class models.AssetClass, identifier, currency string) Result {
	key := Key{Class: class, Identifier: identifier}
	return o.Resolve(ctx, currency, []Key{key})[key]
}

// Resolve looks up every distinct key once. Lookups run concurrently up to
// the configured cap; a failing or slow lookup only marks its own keys
// unavailable. The returned map holds an entry for every requested key.
func (o *Oracle) Resolve(ctx context.Context, currency string, keys []Key) map[Key]Result {
	currency = strings.ToUpper(currency)
	out := make(map[Key]Result, len(keys))

	// Group unique identifiers per provider.
	type group struct {
		identifiers []string
		classes     []models.AssetClass
		listed      map[string]bool
	}
	groups := make(map[int]*group)
	seen := make(map[Key]bool, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true

		if k.Identifier == "" {
			out[k] = unavailable(fmt.Errorf("%s position has no price identifier", k.Class))
			continue
		}
		idx := o.providerFor(k.Class)
		if idx < 0 {
			out[k] = unavailable(fmt.Errorf("no provider supports %s", k.Class))
			continue
		}
		grp, ok := groups[idx]
		if !ok {
			grp = &group{listed: map[string]bool{}}
			groups[idx] = grp
		}
		if !slices.Contains(grp.classes, k.Class) {
			grp.classes = append(grp.classes, k.Class)
		}
		if !grp.listed[k.Identifier] {
			grp.listed[k.Identifier] = true
			grp.identifiers = append(grp.identifiers, k.Identifier)
		}
	}
	if len(groups) == 0 {
		return out
	}

	var converter CurrencyConverter
	if o.newConverter != nil {
		converter = o.newConverter(currency)
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(o.config.Concurrency)

	for idx, grp := range groups {
		p := o.providers[idx]
		for _, batch := range chunk(grp.identifiers, p.BatchSize()) {
			g.Go(func() error {
				results := o.fetch(ctx, p, batch, currency, converter)
				mu.Lock()
				for id, r := range results {
					for _, c := range grp.classes {
						k := Key{Class: c, Identifier: id}
						if seen[k] {
							out[k] = r
						}
					}
				}
				mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()

	for k := range seen {
		if _, ok := out[k]; !ok {
			out[k] = unavailable(fmt.Errorf("no price returned for %s", k.Identifier))
		}
	}
	return out
}

// fetch runs one provider batch under the per-call timeout and converts
// every price into currency.
func (o *Oracle) fetch(ctx context.Context, p provider.Provider, batch []string, currency string, converter CurrencyConverter) map[string]Result {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	results := make(map[string]Result, len(batch))
	prices, fetchErrors := p.FetchPrices(ctx, batch)

	for _, fe := range fetchErrors {
		o.logger.Warnw("price unavailable", "provider", p.Name(), "identifier", fe.Identifier, "error", fe.Err)
		results[fe.Identifier] = unavailable(fe.Err)
	}

	for _, pr := range prices {
		price := pr.Price
		quoteCurrency := strings.ToUpper(pr.Currency)
		if quoteCurrency == "" {
			quoteCurrency = currency
		}
		if converter != nil && converter.NeedsConversion(quoteCurrency) {
			converted, err := converter.Convert(ctx, price, quoteCurrency)
			if err != nil {
				o.logger.Warnw("currency conversion failed", "provider", p.Name(), "identifier", pr.Identifier,
					"from", quoteCurrency, "to", currency, "error", err)
				results[pr.Identifier] = unavailable(err)
				continue
			}
			price = converted
		} else if quoteCurrency != currency {
			results[pr.Identifier] = unavailable(fmt.Errorf("cannot convert %s to %s", quoteCurrency, currency))
			continue
		}
		results[pr.Identifier] = Result{Quote: Quote{
			Price:    price,
			Currency: currency,
			Source:   p.Name(),
			AsOf:     pr.RecordedAt,
		}}
	}
	return results
}

func (o *Oracle) providerFor(class models.AssetClass) int {
	for i, p := range o.providers {
		if p.Supports(class) {
			return i
		}
	}
	return -1
}

// chunk splits ids into batches of at most size; size zero keeps one batch.
func chunk(ids []string, size int) [][]string {
	if size <= 0 || len(ids) <= size {
		return [][]string{ids}
	}
	var out [][]string
	for i := 0; i < len(ids); i += size {
		out = append(out, ids[i:min(i+size, len(ids))])
	}
	return out
}
