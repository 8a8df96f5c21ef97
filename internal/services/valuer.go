package services

import (
	"context"
	"time"

	"nidhi/internal/models"
	"nidhi/internal/oracle"
	"nidhi/internal/valuation"

	"github.com/shopspring/decimal"
)

// PriceBasis says where a holding's current value came from.
type PriceBasis string

const (
	PriceLive       PriceBasis = "live"
	PriceFallback   PriceBasis = "fallback"
	PriceCalculated PriceBasis = "calculated"
	PriceManual     PriceBasis = "manual"
)

// Holding is an open position with its current valuation.
type Holding struct {
	AssetClass       models.AssetClass   `json:"asset_class"`
	ID               string              `json:"id"`
	Symbol           string              `json:"symbol"`
	Name             string              `json:"name"`
	Quantity         decimal.Decimal     `json:"quantity" swaggertype:"string"`
	Invested         decimal.Decimal     `json:"invested" swaggertype:"string"`
	UnitPrice        decimal.NullDecimal `json:"unit_price" swaggertype:"string"`
	CurrentValue     decimal.Decimal     `json:"current_value" swaggertype:"string"`
	Profit           decimal.Decimal     `json:"profit" swaggertype:"string"`
	ProfitPercentage decimal.Decimal     `json:"profit_percentage" swaggertype:"string"`
	Basis            PriceBasis          `json:"price_basis"`

	Deposit       *valuation.DepositValuation       `json:"deposit,omitempty"`
	ProvidentFund *valuation.ProvidentFundValuation `json:"provident_fund,omitempty"`

	Position models.Position `json:"position"`
}

// valuer turns positions into valued holdings. One valuer serves one
// aggregation pass so every position sees the same prices.
type valuer struct {
	prices   oracle.PriceSource
	settings Settings
	now      time.Time
}

func newValuer(prices oracle.PriceSource, settings Settings) *valuer {
	return &valuer{prices: prices, settings: settings, now: settings.Now()}
}

// value resolves all live prices in one pass, then values each position.
func (v *valuer) value(ctx context.Context, positions []models.Position) []Holding {
	var keys []oracle.Key
	for _, p := range positions {
		if id := p.PriceIdentifier(); id != "" {
			keys = append(keys, oracle.Key{Class: p.AssetClass(), Identifier: id})
		}
	}
	var results map[oracle.Key]oracle.Result
	if len(keys) > 0 && v.prices != nil {
		results = v.prices.Resolve(ctx, v.settings.BaseCurrency, keys)
	}

	holdings := make([]Holding, 0, len(positions))
	for _, p := range positions {
		r, ok := results[oracle.Key{Class: p.AssetClass(), Identifier: p.PriceIdentifier()}]
		if !ok {
			r = oracle.Result{}
		}
		holdings = append(holdings, v.valueOne(p, r))
	}
	return holdings
}

func (v *valuer) valueOne(p models.Position, price oracle.Result) Holding {
	h := Holding{
		AssetClass: p.AssetClass(),
		ID:         p.GetID(),
		Symbol:     p.LedgerSymbol(),
		Name:       p.LedgerName(),
		Quantity:   p.TotalHeld(),
		Invested:   v.settings.round(p.CostBasis()),
		Position:   p,
	}

	switch pos := p.(type) {
	case *models.RealEstate:
		h.Quantity = decimal.NewFromInt(1)
		h.CurrentValue = pos.Valuation()
		h.Basis = PriceManual
	case *models.FixedDeposit:
		dv := valuation.ValueDeposit(valuation.TermsOf(pos), v.now)
		h.CurrentValue = dv.CurrentValue
		h.Deposit = &dv
		h.Basis = PriceCalculated
	case *models.ProvidentFund:
		pv := valuation.ValueProvidentFund(pos, v.now)
		h.CurrentValue = pv.CurrentValue
		h.ProvidentFund = &pv
		h.Basis = PriceCalculated
	default:
		if price.Available() {
			h.UnitPrice = decimal.NewNullDecimal(price.Quote.Price)
			h.CurrentValue = p.TotalHeld().Mul(price.Quote.Price)
			h.Basis = PriceLive
		} else {
			h.CurrentValue = v.fallback(p)
			h.Basis = PriceFallback
		}
	}

	h.CurrentValue = v.settings.round(h.CurrentValue)
	h.Profit = h.CurrentValue.Sub(h.Invested)
	h.ProfitPercentage = models.Percent(h.Profit, h.Invested)
	return h
}

// fallback values a position whose live price is unavailable at cost, except
// mutual funds which assume the configured growth over cost.
func (v *valuer) fallback(p models.Position) decimal.Decimal {
	if p.AssetClass() == models.AssetClassMutualFund {
		return p.CostBasis().Mul(decimal.NewFromInt(1).Add(v.settings.MutualFundFallbackRate))
	}
	return p.CostBasis()
}
