package services

import (
	"cmp"
	"context"
	"slices"
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/ledger"
	"nidhi/internal/logger"
	"nidhi/internal/models"
	"nidhi/internal/oracle"
	"nidhi/internal/store"
	"nidhi/internal/valuation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TopAssetsLimit is the length of the most-profitable-assets ranking.
const TopAssetsLimit = 5

// DefaultMaturityWindowDays is used when no window is requested.
const DefaultMaturityWindowDays = 30

var closingKinds = []models.EntryKind{
	models.KindSell, models.KindMature, models.KindPrematureWithdrawal, models.KindUnstake,
}

// ClassSummary is the valuation of one asset class.
type ClassSummary struct {
	AssetClass       models.AssetClass `json:"asset_class"`
	Positions        int               `json:"positions"`
	Invested         decimal.Decimal   `json:"invested" swaggertype:"string"`
	CurrentValue     decimal.Decimal   `json:"current_value" swaggertype:"string"`
	Profit           decimal.Decimal   `json:"profit" swaggertype:"string"`
	GrowthPercentage decimal.Decimal   `json:"growth_percentage" swaggertype:"string"`
	// FallbackValued counts positions valued without a live price.
	FallbackValued int `json:"fallback_valued"`
}

// PortfolioSummary is the owner's portfolio valued at AsOf.
type PortfolioSummary struct {
	Currency         string          `json:"currency"`
	AsOf             time.Time       `json:"as_of"`
	Classes          []ClassSummary  `json:"classes"`
	PositionCount    int             `json:"position_count"`
	TotalInvested    decimal.Decimal `json:"total_invested" swaggertype:"string"`
	TotalValue       decimal.Decimal `json:"total_value" swaggertype:"string"`
	TotalProfit      decimal.Decimal `json:"total_profit" swaggertype:"string"`
	GrowthPercentage decimal.Decimal `json:"growth_percentage" swaggertype:"string"`
	RealizedProfit   decimal.Decimal `json:"realized_profit" swaggertype:"string"`
}

// ClassProfit is realized profit summed over one asset class.
type ClassProfit struct {
	AssetClass models.AssetClass `json:"asset_class"`
	Profit     decimal.Decimal   `json:"profit" swaggertype:"string"`
	Count      int               `json:"count"`
}

// AssetProfit is realized profit summed over one asset.
type AssetProfit struct {
	AssetClass models.AssetClass `json:"asset_class"`
	Symbol     string            `json:"symbol"`
	Name       string            `json:"name"`
	Profit     decimal.Decimal   `json:"profit" swaggertype:"string"`
	Count      int               `json:"count"`
}

// RealizedProfitReport aggregates the closing entries of the ledger.
type RealizedProfitReport struct {
	Currency    string          `json:"currency"`
	TotalProfit decimal.Decimal `json:"total_profit" swaggertype:"string"`
	ByClass     []ClassProfit   `json:"by_class"`
	TopAssets   []AssetProfit   `json:"top_assets"`
}

// StatsFilter narrows transaction statistics.
type StatsFilter struct {
	AssetClass models.AssetClass `form:"asset_class" binding:"omitempty,asset_class"`
	Year       int               `form:"year" binding:"omitempty,min=1900,max=2200"`
}

// KindStats aggregates entries of one kind.
type KindStats struct {
	Kind   models.EntryKind `json:"kind"`
	Count  int              `json:"count"`
	Amount decimal.Decimal  `json:"amount" swaggertype:"string"`
	Profit decimal.Decimal  `json:"profit" swaggertype:"string"`
}

// ClassStats aggregates entries of one asset class.
type ClassStats struct {
	AssetClass models.AssetClass `json:"asset_class"`
	Count      int               `json:"count"`
	Investment decimal.Decimal   `json:"investment" swaggertype:"string"`
	Profit     decimal.Decimal   `json:"profit" swaggertype:"string"`
}

// TransactionStats summarizes the ledger.
type TransactionStats struct {
	AssetClass        models.AssetClass `json:"asset_class,omitempty"`
	Year              int               `json:"year,omitempty"`
	TotalTransactions int               `json:"total_transactions"`
	TotalInvestment   decimal.Decimal   `json:"total_investment" swaggertype:"string"`
	TotalProfit       decimal.Decimal   `json:"total_profit" swaggertype:"string"`
	ByClass           []ClassStats      `json:"by_class"`
	ByKind            []KindStats       `json:"by_kind"`
}

// Distribution is one slice of a value breakdown.
type Distribution struct {
	Key        string          `json:"key"`
	Value      decimal.Decimal `json:"value" swaggertype:"string"`
	Percentage decimal.Decimal `json:"percentage" swaggertype:"string"`
}

// CryptoStats breaks the crypto holdings down by coin and platform.
type CryptoStats struct {
	Currency             string          `json:"currency"`
	TotalInvested        decimal.Decimal `json:"total_invested" swaggertype:"string"`
	TotalValue           decimal.Decimal `json:"total_value" swaggertype:"string"`
	UnrealizedProfit     decimal.Decimal `json:"unrealized_profit" swaggertype:"string"`
	RealizedProfit       decimal.Decimal `json:"realized_profit" swaggertype:"string"`
	StakedValue          decimal.Decimal `json:"staked_value" swaggertype:"string"`
	EstimatedRewardValue decimal.Decimal `json:"estimated_reward_value" swaggertype:"string"`
	ActiveStakes         int             `json:"active_stakes"`
	Coins                []Distribution  `json:"coins"`
	Platforms            []Distribution  `json:"platforms"`
}

// MaturityType distinguishes the instruments reported as maturing.
type MaturityType string

const (
	MaturityFixedDeposit  MaturityType = "fixed-deposit"
	MaturityProvidentFund MaturityType = "provident-fund"
	MaturityStakeLockup   MaturityType = "stake-lockup"
)

// Maturity is an instrument reaching its term within the requested window.
type Maturity struct {
	OwnerID       string            `json:"owner_id"`
	Type          MaturityType      `json:"type"`
	AssetClass    models.AssetClass `json:"asset_class"`
	PositionID    string            `json:"position_id"`
	StakeID       string            `json:"stake_id,omitempty"`
	Name          string            `json:"name"`
	MaturityDate  time.Time         `json:"maturity_date"`
	DaysRemaining int               `json:"days_remaining"`
	// Amount is the expected maturity value, or the staked quantity for a lockup.
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
}

// reportService derives valuations and statistics.
type reportService struct {
	db        *gorm.DB
	positions store.PortfolioRepository
	ledger    *ledger.Ledger
	prices    oracle.PriceSource
	settings  Settings
	log       *zap.SugaredLogger
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB, prices oracle.PriceSource, settings Settings) ReportServicer {
	return &reportService{
		db:        db,
		positions: store.NewPositionStore(db),
		ledger:    ledger.New(db),
		prices:    prices,
		settings:  settings.withDefaults(),
		log:       logger.Named("report"),
	}
}

// Summary values every open position of the owner.
func (s *reportService) Summary(ctx context.Context, ownerID string) (*PortfolioSummary, error) {
	positions, err := s.positions.ListOpenPositions(ownerID)
	if err != nil {
		return nil, err
	}
	v := newValuer(s.prices, s.settings)
	holdings := v.value(ctx, positions)

	realized, err := s.realizedTotal(ledger.Filter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}

	summary := &PortfolioSummary{
		Currency:       s.settings.BaseCurrency,
		AsOf:           v.now,
		PositionCount:  len(holdings),
		RealizedProfit: realized,
	}
	byClass := make(map[models.AssetClass]*ClassSummary, len(models.AssetClasses))
	for _, class := range models.AssetClasses {
		summary.Classes = append(summary.Classes, ClassSummary{AssetClass: class})
	}
	for i := range summary.Classes {
		byClass[summary.Classes[i].AssetClass] = &summary.Classes[i]
	}

	for _, h := range holdings {
		cs := byClass[h.AssetClass]
		cs.Positions++
		cs.Invested = cs.Invested.Add(h.Invested)
		cs.CurrentValue = cs.CurrentValue.Add(h.CurrentValue)
		if h.Basis == PriceFallback {
			cs.FallbackValued++
		}
	}
	for i := range summary.Classes {
		cs := &summary.Classes[i]
		cs.Profit = cs.CurrentValue.Sub(cs.Invested)
		cs.GrowthPercentage = models.Percent(cs.Profit, cs.Invested)
		summary.TotalInvested = summary.TotalInvested.Add(cs.Invested)
		summary.TotalValue = summary.TotalValue.Add(cs.CurrentValue)
		if cs.FallbackValued > 0 {
			s.log.Debugw("positions valued by fallback", "owner_id", ownerID, "asset_class", cs.AssetClass, "count", cs.FallbackValued)
		}
	}
	summary.TotalProfit = summary.TotalValue.Sub(summary.TotalInvested)
	summary.GrowthPercentage = models.Percent(summary.TotalProfit, summary.TotalInvested)
	return summary, nil
}

// Holdings values the owner's open positions of one class.
func (s *reportService) Holdings(ctx context.Context, ownerID string, class models.AssetClass) ([]Holding, error) {
	positions, err := s.positions.List(ownerID, class)
	if err != nil {
		return nil, err
	}
	return newValuer(s.prices, s.settings).value(ctx, positions), nil
}

// Holding values a single position.
func (s *reportService) Holding(ctx context.Context, ownerID string, class models.AssetClass, id string) (*Holding, error) {
	p, err := s.positions.Get(ownerID, class, id)
	if err != nil {
		return nil, err
	}
	h := newValuer(s.prices, s.settings).value(ctx, []models.Position{p})[0]
	return &h, nil
}

func (s *reportService) realizedTotal(f ledger.Filter) (decimal.Decimal, error) {
	f.Kinds = closingKinds
	entries, err := s.ledger.All(f)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Profit.Decimal)
	}
	return total, nil
}

// RealizedProfits sums the profit of every closing entry, by class and by
// asset. The asset ranking keeps ledger order among equal profits.
func (s *reportService) RealizedProfits(ctx context.Context, ownerID string) (*RealizedProfitReport, error) {
	entries, err := s.ledger.All(ledger.Filter{OwnerID: ownerID, Kinds: closingKinds})
	if err != nil {
		return nil, err
	}

	report := &RealizedProfitReport{Currency: s.settings.BaseCurrency, TotalProfit: decimal.Zero}
	classes := make(map[models.AssetClass]*ClassProfit)
	type assetKey struct {
		class  models.AssetClass
		symbol string
	}
	assetIndex := make(map[assetKey]int)
	var assets []AssetProfit

	for _, e := range entries {
		profit := e.Profit.Decimal
		report.TotalProfit = report.TotalProfit.Add(profit)

		cp, ok := classes[e.AssetClass]
		if !ok {
			cp = &ClassProfit{AssetClass: e.AssetClass}
			classes[e.AssetClass] = cp
		}
		cp.Profit = cp.Profit.Add(profit)
		cp.Count++

		k := assetKey{e.AssetClass, e.Symbol}
		i, ok := assetIndex[k]
		if !ok {
			i = len(assets)
			assetIndex[k] = i
			assets = append(assets, AssetProfit{AssetClass: e.AssetClass, Symbol: e.Symbol, Name: e.Name})
		}
		assets[i].Profit = assets[i].Profit.Add(profit)
		assets[i].Count++
	}

	report.ByClass = []ClassProfit{}
	for _, class := range models.AssetClasses {
		if cp, ok := classes[class]; ok {
			report.ByClass = append(report.ByClass, *cp)
		}
	}

	slices.SortStableFunc(assets, func(a, b AssetProfit) int {
		return b.Profit.Cmp(a.Profit)
	})
	if len(assets) > TopAssetsLimit {
		assets = assets[:TopAssetsLimit]
	}
	if assets == nil {
		assets = []AssetProfit{}
	}
	report.TopAssets = assets
	return report, nil
}

// TransactionStats counts ledger entries and sums investment and profit by
// class and kind, optionally for one class and one calendar year.
func (s *reportService) TransactionStats(ctx context.Context, ownerID string, filter StatsFilter) (*TransactionStats, error) {
	f := ledger.Filter{OwnerID: ownerID, Class: filter.AssetClass}
	if filter.Year != 0 {
		from, to := ledger.YearRange(filter.Year)
		f.From, f.To = &from, &to
	}
	entries, err := s.ledger.All(f)
	if err != nil {
		return nil, err
	}

	stats := &TransactionStats{
		AssetClass:        filter.AssetClass,
		Year:              filter.Year,
		TotalTransactions: len(entries),
		TotalInvestment:   decimal.Zero,
		TotalProfit:       decimal.Zero,
	}
	classes := make(map[models.AssetClass]*ClassStats)
	kinds := make(map[models.EntryKind]*KindStats)
	for _, e := range entries {
		cs, ok := classes[e.AssetClass]
		if !ok {
			cs = &ClassStats{AssetClass: e.AssetClass}
			classes[e.AssetClass] = cs
		}
		ks, ok := kinds[e.Kind]
		if !ok {
			ks = &KindStats{Kind: e.Kind}
			kinds[e.Kind] = ks
		}

		cs.Count++
		ks.Count++
		ks.Amount = ks.Amount.Add(e.Amount)
		if e.Kind.Acquisition() {
			cs.Investment = cs.Investment.Add(e.Amount)
			stats.TotalInvestment = stats.TotalInvestment.Add(e.Amount)
		}
		if e.Profit.Valid {
			cs.Profit = cs.Profit.Add(e.Profit.Decimal)
			ks.Profit = ks.Profit.Add(e.Profit.Decimal)
			stats.TotalProfit = stats.TotalProfit.Add(e.Profit.Decimal)
		}
	}

	stats.ByClass = []ClassStats{}
	for _, class := range models.AssetClasses {
		if cs, ok := classes[class]; ok {
			stats.ByClass = append(stats.ByClass, *cs)
		}
	}
	stats.ByKind = []KindStats{}
	for _, kind := range models.EntryKinds {
		if ks, ok := kinds[kind]; ok {
			stats.ByKind = append(stats.ByKind, *ks)
		}
	}
	return stats, nil
}

// CryptoStats breaks the owner's crypto holdings down by coin and platform.
func (s *reportService) CryptoStats(ctx context.Context, ownerID string) (*CryptoStats, error) {
	positions, err := s.positions.List(ownerID, models.AssetClassCrypto)
	if err != nil {
		return nil, err
	}
	var stakes []models.StakingPosition
	if err := s.db.Where("owner_id = ? AND is_active = ?", ownerID, true).Order("id ASC").Find(&stakes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	realized, err := s.realizedTotal(ledger.Filter{OwnerID: ownerID, Class: models.AssetClassCrypto})
	if err != nil {
		return nil, err
	}

	holdings := newValuer(s.prices, s.settings).value(ctx, positions)
	stats := &CryptoStats{
		Currency:             s.settings.BaseCurrency,
		TotalInvested:        decimal.Zero,
		TotalValue:           decimal.Zero,
		StakedValue:          decimal.Zero,
		EstimatedRewardValue: decimal.Zero,
		RealizedProfit:       realized,
		ActiveStakes:         len(stakes),
	}

	livePrice := make(map[string]decimal.Decimal)
	var coins, platforms distribution
	for _, h := range holdings {
		c := h.Position.(*models.Crypto)
		stats.TotalInvested = stats.TotalInvested.Add(h.Invested)
		stats.TotalValue = stats.TotalValue.Add(h.CurrentValue)
		coins.add(c.LedgerSymbol(), h.CurrentValue)
		platform := c.Platform
		if platform == "" {
			platform = "Unspecified"
		}
		platforms.add(platform, h.CurrentValue)

		if c.StakedQuantity.IsPositive() && h.Quantity.IsPositive() {
			stats.StakedValue = stats.StakedValue.Add(h.CurrentValue.Mul(c.StakedQuantity).Div(h.Quantity))
		}
		if h.UnitPrice.Valid {
			livePrice[c.CoinID] = h.UnitPrice.Decimal
		}
	}
	for _, st := range stakes {
		if price, ok := livePrice[st.CoinID]; ok {
			stats.EstimatedRewardValue = stats.EstimatedRewardValue.Add(st.EstimatedRewards.Mul(price))
		}
	}

	stats.StakedValue = s.settings.round(stats.StakedValue)
	stats.EstimatedRewardValue = s.settings.round(stats.EstimatedRewardValue)
	stats.UnrealizedProfit = stats.TotalValue.Sub(stats.TotalInvested)
	stats.Coins = coins.breakdown(stats.TotalValue)
	stats.Platforms = platforms.breakdown(stats.TotalValue)
	return stats, nil
}

// distribution accumulates values by key in first-seen order.
type distribution struct {
	order  []string
	values map[string]decimal.Decimal
}

func (d *distribution) add(key string, v decimal.Decimal) {
	if d.values == nil {
		d.values = make(map[string]decimal.Decimal)
	}
	if _, ok := d.values[key]; !ok {
		d.order = append(d.order, key)
	}
	d.values[key] = d.values[key].Add(v)
}

// breakdown returns the slices sorted by value, largest first.
func (d *distribution) breakdown(total decimal.Decimal) []Distribution {
	out := make([]Distribution, 0, len(d.order))
	for _, k := range d.order {
		out = append(out, Distribution{Key: k, Value: d.values[k], Percentage: models.Percent(d.values[k], total)})
	}
	slices.SortStableFunc(out, func(a, b Distribution) int {
		return b.Value.Cmp(a.Value)
	})
	return out
}

// UpcomingMaturities lists fixed deposits, provident funds and stake lockups
// reaching term within withinDays. An empty ownerID covers every owner.
func (s *reportService) UpcomingMaturities(ctx context.Context, ownerID string, withinDays int) ([]Maturity, error) {
	if withinDays <= 0 {
		withinDays = DefaultMaturityWindowDays
	}
	now := s.settings.Now()
	until := now.AddDate(0, 0, withinDays)

	scoped := func() *gorm.DB {
		q := s.db.WithContext(ctx)
		if ownerID != "" {
			q = q.Where("owner_id = ?", ownerID)
		}
		return q
	}

	var out []Maturity

	var deposits []models.FixedDeposit
	if err := scoped().Where("maturity_date >= ? AND maturity_date <= ?", now, until).Find(&deposits).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range deposits {
		fd := &deposits[i]
		out = append(out, Maturity{
			OwnerID:       fd.OwnerID,
			Type:          MaturityFixedDeposit,
			AssetClass:    models.AssetClassFixedDeposit,
			PositionID:    fd.ID,
			Name:          fd.BankName,
			MaturityDate:  fd.MaturityDate,
			DaysRemaining: valuation.DaysUntil(now, fd.MaturityDate),
			Amount:        valuation.TermsOf(fd).MaturityValue(),
		})
	}

	var funds []models.ProvidentFund
	if err := scoped().Preload("Contributions", func(db *gorm.DB) *gorm.DB {
		return db.Order("year ASC")
	}).Where("maturity_date >= ? AND maturity_date <= ?", now, until).Find(&funds).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range funds {
		pf := &funds[i]
		out = append(out, Maturity{
			OwnerID:       pf.OwnerID,
			Type:          MaturityProvidentFund,
			AssetClass:    models.AssetClassProvidentFund,
			PositionID:    pf.ID,
			Name:          pf.BankName + " " + pf.AccountNumber,
			MaturityDate:  pf.MaturityDate,
			DaysRemaining: valuation.DaysUntil(now, pf.MaturityDate),
			Amount:        valuation.ValueProvidentFund(pf, pf.MaturityDate).CurrentValue,
		})
	}

	var stakes []models.StakingPosition
	if err := scoped().Where("is_active = ?", true).Find(&stakes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for _, st := range stakes {
		ends := st.LockupEndsAt()
		if ends.Before(now) || ends.After(until) {
			continue
		}
		out = append(out, Maturity{
			OwnerID:       st.OwnerID,
			Type:          MaturityStakeLockup,
			AssetClass:    models.AssetClassCrypto,
			PositionID:    st.CryptoID,
			StakeID:       st.ID,
			Name:          st.Symbol + " on " + st.Platform,
			MaturityDate:  ends,
			DaysRemaining: valuation.DaysUntil(now, ends),
			Amount:        st.StakedQuantity,
		})
	}

	slices.SortStableFunc(out, func(a, b Maturity) int {
		return cmp.Or(a.MaturityDate.Compare(b.MaturityDate), cmp.Compare(a.PositionID, b.PositionID))
	})
	if out == nil {
		out = []Maturity{}
	}
	return out, nil
}
