package services

import (
	"context"
	"strings"
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

// portfolioService handles the position lifecycle.
type portfolioService struct {
	db       *gorm.DB
	prices   oracle.PriceSource
	mutator  *mutator
	settings Settings
	log      *zap.SugaredLogger
}

// NewPortfolioService creates a new PortfolioServicer. locks must be shared
// with every other service that mutates positions.
func NewPortfolioService(db *gorm.DB, prices oracle.PriceSource, locks *store.KeyedLocker, settings Settings) PortfolioServicer {
	settings = settings.withDefaults()
	return &portfolioService{
		db:       db,
		prices:   prices,
		mutator:  newMutator(db, locks, settings.MutationRetries),
		settings: settings,
		log:      logger.Named("portfolio"),
	}
}

// OpenPosition creates a position and its acquisition ledger entry.
func (s *portfolioService) OpenPosition(ctx context.Context, ownerID string, in OpenInput) (models.Position, error) {
	p, details, err := s.build(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.mutator.positions.WithTx(tx).Open(p); err != nil {
			return err
		}
		return s.mutator.ledger.WithTx(tx).Record(models.NewLedgerEntry(p, details))
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("position opened", "owner_id", ownerID, "asset_class", p.AssetClass(), "position_id", p.GetID())
	return p, nil
}

func (s *portfolioService) build(ctx context.Context, ownerID string, in OpenInput) (models.Position, models.EntryDetails, error) {
	now := s.settings.Now()
	holding := func(notes string) models.Holding {
		return models.Holding{OwnerID: ownerID, Notes: notes}
	}

	switch in := in.(type) {
	case *EquityInput:
		if err := requirePositive(in.Quantity, "Quantity"); err != nil {
			return nil, nil, err
		}
		if err := requirePositive(in.UnitCost, "Unit cost"); err != nil {
			return nil, nil, err
		}
		acquired := dateOr(in.AcquiredAt, now)
		return &models.Equity{
				Holding:    holding(in.Notes),
				Symbol:     strings.ToUpper(strings.TrimSpace(in.Symbol)),
				Name:       in.Name,
				Exchange:   strings.ToUpper(strings.TrimSpace(in.Exchange)),
				Sector:     in.Sector,
				Quantity:   in.Quantity,
				UnitCost:   in.UnitCost,
				AcquiredAt: acquired,
			}, &models.BuyDetails{
				Quantity:  in.Quantity,
				UnitPrice: in.UnitCost,
				BuyDate:   acquired,
			}, nil

	case *GoldInput:
		if !validGoldForm(in.Form) {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown gold form")
		}
		if err := requirePositive(in.Grams, "Grams"); err != nil {
			return nil, nil, err
		}
		if err := requirePositive(in.UnitCost, "Unit cost"); err != nil {
			return nil, nil, err
		}
		acquired := dateOr(in.AcquiredAt, now)
		return &models.Gold{
				Holding:     holding(in.Notes),
				Form:        in.Form,
				Purity:      strings.ToUpper(in.Purity),
				Grams:       in.Grams,
				UnitCost:    in.UnitCost,
				AcquiredAt:  acquired,
				Description: in.Description,
			}, &models.BuyDetails{
				Quantity:  in.Grams,
				UnitPrice: in.UnitCost,
				BuyDate:   acquired,
			}, nil

	case *MutualFundInput:
		if err := requirePositive(in.Amount, "Amount"); err != nil {
			return nil, nil, err
		}
		nav, err := s.unitPrice(ctx, models.AssetClassMutualFund, in.SchemeCode, in.NAV, "NAV")
		if err != nil {
			return nil, nil, err
		}
		units := in.Amount.DivRound(nav, 4)
		if err := requirePositive(units, "Units"); err != nil {
			return nil, nil, err
		}
		purchased := dateOr(in.PurchaseDate, now)
		return &models.MutualFund{
				Holding:          holding(in.Notes),
				SchemeCode:       strings.TrimSpace(in.SchemeCode),
				SchemeName:       in.SchemeName,
				Units:            units,
				InvestmentAmount: in.Amount,
				PurchaseNAV:      nav,
				PurchaseDate:     purchased,
			}, &models.BuyDetails{
				Quantity:  units,
				UnitPrice: nav,
				BuyDate:   purchased,
			}, nil

	case *RealEstateInput:
		if !validPropertyType(in.PropertyType) {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown property type")
		}
		if err := requirePositive(in.PurchasePrice, "Purchase price"); err != nil {
			return nil, nil, err
		}
		if err := requireNonNegative(in.Area, "Area"); err != nil {
			return nil, nil, err
		}
		if err := requireNonNegative(in.CurrentValuation, "Current valuation"); err != nil {
			return nil, nil, err
		}
		purchased := dateOr(in.PurchaseDate, now)
		return &models.RealEstate{
				Holding:          holding(in.Notes),
				PropertyName:     in.PropertyName,
				PropertyType:     in.PropertyType,
				Location:         in.Location,
				Area:             in.Area,
				PurchasePrice:    in.PurchasePrice,
				CurrentValuation: in.CurrentValuation,
				PurchaseDate:     purchased,
			}, &models.BuyDetails{
				Quantity:  decimal.NewFromInt(1),
				UnitPrice: in.PurchasePrice,
				BuyDate:   purchased,
			}, nil

	case *FixedDepositInput:
		if err := requirePositive(in.Principal, "Principal"); err != nil {
			return nil, nil, err
		}
		if err := requireNonNegative(in.InterestRate, "Interest rate"); err != nil {
			return nil, nil, err
		}
		if in.InterestType != models.InterestSimple && in.InterestType != models.InterestCompound {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Interest type must be simple or compound")
		}
		if !in.MaturityDate.After(in.StartDate) {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Maturity date must be after start date")
		}
		freq, ok := models.ParseCompoundingFrequency(string(in.CompoundingFrequency))
		if !ok {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown compounding frequency")
		}
		fd := &models.FixedDeposit{
			Holding:              holding(in.Notes),
			BankName:             in.BankName,
			AccountNumber:        in.AccountNumber,
			Principal:            in.Principal,
			NominalRate:          in.InterestRate,
			StartDate:            in.StartDate,
			MaturityDate:         in.MaturityDate,
			InterestType:         in.InterestType,
			CompoundingFrequency: freq,
		}
		return fd, &models.DepositDetails{
			Principal:              fd.Principal,
			NominalRate:            fd.NominalRate,
			InterestType:           fd.InterestType,
			CompoundingFrequency:   fd.CompoundingFrequency,
			InvestDate:             fd.StartDate,
			ScheduledMaturityDate:  fd.MaturityDate,
			ExpectedMaturityAmount: valuation.TermsOf(fd).MaturityValue(),
		}, nil

	case *ProvidentFundInput:
		if err := requirePositive(in.InitialAmount, "Initial amount"); err != nil {
			return nil, nil, err
		}
		if err := requireNonNegative(in.InterestRate, "Interest rate"); err != nil {
			return nil, nil, err
		}
		maturity := in.OpenDate.AddDate(models.ProvidentFundTenureYears, 0, 0)
		return &models.ProvidentFund{
				Holding:         holding(in.Notes),
				AccountNumber:   in.AccountNumber,
				BankName:        in.BankName,
				OpenDate:        in.OpenDate,
				MaturityDate:    maturity,
				CurrentRate:     in.InterestRate,
				TotalInvestment: in.InitialAmount,
				Contributions: []models.ProvidentFundContribution{{
					Year:          in.OpenDate.Year(),
					Amount:        in.InitialAmount,
					ContributedAt: in.OpenDate,
				}},
			}, &models.InvestDetails{
				Amount:                in.InitialAmount,
				Rate:                  in.InterestRate,
				InvestDate:            in.OpenDate,
				ScheduledMaturityDate: maturity,
			}, nil

	case *CryptoInput:
		if err := requirePositive(in.Quantity, "Quantity"); err != nil {
			return nil, nil, err
		}
		if err := requireNonNegative(in.UnitCost, "Unit cost"); err != nil {
			return nil, nil, err
		}
		acquired := dateOr(in.AcquiredAt, now)
		return &models.Crypto{
				Holding:       holding(in.Notes),
				CoinID:        strings.ToLower(strings.TrimSpace(in.CoinID)),
				Symbol:        strings.ToUpper(in.Symbol),
				Name:          in.Name,
				Quantity:      in.Quantity,
				UnitCost:      in.UnitCost,
				AcquiredAt:    acquired,
				Platform:      in.Platform,
				WalletAddress: in.WalletAddress,
			}, &models.BuyDetails{
				Quantity:  in.Quantity,
				UnitPrice: in.UnitCost,
				BuyDate:   acquired,
				Platform:  in.Platform,
			}, nil
	}
	return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset class")
}

// unitPrice returns the explicit price when given, otherwise the live price.
func (s *portfolioService) unitPrice(ctx context.Context, class models.AssetClass, identifier string, explicit decimal.NullDecimal, field string) (decimal.Decimal, error) {
	if explicit.Valid {
		if err := requirePositive(explicit.Decimal, field); err != nil {
			return decimal.Zero, err
		}
		return explicit.Decimal, nil
	}
	if s.prices != nil && identifier != "" {
		if r := s.prices.GetUnitPrice(ctx, class, identifier, s.settings.BaseCurrency); r.Available() {
			return r.Quote.Price, nil
		}
	}
	return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, field+" is required because no live price is available")
}

// UpdatePosition edits descriptive fields. Ledger history is never rewritten.
func (s *portfolioService) UpdatePosition(ctx context.Context, ownerID string, class models.AssetClass, id string, in UpdateInput) (models.Position, error) {
	var updated models.Position
	err := s.mutator.run(ownerID, id, func(positions store.PortfolioRepository, _ *ledger.Ledger, _ *gorm.DB) error {
		p, err := positions.Get(ownerID, class, id)
		if err != nil {
			return err
		}
		columns, err := applyUpdate(p, in)
		if err != nil {
			return err
		}
		if err := positions.Update(p, columns...); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func applyUpdate(p models.Position, in UpdateInput) ([]string, error) {
	var columns []string
	set := func(dst *string, src *string, column string) {
		if src != nil {
			*dst = *src
			columns = append(columns, column)
		}
	}

	switch v := p.(type) {
	case *models.Equity:
		set(&v.Notes, in.Notes, "notes")
		set(&v.Name, in.Name, "name")
		set(&v.Sector, in.Sector, "sector")
	case *models.Gold:
		set(&v.Notes, in.Notes, "notes")
		set(&v.Description, in.Description, "description")
	case *models.MutualFund:
		set(&v.Notes, in.Notes, "notes")
		set(&v.SchemeName, in.Name, "scheme_name")
	case *models.RealEstate:
		set(&v.Notes, in.Notes, "notes")
		set(&v.PropertyName, in.Name, "property_name")
		set(&v.Location, in.Location, "location")
		if in.CurrentValuation.Valid {
			if err := requireNonNegative(in.CurrentValuation.Decimal, "Current valuation"); err != nil {
				return nil, err
			}
			v.CurrentValuation = in.CurrentValuation.Decimal
			columns = append(columns, "current_valuation")
		}
	case *models.FixedDeposit:
		set(&v.Notes, in.Notes, "notes")
	case *models.ProvidentFund:
		set(&v.Notes, in.Notes, "notes")
		if in.InterestRate.Valid {
			if err := requireNonNegative(in.InterestRate.Decimal, "Interest rate"); err != nil {
				return nil, err
			}
			v.CurrentRate = in.InterestRate.Decimal
			columns = append(columns, "current_rate")
		}
	case *models.Crypto:
		set(&v.Notes, in.Notes, "notes")
		set(&v.Name, in.Name, "name")
		set(&v.Platform, in.Platform, "platform")
	}

	if len(columns) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "No editable fields supplied for this asset class")
	}
	return columns, nil
}

// RemovePosition deletes a position together with its ledger entries. It is
// refused while a stake draws on the position.
func (s *portfolioService) RemovePosition(ctx context.Context, ownerID string, class models.AssetClass, id string) error {
	err := s.mutator.run(ownerID, id, func(positions store.PortfolioRepository, l *ledger.Ledger, tx *gorm.DB) error {
		p, err := positions.Get(ownerID, class, id)
		if err != nil {
			return err
		}
		if class == models.AssetClassCrypto {
			var active int64
			if err := tx.Model(&models.StakingPosition{}).
				Where("owner_id = ? AND crypto_id = ? AND is_active = ?", ownerID, id, true).
				Count(&active).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if active > 0 {
				return apperrors.ErrActiveStake
			}
		}
		if _, err := l.PurgePosition(ownerID, id); err != nil {
			return err
		}
		return positions.Close(p)
	})
	if err != nil {
		return err
	}

	s.log.Infow("position removed", "owner_id", ownerID, "asset_class", class, "position_id", id)
	return nil
}

// Sell disposes part or all of a tradable position. Profit is measured
// against the cost basis of the disposed units; a mutual fund keeps its
// average cost by scaling the invested amount with the remaining units.
func (s *portfolioService) Sell(ctx context.Context, ownerID string, class models.AssetClass, id string, in SellInput) (*models.LedgerEntry, error) {
	if !class.Tradable() {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedOperation, "Use maturity to close this asset class")
	}
	if class != models.AssetClassRealEstate {
		if err := requirePositive(in.Quantity, "Quantity"); err != nil {
			return nil, err
		}
	}

	// Resolve the price before taking the lock; the identifier never changes.
	current, err := s.mutator.positions.Get(ownerID, class, id)
	if err != nil {
		return nil, err
	}
	price, err := s.unitPrice(ctx, class, current.PriceIdentifier(), in.Price, "Price")
	if err != nil {
		return nil, err
	}
	sellDate := dateOr(in.SellDate, s.settings.Now())

	var entry *models.LedgerEntry
	err = s.mutator.run(ownerID, id, func(positions store.PortfolioRepository, l *ledger.Ledger, _ *gorm.DB) error {
		p, err := positions.Get(ownerID, class, id)
		if err != nil {
			return err
		}
		details, err := disposal(p, in.Quantity, price, sellDate)
		if err != nil {
			return err
		}

		if details.Closed {
			err = positions.Close(p)
		} else if mf, ok := p.(*models.MutualFund); ok {
			mf.InvestmentAmount = mf.InvestmentAmount.Sub(details.CostBasis)
			err = positions.AdjustQuantity(p, details.Quantity.Neg(), "investment_amount")
		} else {
			err = positions.AdjustQuantity(p, details.Quantity.Neg())
		}
		if err != nil {
			return err
		}

		entry = models.NewLedgerEntry(p, details)
		return l.Record(entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("position sold", "owner_id", ownerID, "asset_class", class, "position_id", id,
		"quantity", entry.Quantity, "profit", entry.Profit.Decimal)
	return entry, nil
}

// disposal computes the sell details for selling qty of p at price.
func disposal(p models.Position, qty, price decimal.Decimal, sellDate time.Time) (*models.SellDetails, error) {
	if re, ok := p.(*models.RealEstate); ok {
		return &models.SellDetails{
			Quantity:  decimal.NewFromInt(1),
			BuyPrice:  re.PurchasePrice,
			SellPrice: price,
			CostBasis: re.PurchasePrice,
			Proceeds:  price,
			BuyDate:   re.PurchaseDate,
			SellDate:  sellDate,
			Closed:    true,
			Realized:  models.NewRealized(price.Sub(re.PurchasePrice), re.PurchasePrice),
		}, nil
	}

	held := p.FreeQuantity()
	if qty.GreaterThan(held) {
		return nil, apperrors.ErrInsufficientQuantity
	}

	var cost decimal.Decimal
	if mf, ok := p.(*models.MutualFund); ok {
		remaining := held.Sub(qty)
		cost = mf.InvestmentAmount.Sub(mf.InvestmentAmount.Mul(remaining).Div(held))
	} else {
		cost = qty.Mul(models.UnitCost(p))
	}
	proceeds := qty.Mul(price)

	return &models.SellDetails{
		Quantity:  qty,
		BuyPrice:  models.UnitCost(p),
		SellPrice: price,
		CostBasis: cost,
		Proceeds:  proceeds,
		BuyDate:   acquiredAt(p),
		SellDate:  sellDate,
		Closed:    p.TotalHeld().Sub(qty).IsZero(),
		Realized:  models.NewRealized(proceeds.Sub(cost), cost),
	}, nil
}

func acquiredAt(p models.Position) time.Time {
	switch v := p.(type) {
	case *models.Equity:
		return v.AcquiredAt
	case *models.Gold:
		return v.AcquiredAt
	case *models.MutualFund:
		return v.PurchaseDate
	case *models.RealEstate:
		return v.PurchaseDate
	case *models.FixedDeposit:
		return v.StartDate
	case *models.ProvidentFund:
		return v.OpenDate
	case *models.Crypto:
		return v.AcquiredAt
	}
	return time.Time{}
}

// Mature closes a fixed deposit or provident fund, at term or prematurely.
func (s *portfolioService) Mature(ctx context.Context, ownerID string, class models.AssetClass, id string, in MatureInput) (*models.LedgerEntry, error) {
	if !class.Maturing() {
		return nil, apperrors.WithMessage(apperrors.ErrUnsupportedOperation, "Only fixed deposits and provident funds mature")
	}
	if in.MaturityAmount.Valid {
		if err := requirePositive(in.MaturityAmount.Decimal, "Maturity amount"); err != nil {
			return nil, err
		}
	}
	if in.PrematurePenalty.Valid {
		if err := requireNonNegative(in.PrematurePenalty.Decimal, "Premature penalty"); err != nil {
			return nil, err
		}
	}
	date := dateOr(in.MaturityDate, s.settings.Now())

	var entry *models.LedgerEntry
	err := s.mutator.run(ownerID, id, func(positions store.PortfolioRepository, l *ledger.Ledger, _ *gorm.DB) error {
		p, err := positions.Get(ownerID, class, id)
		if err != nil {
			return err
		}
		details, err := s.maturity(p, in, date)
		if err != nil {
			return err
		}
		if err := positions.Close(p); err != nil {
			return err
		}
		entry = models.NewLedgerEntry(p, details)
		return l.Record(entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("position matured", "owner_id", ownerID, "asset_class", class, "position_id", id,
		"kind", entry.Kind, "amount", entry.Amount)
	return entry, nil
}

func (s *portfolioService) maturity(p models.Position, in MatureInput, date time.Time) (*models.MaturityDetails, error) {
	var (
		invested  decimal.Decimal
		computed  decimal.Decimal
		investDay time.Time
		scheduled time.Time
	)
	switch v := p.(type) {
	case *models.FixedDeposit:
		invested, investDay, scheduled = v.Principal, v.StartDate, v.MaturityDate
		computed = valuation.TermsOf(v).ValueOn(date)
	case *models.ProvidentFund:
		invested, investDay, scheduled = v.TotalInvestment, v.OpenDate, v.MaturityDate
		computed = valuation.ValueProvidentFund(v, date).CurrentValue
	default:
		return nil, apperrors.ErrUnsupportedOperation
	}
	if date.Before(investDay) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Maturity date is before the investment date")
	}

	premature := date.Before(scheduled)
	penalty := decimal.Zero
	if premature && in.PrematurePenalty.Valid {
		penalty = in.PrematurePenalty.Decimal
	}

	amount := computed.Sub(penalty)
	if in.MaturityAmount.Valid {
		amount = in.MaturityAmount.Decimal
	}
	amount = s.settings.round(amount)
	if err := requirePositive(amount, "Maturity amount"); err != nil {
		return nil, err
	}

	return &models.MaturityDetails{
		InvestAmount:          invested,
		MaturityAmount:        amount,
		PrematurePenalty:      penalty,
		InvestDate:            investDay,
		MaturityDate:          date,
		ScheduledMaturityDate: scheduled,
		Premature:             premature,
		Realized:              models.NewRealized(amount.Sub(invested), invested),
	}, nil
}

// Contribute appends a yearly contribution to a provident fund.
func (s *portfolioService) Contribute(ctx context.Context, ownerID, fundID string, in ContributeInput) (*models.LedgerEntry, error) {
	if err := requirePositive(in.Amount, "Amount"); err != nil {
		return nil, err
	}
	date := dateOr(in.Date, s.settings.Now())
	year := in.Year
	if year == 0 {
		year = date.Year()
	}

	var entry *models.LedgerEntry
	err := s.mutator.run(ownerID, fundID, func(positions store.PortfolioRepository, l *ledger.Ledger, tx *gorm.DB) error {
		p, err := positions.Get(ownerID, models.AssetClassProvidentFund, fundID)
		if err != nil {
			return err
		}
		pf := p.(*models.ProvidentFund)
		if !date.Before(pf.MaturityDate) {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Account has reached maturity")
		}
		if year < pf.OpenDate.Year() {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "Contribution year is before the account was opened")
		}

		contribution := &models.ProvidentFundContribution{
			FundID:        pf.ID,
			Year:          year,
			Amount:        in.Amount,
			ContributedAt: date,
		}
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := positions.AdjustQuantity(pf, in.Amount); err != nil {
			return err
		}
		pf.Contributions = append(pf.Contributions, *contribution)

		entry = models.NewLedgerEntry(pf, &models.ContributeDetails{
			Amount:     in.Amount,
			Year:       year,
			InvestDate: date,
		})
		return l.Record(entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("provident fund contribution", "owner_id", ownerID, "position_id", fundID, "amount", in.Amount, "year", year)
	return entry, nil
}

// Transfer moves a crypto lot to another platform or wallet.
func (s *portfolioService) Transfer(ctx context.Context, ownerID, cryptoID string, in TransferInput) (*models.LedgerEntry, error) {
	if in.ToPlatform == "" && in.ToWallet == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Destination platform or wallet is required")
	}
	if err := requireNonNegative(in.Fee, "Fee"); err != nil {
		return nil, err
	}
	date := dateOr(in.Date, s.settings.Now())

	var entry *models.LedgerEntry
	err := s.mutator.run(ownerID, cryptoID, func(positions store.PortfolioRepository, l *ledger.Ledger, _ *gorm.DB) error {
		p, err := positions.Get(ownerID, models.AssetClassCrypto, cryptoID)
		if err != nil {
			return err
		}
		c := p.(*models.Crypto)
		details := &models.TransferDetails{
			Quantity:     c.Quantity,
			FromPlatform: c.Platform,
			ToPlatform:   c.Platform,
			FromWallet:   c.WalletAddress,
			ToWallet:     c.WalletAddress,
			Fee:          in.Fee,
			TransferDate: date,
		}
		if in.ToPlatform != "" {
			c.Platform, details.ToPlatform = in.ToPlatform, in.ToPlatform
		}
		if in.ToWallet != "" {
			c.WalletAddress, details.ToWallet = in.ToWallet, in.ToWallet
		}
		if err := positions.Update(c, "platform", "wallet_address"); err != nil {
			return err
		}
		entry = models.NewLedgerEntry(c, details)
		return l.Record(entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("crypto transferred", "owner_id", ownerID, "position_id", cryptoID,
		"to_platform", entry.Details.(*models.TransferDetails).ToPlatform)
	return entry, nil
}

func validGoldForm(f models.GoldForm) bool {
	switch f {
	case models.GoldCoin, models.GoldBar, models.GoldJewelry, models.GoldETF, models.GoldOther:
		return true
	}
	return false
}

func validPropertyType(t models.PropertyType) bool {
	switch t {
	case models.PropertyResidential, models.PropertyCommercial, models.PropertyLand, models.PropertyOther:
		return true
	}
	return false
}
