package services

import (
	"context"
	"errors"
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/ledger"
	"nidhi/internal/logger"
	"nidhi/internal/models"
	"nidhi/internal/oracle"
	"nidhi/internal/store"
	"nidhi/internal/uuid"
	"nidhi/internal/valuation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	hundred     = decimal.NewFromInt(100)
	daysPerYear = decimal.NewFromInt(365)
)

// UnstakeResult is the outcome of releasing a stake.
type UnstakeResult struct {
	Stake     *models.StakingPosition `json:"stake"`
	Entry     *models.LedgerEntry     `json:"transaction"`
	RewardLot *models.Crypto          `json:"reward_lot,omitempty"`
}

// StakeView is a staking position with its lockup countdown.
type StakeView struct {
	models.StakingPosition
	LockupEndsAt  time.Time `json:"lockup_ends_at"`
	DaysRemaining int       `json:"days_remaining"`
}

// stakingService handles the crypto staking lifecycle.
type stakingService struct {
	db       *gorm.DB
	prices   oracle.PriceSource
	mutator  *mutator
	settings Settings
	log      *zap.SugaredLogger
}

// NewStakingService creates a new StakingServicer. locks must be the same
// locker the portfolio service uses.
func NewStakingService(db *gorm.DB, prices oracle.PriceSource, locks *store.KeyedLocker, settings Settings) StakingServicer {
	settings = settings.withDefaults()
	return &stakingService{
		db:       db,
		prices:   prices,
		mutator:  newMutator(db, locks, settings.MutationRetries),
		settings: settings,
		log:      logger.Named("staking"),
	}
}

// Stake moves quantity from the free holding of a crypto lot into a new
// active staking position.
func (s *stakingService) Stake(ctx context.Context, ownerID, cryptoID string, in StakeInput) (*models.StakingPosition, error) {
	if err := requirePositive(in.Quantity, "Quantity"); err != nil {
		return nil, err
	}
	if err := requireNonNegative(in.EstimatedAPY, "Estimated APY"); err != nil {
		return nil, err
	}
	if in.LockupDays < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Lockup days must not be negative")
	}
	start := dateOr(in.StartDate, s.settings.Now())

	var stake *models.StakingPosition
	err := s.mutator.run(ownerID, cryptoID, func(positions store.PortfolioRepository, l *ledger.Ledger, tx *gorm.DB) error {
		p, err := positions.Get(ownerID, models.AssetClassCrypto, cryptoID)
		if err != nil {
			return err
		}
		c := p.(*models.Crypto)
		if in.Quantity.GreaterThan(c.Quantity) {
			return apperrors.ErrInsufficientQuantity
		}

		c.StakedQuantity = c.StakedQuantity.Add(in.Quantity)
		if err := positions.AdjustQuantity(c, in.Quantity.Neg(), "staked_quantity"); err != nil {
			return err
		}

		stake = &models.StakingPosition{
			OwnerID:          ownerID,
			CryptoID:         c.ID,
			CoinID:           c.CoinID,
			Symbol:           c.LedgerSymbol(),
			StakedQuantity:   in.Quantity,
			Platform:         in.Platform,
			StartDate:        start,
			LockupDays:       in.LockupDays,
			EstimatedAPY:     in.EstimatedAPY,
			EstimatedRewards: EstimatedRewards(in.Quantity, in.EstimatedAPY, in.LockupDays),
			IsActive:         true,
			Notes:            in.Notes,
		}
		if err := tx.Create(stake).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return l.Record(models.NewLedgerEntry(c, &models.StakeDetails{
			StakingID:        stake.ID,
			Quantity:         stake.StakedQuantity,
			Platform:         stake.Platform,
			StakeDate:        stake.StartDate,
			LockupDays:       stake.LockupDays,
			EstimatedAPY:     stake.EstimatedAPY,
			EstimatedRewards: stake.EstimatedRewards,
		}))
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("crypto staked", "owner_id", ownerID, "position_id", cryptoID, "stake_id", stake.ID,
		"quantity", stake.StakedQuantity, "lockup_days", stake.LockupDays)
	return stake, nil
}

// EstimatedRewards is quantity * (apy/100) * (lockupDays/365).
func EstimatedRewards(quantity, apy decimal.Decimal, lockupDays int) decimal.Decimal {
	return quantity.Mul(apy).Div(hundred).
		Mul(decimal.NewFromInt(int64(lockupDays))).Div(daysPerYear).
		Round(10)
}

// Unstake returns the staked quantity to its source lot and books any rewards
// as a separate zero-cost lot. Reward income is realized when that lot is
// sold, so the unstake entry carries a zero profit.
func (s *stakingService) Unstake(ctx context.Context, ownerID, stakeID string, in UnstakeInput) (*UnstakeResult, error) {
	if err := requireNonNegative(in.ActualRewards, "Actual rewards"); err != nil {
		return nil, err
	}
	date := dateOr(in.UnstakeDate, s.settings.Now())

	current, err := s.getStake(s.db, ownerID, stakeID)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return nil, apperrors.ErrStakeNotActive
	}
	if date.Before(current.StartDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Unstake date is before the stake start date")
	}
	rewardPrice, err := s.rewardPrice(ctx, current.CoinID, in)
	if err != nil {
		return nil, err
	}

	result := &UnstakeResult{}
	err = s.mutator.run(ownerID, current.CryptoID, func(positions store.PortfolioRepository, l *ledger.Ledger, tx *gorm.DB) error {
		stake, err := s.getStake(tx, ownerID, stakeID)
		if err != nil {
			return err
		}
		if !stake.IsActive {
			return apperrors.ErrStakeNotActive
		}

		p, err := positions.Get(ownerID, models.AssetClassCrypto, stake.CryptoID)
		if err != nil {
			return err
		}
		c := p.(*models.Crypto)
		c.StakedQuantity = c.StakedQuantity.Sub(stake.StakedQuantity)
		if c.StakedQuantity.IsNegative() {
			return apperrors.Wrap(apperrors.ErrInvariantViolation, errors.New("staked quantity below zero"))
		}
		if err := positions.AdjustQuantity(c, stake.StakedQuantity, "staked_quantity"); err != nil {
			return err
		}

		if in.ActualRewards.IsPositive() {
			lot := &models.Crypto{
				Holding:       models.Holding{OwnerID: ownerID, Notes: "Staking rewards from " + stake.Platform},
				CoinID:        c.CoinID,
				Symbol:        c.Symbol,
				Name:          c.Name,
				Quantity:      in.ActualRewards,
				UnitCost:      decimal.Zero,
				AcquiredAt:    date,
				Platform:      c.Platform,
				WalletAddress: c.WalletAddress,
			}
			if err := positions.Open(lot); err != nil {
				return err
			}
			if err := l.Record(models.NewLedgerEntry(lot, &models.BuyDetails{
				Quantity:  lot.Quantity,
				UnitPrice: decimal.Zero,
				BuyDate:   date,
				Platform:  lot.Platform,
				Reward:    true,
			})); err != nil {
				return err
			}
			result.RewardLot = lot
			stake.RewardLotID = &lot.ID
		}

		stake.IsActive = false
		stake.EndDate = &date
		stake.ActualRewards = in.ActualRewards
		res := tx.Model(stake).
			Select("is_active", "end_date", "actual_rewards", "reward_lot_id").
			Where("is_active = ?", true).
			Updates(stake)
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrConcurrentModification
		}

		details := &models.UnstakeDetails{
			StakingID:           stake.ID,
			Quantity:            stake.StakedQuantity,
			StakeDate:           stake.StartDate,
			UnstakeDate:         date,
			StakingDurationDays: valuation.DaysUntil(stake.StartDate, date),
			Rewards:             in.ActualRewards,
			RewardUnitPrice:     rewardPrice,
			Realized:            models.NewRealized(decimal.Zero, decimal.Zero),
		}
		if result.RewardLot != nil {
			details.RewardLotID = result.RewardLot.ID
		}
		result.Entry = models.NewLedgerEntry(c, details)
		result.Stake = stake
		return l.Record(result.Entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("crypto unstaked", "owner_id", ownerID, "stake_id", stakeID,
		"quantity", result.Stake.StakedQuantity, "rewards", in.ActualRewards)
	return result, nil
}

// rewardPrice values rewards: explicit price, else live price, else zero.
func (s *stakingService) rewardPrice(ctx context.Context, coinID string, in UnstakeInput) (decimal.Decimal, error) {
	if in.RewardUnitPrice.Valid {
		if err := requireNonNegative(in.RewardUnitPrice.Decimal, "Reward unit price"); err != nil {
			return decimal.Zero, err
		}
		return in.RewardUnitPrice.Decimal, nil
	}
	if !in.ActualRewards.IsPositive() || s.prices == nil {
		return decimal.Zero, nil
	}
	r := s.prices.GetUnitPrice(ctx, models.AssetClassCrypto, coinID, s.settings.BaseCurrency)
	if !r.Available() {
		s.log.Warnw("reward price unavailable, valuing rewards at zero", "coin_id", coinID, "error", r.Err)
		return decimal.Zero, nil
	}
	return r.Quote.Price, nil
}

func (s *stakingService) getStake(db *gorm.DB, ownerID, stakeID string) (*models.StakingPosition, error) {
	if !uuid.IsValid(stakeID) {
		return nil, apperrors.ErrStakeNotFound
	}
	var stake models.StakingPosition
	if err := db.Where("id = ? AND owner_id = ?", stakeID, ownerID).First(&stake).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStakeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &stake, nil
}

// ListStakes lists the owner's staking positions, newest first. active
// filters on the active flag when non-nil.
func (s *stakingService) ListStakes(ctx context.Context, ownerID string, active *bool) ([]StakeView, error) {
	query := s.db.Where("owner_id = ?", ownerID)
	if active != nil {
		query = query.Where("is_active = ?", *active)
	}

	var stakes []models.StakingPosition
	if err := query.Order("id DESC").Find(&stakes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := s.settings.Now()
	views := make([]StakeView, 0, len(stakes))
	for _, st := range stakes {
		v := StakeView{StakingPosition: st, LockupEndsAt: st.LockupEndsAt()}
		if st.IsActive {
			v.DaysRemaining = valuation.DaysUntil(now, v.LockupEndsAt)
		}
		views = append(views, v)
	}
	return views, nil
}
