package services

import (
	"errors"
	"strings"
	"time"

	"nidhi/internal/config"
	apperrors "nidhi/internal/errors"
	"nidhi/internal/ledger"
	"nidhi/internal/store"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Settings carries the valuation and mutation knobs shared by the services.
type Settings struct {
	BaseCurrency           string
	MutualFundFallbackRate decimal.Decimal
	MutationRetries        int
	// Now is the clock; tests pin it.
	Now func() time.Time
}

// SettingsFromConfig builds Settings from the application configuration.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		BaseCurrency:           cfg.BaseCurrency,
		MutualFundFallbackRate: cfg.MutualFundFallbackRate,
		MutationRetries:        cfg.MutationRetries,
	}.withDefaults()
}

func (s Settings) withDefaults() Settings {
	s.BaseCurrency = strings.ToUpper(s.BaseCurrency)
	if s.BaseCurrency == "" {
		s.BaseCurrency = money.INR
	}
	if s.MutationRetries < 1 {
		s.MutationRetries = 3
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	return s
}

// round rounds an amount to the minor unit of the base currency.
func (s Settings) round(d decimal.Decimal) decimal.Decimal {
	if c := money.GetCurrency(s.BaseCurrency); c != nil {
		return d.Round(int32(c.Fraction))
	}
	return d.Round(2)
}

// mutator runs position mutations serialized per position and retried when
// the version compare-and-swap loses to a writer outside this process.
type mutator struct {
	db        *gorm.DB
	positions store.PortfolioRepository
	ledger    *ledger.Ledger
	locks     *store.KeyedLocker
	retries   int
}

func newMutator(db *gorm.DB, locks *store.KeyedLocker, retries int) *mutator {
	if locks == nil {
		locks = store.NewKeyedLocker()
	}
	return &mutator{
		db:        db,
		positions: store.NewPositionStore(db),
		ledger:    ledger.New(db),
		locks:     locks,
		retries:   retries,
	}
}

// run executes fn in a transaction while holding the position's lock. fn must
// load the position itself so every attempt sees fresh state.
func (m *mutator) run(ownerID, positionID string, fn func(positions store.PortfolioRepository, l *ledger.Ledger, tx *gorm.DB) error) error {
	unlock := m.locks.Lock(store.PositionKey(ownerID, positionID))
	defer unlock()

	var err error
	for attempt := 0; attempt < m.retries; attempt++ {
		err = m.db.Transaction(func(tx *gorm.DB) error {
			return fn(m.positions.WithTx(tx), m.ledger.WithTx(tx), tx)
		})
		if !errors.Is(err, apperrors.ErrConcurrentModification) {
			return err
		}
	}
	return err
}
