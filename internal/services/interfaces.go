package services

import (
	"context"
	"time"

	"nidhi/internal/models"
	"nidhi/internal/pagination"
	"nidhi/internal/provider"
)

// PortfolioServicer defines the position lifecycle: open, edit, dispose,
// mature, contribute, transfer and remove.
type PortfolioServicer interface {
	OpenPosition(ctx context.Context, ownerID string, in OpenInput) (models.Position, error)
	UpdatePosition(ctx context.Context, ownerID string, class models.AssetClass, id string, in UpdateInput) (models.Position, error)
	RemovePosition(ctx context.Context, ownerID string, class models.AssetClass, id string) error
	Sell(ctx context.Context, ownerID string, class models.AssetClass, id string, in SellInput) (*models.LedgerEntry, error)
	Mature(ctx context.Context, ownerID string, class models.AssetClass, id string, in MatureInput) (*models.LedgerEntry, error)
	Contribute(ctx context.Context, ownerID, fundID string, in ContributeInput) (*models.LedgerEntry, error)
	Transfer(ctx context.Context, ownerID, cryptoID string, in TransferInput) (*models.LedgerEntry, error)
}

// StakingServicer defines the crypto staking lifecycle.
type StakingServicer interface {
	Stake(ctx context.Context, ownerID, cryptoID string, in StakeInput) (*models.StakingPosition, error)
	Unstake(ctx context.Context, ownerID, stakeID string, in UnstakeInput) (*UnstakeResult, error)
	ListStakes(ctx context.Context, ownerID string, active *bool) ([]StakeView, error)
}

// ReportServicer defines valuation and aggregation over positions and the ledger.
type ReportServicer interface {
	Summary(ctx context.Context, ownerID string) (*PortfolioSummary, error)
	Holdings(ctx context.Context, ownerID string, class models.AssetClass) ([]Holding, error)
	Holding(ctx context.Context, ownerID string, class models.AssetClass, id string) (*Holding, error)
	RealizedProfits(ctx context.Context, ownerID string) (*RealizedProfitReport, error)
	TransactionStats(ctx context.Context, ownerID string, filter StatsFilter) (*TransactionStats, error)
	CryptoStats(ctx context.Context, ownerID string) (*CryptoStats, error)
	UpcomingMaturities(ctx context.Context, ownerID string, withinDays int) ([]Maturity, error)
}

// TransactionFilter holds optional filter parameters for listing ledger entries.
type TransactionFilter struct {
	Class  models.AssetClass
	Kind   models.EntryKind
	Symbol string
	From   *time.Time
	To     *time.Time
}

// TransactionServicer defines read access to the ledger.
type TransactionServicer interface {
	ListTransactions(ownerID string, filter TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error)
	GetTransaction(ownerID, id string) (*models.LedgerEntry, error)
}

// PortfolioSnapshotServicer defines the contract for portfolio snapshot operations.
type PortfolioSnapshotServicer interface {
	RecordSnapshot(ctx context.Context, ownerID string, recordedAt time.Time) (*models.PortfolioSnapshot, error)
	ComputeAndRecordSnapshots(ctx context.Context, recordedAt time.Time) (int, error)
	GetSnapshots(ownerID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}

// SchemeSearcher looks up mutual fund schemes by name or code.
type SchemeSearcher interface {
	Search(ctx context.Context, query string) ([]provider.Scheme, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(ownerID string, action models.AuditAction, resourceType, resourceID, ipAddress string, changes map[string]any)
}
