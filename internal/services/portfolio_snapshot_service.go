package services

import (
	"context"
	"time"

	apperrors "nidhi/internal/errors"
	"nidhi/internal/logger"
	"nidhi/internal/models"
	"nidhi/internal/pagination"

	"gorm.io/gorm"
)

// ownerTables are the tables whose owners get a snapshot.
var ownerTables = []any{
	&models.Equity{},
	&models.Gold{},
	&models.MutualFund{},
	&models.RealEstate{},
	&models.FixedDeposit{},
	&models.ProvidentFund{},
	&models.Crypto{},
}

// portfolioSnapshotService records valued portfolio totals over time.
type portfolioSnapshotService struct {
	db      *gorm.DB
	reports ReportServicer
}

// NewPortfolioSnapshotService creates a new PortfolioSnapshotServicer.
func NewPortfolioSnapshotService(db *gorm.DB, reports ReportServicer) PortfolioSnapshotServicer {
	return &portfolioSnapshotService{db: db, reports: reports}
}

// RecordSnapshot values the owner's portfolio and stores the totals. A second
// snapshot at the same instant replaces the first.
func (s *portfolioSnapshotService) RecordSnapshot(ctx context.Context, ownerID string, recordedAt time.Time) (*models.PortfolioSnapshot, error) {
	summary, err := s.reports.Summary(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	snapshot := &models.PortfolioSnapshot{
		OwnerID:        ownerID,
		RecordedAt:     recordedAt,
		Currency:       summary.Currency,
		TotalInvested:  summary.TotalInvested,
		TotalValue:     summary.TotalValue,
		RealizedProfit: summary.RealizedProfit,
		PositionCount:  summary.PositionCount,
	}

	var existing models.PortfolioSnapshot
	result := s.db.Where("owner_id = ? AND recorded_at = ?", ownerID, recordedAt).Limit(1).Find(&existing)
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected > 0 {
		snapshot.ID = existing.ID
		if err := s.db.Model(&existing).Updates(map[string]any{
			"currency":        snapshot.Currency,
			"total_invested":  snapshot.TotalInvested,
			"total_value":     snapshot.TotalValue,
			"realized_profit": snapshot.RealizedProfit,
			"position_count":  snapshot.PositionCount,
		}).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return snapshot, nil
	}

	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshot, nil
}

// ComputeAndRecordSnapshots records a snapshot for every owner holding at
// least one open position.
func (s *portfolioSnapshotService) ComputeAndRecordSnapshots(ctx context.Context, recordedAt time.Time) (int, error) {
	seen := make(map[string]bool)
	var owners []string
	for _, table := range ownerTables {
		var ids []string
		if err := s.db.Model(table).Distinct("owner_id").Pluck("owner_id", &ids).Error; err != nil {
			return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				owners = append(owners, id)
			}
		}
	}

	count := 0
	for _, ownerID := range owners {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		if _, err := s.RecordSnapshot(ctx, ownerID, recordedAt); err != nil {
			return count, err
		}
		count++
	}

	logger.Get().Infow("portfolio snapshots recorded", "count", count, "recorded_at", recordedAt)
	return count, nil
}

// GetSnapshots returns paginated snapshots for an owner within a date range.
func (s *portfolioSnapshotService) GetSnapshots(
	ownerID string,
	from, to time.Time,
	page pagination.PageRequest,
) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return pagination.Between("recorded_at", &from, &to)(db.Where("owner_id = ?", ownerID))
	}
	result, err := pagination.Fetch[models.PortfolioSnapshot](s.db, scope, "recorded_at DESC", page)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}
