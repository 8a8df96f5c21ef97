package handlers

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"nidhi/internal/middleware"
	"nidhi/internal/models"
	"nidhi/internal/pagination"
	"nidhi/internal/provider"
	"nidhi/internal/services"
	"nidhi/internal/validator"
)

const testOwnerID = "0190a6f5-3c2e-7d4a-9b1e-5f6a7b8c9d0e"

// --- mock portfolio service ---

type mockPortfolioService struct {
	openPositionFn   func(ownerID string, in services.OpenInput) (models.Position, error)
	updatePositionFn func(ownerID string, class models.AssetClass, id string, in services.UpdateInput) (models.Position, error)
	removePositionFn func(ownerID string, class models.AssetClass, id string) error
	sellFn           func(ownerID string, class models.AssetClass, id string, in services.SellInput) (*models.LedgerEntry, error)
	matureFn         func(ownerID string, class models.AssetClass, id string, in services.MatureInput) (*models.LedgerEntry, error)
	contributeFn     func(ownerID, fundID string, in services.ContributeInput) (*models.LedgerEntry, error)
	transferFn       func(ownerID, cryptoID string, in services.TransferInput) (*models.LedgerEntry, error)
}

var _ services.PortfolioServicer = (*mockPortfolioService)(nil)

func (m *mockPortfolioService) OpenPosition(_ context.Context, ownerID string, in services.OpenInput) (models.Position, error) {
	if m.openPositionFn != nil {
		return m.openPositionFn(ownerID, in)
	}
	return &models.Equity{}, nil
}

func (m *mockPortfolioService) UpdatePosition(_ context.Context, ownerID string, class models.AssetClass, id string, in services.UpdateInput) (models.Position, error) {
	if m.updatePositionFn != nil {
		return m.updatePositionFn(ownerID, class, id, in)
	}
	return &models.Equity{}, nil
}

func (m *mockPortfolioService) RemovePosition(_ context.Context, ownerID string, class models.AssetClass, id string) error {
	if m.removePositionFn != nil {
		return m.removePositionFn(ownerID, class, id)
	}
	return nil
}

func (m *mockPortfolioService) Sell(_ context.Context, ownerID string, class models.AssetClass, id string, in services.SellInput) (*models.LedgerEntry, error) {
	if m.sellFn != nil {
		return m.sellFn(ownerID, class, id, in)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockPortfolioService) Mature(_ context.Context, ownerID string, class models.AssetClass, id string, in services.MatureInput) (*models.LedgerEntry, error) {
	if m.matureFn != nil {
		return m.matureFn(ownerID, class, id, in)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockPortfolioService) Contribute(_ context.Context, ownerID, fundID string, in services.ContributeInput) (*models.LedgerEntry, error) {
	if m.contributeFn != nil {
		return m.contributeFn(ownerID, fundID, in)
	}
	return &models.LedgerEntry{}, nil
}

func (m *mockPortfolioService) Transfer(_ context.Context, ownerID, cryptoID string, in services.TransferInput) (*models.LedgerEntry, error) {
	if m.transferFn != nil {
		return m.transferFn(ownerID, cryptoID, in)
	}
	return &models.LedgerEntry{}, nil
}

// --- mock staking service ---

type mockStakingService struct {
	stakeFn      func(ownerID, cryptoID string, in services.StakeInput) (*models.StakingPosition, error)
	unstakeFn    func(ownerID, stakeID string, in services.UnstakeInput) (*services.UnstakeResult, error)
	listStakesFn func(ownerID string, active *bool) ([]services.StakeView, error)
}

var _ services.StakingServicer = (*mockStakingService)(nil)

func (m *mockStakingService) Stake(_ context.Context, ownerID, cryptoID string, in services.StakeInput) (*models.StakingPosition, error) {
	if m.stakeFn != nil {
		return m.stakeFn(ownerID, cryptoID, in)
	}
	return &models.StakingPosition{}, nil
}

func (m *mockStakingService) Unstake(_ context.Context, ownerID, stakeID string, in services.UnstakeInput) (*services.UnstakeResult, error) {
	if m.unstakeFn != nil {
		return m.unstakeFn(ownerID, stakeID, in)
	}
	return &services.UnstakeResult{Stake: &models.StakingPosition{}}, nil
}

func (m *mockStakingService) ListStakes(_ context.Context, ownerID string, active *bool) ([]services.StakeView, error) {
	if m.listStakesFn != nil {
		return m.listStakesFn(ownerID, active)
	}
	return []services.StakeView{}, nil
}

// --- mock report service ---

type mockReportService struct {
	summaryFn            func(ownerID string) (*services.PortfolioSummary, error)
	holdingsFn           func(ownerID string, class models.AssetClass) ([]services.Holding, error)
	holdingFn            func(ownerID string, class models.AssetClass, id string) (*services.Holding, error)
	realizedProfitsFn    func(ownerID string) (*services.RealizedProfitReport, error)
	transactionStatsFn   func(ownerID string, filter services.StatsFilter) (*services.TransactionStats, error)
	cryptoStatsFn        func(ownerID string) (*services.CryptoStats, error)
	upcomingMaturitiesFn func(ownerID string, withinDays int) ([]services.Maturity, error)
}

var _ services.ReportServicer = (*mockReportService)(nil)

func (m *mockReportService) Summary(_ context.Context, ownerID string) (*services.PortfolioSummary, error) {
	if m.summaryFn != nil {
		return m.summaryFn(ownerID)
	}
	return &services.PortfolioSummary{}, nil
}

func (m *mockReportService) Holdings(_ context.Context, ownerID string, class models.AssetClass) ([]services.Holding, error) {
	if m.holdingsFn != nil {
		return m.holdingsFn(ownerID, class)
	}
	return []services.Holding{}, nil
}

func (m *mockReportService) Holding(_ context.Context, ownerID string, class models.AssetClass, id string) (*services.Holding, error) {
	if m.holdingFn != nil {
		return m.holdingFn(ownerID, class, id)
	}
	return &services.Holding{}, nil
}

func (m *mockReportService) RealizedProfits(_ context.Context, ownerID string) (*services.RealizedProfitReport, error) {
	if m.realizedProfitsFn != nil {
		return m.realizedProfitsFn(ownerID)
	}
	return &services.RealizedProfitReport{}, nil
}

func (m *mockReportService) TransactionStats(_ context.Context, ownerID string, filter services.StatsFilter) (*services.TransactionStats, error) {
	if m.transactionStatsFn != nil {
		return m.transactionStatsFn(ownerID, filter)
	}
	return &services.TransactionStats{}, nil
}

func (m *mockReportService) CryptoStats(_ context.Context, ownerID string) (*services.CryptoStats, error) {
	if m.cryptoStatsFn != nil {
		return m.cryptoStatsFn(ownerID)
	}
	return &services.CryptoStats{}, nil
}

func (m *mockReportService) UpcomingMaturities(_ context.Context, ownerID string, withinDays int) ([]services.Maturity, error) {
	if m.upcomingMaturitiesFn != nil {
		return m.upcomingMaturitiesFn(ownerID, withinDays)
	}
	return []services.Maturity{}, nil
}

// --- mock transaction service ---

type mockTransactionService struct {
	listTransactionsFn func(ownerID string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error)
	getTransactionFn   func(ownerID, id string) (*models.LedgerEntry, error)
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func (m *mockTransactionService) ListTransactions(ownerID string, filter services.TransactionFilter, page pagination.PageRequest) (*pagination.PageResponse[models.LedgerEntry], error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(ownerID, filter, page)
	}
	resp := pagination.NewPageResponse([]models.LedgerEntry{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetTransaction(ownerID, id string) (*models.LedgerEntry, error) {
	if m.getTransactionFn != nil {
		return m.getTransactionFn(ownerID, id)
	}
	return &models.LedgerEntry{}, nil
}

// --- mock portfolio snapshot service ---

type mockPortfolioSnapshotService struct {
	recordSnapshotFn            func(ownerID string, recordedAt time.Time) (*models.PortfolioSnapshot, error)
	computeAndRecordSnapshotsFn func(recordedAt time.Time) (int, error)
	getSnapshotsFn              func(ownerID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error)
}

var _ services.PortfolioSnapshotServicer = (*mockPortfolioSnapshotService)(nil)

func (m *mockPortfolioSnapshotService) RecordSnapshot(_ context.Context, ownerID string, recordedAt time.Time) (*models.PortfolioSnapshot, error) {
	if m.recordSnapshotFn != nil {
		return m.recordSnapshotFn(ownerID, recordedAt)
	}
	return &models.PortfolioSnapshot{OwnerID: ownerID, RecordedAt: recordedAt}, nil
}

func (m *mockPortfolioSnapshotService) ComputeAndRecordSnapshots(_ context.Context, recordedAt time.Time) (int, error) {
	if m.computeAndRecordSnapshotsFn != nil {
		return m.computeAndRecordSnapshotsFn(recordedAt)
	}
	return 0, nil
}

func (m *mockPortfolioSnapshotService) GetSnapshots(ownerID string, from, to time.Time, page pagination.PageRequest) (*pagination.PageResponse[models.PortfolioSnapshot], error) {
	if m.getSnapshotsFn != nil {
		return m.getSnapshotsFn(ownerID, from, to, page)
	}
	resp := pagination.NewPageResponse([]models.PortfolioSnapshot{}, 1, 20, 0)
	return &resp, nil
}

// --- mock scheme searcher ---

type mockSchemeSearcher struct {
	searchFn func(query string) ([]provider.Scheme, error)
}

var _ services.SchemeSearcher = (*mockSchemeSearcher)(nil)

func (m *mockSchemeSearcher) Search(_ context.Context, query string) ([]provider.Scheme, error) {
	if m.searchFn != nil {
		return m.searchFn(query)
	}
	return []provider.Scheme{}, nil
}

// --- mock audit service ---

type auditCall struct {
	OwnerID      string
	Action       string
	ResourceType string
	ResourceID   string
}

type mockAuditService struct {
	mu    sync.Mutex
	calls []auditCall
}

var _ services.AuditServicer = (*mockAuditService)(nil)

func (m *mockAuditService) Log(ownerID string, action models.AuditAction, resourceType, resourceID, _ string, _ map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, auditCall{ownerID, string(action), resourceType, resourceID})
}

func (m *mockAuditService) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.calls))
	for _, c := range m.calls {
		out = append(out, c.Action)
	}
	return out
}

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectOwnerID(ownerID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.OwnerIDKey, ownerID)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func assertErrorCode(t *testing.T, result map[string]any, code string) {
	t.Helper()
	errObj, ok := result["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response, got: %v", result)
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %q, got %q", code, errObj["code"])
	}
}
