package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"nidhi/internal/logger"
	"nidhi/internal/middleware"
	"nidhi/internal/models"
	"nidhi/internal/oracle"
	"nidhi/internal/provider"
	"nidhi/internal/server"
	"nidhi/internal/services"
	"nidhi/internal/testutil"
	"nidhi/internal/validator"
)

const pipelineKey = "pipeline-test-key"

var (
	pipelineHashOnce sync.Once
	pipelineHash     string
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// staticPrices serves fixed quotes; anything else is unavailable.
type staticPrices struct {
	mu     sync.Mutex
	prices map[oracle.Key]decimal.Decimal
}

func (s *staticPrices) set(class models.AssetClass, identifier, price string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices[oracle.Key{Class: class, Identifier: identifier}] = decimal.RequireFromString(price)
}

func (s *staticPrices) GetUnitPrice(ctx context.Context, class models.AssetClass, identifier, currency string) oracle.Result {
	return s.Resolve(ctx, currency, []oracle.Key{{Class: class, Identifier: identifier}})[oracle.Key{Class: class, Identifier: identifier}]
}

func (s *staticPrices) Resolve(_ context.Context, currency string, keys []oracle.Key) map[oracle.Key]oracle.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[oracle.Key]oracle.Result, len(keys))
	for _, k := range keys {
		price, ok := s.prices[k]
		if !ok {
			out[k] = oracle.Result{Err: fmt.Errorf("no quote for %s", k.Identifier)}
			continue
		}
		out[k] = oracle.Result{Quote: oracle.Quote{Price: price, Currency: currency, Source: "static", AsOf: time.Now()}}
	}
	return out
}

// noSchemes answers every scheme search with no matches.
type noSchemes struct{}

func (noSchemes) Search(context.Context, string) ([]provider.Scheme, error) { return nil, nil }

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Prices *staticPrices
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	prices := &staticPrices{prices: make(map[oracle.Key]decimal.Decimal)}

	pipelineHashOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte(pipelineKey), bcrypt.MinCost)
		if err != nil {
			panic(err)
		}
		pipelineHash = string(hash)
	})

	settings := services.Settings{BaseCurrency: "INR", MutualFundFallbackRate: decimal.RequireFromString("0.05")}
	h := server.NewHandlers(db, prices, noSchemes{}, settings)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	server.RegisterRoutes(router, h, pipelineHash)

	return &testApp{DB: db, Router: router, Prices: prices}
}

// newOwner returns a fresh owner id and an access token for it.
func newOwner(t *testing.T) (ownerID, token string) {
	t.Helper()
	ownerID = testutil.NewOwnerID()
	token, err := middleware.GenerateAccessToken(ownerID)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return ownerID, token
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// pipelineRequest makes a request authenticated with the pipeline API key.
func (app *testApp) pipelineRequest(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", pipelineKey)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// mustStatus fails the test when rec does not carry the expected status.
func mustStatus(t *testing.T, rec *httptest.ResponseRecorder, want int, step string) map[string]any {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("%s: expected %d, got %d: %s", step, want, rec.Code, rec.Body.String())
	}
	return parseJSON(t, rec)
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

func errorCode(result map[string]any) string {
	errObj, _ := result["error"].(map[string]any)
	code, _ := errObj["code"].(string)
	return code
}

// openPosition opens a position and returns its id.
func (app *testApp) openPosition(t *testing.T, token, classSlug, body string) string {
	t.Helper()
	result := mustStatus(t, app.request("POST", "/api/v1/positions/"+classSlug, body, token), http.StatusCreated, "open "+classSlug)
	return result["position"].(map[string]any)["id"].(string)
}

// assertDecimal compares a JSON decimal string against want numerically.
func assertDecimal(t *testing.T, name string, got any, want string) {
	t.Helper()
	s, ok := got.(string)
	if !ok {
		t.Errorf("%s: expected decimal string, got %T %v", name, got, got)
		return
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s: expected %s, got %s", name, want, s)
	}
}
