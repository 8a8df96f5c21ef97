package integration

import (
	"net/http"
	"testing"

	"nidhi/internal/models"
)

func TestEquityFlow_OpenValueSell(t *testing.T) {
	app := setupApp(t)
	_, token := newOwner(t)
	app.Prices.set(models.AssetClassEquity, "NSE:INFY", "120")

	// Step 1: Open 10 INFY at 100
	id := app.openPosition(t, token, "equity",
		`{"symbol":"INFY","name":"Infosys","exchange":"NSE","quantity":"10","unit_cost":"100","acquired_at":"2025-04-01T00:00:00Z"}`)

	// Step 2: Valued listing uses the live price
	result := mustStatus(t, app.request("GET", "/api/v1/positions/equity", "", token), http.StatusOK, "list equity")
	holdings := result["holdings"].([]any)
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}
	h := holdings[0].(map[string]any)
	assertDecimal(t, "current_value", h["current_value"], "1200")
	assertDecimal(t, "profit", h["profit"], "200")
	if h["price_basis"] != "live" {
		t.Errorf("expected live price basis, got %v", h["price_basis"])
	}

	// Step 3: Sell 4 at 150
	result = mustStatus(t, app.request("POST", "/api/v1/positions/equity/"+id+"/sell",
		`{"quantity":"4","price":"150","sell_date":"2026-01-15T00:00:00Z"}`, token), http.StatusOK, "sell")
	entry := result["transaction"].(map[string]any)
	if entry["kind"] != "sell" {
		t.Errorf("expected sell entry, got %v", entry["kind"])
	}
	assertDecimal(t, "proceeds", entry["amount"], "600")
	assertDecimal(t, "profit", entry["profit"], "200")
	assertDecimal(t, "profit_percentage", entry["profit_percentage"], "50")

	// Step 4: Overselling is refused and leaves the position unchanged
	rec := app.request("POST", "/api/v1/positions/equity/"+id+"/sell", `{"quantity":"7","price":"150"}`, token)
	if rec.Code != http.StatusBadRequest || errorCode(parseJSON(t, rec)) != "INSUFFICIENT_QUANTITY" {
		t.Fatalf("expected INSUFFICIENT_QUANTITY, got %d %s", rec.Code, rec.Body.String())
	}
	result = mustStatus(t, app.request("GET", "/api/v1/positions/equity/"+id, "", token), http.StatusOK, "get equity")
	assertDecimal(t, "remaining quantity", result["holding"].(map[string]any)["quantity"], "6")

	// Step 5: Ledger has the buy and the sell, newest first
	result = mustStatus(t, app.request("GET", "/api/v1/transactions?symbol=INFY", "", token), http.StatusOK, "transactions")
	data := result["data"].([]any)
	if len(data) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(data))
	}
	if data[0].(map[string]any)["kind"] != "sell" || data[1].(map[string]any)["kind"] != "buy" {
		t.Errorf("unexpected ledger order: %v, %v", data[0].(map[string]any)["kind"], data[1].(map[string]any)["kind"])
	}

	// Step 6: Realized profit and summary
	result = mustStatus(t, app.request("GET", "/api/v1/portfolio/realized-profits", "", token), http.StatusOK, "realized")
	assertDecimal(t, "total realized", result["total_profit"], "200")

	result = mustStatus(t, app.request("GET", "/api/v1/portfolio/summary", "", token), http.StatusOK, "summary")
	assertDecimal(t, "total invested", result["total_invested"], "600")
	assertDecimal(t, "total value", result["total_value"], "720")

	// Step 7: Selling the rest closes the position
	mustStatus(t, app.request("POST", "/api/v1/positions/equity/"+id+"/sell", `{"quantity":"6","price":"90"}`, token), http.StatusOK, "sell rest")
	rec = app.request("GET", "/api/v1/positions/equity/"+id, "", token)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected closed position to be gone, got %d", rec.Code)
	}
}

func TestEquityFlow_SellWithoutPriceNeedsQuote(t *testing.T) {
	app := setupApp(t)
	_, token := newOwner(t)

	id := app.openPosition(t, token, "stocks", `{"symbol":"TCS","name":"TCS","quantity":"1","unit_cost":"3000"}`)

	rec := app.request("POST", "/api/v1/positions/equity/"+id+"/sell", `{"quantity":"1"}`, token)
	if rec.Code != http.StatusBadRequest || errorCode(parseJSON(t, rec)) != "INVALID_INPUT" {
		t.Fatalf("expected INVALID_INPUT without a quote, got %d %s", rec.Code, rec.Body.String())
	}

	app.Prices.set(models.AssetClassEquity, "TCS", "3300")
	result := mustStatus(t, app.request("POST", "/api/v1/positions/equity/"+id+"/sell", `{"quantity":"1"}`, token), http.StatusOK, "sell at quote")
	assertDecimal(t, "profit", result["transaction"].(map[string]any)["profit"], "300")
}

func TestEquityFlow_OwnerIsolation(t *testing.T) {
	app := setupApp(t)
	_, alice := newOwner(t)
	_, bob := newOwner(t)

	id := app.openPosition(t, alice, "equity", `{"symbol":"HDFC","name":"HDFC Bank","quantity":"5","unit_cost":"1500"}`)

	for _, tc := range []struct{ method, path, body string }{
		{"GET", "/api/v1/positions/equity/" + id, ""},
		{"PUT", "/api/v1/positions/equity/" + id, `{"notes":"mine now"}`},
		{"POST", "/api/v1/positions/equity/" + id + "/sell", `{"quantity":"1","price":"1600"}`},
		{"DELETE", "/api/v1/positions/equity/" + id, ""},
	} {
		rec := app.request(tc.method, tc.path, tc.body, bob)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s as another owner: expected 404, got %d", tc.method, tc.path, rec.Code)
		}
	}

	result := mustStatus(t, app.request("GET", "/api/v1/transactions", "", bob), http.StatusOK, "bob transactions")
	if result["total_items"].(float64) != 0 {
		t.Errorf("expected bob to see no entries, got %v", result["total_items"])
	}

	rec := app.request("GET", "/api/v1/positions/equity", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", rec.Code)
	}
}
