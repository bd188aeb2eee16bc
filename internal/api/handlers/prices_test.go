package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stackvalue/portfolio-tracker/internal/testutil"
)

func setupPriceHandler(t *testing.T) (*PriceHandler, *sql.DB, *testutil.MockFeedClient) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	feedClient := testutil.NewMockFeedClient()
	mds := testutil.NewTestMarketDataService(t, db, feedClient)
	return NewPriceHandler(mds), db, feedClient
}

func TestPriceHandler_RefreshPrices(t *testing.T) {
	t.Run("refreshes requested symbols", func(t *testing.T) {
		handler, db, feedClient := setupPriceHandler(t)
		feedClient.WithQuote("AAPL", 165).WithQuote("MSFT", 310)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.CreateSecurity(t, db, "MSFT")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/price/refresh", map[string]any{
			"symbols": []string{"aapl", "MSFT"},
		})
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp RefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.Prices["AAPL"] != 165 || resp.Prices["MSFT"] != 310 {
			t.Errorf("Expected both prices, got %v", resp.Prices)
		}
		if resp.Skipped != 0 {
			t.Errorf("Expected no skips, got %d", resp.Skipped)
		}
	})

	t.Run("absent body refreshes all open positions", func(t *testing.T) {
		handler, db, feedClient := setupPriceHandler(t)
		feedClient.WithQuote("AAPL", 165)
		portfolio := testutil.NewPortfolio().Build(t, db)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.NewPosition(portfolio.ID, "AAPL").Build(t, db)

		req := httptest.NewRequest(http.MethodPost, "/api/price/refresh", nil)
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp RefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.Prices["AAPL"] != 165 {
			t.Errorf("Expected AAPL refreshed from positions, got %v", resp.Prices)
		}
	})

	t.Run("reports skipped symbols without failing", func(t *testing.T) {
		handler, db, feedClient := setupPriceHandler(t)
		feedClient.WithQuote("AAPL", 165)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.CreateSecurity(t, db, "GONE")

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/price/refresh", map[string]any{
			"symbols": []string{"AAPL", "GONE"},
		})
		w := httptest.NewRecorder()

		handler.RefreshPrices(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp RefreshResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.Skipped != 1 {
			t.Errorf("Expected 1 skipped, got %d", resp.Skipped)
		}
		if resp.Prices["AAPL"] != 165 {
			t.Errorf("Expected AAPL priced, got %v", resp.Prices)
		}
	})
}

func TestPriceHandler_GetPrice(t *testing.T) {
	t.Run("returns stored price", func(t *testing.T) {
		handler, db, _ := setupPriceHandler(t)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.SetPrice(t, db, "AAPL", 165)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/price/AAPL",
			map[string]string{"symbol": "aapl"})
		w := httptest.NewRecorder()

		handler.GetPrice(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 404 when no price stored", func(t *testing.T) {
		handler, _, _ := setupPriceHandler(t)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/price/NOPE",
			map[string]string{"symbol": "NOPE"})
		w := httptest.NewRecorder()

		handler.GetPrice(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
