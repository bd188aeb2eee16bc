package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/testutil"
)

func setupTransactionHandler(t *testing.T) (*TransactionHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ts := testutil.NewTestTransactionService(t, db)
	return NewTransactionHandler(ts), db
}

func transactionBody(portfolioID, symbol, txType string, quantity, price float64) map[string]any {
	return map[string]any{
		"portfolioId": portfolioID,
		"symbol":      symbol,
		"quantity":    quantity,
		"price":       price,
		"type":        txType,
	}
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 with the resulting position", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		portfolio := testutil.NewPortfolio().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "BUY", 100, 150))
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var position model.Position
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&position)

		if position.Quantity != 100 || position.AvgCost != 150 {
			t.Errorf("Unexpected position: %+v", position)
		}
	})

	t.Run("lowercases in symbol and type are accepted", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		portfolio := testutil.NewPortfolio().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "aapl", "buy", 10, 150))
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var position model.Position
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&position)

		if position.Symbol != "AAPL" {
			t.Errorf("Expected normalized symbol AAPL, got %s", position.Symbol)
		}
	})

	t.Run("returns 409 on oversell", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		portfolio := testutil.NewPortfolio().Build(t, db)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "BUY", 150, 160))
		w := httptest.NewRecorder()
		handler.CreateTransaction(w, req)
		if w.Code != http.StatusCreated {
			t.Fatalf("buy failed: %d: %s", w.Code, w.Body.String())
		}

		req = testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(portfolio.ID, "AAPL", "SELL", 200, 170))
		w = httptest.NewRecorder()
		handler.CreateTransaction(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}

		// Rejected sell left no trace.
		testutil.AssertRowCount(t, db, `"transaction"`, 1)
	})

	t.Run("returns 404 for unknown portfolio", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction",
			transactionBody(testutil.MakeID(), "AAPL", "BUY", 10, 150))
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("returns 400 on validation failure", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		portfolio := testutil.NewPortfolio().Build(t, db)

		tests := []struct {
			name string
			body map[string]any
		}{
			{"zero quantity", transactionBody(portfolio.ID, "AAPL", "BUY", 0, 150)},
			{"negative price", transactionBody(portfolio.ID, "AAPL", "BUY", 10, -1)},
			{"unknown type", transactionBody(portfolio.ID, "AAPL", "SHORT", 10, 150)},
			{"missing symbol", transactionBody(portfolio.ID, "", "BUY", 10, 150)},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", tt.body)
				w := httptest.NewRecorder()

				handler.CreateTransaction(w, req)

				if w.Code != http.StatusBadRequest {
					t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
				}
			})
		}
	})

	t.Run("returns 400 on unknown JSON fields", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		portfolio := testutil.NewPortfolio().Build(t, db)

		body := transactionBody(portfolio.ID, "AAPL", "BUY", 10, 150)
		body["quantty"] = 10 // typo must not be silently dropped

		req := testutil.NewJSONRequest(t, http.MethodPost, "/api/transaction", body)
		w := httptest.NewRecorder()

		handler.CreateTransaction(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestTransactionHandler_GetTransaction(t *testing.T) {
	t.Run("returns the transaction", func(t *testing.T) {
		handler, db := setupTransactionHandler(t)
		portfolio := testutil.NewPortfolio().Build(t, db)
		testutil.CreateSecurity(t, db, "AAPL")
		tx := testutil.NewTransaction(portfolio.ID, "AAPL").Build(t, db)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+tx.ID,
			map[string]string{"uuid": tx.ID})
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response model.TransactionResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.ID != tx.ID {
			t.Errorf("Expected transaction %s, got %s", tx.ID, response.ID)
		}
	})

	t.Run("returns 404 for unknown transaction", func(t *testing.T) {
		handler, _ := setupTransactionHandler(t)
		id := testutil.MakeID()

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/transaction/"+id,
			map[string]string{"uuid": id})
		w := httptest.NewRecorder()

		handler.GetTransaction(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})
}
