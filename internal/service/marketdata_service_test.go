package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/testutil"
)

// TestMarketDataService_RefreshPrices tests the refresh batch.
//
// WHY: A refresh must survive individual symbol failures: one delisted
// ticker cannot be allowed to abort the whole batch. Failed symbols are
// skipped and counted, successful ones are stored.
func TestMarketDataService_RefreshPrices(t *testing.T) {
	t.Run("stores fetched prices", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().
			WithQuote("AAPL", 165).
			WithQuote("MSFT", 400)
		svc := testutil.NewTestMarketDataService(t, db, mock)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.CreateSecurity(t, db, "MSFT")

		result, err := svc.RefreshPrices(context.Background(), []string{"AAPL", "MSFT"})
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}

		if len(result.Prices) != 2 {
			t.Fatalf("Expected 2 prices, got %d", len(result.Prices))
		}
		if result.Prices["AAPL"] != 165 {
			t.Errorf("Expected AAPL at 165, got %v", result.Prices["AAPL"])
		}
		if result.Skipped != 0 {
			t.Errorf("Expected 0 skipped, got %d", result.Skipped)
		}

		testutil.AssertRowCount(t, db, "price_point", 2)
		testutil.AssertRowCount(t, db, "price_history", 2)
	})

	t.Run("skips failed symbols without aborting the batch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().
			WithQuote("AAPL", 165).
			WithError("BAD", errors.New("unknown symbol"))
		svc := testutil.NewTestMarketDataService(t, db, mock)
		testutil.CreateSecurity(t, db, "AAPL")

		result, err := svc.RefreshPrices(context.Background(), []string{"AAPL", "BAD"})
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}

		if len(result.Prices) != 1 {
			t.Errorf("Expected 1 price, got %d", len(result.Prices))
		}
		if result.Skipped != 1 {
			t.Errorf("Expected 1 skipped, got %d", result.Skipped)
		}
	})

	t.Run("refresh overwrites the stored price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().WithQuote("AAPL", 165)
		svc := testutil.NewTestMarketDataService(t, db, mock)
		testutil.CreateSecurity(t, db, "AAPL")

		if _, err := svc.RefreshPrices(context.Background(), []string{"AAPL"}); err != nil {
			t.Fatalf("first refresh failed: %v", err)
		}

		mock.WithQuote("AAPL", 170)
		if _, err := svc.RefreshPrices(context.Background(), []string{"AAPL"}); err != nil {
			t.Fatalf("second refresh failed: %v", err)
		}

		price, err := svc.GetPrice("AAPL")
		if err != nil {
			t.Fatalf("GetPrice() returned unexpected error: %v", err)
		}
		if price.Price != 170 {
			t.Errorf("Expected latest price 170, got %v", price.Price)
		}

		// One current row, full history preserved.
		testutil.AssertRowCount(t, db, "price_point", 1)
		testutil.AssertRowCount(t, db, "price_history", 2)
	})

	t.Run("empty symbol list is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient()
		svc := testutil.NewTestMarketDataService(t, db, mock)

		result, err := svc.RefreshPrices(context.Background(), nil)
		if err != nil {
			t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
		}
		if len(result.Prices) != 0 || result.Skipped != 0 {
			t.Errorf("Expected empty result, got %+v", result)
		}
		if mock.FetchCount != 0 {
			t.Errorf("Expected no fetches, got %d", mock.FetchCount)
		}
	})
}

// TestMarketDataService_RefreshAll tests open-position discovery.
func TestMarketDataService_RefreshAll(t *testing.T) {
	t.Run("refreshes every symbol with an open position", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().
			WithQuote("AAPL", 165).
			WithQuote("MSFT", 400)
		svc := testutil.NewTestMarketDataService(t, db, mock)

		p1 := testutil.CreatePortfolio(t, db, "First")
		p2 := testutil.CreatePortfolio(t, db, "Second")
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.CreateSecurity(t, db, "MSFT")
		testutil.NewPosition(p1.ID, "AAPL").Build(t, db)
		testutil.NewPosition(p2.ID, "AAPL").Build(t, db)
		testutil.NewPosition(p2.ID, "MSFT").Build(t, db)

		result, err := svc.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}

		// AAPL is held in two portfolios but fetched once.
		if mock.FetchCount != 2 {
			t.Errorf("Expected 2 fetches, got %d", mock.FetchCount)
		}
		if len(result.Prices) != 2 {
			t.Errorf("Expected 2 prices, got %d", len(result.Prices))
		}
	})

	t.Run("no open positions fetches nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient()
		svc := testutil.NewTestMarketDataService(t, db, mock)

		result, err := svc.RefreshAll(context.Background())
		if err != nil {
			t.Fatalf("RefreshAll() returned unexpected error: %v", err)
		}
		if len(result.Prices) != 0 {
			t.Errorf("Expected no prices, got %d", len(result.Prices))
		}
		if mock.FetchCount != 0 {
			t.Errorf("Expected no fetches, got %d", mock.FetchCount)
		}
	})
}

// TestMarketDataService_GetPrice tests price reads.
//
// WHY: Reads must never touch the feed. Repeated reads without a refresh
// return the identical stored value, and a symbol never refreshed is a
// clean not-found.
func TestMarketDataService_GetPrice(t *testing.T) {
	t.Run("repeated reads are idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockFeedClient().WithQuote("AAPL", 165)
		svc := testutil.NewTestMarketDataService(t, db, mock)
		testutil.CreateSecurity(t, db, "AAPL")

		if _, err := svc.RefreshPrices(context.Background(), []string{"AAPL"}); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}
		fetchesAfterRefresh := mock.FetchCount

		first, err := svc.GetPrice("AAPL")
		if err != nil {
			t.Fatalf("GetPrice() returned unexpected error: %v", err)
		}
		second, err := svc.GetPrice("AAPL")
		if err != nil {
			t.Fatalf("GetPrice() returned unexpected error: %v", err)
		}

		if first.Price != second.Price {
			t.Errorf("Expected identical reads, got %v and %v", first.Price, second.Price)
		}
		if mock.FetchCount != fetchesAfterRefresh {
			t.Error("GetPrice must not hit the feed")
		}
	})

	t.Run("unknown symbol yields not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketDataService(t, db, testutil.NewMockFeedClient())

		_, err := svc.GetPrice("NOPE")
		if !errors.Is(err, apperrors.ErrPriceNotFound) {
			t.Errorf("Expected ErrPriceNotFound, got %v", err)
		}
	})
}
