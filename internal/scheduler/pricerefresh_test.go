package scheduler_test

import (
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/rs/zerolog"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/scheduler"
	"github.com/stackvalue/portfolio-tracker/internal/testutil"
)

func makeFernetKey(t *testing.T) string {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return key.Encode()
}

// WHY: The scheduled refresh must honour the auto refresh flag on every
// run, without requiring a server restart for the flag to take effect.
func TestPriceRefreshJob_Run(t *testing.T) {
	enabled := true
	disabled := false

	t.Run("refreshes open-position symbols when enabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		feedClient := testutil.NewMockFeedClient().WithQuote("AAPL", 165)
		mds := testutil.NewTestMarketDataService(t, db, feedClient)
		fcs := testutil.NewTestFeedConfigService(t, db, makeFernetKey(t))

		portfolio := testutil.NewPortfolio().Build(t, db)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.NewPosition(portfolio.ID, "AAPL").Build(t, db)

		if _, err := fcs.UpdateFeedConfig(request.UpdateFeedConfigRequest{AutoRefreshEnabled: &enabled}); err != nil {
			t.Fatalf("Failed to enable auto refresh: %v", err)
		}

		job := scheduler.NewPriceRefreshJob(mds, fcs, zerolog.Nop())

		if err := job.Run(); err != nil {
			t.Fatalf("Expected run to succeed, got: %v", err)
		}
		if feedClient.FetchCount != 1 {
			t.Errorf("Expected 1 feed fetch, got %d", feedClient.FetchCount)
		}
		testutil.AssertRowCount(t, db, "price_point", 1)
	})

	t.Run("skips run when auto refresh is disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		feedClient := testutil.NewMockFeedClient().WithQuote("AAPL", 165)
		mds := testutil.NewTestMarketDataService(t, db, feedClient)
		fcs := testutil.NewTestFeedConfigService(t, db, makeFernetKey(t))

		portfolio := testutil.NewPortfolio().Build(t, db)
		testutil.CreateSecurity(t, db, "AAPL")
		testutil.NewPosition(portfolio.ID, "AAPL").Build(t, db)

		if _, err := fcs.UpdateFeedConfig(request.UpdateFeedConfigRequest{AutoRefreshEnabled: &disabled}); err != nil {
			t.Fatalf("Failed to disable auto refresh: %v", err)
		}

		job := scheduler.NewPriceRefreshJob(mds, fcs, zerolog.Nop())

		if err := job.Run(); err != nil {
			t.Fatalf("Expected run to succeed, got: %v", err)
		}
		if feedClient.FetchCount != 0 {
			t.Errorf("Expected no feed fetches, got %d", feedClient.FetchCount)
		}
		testutil.AssertRowCount(t, db, "price_point", 0)
	})

	t.Run("treats missing config row as disabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		feedClient := testutil.NewMockFeedClient().WithQuote("AAPL", 165)
		mds := testutil.NewTestMarketDataService(t, db, feedClient)
		fcs := testutil.NewTestFeedConfigService(t, db, makeFernetKey(t))

		job := scheduler.NewPriceRefreshJob(mds, fcs, zerolog.Nop())

		if err := job.Run(); err != nil {
			t.Fatalf("Expected run to succeed, got: %v", err)
		}
		if feedClient.FetchCount != 0 {
			t.Errorf("Expected no feed fetches, got %d", feedClient.FetchCount)
		}
	})
}
