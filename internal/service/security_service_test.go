package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/testutil"
)

func securityNameInDB(t *testing.T, db *sql.DB, symbol string) string {
	t.Helper()

	var name string
	err := db.QueryRow("SELECT name FROM security WHERE symbol = ?", symbol).Scan(&name)
	if err != nil {
		t.Fatalf("Failed to read security name: %v", err)
	}
	return name
}

func TestSecurityService_CreateSecurity(t *testing.T) {
	t.Run("creates security with explicit fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSecurityService(t, db, testutil.NewMockFeedClient())

		security, err := svc.CreateSecurity(request.CreateSecurityRequest{
			Symbol:   "AAPL",
			Name:     "Apple Inc.",
			Sector:   "Technology",
			Industry: "Consumer Electronics",
			Currency: "USD",
		})
		if err != nil {
			t.Fatalf("Failed to create security: %v", err)
		}

		if security.ID == "" {
			t.Error("Expected server-assigned ID")
		}
		testutil.AssertRowCount(t, db, "security", 1)
	})

	t.Run("defaults currency to USD", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSecurityService(t, db, testutil.NewMockFeedClient())

		security, err := svc.CreateSecurity(request.CreateSecurityRequest{Symbol: "MSFT"})
		if err != nil {
			t.Fatalf("Failed to create security: %v", err)
		}

		if security.Currency != "USD" {
			t.Errorf("Expected currency USD, got %s", security.Currency)
		}
	})

	t.Run("rejects duplicate symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSecurityService(t, db, testutil.NewMockFeedClient())

		if _, err := svc.CreateSecurity(request.CreateSecurityRequest{Symbol: "AAPL"}); err != nil {
			t.Fatalf("Failed to create security: %v", err)
		}
		if _, err := svc.CreateSecurity(request.CreateSecurityRequest{Symbol: "AAPL"}); err == nil {
			t.Error("Expected duplicate symbol to be rejected")
		}
	})
}

func TestSecurityService_RefreshDescriptive(t *testing.T) {
	t.Run("fills in name from feed", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		feedClient := testutil.NewMockFeedClient().WithQuote("AAPL", 165)
		svc := testutil.NewTestSecurityService(t, db, feedClient)

		// Auto-registered securities start with an empty name.
		testutil.NewSecurity().WithSymbol("AAPL").WithName("").Build(t, db)

		security, err := svc.RefreshDescriptive(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("Failed to refresh security: %v", err)
		}

		if security.Name != "AAPL Inc." {
			t.Errorf("Expected feed name, got %q", security.Name)
		}
		if got := securityNameInDB(t, db, "AAPL"); got != "AAPL Inc." {
			t.Errorf("Expected name persisted, got %q", got)
		}
	})

	t.Run("returns not found for unknown symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestSecurityService(t, db, testutil.NewMockFeedClient())

		_, err := svc.RefreshDescriptive(context.Background(), "NOPE")
		if !errors.Is(err, apperrors.ErrSecurityNotFound) {
			t.Errorf("Expected ErrSecurityNotFound, got: %v", err)
		}
	})

	t.Run("propagates feed failure without touching the row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		feedClient := testutil.NewMockFeedClient().WithError("AAPL", apperrors.ErrFeedUnavailable)
		svc := testutil.NewTestSecurityService(t, db, feedClient)

		testutil.NewSecurity().WithSymbol("AAPL").WithName("Apple Inc.").Build(t, db)

		_, err := svc.RefreshDescriptive(context.Background(), "AAPL")
		if !errors.Is(err, apperrors.ErrFeedUnavailable) {
			t.Errorf("Expected ErrFeedUnavailable, got: %v", err)
		}
		if got := securityNameInDB(t, db, "AAPL"); got != "Apple Inc." {
			t.Errorf("Expected name unchanged, got %q", got)
		}
	})
}
