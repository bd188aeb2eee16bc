package testutil

import (
	"database/sql"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stackvalue/portfolio-tracker/internal/feed"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
	"github.com/stackvalue/portfolio-tracker/internal/service"
)

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(repository.NewPortfolioRepository(db), zerolog.Nop())
}

func NewTestTransactionService(t *testing.T, db *sql.DB) *service.TransactionService {
	t.Helper()

	return service.NewTransactionService(
		db,
		repository.NewTransactionRepository(db),
		repository.NewPositionRepository(db),
		repository.NewPortfolioRepository(db),
		repository.NewSecurityRepository(db),
		zerolog.Nop(),
	)
}

func NewTestValuationService(t *testing.T, db *sql.DB) *service.ValuationService {
	t.Helper()

	return service.NewValuationService(
		repository.NewPositionRepository(db),
		repository.NewPriceRepository(db),
		repository.NewPortfolioRepository(db),
	)
}

// NewTestMarketDataService creates a MarketDataService backed by the given
// feed client. Pass a MockFeedClient to test refresh behavior without
// network access.
func NewTestMarketDataService(t *testing.T, db *sql.DB, feedClient feed.Client) *service.MarketDataService {
	t.Helper()

	return service.NewMarketDataService(
		repository.NewPriceRepository(db),
		repository.NewPositionRepository(db),
		feedClient,
		zerolog.Nop(),
	)
}

func NewTestSecurityService(t *testing.T, db *sql.DB, feedClient feed.Client) *service.SecurityService {
	t.Helper()

	return service.NewSecurityService(repository.NewSecurityRepository(db), feedClient, zerolog.Nop())
}

func NewTestExportService(t *testing.T, db *sql.DB, exportDir string) *service.ExportService {
	t.Helper()

	return service.NewExportService(
		NewTestValuationService(t, db),
		NewTestTransactionService(t, db),
		NewTestPortfolioService(t, db),
		exportDir,
		zerolog.Nop(),
	)
}

func NewTestFeedConfigService(t *testing.T, db *sql.DB, fernetKey string) *service.FeedConfigService {
	t.Helper()

	svc, err := service.NewFeedConfigService(repository.NewFeedConfigRepository(db), fernetKey, zerolog.Nop())
	if err != nil {
		t.Fatalf("Failed to create feed config service: %v", err)
	}
	return svc
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
