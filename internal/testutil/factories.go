package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithName("Custom Portfolio").
//	    WithDescription("My description").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID              string
	Name            string
	Description     string
	InvestmentStyle string
	RiskTolerance   string
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:              MakeID(),
		Name:            MakePortfolioName("Test Portfolio"),
		Description:     "Test description",
		InvestmentStyle: "Growth",
		RiskTolerance:   "Medium",
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithDescription sets a custom description.
func (b *PortfolioBuilder) WithDescription(desc string) *PortfolioBuilder {
	b.Description = desc
	return b
}

// WithInvestmentStyle sets the investment style.
func (b *PortfolioBuilder) WithInvestmentStyle(style string) *PortfolioBuilder {
	b.InvestmentStyle = style
	return b
}

// WithRiskTolerance sets the risk tolerance.
func (b *PortfolioBuilder) WithRiskTolerance(tolerance string) *PortfolioBuilder {
	b.RiskTolerance = tolerance
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolio (id, name, description, investment_style, risk_tolerance)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Name, b.Description, b.InvestmentStyle, b.RiskTolerance)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:              b.ID,
		Name:            b.Name,
		Description:     b.Description,
		InvestmentStyle: b.InvestmentStyle,
		RiskTolerance:   b.RiskTolerance,
	}
}

// Convenience functions

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreatePortfolios creates multiple portfolios with unique names.
func CreatePortfolios(t *testing.T, db *sql.DB, count int) []model.Portfolio {
	t.Helper()

	portfolios := make([]model.Portfolio, count)
	for i := 0; i < count; i++ {
		portfolios[i] = NewPortfolio().Build(t, db)
	}
	return portfolios
}

// SecurityBuilder provides a fluent interface for creating test securities.
//
// Example usage:
//
//	security := testutil.NewSecurity().
//	    WithSymbol("AAPL").
//	    WithName("Apple Inc.").
//	    Build(t, db)
type SecurityBuilder struct {
	ID       string
	Symbol   string
	Name     string
	Sector   string
	Industry string
	Currency string
}

// NewSecurity creates a SecurityBuilder with sensible defaults.
func NewSecurity() *SecurityBuilder {
	return &SecurityBuilder{
		ID:       MakeID(),
		Symbol:   MakeSymbol("TEST"),
		Name:     "Test Security",
		Sector:   "Technology",
		Industry: "Software",
		Currency: "USD",
	}
}

// WithSymbol sets a custom symbol.
func (b *SecurityBuilder) WithSymbol(symbol string) *SecurityBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *SecurityBuilder) WithName(name string) *SecurityBuilder {
	b.Name = name
	return b
}

// WithSector sets the sector.
func (b *SecurityBuilder) WithSector(sector string) *SecurityBuilder {
	b.Sector = sector
	return b
}

// WithCurrency sets the currency.
func (b *SecurityBuilder) WithCurrency(currency string) *SecurityBuilder {
	b.Currency = currency
	return b
}

// Build creates the security in the database and returns it.
func (b *SecurityBuilder) Build(t *testing.T, db *sql.DB) model.Security {
	t.Helper()

	query := `
		INSERT INTO security (id, symbol, name, sector, industry, currency)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Name, b.Sector, b.Industry, b.Currency)
	if err != nil {
		t.Fatalf("Failed to create test security: %v", err)
	}

	return model.Security{
		ID:       b.ID,
		Symbol:   b.Symbol,
		Name:     b.Name,
		Sector:   b.Sector,
		Industry: b.Industry,
		Currency: b.Currency,
	}
}

// CreateSecurity creates a security with the given symbol and default values.
func CreateSecurity(t *testing.T, db *sql.DB, symbol string) model.Security {
	t.Helper()
	return NewSecurity().WithSymbol(symbol).Build(t, db)
}

// PositionBuilder provides a fluent interface for creating positions
// directly, bypassing the transaction processor.
type PositionBuilder struct {
	ID          string
	PortfolioID string
	Symbol      string
	Quantity    float64
	AvgCost     float64
}

// NewPosition creates a PositionBuilder with defaults.
func NewPosition(portfolioID, symbol string) *PositionBuilder {
	return &PositionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Quantity:    100.0,
		AvgCost:     10.0,
	}
}

// WithQuantity sets the held quantity.
func (b *PositionBuilder) WithQuantity(quantity float64) *PositionBuilder {
	b.Quantity = quantity
	return b
}

// WithAvgCost sets the average cost.
func (b *PositionBuilder) WithAvgCost(avgCost float64) *PositionBuilder {
	b.AvgCost = avgCost
	return b
}

// Build creates the position in the database.
func (b *PositionBuilder) Build(t *testing.T, db *sql.DB) model.Position {
	t.Helper()

	query := `
		INSERT INTO position (id, portfolio_id, symbol, quantity, avg_cost)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Symbol, b.Quantity, b.AvgCost)
	if err != nil {
		t.Fatalf("Failed to create position: %v", err)
	}

	return model.Position{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Symbol:      b.Symbol,
		Quantity:    b.Quantity,
		AvgCost:     b.AvgCost,
	}
}

// TransactionBuilder provides a fluent interface for creating transaction
// log rows directly.
type TransactionBuilder struct {
	ID          string
	PortfolioID string
	Symbol      string
	Quantity    float64
	Price       float64
	Type        string
	Date        time.Time
}

// NewTransaction creates a TransactionBuilder with defaults.
func NewTransaction(portfolioID, symbol string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      symbol,
		Quantity:    100.0,
		Price:       10.0,
		Type:        model.TransactionBuy,
		Date:        time.Now().UTC(),
	}
}

// WithType sets the transaction type.
func (b *TransactionBuilder) WithType(txType string) *TransactionBuilder {
	b.Type = txType
	return b
}

// WithQuantity sets the quantity.
func (b *TransactionBuilder) WithQuantity(quantity float64) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = price
	return b
}

// WithDate sets the transaction date.
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	b.Date = date
	return b
}

// Build creates the transaction in the database.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, portfolio_id, symbol, quantity, price, type, date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Symbol, b.Quantity, b.Price, b.Type, b.Date.Format("2006-01-02"))
	if err != nil {
		t.Fatalf("Failed to create transaction: %v", err)
	}

	return model.Transaction{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Symbol:      b.Symbol,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Type:        b.Type,
		Date:        b.Date,
		CreatedAt:   time.Now(),
	}
}

// PricePointBuilder provides a fluent interface for seeding the price store.
type PricePointBuilder struct {
	Symbol    string
	Price     float64
	FetchedAt time.Time
	Source    string
}

// NewPricePoint creates a PricePointBuilder with defaults.
func NewPricePoint(symbol string) *PricePointBuilder {
	return &PricePointBuilder{
		Symbol:    symbol,
		Price:     12.0,
		FetchedAt: time.Now().UTC(),
		Source:    "test",
	}
}

// WithPrice sets the price.
func (b *PricePointBuilder) WithPrice(price float64) *PricePointBuilder {
	b.Price = price
	return b
}

// Build stores the price point in the database.
func (b *PricePointBuilder) Build(t *testing.T, db *sql.DB) model.PricePoint {
	t.Helper()

	query := `
		INSERT INTO price_point (symbol, price, fetched_at, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET price = excluded.price, fetched_at = excluded.fetched_at
	`

	_, err := db.Exec(query, b.Symbol, b.Price, b.FetchedAt.Format(time.RFC3339), b.Source)
	if err != nil {
		t.Fatalf("Failed to create price point: %v", err)
	}

	return model.PricePoint{
		Symbol:    b.Symbol,
		Price:     b.Price,
		FetchedAt: b.FetchedAt,
		Source:    b.Source,
	}
}

// SetPrice stores a price for a symbol with default metadata.
//
// Example usage:
//
//	testutil.SetPrice(t, db, "AAPL", 255.0)
func SetPrice(t *testing.T, db *sql.DB, symbol string, price float64) {
	t.Helper()
	NewPricePoint(symbol).WithPrice(price).Build(t, db)
}
