package model

import "time"

// Portfolio represents a portfolio from the database
type Portfolio struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	InvestmentStyle string    `json:"investmentStyle"`
	RiskTolerance   string    `json:"riskTolerance"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

// PortfolioSummary represents the current valuation of one portfolio.
// It aggregates all open positions: market value, cost basis, unrealized
// gain/loss and the dollar-weighted return. All monetary values are rounded
// to two decimal places.
type PortfolioSummary struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Positions     int     `json:"positions"`
	MarketValue   float64 `json:"marketValue"`
	CostBasis     float64 `json:"costBasis"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
	ReturnPercent float64 `json:"returnPercent"`
}
