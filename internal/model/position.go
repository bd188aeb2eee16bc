package model

import "time"

// Position represents the net holding of one security within one portfolio.
// Exactly one row exists per (portfolio, symbol) pair; a position whose
// quantity reaches zero is deleted and never participates in valuation.
type Position struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Symbol      string    `json:"symbol"`
	Quantity    float64   `json:"quantity"`
	AvgCost     float64   `json:"avgCost"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Holding is a position joined with the latest known price and enriched
// with derived valuation figures. When no live price is known the average
// cost is used as the effective price, which pins unrealized P&L at zero.
type Holding struct {
	PortfolioID   string  `json:"portfolioId"`
	PortfolioName string  `json:"portfolioName"`
	Symbol        string  `json:"symbol"`
	SecurityName  string  `json:"securityName"`
	Quantity      float64 `json:"quantity"`
	AvgCost       float64 `json:"avgCost"`
	LivePrice     float64 `json:"livePrice,omitempty"`
	HasLivePrice  bool    `json:"hasLivePrice"`
	MarketValue   float64 `json:"marketValue"`
	CostBasis     float64 `json:"costBasis"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
	ReturnPercent float64 `json:"returnPercent"`
}

// WinnersLosers holds the best and worst performing open positions,
// both read from the same list sorted by return percent.
type WinnersLosers struct {
	Winners []Holding `json:"winners"`
	Losers  []Holding `json:"losers"`
}
