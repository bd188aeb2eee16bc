package model

import "time"

// Transaction types. Buys average into the position cost, sells reduce
// quantity without touching it.
const (
	TransactionBuy  = "BUY"
	TransactionSell = "SELL"
)

// Transaction represents one buy or sell event. Rows are append-only:
// the transaction log is the audit trail and the position table is a
// derived, replayable cache of it.
type Transaction struct {
	ID          string    `json:"id"`
	PortfolioID string    `json:"portfolioId"`
	Symbol      string    `json:"symbol"`
	Quantity    float64   `json:"quantity"`
	Price       float64   `json:"price"`
	Type        string    `json:"type"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// TransactionResponse represents a transaction with enriched data for API
// responses, including the portfolio name and gross amount.
type TransactionResponse struct {
	ID            string    `json:"id"`
	PortfolioID   string    `json:"portfolioId"`
	PortfolioName string    `json:"portfolioName"`
	Symbol        string    `json:"symbol"`
	Quantity      float64   `json:"quantity"`
	Price         float64   `json:"price"`
	Type          string    `json:"type"`
	Date          time.Time `json:"date"`
	GrossAmount   float64   `json:"grossAmount"`
}
