package model

import "time"

// Security represents a tradable instrument from the database.
// The symbol is the unique business key; everything else is descriptive
// and may be refreshed from the market data feed.
type Security struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Sector    string    `json:"sector"`
	Industry  string    `json:"industry"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}
