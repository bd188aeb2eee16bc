package model

import "time"

// PricePoint is the latest observed price for one symbol. The price store
// keeps exactly one row per symbol, overwritten on every refresh
// (last-write-wins); history lives in the separate price_history table.
type PricePoint struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetchedAt"`
	Source    string    `json:"source"`
}

// RefreshResult reports the outcome of one price refresh run. Symbols whose
// fetch failed are skipped rather than failing the batch; the count is kept
// for logging only.
type RefreshResult struct {
	Prices  map[string]float64 `json:"prices"`
	Skipped int                `json:"skipped"`
}
