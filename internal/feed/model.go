package feed

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance
// chart API. Only the fields the price resolver needs are mapped: symbol
// metadata, the two meta-level price fields and the daily close series.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				Symbol             string  `json:"symbol"`
				ExchangeName       string  `json:"exchangeName"`
				LongName           string  `json:"longName"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// Quote is the application's internal representation of one symbol's
// current market data after resolving the price fallback chain.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	Price     float64   `json:"price"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetchedAt"`
}
