package request

type CreateTransactionRequest struct {
	PortfolioID string  `json:"portfolioId"`
	Symbol      string  `json:"symbol"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Type        string  `json:"type"`
	Date        string  `json:"date,omitempty"`
}
