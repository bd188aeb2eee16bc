package request

type CreatePortfolioRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	InvestmentStyle string `json:"investmentStyle"`
	RiskTolerance   string `json:"riskTolerance"`
}

type UpdatePortfolioRequest struct {
	Name            *string `json:"name,omitempty"`
	Description     *string `json:"description,omitempty"`
	InvestmentStyle *string `json:"investmentStyle,omitempty"`
	RiskTolerance   *string `json:"riskTolerance,omitempty"`
}
