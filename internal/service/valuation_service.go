package service

import (
	"sort"

	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
)

// ValuationService derives valuation and performance figures from the
// position ledger and the price store. It is a pure read-side projection:
// every call recomputes from current data and nothing is cached, so a
// closed position disappears from all output immediately.
type ValuationService struct {
	positionRepo  *repository.PositionRepository
	priceRepo     *repository.PriceRepository
	portfolioRepo *repository.PortfolioRepository
}

// NewValuationService creates a new ValuationService with the provided repositories.
func NewValuationService(
	positionRepo *repository.PositionRepository,
	priceRepo *repository.PriceRepository,
	portfolioRepo *repository.PortfolioRepository,
) *ValuationService {
	return &ValuationService{
		positionRepo:  positionRepo,
		priceRepo:     priceRepo,
		portfolioRepo: portfolioRepo,
	}
}

// PositionsDetail returns every open position with valuation figures
// attached, optionally filtered to one portfolio, sorted by market value
// descending with ties broken by symbol.
func (s *ValuationService) PositionsDetail(portfolioID string) ([]model.Holding, error) {
	holdings, err := s.loadHoldings(portfolioID)
	if err != nil {
		return nil, err
	}

	sortByMarketValue(holdings)
	return holdings, nil
}

// Summarize aggregates open positions per portfolio: total market value,
// cost basis, unrealized P&L and the dollar-weighted return percent.
// Portfolios without open positions still appear, with zero figures.
// An empty portfolioID summarizes all portfolios.
func (s *ValuationService) Summarize(portfolioID string) ([]model.PortfolioSummary, error) {
	var portfolios []model.Portfolio

	if portfolioID != "" {
		p, err := s.portfolioRepo.GetPortfolioOnID(portfolioID)
		if err != nil {
			return nil, err
		}
		portfolios = []model.Portfolio{p}
	} else {
		var err error
		portfolios, err = s.portfolioRepo.GetPortfolios()
		if err != nil {
			return nil, err
		}
	}

	holdings, err := s.loadHoldings(portfolioID)
	if err != nil {
		return nil, err
	}

	byPortfolio := make(map[string][]model.Holding)
	for _, h := range holdings {
		byPortfolio[h.PortfolioID] = append(byPortfolio[h.PortfolioID], h)
	}

	summaries := make([]model.PortfolioSummary, 0, len(portfolios))
	for _, p := range portfolios {
		summaries = append(summaries, summarizePortfolio(p, byPortfolio[p.ID]))
	}

	return summaries, nil
}

// TopHoldings returns the `limit` largest open positions by market value,
// optionally filtered to one portfolio. Ties are broken by symbol ascending
// for determinism.
func (s *ValuationService) TopHoldings(portfolioID string, limit int) ([]model.Holding, error) {
	holdings, err := s.PositionsDetail(portfolioID)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(holdings) > limit {
		holdings = holdings[:limit]
	}

	return holdings, nil
}

// WinnersLosers returns the topN best and worst performing open positions
// by return percent. Both lists are read from the two ends of the same
// sorted slice; ties are broken by symbol ascending.
func (s *ValuationService) WinnersLosers(portfolioID string, topN int) (model.WinnersLosers, error) {
	holdings, err := s.loadHoldings(portfolioID)
	if err != nil {
		return model.WinnersLosers{}, err
	}

	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].ReturnPercent != holdings[j].ReturnPercent {
			return holdings[i].ReturnPercent > holdings[j].ReturnPercent
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})

	n := topN
	if n > len(holdings) {
		n = len(holdings)
	}

	winners := make([]model.Holding, n)
	copy(winners, holdings[:n])

	// Losers are the worst performers, worst first.
	losers := make([]model.Holding, 0, n)
	for i := len(holdings) - 1; i >= len(holdings)-n; i-- {
		losers = append(losers, holdings[i])
	}

	return model.WinnersLosers{Winners: winners, Losers: losers}, nil
}

// loadHoldings joins open positions with the latest stored prices and
// computes the per-position figures.
func (s *ValuationService) loadHoldings(portfolioID string) ([]model.Holding, error) {
	holdings, err := s.positionRepo.GetOpenPositions(portfolioID)
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	seen := make(map[string]bool)
	for _, h := range holdings {
		if !seen[h.Symbol] {
			seen[h.Symbol] = true
			symbols = append(symbols, h.Symbol)
		}
	}

	prices, err := s.priceRepo.GetPrices(symbols)
	if err != nil {
		return nil, err
	}

	for i := range holdings {
		valueHolding(&holdings[i], prices)
	}

	return holdings, nil
}

// valueHolding fills in the derived figures for one position. The effective
// price is the live price when one is stored, otherwise the average cost,
// so unrealized P&L reads zero until a live price is known.
func valueHolding(h *model.Holding, prices map[string]float64) {
	price, ok := prices[h.Symbol]
	if ok {
		h.LivePrice = price
		h.HasLivePrice = true
	} else {
		price = h.AvgCost
	}

	h.MarketValue = round(h.Quantity * price)
	h.CostBasis = round(h.Quantity * h.AvgCost)
	h.UnrealizedPnL = round(h.MarketValue - h.CostBasis)
	h.ReturnPercent = returnPercent(h.UnrealizedPnL, h.CostBasis)
}

// summarizePortfolio aggregates one portfolio's holdings. The return
// percent is computed from the summed figures, weighted by dollar size
// rather than averaged per position.
func summarizePortfolio(p model.Portfolio, holdings []model.Holding) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		ID:        p.ID,
		Name:      p.Name,
		Positions: len(holdings),
	}

	for _, h := range holdings {
		summary.MarketValue += h.MarketValue
		summary.CostBasis += h.CostBasis
	}

	summary.MarketValue = round(summary.MarketValue)
	summary.CostBasis = round(summary.CostBasis)
	summary.UnrealizedPnL = round(summary.MarketValue - summary.CostBasis)
	summary.ReturnPercent = returnPercent(summary.UnrealizedPnL, summary.CostBasis)

	return summary
}

// returnPercent guards the division: zero cost basis yields zero by
// convention, not an error.
func returnPercent(pnl, costBasis float64) float64 {
	if costBasis <= 0 {
		return 0
	}
	return round(pnl / costBasis * 100)
}

func sortByMarketValue(holdings []model.Holding) {
	sort.SliceStable(holdings, func(i, j int) bool {
		if holdings[i].MarketValue != holdings[j].MarketValue {
			return holdings[i].MarketValue > holdings[j].MarketValue
		}
		return holdings[i].Symbol < holdings[j].Symbol
	})
}
