package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/stackvalue/portfolio-tracker/internal/feed"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
)

// fetchConcurrency limits parallel feed requests per refresh run.
const fetchConcurrency = 4

// MarketDataService is the price store. Refreshes delegate to the feed
// client and overwrite the latest price per symbol; reads never touch the
// network.
type MarketDataService struct {
	priceRepo    *repository.PriceRepository
	positionRepo *repository.PositionRepository
	feedClient   feed.Client
	log          zerolog.Logger
}

// NewMarketDataService creates a new MarketDataService with the provided dependencies.
func NewMarketDataService(
	priceRepo *repository.PriceRepository,
	positionRepo *repository.PositionRepository,
	feedClient feed.Client,
	log zerolog.Logger,
) *MarketDataService {
	return &MarketDataService{
		priceRepo:    priceRepo,
		positionRepo: positionRepo,
		feedClient:   feedClient,
		log:          log.With().Str("component", "marketdata").Logger(),
	}
}

// RefreshPrices fetches current prices for the given symbols and overwrites
// the stored price point per symbol (last-write-wins). Symbols are fetched
// in parallel; each symbol's PricePoint is independent so no cross-symbol
// ordering is guaranteed. A failed fetch skips that symbol and never aborts
// the batch; the skip count is reported for logging, not control flow.
func (s *MarketDataService) RefreshPrices(ctx context.Context, symbols []string) (model.RefreshResult, error) {
	result := model.RefreshResult{Prices: make(map[string]float64, len(symbols))}
	if len(symbols) == 0 {
		return result, nil
	}

	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.feedClient.FetchQuote(ctx, symbol)
			if err != nil {
				s.log.Warn().Err(err).Str("symbol", symbol).Msg("Skipping symbol, fetch failed")
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return nil
			}

			pp := &model.PricePoint{
				Symbol:    symbol,
				Price:     quote.Price,
				FetchedAt: quote.FetchedAt,
				Source:    feed.SourceTag,
			}
			if err := s.priceRepo.StorePrice(pp); err != nil {
				s.log.Error().Err(err).Str("symbol", symbol).Msg("Skipping symbol, store failed")
				mu.Lock()
				result.Skipped++
				mu.Unlock()
				return nil
			}

			mu.Lock()
			result.Prices[symbol] = quote.Price
			mu.Unlock()
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	if err := g.Wait(); err != nil {
		return result, err
	}

	s.log.Info().
		Int("updated", len(result.Prices)).
		Int("skipped", result.Skipped).
		Msg("Price refresh complete")

	return result, nil
}

// RefreshAll refreshes prices for every symbol with an open position.
func (s *MarketDataService) RefreshAll(ctx context.Context) (model.RefreshResult, error) {
	symbols, err := s.positionRepo.GetDistinctSymbols()
	if err != nil {
		return model.RefreshResult{}, err
	}

	if len(symbols) == 0 {
		s.log.Info().Msg("No open positions to refresh")
		return model.RefreshResult{Prices: map[string]float64{}}, nil
	}

	return s.RefreshPrices(ctx, symbols)
}

// GetPrice returns the latest stored price for a symbol. Repeated calls
// without an intervening refresh return the same value.
func (s *MarketDataService) GetPrice(symbol string) (model.PricePoint, error) {
	return s.priceRepo.GetPrice(symbol)
}
