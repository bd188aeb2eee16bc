package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/stackvalue/portfolio-tracker/internal/service"
)

// refreshTimeout bounds one background refresh run.
const refreshTimeout = 2 * time.Minute

// PriceRefreshJob periodically refreshes stored prices for every symbol
// with an open position. The run is skipped when auto refresh is switched
// off in the feed configuration, so the flag takes effect without a restart.
type PriceRefreshJob struct {
	marketDataService *service.MarketDataService
	feedConfigService *service.FeedConfigService
	log               zerolog.Logger
}

// NewPriceRefreshJob creates a new PriceRefreshJob with the provided services.
func NewPriceRefreshJob(
	marketDataService *service.MarketDataService,
	feedConfigService *service.FeedConfigService,
	log zerolog.Logger,
) *PriceRefreshJob {
	return &PriceRefreshJob{
		marketDataService: marketDataService,
		feedConfigService: feedConfigService,
		log:               log.With().Str("component", "pricerefresh").Logger(),
	}
}

// Name implements Job.
func (j *PriceRefreshJob) Name() string {
	return "price-refresh"
}

// Run refreshes all open-position prices once.
func (j *PriceRefreshJob) Run() error {
	cfg, err := j.feedConfigService.GetFeedConfig()
	if err != nil {
		return err
	}
	if !cfg.AutoRefreshEnabled {
		j.log.Debug().Msg("Auto refresh disabled, skipping run")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	result, err := j.marketDataService.RefreshAll(ctx)
	if err != nil {
		return err
	}

	j.log.Info().
		Int("updated", len(result.Prices)).
		Int("skipped", result.Skipped).
		Msg("Scheduled price refresh complete")

	return nil
}
