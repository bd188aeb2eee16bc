package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/api"
	"github.com/stackvalue/portfolio-tracker/internal/config"
	"github.com/stackvalue/portfolio-tracker/internal/database"
	"github.com/stackvalue/portfolio-tracker/internal/feed"
	"github.com/stackvalue/portfolio-tracker/internal/logger"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
	"github.com/stackvalue/portfolio-tracker/internal/scheduler"
	"github.com/stackvalue/portfolio-tracker/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; write directly and bail.
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	log.Info().Msg("Starting portfolio tracker")

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	log.Info().Str("path", cfg.Database.Path).Msg("Connected to database")

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	securityRepo := repository.NewSecurityRepository(db)
	positionRepo := repository.NewPositionRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	priceRepo := repository.NewPriceRepository(db)
	feedConfigRepo := repository.NewFeedConfigRepository(db)

	// Create services
	feedConfigService, err := service.NewFeedConfigService(feedConfigRepo, cfg.Feed.FernetKey, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize feed configuration")
	}

	feedClient := feed.NewFinanceClient(
		cfg.Feed.BaseURL,
		time.Duration(cfg.Feed.TimeoutSeconds)*time.Second,
		feedConfigService.APIToken,
	)

	systemService := service.NewSystemService(db)
	portfolioService := service.NewPortfolioService(portfolioRepo, log)
	securityService := service.NewSecurityService(securityRepo, feedClient, log)
	transactionService := service.NewTransactionService(
		db,
		transactionRepo,
		positionRepo,
		portfolioRepo,
		securityRepo,
		log,
	)
	valuationService := service.NewValuationService(positionRepo, priceRepo, portfolioRepo)
	marketDataService := service.NewMarketDataService(priceRepo, positionRepo, feedClient, log)
	exportService := service.NewExportService(
		valuationService,
		transactionService,
		portfolioService,
		cfg.Export.Dir,
		log,
	)

	// Background price refresh, when a schedule is configured
	if cfg.Feed.RefreshSchedule != "" {
		sched := scheduler.New(log)
		job := scheduler.NewPriceRefreshJob(marketDataService, feedConfigService, log)
		if err := sched.AddJob(cfg.Feed.RefreshSchedule, job); err != nil {
			log.Fatal().Err(err).Msg("Failed to register price refresh job")
		}
		sched.Start()
		defer sched.Stop()
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:      systemService,
		Portfolio:   portfolioService,
		Security:    securityService,
		Transaction: transactionService,
		Valuation:   valuationService,
		MarketData:  marketDataService,
		Export:      exportService,
		FeedConfig:  feedConfigService,
	}, cfg, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("Starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
