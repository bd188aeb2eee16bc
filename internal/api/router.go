package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/stackvalue/portfolio-tracker/internal/api/handlers"
	custommiddleware "github.com/stackvalue/portfolio-tracker/internal/api/middleware"
	"github.com/stackvalue/portfolio-tracker/internal/config"
	"github.com/stackvalue/portfolio-tracker/internal/service"
)

// Services bundles the service dependencies the router wires into handlers.
type Services struct {
	System      *service.SystemService
	Portfolio   *service.PortfolioService
	Security    *service.SecurityService
	Transaction *service.TransactionService
	Valuation   *service.ValuationService
	MarketData  *service.MarketDataService
	Export      *service.ExportService
	FeedConfig  *service.FeedConfigService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(log))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/portfolio", func(r chi.Router) {
			portfolioHandler := handlers.NewPortfolioHandler(svc.Portfolio, svc.Valuation, svc.Transaction, svc.Export)
			r.Get("/", portfolioHandler.Portfolios)
			r.Post("/", portfolioHandler.CreatePortfolio)
			r.Get("/summary", portfolioHandler.Summary)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", portfolioHandler.GetPortfolio)
				r.Put("/", portfolioHandler.UpdatePortfolio)
				r.Get("/summary", portfolioHandler.PortfolioSummary)
				r.Get("/positions", portfolioHandler.Positions)
				r.Get("/transactions", portfolioHandler.Transactions)
				r.Post("/export", portfolioHandler.Export)
			})
		})

		r.Route("/security", func(r chi.Router) {
			securityHandler := handlers.NewSecurityHandler(svc.Security)
			r.Get("/", securityHandler.Securities)
			r.Post("/", securityHandler.CreateSecurity)
			r.Get("/{symbol}", securityHandler.GetSecurity)
			r.Post("/{symbol}/refresh", securityHandler.RefreshSecurity)
		})

		r.Route("/transaction", func(r chi.Router) {
			transactionHandler := handlers.NewTransactionHandler(svc.Transaction)
			r.Get("/", transactionHandler.Transactions)
			r.Post("/", transactionHandler.CreateTransaction)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", transactionHandler.GetTransaction)
			})
		})

		r.Route("/price", func(r chi.Router) {
			priceHandler := handlers.NewPriceHandler(svc.MarketData)
			r.Post("/refresh", priceHandler.RefreshPrices)
			r.Get("/{symbol}", priceHandler.GetPrice)
		})

		r.Route("/report", func(r chi.Router) {
			reportHandler := handlers.NewReportHandler(svc.Valuation)
			r.Get("/top-holdings", reportHandler.TopHoldings)
			r.Get("/winners-losers", reportHandler.WinnersLosers)
		})

		r.Route("/feed", func(r chi.Router) {
			feedConfigHandler := handlers.NewFeedConfigHandler(svc.FeedConfig)
			r.Get("/config", feedConfigHandler.GetFeedConfig)
			r.Put("/config", feedConfigHandler.UpdateFeedConfig)
		})
	})

	return r
}
