package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/feed"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
)

// SecurityService handles security-related business logic operations.
type SecurityService struct {
	securityRepo *repository.SecurityRepository
	feedClient   feed.Client
	log          zerolog.Logger
}

// NewSecurityService creates a new SecurityService with the provided dependencies.
func NewSecurityService(securityRepo *repository.SecurityRepository, feedClient feed.Client, log zerolog.Logger) *SecurityService {
	return &SecurityService{
		securityRepo: securityRepo,
		feedClient:   feedClient,
		log:          log.With().Str("component", "securities").Logger(),
	}
}

// GetAllSecurities retrieves all securities.
func (s *SecurityService) GetAllSecurities() ([]model.Security, error) {
	return s.securityRepo.GetSecurities()
}

// GetSecurity retrieves a single security by symbol.
func (s *SecurityService) GetSecurity(symbol string) (model.Security, error) {
	return s.securityRepo.GetSecurityOnSymbol(symbol)
}

// CreateSecurity registers a security with its descriptive fields.
// Currency defaults to USD; multi-currency portfolios are not modeled.
func (s *SecurityService) CreateSecurity(req request.CreateSecurityRequest) (*model.Security, error) {
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	security := &model.Security{
		ID:        uuid.New().String(),
		Symbol:    req.Symbol,
		Name:      req.Name,
		Sector:    req.Sector,
		Industry:  req.Industry,
		Currency:  currency,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.securityRepo.InsertSecurity(security); err != nil {
		return nil, fmt.Errorf("failed to create security: %w", err)
	}

	return security, nil
}

// RefreshDescriptive updates a security's display name from the feed.
// Securities auto-registered by the transaction processor start with an
// empty name; this fills it in once the feed knows the symbol. The symbol
// itself and any manually entered sector/industry are left alone.
func (s *SecurityService) RefreshDescriptive(ctx context.Context, symbol string) (model.Security, error) {
	security, err := s.securityRepo.GetSecurityOnSymbol(symbol)
	if err != nil {
		return model.Security{}, err
	}

	quote, err := s.feedClient.FetchQuote(ctx, symbol)
	if err != nil {
		return model.Security{}, err
	}

	if quote.Name != "" && quote.Name != security.Name {
		if err := s.securityRepo.UpdateDescriptive(symbol, quote.Name, security.Sector, security.Industry); err != nil {
			return model.Security{}, err
		}
		security.Name = quote.Name
		s.log.Info().Str("symbol", symbol).Str("name", quote.Name).Msg("Refreshed security name")
	}

	return security, nil
}
