package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
)

// PortfolioService handles portfolio-related business logic operations.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	log           zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided repository.
func NewPortfolioService(portfolioRepo *repository.PortfolioRepository, log zerolog.Logger) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		log:           log.With().Str("component", "portfolios").Logger(),
	}
}

// GetAllPortfolios retrieves all portfolios.
func (s *PortfolioService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios()
}

// GetPortfolio retrieves a single portfolio by its ID.
func (s *PortfolioService) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioOnID(portfolioID)
}

// CreatePortfolio creates a new portfolio with the requested metadata.
// Style and risk tolerance default to Growth/Medium when omitted.
func (s *PortfolioService) CreatePortfolio(req request.CreatePortfolioRequest) (*model.Portfolio, error) {
	style := req.InvestmentStyle
	if style == "" {
		style = "Growth"
	}
	risk := req.RiskTolerance
	if risk == "" {
		risk = "Medium"
	}

	portfolio := &model.Portfolio{
		ID:              uuid.New().String(),
		Name:            req.Name,
		Description:     req.Description,
		InvestmentStyle: style,
		RiskTolerance:   risk,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.portfolioRepo.InsertPortfolio(portfolio); err != nil {
		return nil, fmt.Errorf("failed to create portfolio: %w", err)
	}

	s.log.Info().Str("portfolio", portfolio.ID).Str("name", portfolio.Name).Msg("Created portfolio")

	return portfolio, nil
}

// UpdatePortfolio applies a partial update to a portfolio's mutable
// metadata (rename and descriptive fields only).
func (s *PortfolioService) UpdatePortfolio(portfolioID string, req request.UpdatePortfolioRequest) (model.Portfolio, error) {
	portfolio, err := s.portfolioRepo.GetPortfolioOnID(portfolioID)
	if err != nil {
		return model.Portfolio{}, err
	}

	if req.Name != nil {
		portfolio.Name = *req.Name
	}
	if req.Description != nil {
		portfolio.Description = *req.Description
	}
	if req.InvestmentStyle != nil {
		portfolio.InvestmentStyle = *req.InvestmentStyle
	}
	if req.RiskTolerance != nil {
		portfolio.RiskTolerance = *req.RiskTolerance
	}

	if err := s.portfolioRepo.UpdatePortfolio(&portfolio); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to update portfolio: %w", err)
	}

	return portfolio, nil
}
