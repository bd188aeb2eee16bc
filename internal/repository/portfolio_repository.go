package repository

import (
	"database/sql"
	"fmt"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetPortfolios retrieves all portfolios ordered by name.
// Returns an empty slice if none exist.
func (s *PortfolioRepository) GetPortfolios() ([]model.Portfolio, error) {
	query := `
		SELECT id, name, description, investment_style, risk_tolerance, created_at
		FROM portfolio
		ORDER BY name ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		var p model.Portfolio
		var createdAtStr string

		err := rows.Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.InvestmentStyle,
			&p.RiskTolerance,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan portfolio table results: %w", err)
		}

		p.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolioOnID retrieves a single portfolio by its ID.
func (s *PortfolioRepository) GetPortfolioOnID(portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, name, description, investment_style, risk_tolerance, created_at
		FROM portfolio
		WHERE id = ?
	`
	var p model.Portfolio
	var createdAtStr string

	err := s.db.QueryRow(query, portfolioID).Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.InvestmentStyle,
		&p.RiskTolerance,
		&createdAtStr,
	)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolio: %w", err)
	}

	p.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

// InsertPortfolio creates a new portfolio row.
// Name uniqueness is enforced by the schema.
func (s *PortfolioRepository) InsertPortfolio(p *model.Portfolio) error {
	query := `
		INSERT INTO portfolio (id, name, description, investment_style, risk_tolerance, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		p.ID,
		p.Name,
		p.Description,
		p.InvestmentStyle,
		p.RiskTolerance,
		p.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdatePortfolio updates the mutable metadata of an existing portfolio.
// The ID is never changed.
func (s *PortfolioRepository) UpdatePortfolio(p *model.Portfolio) error {
	query := `
		UPDATE portfolio
		SET name = ?, description = ?, investment_style = ?, risk_tolerance = ?
		WHERE id = ?
	`
	result, err := s.db.Exec(query, p.Name, p.Description, p.InvestmentStyle, p.RiskTolerance, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrPortfolioNotFound
	}

	return nil
}
