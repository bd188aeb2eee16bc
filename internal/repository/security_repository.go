package repository

import (
	"database/sql"
	"fmt"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// SecurityRepository provides data access methods for the security table.
// The symbol column is the business key; descriptive columns may be
// refreshed from the market data feed after creation.
type SecurityRepository struct {
	db *sql.DB
}

// NewSecurityRepository creates a new SecurityRepository with the provided database connection.
func NewSecurityRepository(db *sql.DB) *SecurityRepository {
	return &SecurityRepository{db: db}
}

// GetSecurities retrieves all securities ordered by symbol.
func (s *SecurityRepository) GetSecurities() ([]model.Security, error) {
	query := `
		SELECT id, symbol, name, sector, industry, currency
		FROM security
		ORDER BY symbol ASC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query security table: %w", err)
	}
	defer rows.Close()

	securities := []model.Security{}

	for rows.Next() {
		var sec model.Security
		var name, sector, industry sql.NullString

		err := rows.Scan(&sec.ID, &sec.Symbol, &name, &sector, &industry, &sec.Currency)
		if err != nil {
			return nil, fmt.Errorf("failed to scan security table results: %w", err)
		}

		sec.Name = name.String
		sec.Sector = sector.String
		sec.Industry = industry.String

		securities = append(securities, sec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating security table: %w", err)
	}

	return securities, nil
}

// GetSecurityOnSymbol retrieves a single security by its symbol.
func (s *SecurityRepository) GetSecurityOnSymbol(symbol string) (model.Security, error) {
	query := `
		SELECT id, symbol, name, sector, industry, currency
		FROM security
		WHERE symbol = ?
	`
	var sec model.Security
	var name, sector, industry sql.NullString

	err := s.db.QueryRow(query, symbol).Scan(&sec.ID, &sec.Symbol, &name, &sector, &industry, &sec.Currency)
	if err == sql.ErrNoRows {
		return model.Security{}, apperrors.ErrSecurityNotFound
	}
	if err != nil {
		return model.Security{}, fmt.Errorf("failed to query security: %w", err)
	}

	sec.Name = name.String
	sec.Sector = sector.String
	sec.Industry = industry.String

	return sec, nil
}

// InsertSecurity creates a new security row. Symbol uniqueness is enforced
// by the schema.
func (s *SecurityRepository) InsertSecurity(sec *model.Security) error {
	query := `
		INSERT INTO security (id, symbol, name, sector, industry, currency)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query, sec.ID, sec.Symbol, sec.Name, sec.Sector, sec.Industry, sec.Currency)
	if err != nil {
		return fmt.Errorf("failed to insert security: %w", err)
	}

	return nil
}

// EnsureSecurityTx inserts a bare security row for the symbol if none exists,
// as part of a larger transaction. A transaction must never fail because the
// security row is missing; descriptive fields are filled in later by the feed.
func (s *SecurityRepository) EnsureSecurityTx(tx *sql.Tx, id, symbol string) error {
	query := `
		INSERT INTO security (id, symbol, currency)
		VALUES (?, ?, 'USD')
		ON CONFLICT(symbol) DO NOTHING
	`
	if _, err := tx.Exec(query, id, symbol); err != nil {
		return fmt.Errorf("failed to ensure security %s: %w", symbol, err)
	}

	return nil
}

// UpdateDescriptive refreshes the descriptive columns of a security from the
// feed. The symbol itself is immutable.
func (s *SecurityRepository) UpdateDescriptive(symbol, name, sector, industry string) error {
	query := `
		UPDATE security
		SET name = ?, sector = ?, industry = ?
		WHERE symbol = ?
	`
	result, err := s.db.Exec(query, name, sector, industry, symbol)
	if err != nil {
		return fmt.Errorf("failed to update security %s: %w", symbol, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrSecurityNotFound
	}

	return nil
}
