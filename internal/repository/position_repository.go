package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// PositionRepository provides data access methods for the position table.
// Positions are only ever mutated inside the transaction processor's unit of
// work, so all write methods operate on a *sql.Tx.
type PositionRepository struct {
	db *sql.DB
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// GetPosition retrieves the position for a (portfolio, symbol) pair.
// Returns apperrors.ErrPositionNotFound if no row exists.
func (s *PositionRepository) GetPosition(portfolioID, symbol string) (model.Position, error) {
	return scanPosition(s.db.QueryRow(positionSelect+" WHERE portfolio_id = ? AND symbol = ?", portfolioID, symbol))
}

// GetPositionTx is GetPosition inside an open transaction, so the
// read-modify-write of an apply sees its own snapshot.
func (s *PositionRepository) GetPositionTx(tx *sql.Tx, portfolioID, symbol string) (model.Position, error) {
	return scanPosition(tx.QueryRow(positionSelect+" WHERE portfolio_id = ? AND symbol = ?", portfolioID, symbol))
}

const positionSelect = `
	SELECT id, portfolio_id, symbol, quantity, avg_cost, updated_at
	FROM position
`

func scanPosition(row *sql.Row) (model.Position, error) {
	var p model.Position
	var updatedAtStr string

	err := row.Scan(&p.ID, &p.PortfolioID, &p.Symbol, &p.Quantity, &p.AvgCost, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.Position{}, apperrors.ErrPositionNotFound
	}
	if err != nil {
		return model.Position{}, fmt.Errorf("failed to scan position table results: %w", err)
	}

	p.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.Position{}, err
	}

	return p, nil
}

// UpsertPositionTx inserts or replaces the position row for the pair within
// the given transaction. The unique (portfolio_id, symbol) constraint turns
// a second insert into an update.
func (s *PositionRepository) UpsertPositionTx(tx *sql.Tx, p *model.Position) error {
	query := `
		INSERT INTO position (id, portfolio_id, symbol, quantity, avg_cost, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, symbol) DO UPDATE SET
			quantity = excluded.quantity,
			avg_cost = excluded.avg_cost,
			updated_at = excluded.updated_at
	`
	_, err := tx.Exec(query,
		p.ID,
		p.PortfolioID,
		p.Symbol,
		p.Quantity,
		p.AvgCost,
		time.Now().UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}

	return nil
}

// DeletePositionTx removes the position row for the pair within the given
// transaction. Called when a sell drives the quantity to exactly zero.
func (s *PositionRepository) DeletePositionTx(tx *sql.Tx, portfolioID, symbol string) error {
	_, err := tx.Exec(`DELETE FROM position WHERE portfolio_id = ? AND symbol = ?`, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	return nil
}

// GetOpenPositions retrieves all open (quantity > 0) positions joined with
// portfolio and security names, optionally filtered to a single portfolio.
// The join feeds the valuation engine; prices are attached separately so
// valuation never blocks on anything but the local store.
func (s *PositionRepository) GetOpenPositions(portfolioID string) ([]model.Holding, error) {
	query := `
		SELECT pos.portfolio_id, p.name, pos.symbol, COALESCE(sec.name, ''), pos.quantity, pos.avg_cost
		FROM position pos
		JOIN portfolio p ON pos.portfolio_id = p.id
		LEFT JOIN security sec ON pos.symbol = sec.symbol
		WHERE pos.quantity > 0
	`
	var args []any

	if portfolioID != "" {
		query += " AND pos.portfolio_id = ?"
		args = append(args, portfolioID)
	}

	query += " ORDER BY pos.symbol ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query position table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		var h model.Holding

		err := rows.Scan(
			&h.PortfolioID,
			&h.PortfolioName,
			&h.Symbol,
			&h.SecurityName,
			&h.Quantity,
			&h.AvgCost,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position table results: %w", err)
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position table: %w", err)
	}

	return holdings, nil
}

// GetDistinctSymbols returns every symbol currently held in any portfolio.
// This is the symbol set a full price refresh operates on.
func (s *PositionRepository) GetDistinctSymbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM position WHERE quantity > 0 ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query position symbols: %w", err)
	}
	defer rows.Close()

	symbols := []string{}

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan position symbols: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating position symbols: %w", err)
	}

	return symbols, nil
}
