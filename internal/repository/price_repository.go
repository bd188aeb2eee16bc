package repository

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// PriceRepository provides data access methods for the price_point and
// price_history tables. price_point keeps one row per symbol
// (last-write-wins); price_history is append-only.
type PriceRepository struct {
	db *sql.DB
}

// NewPriceRepository creates a new PriceRepository with the provided database connection.
func NewPriceRepository(db *sql.DB) *PriceRepository {
	return &PriceRepository{db: db}
}

// StorePrice overwrites the symbol's latest price and appends the
// observation to price_history. Both writes happen in one transaction so
// the store and its audit trail cannot diverge.
func (s *PriceRepository) StorePrice(pp *model.PricePoint) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin price transaction: %w", err)
	}
	defer tx.Rollback()

	fetchedAt := pp.FetchedAt.UTC().Format("2006-01-02 15:04:05")

	upsert := `
		INSERT INTO price_point (symbol, price, fetched_at, source)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			price = excluded.price,
			fetched_at = excluded.fetched_at,
			source = excluded.source
	`
	if _, err := tx.Exec(upsert, pp.Symbol, pp.Price, fetchedAt, pp.Source); err != nil {
		return fmt.Errorf("failed to upsert price point: %w", err)
	}

	history := `
		INSERT INTO price_history (id, symbol, price, fetched_at, source)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(history, uuid.New().String(), pp.Symbol, pp.Price, fetchedAt, pp.Source); err != nil {
		return fmt.Errorf("failed to insert price history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price transaction: %w", err)
	}

	return nil
}

// GetPrice retrieves the latest stored price for a symbol.
// Returns apperrors.ErrPriceNotFound if the symbol has never been refreshed.
func (s *PriceRepository) GetPrice(symbol string) (model.PricePoint, error) {
	query := `
		SELECT symbol, price, fetched_at, source
		FROM price_point
		WHERE symbol = ?
	`
	var pp model.PricePoint
	var fetchedAtStr string

	err := s.db.QueryRow(query, symbol).Scan(&pp.Symbol, &pp.Price, &fetchedAtStr, &pp.Source)
	if err == sql.ErrNoRows {
		return model.PricePoint{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("failed to query price point: %w", err)
	}

	pp.FetchedAt, err = ParseTime(fetchedAtStr)
	if err != nil {
		return model.PricePoint{}, err
	}

	return pp, nil
}

// GetPrices retrieves the latest stored prices for the given symbols as a
// symbol -> price map. Symbols without a stored price are simply absent
// from the map; the valuation engine falls back to average cost for those.
func (s *PriceRepository) GetPrices(symbols []string) (map[string]float64, error) {
	if len(symbols) == 0 {
		return map[string]float64{}, nil
	}

	placeholders := make([]string, len(symbols))
	args := make([]any, len(symbols))
	for i, symbol := range symbols {
		placeholders[i] = "?"
		args[i] = symbol
	}

	query := `
		SELECT symbol, price
		FROM price_point
		WHERE symbol IN (` + strings.Join(placeholders, ",") + `)
	`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query price points: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64, len(symbols))

	for rows.Next() {
		var symbol string
		var price float64

		if err := rows.Scan(&symbol, &price); err != nil {
			return nil, fmt.Errorf("failed to scan price point results: %w", err)
		}
		prices[symbol] = price
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price points: %w", err)
	}

	return prices, nil
}
