package repository

import (
	"database/sql"
	"fmt"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// TransactionRepository provides data access methods for the transaction
// table. The table is append-only: there are no update or delete methods,
// and inserts only happen inside the transaction processor's unit of work.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// InsertTransactionTx appends a transaction record within the given
// database transaction, atomically with the position update.
func (s *TransactionRepository) InsertTransactionTx(tx *sql.Tx, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, portfolio_id, symbol, quantity, price, type, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := tx.Exec(query,
		t.ID,
		t.PortfolioID,
		t.Symbol,
		t.Quantity,
		t.Price,
		t.Type,
		t.Date.UTC().Format("2006-01-02 15:04:05"),
		t.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	return nil
}

// GetTransactionsPerPortfolio retrieves all transactions for a specific
// portfolio, or for all portfolios when portfolioID is empty, sorted by
// date ascending. Results include the portfolio name and gross amount.
func (s *TransactionRepository) GetTransactionsPerPortfolio(portfolioID string) ([]model.TransactionResponse, error) {
	query := `
		SELECT t.id, t.portfolio_id, p.name, t.symbol, t.quantity, t.price, t.type, t.date
		FROM "transaction" t
		JOIN portfolio p ON t.portfolio_id = p.id
	`
	var args []any

	if portfolioID != "" {
		query += " WHERE t.portfolio_id = ?"
		args = append(args, portfolioID)
	}

	query += " ORDER BY t.date ASC, t.created_at ASC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.TransactionResponse{}

	for rows.Next() {
		var t model.TransactionResponse
		var dateStr string

		err := rows.Scan(
			&t.ID,
			&t.PortfolioID,
			&t.PortfolioName,
			&t.Symbol,
			&t.Quantity,
			&t.Price,
			&t.Type,
			&dateStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		t.GrossAmount = t.Quantity * t.Price

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionRepository) GetTransaction(transactionID string) (model.TransactionResponse, error) {
	query := `
		SELECT t.id, t.portfolio_id, p.name, t.symbol, t.quantity, t.price, t.type, t.date
		FROM "transaction" t
		JOIN portfolio p ON t.portfolio_id = p.id
		WHERE t.id = ?
	`
	var t model.TransactionResponse
	var dateStr string

	err := s.db.QueryRow(query, transactionID).Scan(
		&t.ID,
		&t.PortfolioID,
		&t.PortfolioName,
		&t.Symbol,
		&t.Quantity,
		&t.Price,
		&t.Type,
		&dateStr,
	)
	if err == sql.ErrNoRows {
		return model.TransactionResponse{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.TransactionResponse{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}

	t.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.TransactionResponse{}, err
	}
	t.GrossAmount = t.Quantity * t.Price

	return t, nil
}
