package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
)

// TransactionService is the transaction processor: it applies buy/sell
// events to the position ledger. The transaction log append and the
// position update happen in one database transaction, and concurrent
// applies against the same (portfolio, symbol) pair are serialized with a
// keyed mutex so the read-modify-write of the average cost cannot race.
type TransactionService struct {
	db              *sql.DB
	transactionRepo *repository.TransactionRepository
	positionRepo    *repository.PositionRepository
	portfolioRepo   *repository.PortfolioRepository
	securityRepo    *repository.SecurityRepository
	log             zerolog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTransactionService creates a new TransactionService with the provided dependencies.
func NewTransactionService(
	db *sql.DB,
	transactionRepo *repository.TransactionRepository,
	positionRepo *repository.PositionRepository,
	portfolioRepo *repository.PortfolioRepository,
	securityRepo *repository.SecurityRepository,
	log zerolog.Logger,
) *TransactionService {
	return &TransactionService{
		db:              db,
		transactionRepo: transactionRepo,
		positionRepo:    positionRepo,
		portfolioRepo:   portfolioRepo,
		securityRepo:    securityRepo,
		log:             log.With().Str("component", "transactions").Logger(),
		locks:           make(map[string]*sync.Mutex),
	}
}

// Apply processes one buy or sell event and returns the resulting position.
//
// Rules:
//   - BUY: new quantity = q0 + quantity; new average cost is the
//     quantity-weighted mean of the old position and the purchase.
//   - SELL: quantity decreases, average cost is unchanged. A sell that
//     exceeds the held quantity fails with ErrInsufficientPosition before
//     any mutation. A sell that empties the position deletes the row.
//
// The appended transaction record and the position change are committed
// atomically; on any persistence failure both are rolled back. Unknown
// symbols are registered as bare security rows so a transaction never fails
// on a missing security. Apply does not deduplicate: submitting the same
// logical transaction twice doubles the position.
func (s *TransactionService) Apply(ctx context.Context, req request.CreateTransactionRequest) (*model.Position, error) {
	if req.Quantity <= 0 || req.Price <= 0 {
		return nil, fmt.Errorf("%w: quantity and price must be positive", apperrors.ErrInvalidTransaction)
	}
	if req.Type != model.TransactionBuy && req.Type != model.TransactionSell {
		return nil, fmt.Errorf("%w: unrecognized type %q", apperrors.ErrInvalidTransaction, req.Type)
	}

	if _, err := s.portfolioRepo.GetPortfolioOnID(req.PortfolioID); err != nil {
		return nil, err
	}

	date := time.Now().UTC()
	if req.Date != "" {
		parsed, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad date: %v", apperrors.ErrInvalidTransaction, err)
		}
		date = parsed
	}

	// Serialize per (portfolio, symbol) so two applies cannot both read the
	// same starting quantity.
	unlock := s.lock(req.PortfolioID + "|" + req.Symbol)
	defer unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
	}
	defer tx.Rollback()

	if err := s.securityRepo.EnsureSecurityTx(tx, uuid.New().String(), req.Symbol); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
	}

	current, err := s.positionRepo.GetPositionTx(tx, req.PortfolioID, req.Symbol)
	if err != nil && !errors.Is(err, apperrors.ErrPositionNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
	}
	held := !errors.Is(err, apperrors.ErrPositionNotFound)

	updated, err := nextPosition(current, held, req)
	if err != nil {
		return nil, err
	}

	record := &model.Transaction{
		ID:          uuid.New().String(),
		PortfolioID: req.PortfolioID,
		Symbol:      req.Symbol,
		Quantity:    req.Quantity,
		Price:       req.Price,
		Type:        req.Type,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.transactionRepo.InsertTransactionTx(tx, record); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
	}

	if updated.Quantity == 0 {
		if err := s.positionRepo.DeletePositionTx(tx, req.PortfolioID, req.Symbol); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
		}
	} else {
		if err := s.positionRepo.UpsertPositionTx(tx, &updated); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailure, err)
	}

	s.log.Info().
		Str("portfolio", req.PortfolioID).
		Str("symbol", req.Symbol).
		Str("type", req.Type).
		Float64("quantity", req.Quantity).
		Float64("price", req.Price).
		Float64("newQuantity", updated.Quantity).
		Msg("Applied transaction")

	return &updated, nil
}

// nextPosition computes the position that results from applying the event
// to the current one. Pure function; the caller persists the result.
func nextPosition(current model.Position, held bool, req request.CreateTransactionRequest) (model.Position, error) {
	q0, c0 := 0.0, 0.0
	if held {
		q0, c0 = current.Quantity, current.AvgCost
	}

	switch req.Type {
	case model.TransactionBuy:
		newQuantity := q0 + req.Quantity
		// Weighted average; collapses to the purchase price on a first buy.
		newAvgCost := (q0*c0 + req.Quantity*req.Price) / newQuantity

		p := current
		if !held {
			p = model.Position{
				ID:          uuid.New().String(),
				PortfolioID: req.PortfolioID,
				Symbol:      req.Symbol,
			}
		}
		p.Quantity = newQuantity
		p.AvgCost = newAvgCost
		return p, nil

	case model.TransactionSell:
		newQuantity := q0 - req.Quantity
		if newQuantity < 0 {
			return model.Position{}, fmt.Errorf("%w: selling %.4f of %s with only %.4f held",
				apperrors.ErrInsufficientPosition, req.Quantity, req.Symbol, q0)
		}

		p := current
		p.Quantity = newQuantity
		// Average cost of the remaining shares is untouched by a sell.
		return p, nil

	default:
		return model.Position{}, fmt.Errorf("%w: unrecognized type %q", apperrors.ErrInvalidTransaction, req.Type)
	}
}

// GetTransactionsPerPortfolio retrieves all transactions for a specific
// portfolio, or every transaction when portfolioID is empty.
func (s *TransactionService) GetTransactionsPerPortfolio(portfolioID string) ([]model.TransactionResponse, error) {
	return s.transactionRepo.GetTransactionsPerPortfolio(portfolioID)
}

// GetTransaction retrieves a single transaction by its ID.
func (s *TransactionService) GetTransaction(transactionID string) (model.TransactionResponse, error) {
	return s.transactionRepo.GetTransaction(transactionID)
}

// lock acquires the mutex for one (portfolio, symbol) key and returns its
// release function.
func (s *TransactionService) lock(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
