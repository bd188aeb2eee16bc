package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrSecurityNotFound indicates that a security with the given symbol does not exist.
	ErrSecurityNotFound = errors.New("security not found")

	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrPositionNotFound indicates that no open position exists for the
	// requested (portfolio, symbol) pair.
	ErrPositionNotFound = errors.New("position not found")

	// ErrPriceNotFound indicates that no price has been stored for the symbol yet.
	ErrPriceNotFound = errors.New("price not found")

	// ErrFeedConfigNotFound indicates feed configuration has not been set up.
	ErrFeedConfigNotFound = errors.New("feed configuration not found")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInvalidTransaction indicates a transaction with a non-positive
	// quantity or price, or an unrecognized type. Rejected before any mutation.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrInsufficientPosition indicates that a sell exceeds the currently held
	// quantity. The ledger never goes negative: the operation is rejected and
	// neither the transaction log nor the position is touched.
	ErrInsufficientPosition = errors.New("insufficient position for sale")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")
)

// Collaborator errors represent failures in external systems. Feed failures
// are per-symbol and recovered by skipping; persistence failures roll back
// the unit of work and surface to the caller.
var (
	// ErrFeedUnavailable indicates the market data feed could not produce a
	// price for one symbol. Never fatal to a refresh batch.
	ErrFeedUnavailable = errors.New("market data feed unavailable")

	// ErrPersistenceFailure indicates the underlying store rejected a write.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Generic operation failure constants, used as stable error strings in
// HTTP responses.
var (
	ErrFailedToRetrievePortfolios   = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrieveSecurities   = errors.New("failed to retrieve securities")
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrievePositions    = errors.New("failed to retrieve positions")
	ErrFailedToGetSummary           = errors.New("failed to get portfolio summary")
	ErrFailedToRefreshPrices        = errors.New("failed to refresh prices")
	ErrFailedToExport               = errors.New("failed to export portfolio data")
)
