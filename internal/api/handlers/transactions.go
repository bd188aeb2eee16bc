package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/api/response"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/service"
	"github.com/stackvalue/portfolio-tracker/internal/validation"
)

// TransactionHandler handles HTTP requests for buy and sell events. The
// heavy lifting lives in the transaction service; this layer only maps
// outcomes to status codes.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// CreateTransaction handles POST requests to apply one buy or sell event.
// The transaction record and the resulting position change are committed
// atomically; an oversell is rejected without mutating anything.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest
// Response: 201 Created with the resulting Position (quantity 0 when the
// sell emptied the position)
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the portfolio does not exist
// Error: 409 Conflict if a sell exceeds the held quantity
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	position, err := h.transactionService.Apply(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInsufficientPosition):
			response.RespondError(w, http.StatusConflict, apperrors.ErrInsufficientPosition.Error(), err.Error())
		case errors.Is(err, apperrors.ErrPortfolioNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
		case errors.Is(err, apperrors.ErrInvalidTransaction):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTransaction.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to process transaction", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusCreated, position)
}

// Transactions handles GET requests to retrieve the full transaction log
// across all portfolios, sorted by date ascending.
//
// Endpoint: GET /api/transaction
// Response: 200 OK with array of TransactionResponse
func (h *TransactionHandler) Transactions(w http.ResponseWriter, _ *http.Request) {
	transactions, err := h.transactionService.GetTransactionsPerPortfolio("")
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve one transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with TransactionResponse
// Error: 404 Not Found if the transaction does not exist
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}
