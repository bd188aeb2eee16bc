package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/api/response"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/service"
	"github.com/stackvalue/portfolio-tracker/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the portfolio, valuation and export services.
type PortfolioHandler struct {
	portfolioService   *service.PortfolioService
	valuationService   *service.ValuationService
	transactionService *service.TransactionService
	exportService      *service.ExportService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependencies.
func NewPortfolioHandler(
	portfolioService *service.PortfolioService,
	valuationService *service.ValuationService,
	transactionService *service.TransactionService,
	exportService *service.ExportService,
) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService:   portfolioService,
		valuationService:   valuationService,
		transactionService: transactionService,
		exportService:      exportService,
	}
}

// Portfolios handles GET requests to retrieve all portfolios.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of Portfolio
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, _ *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// GetPortfolio handles GET requests to retrieve a single portfolio by ID.
//
// Endpoint: GET /api/portfolio/{uuid}
// Response: 200 OK with Portfolio
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	portfolio, err := h.portfolioService.GetPortfolio(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePortfolios.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// CreatePortfolio handles POST requests to create a new portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (name required)
// Response: 201 Created with Portfolio
// Error: 400 Bad Request if validation fails
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// UpdatePortfolio handles PUT requests to update portfolio metadata.
// Only rename and descriptive fields can change; positions and
// transactions are untouched.
//
// Endpoint: PUT /api/portfolio/{uuid}
// Request Body: UpdatePortfolioRequest (all fields optional)
// Response: 200 OK with updated Portfolio
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) UpdatePortfolio(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdatePortfolioRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdatePortfolio(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	portfolio, err := h.portfolioService.UpdatePortfolio(portfolioID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update portfolio", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// Summary handles GET requests to retrieve valuation summaries for all portfolios.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with array of PortfolioSummary
func (h *PortfolioHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	summaries, err := h.valuationService.Summarize("")
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}

// PortfolioSummary handles GET requests to retrieve one portfolio's valuation summary.
//
// Endpoint: GET /api/portfolio/{uuid}/summary
// Response: 200 OK with array containing one PortfolioSummary
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	summaries, err := h.valuationService.Summarize(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}

// Positions handles GET requests to retrieve one portfolio's open positions
// with valuation figures, sorted by market value descending.
//
// Endpoint: GET /api/portfolio/{uuid}/positions
// Response: 200 OK with array of Holding
func (h *PortfolioHandler) Positions(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	holdings, err := h.valuationService.PositionsDetail(portfolioID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// Transactions handles GET requests to retrieve one portfolio's transactions.
//
// Endpoint: GET /api/portfolio/{uuid}/transactions
// Response: 200 OK with array of TransactionResponse
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	transactions, err := h.transactionService.GetTransactionsPerPortfolio(portfolioID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// ExportResponse lists the CSV files created by an export.
type ExportResponse struct {
	Files []string `json:"files"`
}

// Export handles POST requests to export one portfolio's reports to CSV.
// Writes one file per report kind (positions, transactions, summary).
//
// Endpoint: POST /api/portfolio/{uuid}/export
// Response: 201 Created with ExportResponse
// Error: 404 Not Found if the portfolio does not exist
func (h *PortfolioHandler) Export(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	files, err := h.exportService.ExportPortfolio(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToExport.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, ExportResponse{Files: files})
}
