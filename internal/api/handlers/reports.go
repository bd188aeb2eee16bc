package handlers

import (
	"errors"
	"net/http"

	"github.com/stackvalue/portfolio-tracker/internal/api/response"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/service"
)

// defaultReportLimit bounds ranking output when the caller does not ask
// for a specific count.
const defaultReportLimit = 5

// ReportHandler handles HTTP requests for cross-portfolio performance
// rankings.
type ReportHandler struct {
	valuationService *service.ValuationService
}

// NewReportHandler creates a new ReportHandler with the provided service.
func NewReportHandler(valuationService *service.ValuationService) *ReportHandler {
	return &ReportHandler{valuationService: valuationService}
}

// TopHoldings handles GET requests for the largest open positions by
// market value. An optional portfolioId query parameter scopes the ranking
// to one portfolio; limit defaults to 5.
//
// Endpoint: GET /api/report/top-holdings?portfolioId=<uuid>&limit=<n>
// Response: 200 OK with array of Holding
func (h *ReportHandler) TopHoldings(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolioId")
	limit := parseLimit(r, "limit", defaultReportLimit)

	holdings, err := h.valuationService.TopHoldings(portfolioID, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// WinnersLosers handles GET requests for the best and worst performing
// open positions by return percent. Both lists come from the same ranking;
// a position can appear in both when fewer than 2n positions are open.
//
// Endpoint: GET /api/report/winners-losers?portfolioId=<uuid>&limit=<n>
// Response: 200 OK with WinnersLosers
func (h *ReportHandler) WinnersLosers(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolioId")
	limit := parseLimit(r, "limit", defaultReportLimit)

	result, err := h.valuationService.WinnersLosers(portfolioID, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrievePositions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
