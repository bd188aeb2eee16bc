package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/api/response"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/service"
)

// PriceHandler handles HTTP requests for the price store.
type PriceHandler struct {
	marketDataService *service.MarketDataService
}

// NewPriceHandler creates a new PriceHandler with the provided service.
func NewPriceHandler(marketDataService *service.MarketDataService) *PriceHandler {
	return &PriceHandler{marketDataService: marketDataService}
}

// RefreshResponse reports a refresh run: the symbol to price map of
// successful fetches and the number of symbols skipped on failure.
type RefreshResponse struct {
	Prices  map[string]float64 `json:"prices"`
	Skipped int                `json:"skipped"`
}

// RefreshPrices handles POST requests to fetch current prices. An empty or
// absent symbol list refreshes every symbol with an open position. Symbols
// the feed cannot price are skipped, never failing the batch.
//
// Endpoint: POST /api/price/refresh
// Request Body: RefreshPricesRequest (symbols optional)
// Response: 200 OK with RefreshResponse
func (h *PriceHandler) RefreshPrices(w http.ResponseWriter, r *http.Request) {
	var req request.RefreshPricesRequest
	if r.Body != nil && r.ContentLength != 0 {
		var err error
		req, err = parseJSON[request.RefreshPricesRequest](r)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
			return
		}
	}

	var result model.RefreshResult
	var err error

	if len(req.Symbols) == 0 {
		result, err = h.marketDataService.RefreshAll(r.Context())
	} else {
		symbols := make([]string, len(req.Symbols))
		for i, s := range req.Symbols {
			symbols[i] = strings.ToUpper(strings.TrimSpace(s))
		}
		result, err = h.marketDataService.RefreshPrices(r.Context(), symbols)
	}
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRefreshPrices.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, RefreshResponse{Prices: result.Prices, Skipped: result.Skipped})
}

// GetPrice handles GET requests for the latest stored price of one symbol.
// Reads never hit the feed; only refreshes do.
//
// Endpoint: GET /api/price/{symbol}
// Response: 200 OK with PricePoint
// Error: 404 Not Found if no price has been stored for the symbol
func (h *PriceHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	price, err := h.marketDataService.GetPrice(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrPriceNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPriceNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve price", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, price)
}
