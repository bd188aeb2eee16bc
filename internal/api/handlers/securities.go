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

// SecurityHandler handles HTTP requests for security endpoints.
type SecurityHandler struct {
	securityService *service.SecurityService
}

// NewSecurityHandler creates a new SecurityHandler with the provided service.
func NewSecurityHandler(securityService *service.SecurityService) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

// Securities handles GET requests to retrieve all known securities.
//
// Endpoint: GET /api/security
// Response: 200 OK with array of Security
func (h *SecurityHandler) Securities(w http.ResponseWriter, _ *http.Request) {
	securities, err := h.securityService.GetAllSecurities()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSecurities.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, securities)
}

// GetSecurity handles GET requests to retrieve one security by symbol.
//
// Endpoint: GET /api/security/{symbol}
// Response: 200 OK with Security
// Error: 404 Not Found if the symbol is unknown
func (h *SecurityHandler) GetSecurity(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	security, err := h.securityService.GetSecurity(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrSecurityNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSecurityNotFound.Error(), "")
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSecurities.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, security)
}

// CreateSecurity handles POST requests to register a security up front,
// with descriptive fields the feed does not supply.
//
// Endpoint: POST /api/security
// Request Body: CreateSecurityRequest (symbol required)
// Response: 201 Created with Security
// Error: 400 Bad Request if validation fails
func (h *SecurityHandler) CreateSecurity(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateSecurityRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	req.Symbol = strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validation.ValidateCreateSecurity(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	security, err := h.securityService.CreateSecurity(req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create security", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, security)
}

// RefreshSecurity handles POST requests to refresh a security's descriptive
// data from the market data feed.
//
// Endpoint: POST /api/security/{symbol}/refresh
// Response: 200 OK with updated Security
// Error: 404 Not Found if the symbol is unknown
// Error: 502 Bad Gateway if the feed is unavailable
func (h *SecurityHandler) RefreshSecurity(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))

	security, err := h.securityService.RefreshDescriptive(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrSecurityNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrSecurityNotFound.Error(), "")
			return
		}
		if errors.Is(err, apperrors.ErrFeedUnavailable) {
			response.RespondError(w, http.StatusBadGateway, apperrors.ErrFeedUnavailable.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSecurities.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, security)
}
