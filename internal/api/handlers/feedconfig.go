package handlers

import (
	"net/http"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/api/response"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/service"
)

// FeedConfigHandler handles HTTP requests for market data feed settings.
type FeedConfigHandler struct {
	feedConfigService *service.FeedConfigService
}

// NewFeedConfigHandler creates a new FeedConfigHandler with the provided service.
func NewFeedConfigHandler(feedConfigService *service.FeedConfigService) *FeedConfigHandler {
	return &FeedConfigHandler{feedConfigService: feedConfigService}
}

// FeedConfigResponse is the feed configuration with the API token reduced
// to a presence flag. The token itself never leaves the server.
type FeedConfigResponse struct {
	HasAPIToken        bool      `json:"has_api_token"`
	AutoRefreshEnabled bool      `json:"auto_refresh_enabled"`
	UpdatedAt          time.Time `json:"updated_at,omitzero"`
}

func toFeedConfigResponse(cfg model.FeedConfig) FeedConfigResponse {
	return FeedConfigResponse{
		HasAPIToken:        cfg.APIToken != "",
		AutoRefreshEnabled: cfg.AutoRefreshEnabled,
		UpdatedAt:          cfg.UpdatedAt,
	}
}

// GetFeedConfig handles GET requests for the current feed configuration.
//
// Endpoint: GET /api/feed/config
// Response: 200 OK with FeedConfigResponse
func (h *FeedConfigHandler) GetFeedConfig(w http.ResponseWriter, _ *http.Request) {
	cfg, err := h.feedConfigService.GetFeedConfig()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve feed configuration", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, toFeedConfigResponse(cfg))
}

// UpdateFeedConfig handles PUT requests to change feed settings. Fields are
// optional; a supplied API token is encrypted before it is stored.
//
// Endpoint: PUT /api/feed/config
// Request Body: UpdateFeedConfigRequest
// Response: 200 OK with FeedConfigResponse
// Error: 400 Bad Request if the body is malformed
func (h *FeedConfigHandler) UpdateFeedConfig(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateFeedConfigRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cfg, err := h.feedConfigService.UpdateFeedConfig(req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update feed configuration", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, toFeedConfigResponse(cfg))
}
