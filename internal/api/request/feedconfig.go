package request

type UpdateFeedConfigRequest struct {
	APIToken           *string `json:"apiToken,omitempty"`
	AutoRefreshEnabled *bool   `json:"autoRefreshEnabled,omitempty"`
}

type RefreshPricesRequest struct {
	Symbols []string `json:"symbols,omitempty"`
}
