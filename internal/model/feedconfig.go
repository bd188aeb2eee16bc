package model

import "time"

// FeedConfig holds market data feed settings. The API token is optional
// (the public chart endpoint needs none) and is stored fernet-encrypted;
// this struct always carries the decrypted value.
type FeedConfig struct {
	ID                 string    `json:"id"`
	APIToken           string    `json:"apiToken,omitempty"`
	AutoRefreshEnabled bool      `json:"autoRefreshEnabled"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty"`
}
