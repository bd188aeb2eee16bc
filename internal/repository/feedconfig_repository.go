package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
)

// FeedConfigRepository provides data access for the single-row feed_config
// table. The api_token column holds the fernet-encrypted token; encryption
// and decryption happen in the service layer.
type FeedConfigRepository struct {
	db *sql.DB
}

// NewFeedConfigRepository creates a new FeedConfigRepository with the provided database connection.
func NewFeedConfigRepository(db *sql.DB) *FeedConfigRepository {
	return &FeedConfigRepository{db: db}
}

// GetFeedConfig retrieves the feed configuration row. The returned APIToken
// is still encrypted.
func (s *FeedConfigRepository) GetFeedConfig() (model.FeedConfig, error) {
	query := `
		SELECT id, api_token, auto_refresh_enabled, updated_at
		FROM feed_config
		LIMIT 1
	`
	var cfg model.FeedConfig
	var token sql.NullString
	var updatedAtStr string

	err := s.db.QueryRow(query).Scan(&cfg.ID, &token, &cfg.AutoRefreshEnabled, &updatedAtStr)
	if err == sql.ErrNoRows {
		return model.FeedConfig{}, apperrors.ErrFeedConfigNotFound
	}
	if err != nil {
		return model.FeedConfig{}, fmt.Errorf("failed to query feed config: %w", err)
	}

	cfg.APIToken = token.String
	cfg.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.FeedConfig{}, err
	}

	return cfg, nil
}

// UpsertFeedConfig writes the feed configuration, replacing any existing row.
// APIToken must already be encrypted by the caller.
func (s *FeedConfigRepository) UpsertFeedConfig(cfg *model.FeedConfig) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin feed config transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM feed_config`); err != nil {
		return fmt.Errorf("failed to clear feed config: %w", err)
	}

	query := `
		INSERT INTO feed_config (id, api_token, auto_refresh_enabled, updated_at)
		VALUES (?, ?, ?, ?)
	`
	var token any
	if cfg.APIToken != "" {
		token = cfg.APIToken
	}

	_, err = tx.Exec(query, cfg.ID, token, cfg.AutoRefreshEnabled, time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return fmt.Errorf("failed to insert feed config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit feed config transaction: %w", err)
	}

	return nil
}
