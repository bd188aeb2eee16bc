package service

import (
	"errors"
	"fmt"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stackvalue/portfolio-tracker/internal/api/request"
	"github.com/stackvalue/portfolio-tracker/internal/apperrors"
	"github.com/stackvalue/portfolio-tracker/internal/model"
	"github.com/stackvalue/portfolio-tracker/internal/repository"
)

// tokenTTL of 0 disables fernet timestamp verification: the token does not
// expire, it is only rotated by the operator.
const tokenTTL = 0

// FeedConfigService manages market data feed settings. The feed API token
// is fernet-encrypted before it reaches the database and decrypted on read.
type FeedConfigService struct {
	feedConfigRepo *repository.FeedConfigRepository
	key            *fernet.Key
	log            zerolog.Logger
}

// NewFeedConfigService creates a new FeedConfigService. fernetKey is the
// base64 key from configuration; empty disables token storage (the config
// row can still carry the auto-refresh flag).
func NewFeedConfigService(feedConfigRepo *repository.FeedConfigRepository, fernetKey string, log zerolog.Logger) (*FeedConfigService, error) {
	s := &FeedConfigService{
		feedConfigRepo: feedConfigRepo,
		log:            log.With().Str("component", "feedconfig").Logger(),
	}

	if fernetKey != "" {
		key, err := fernet.DecodeKey(fernetKey)
		if err != nil {
			return nil, fmt.Errorf("invalid fernet key: %w", err)
		}
		s.key = key
	}

	return s, nil
}

// GetFeedConfig returns the feed configuration with the API token decrypted.
// A missing row yields a default disabled config rather than an error.
func (s *FeedConfigService) GetFeedConfig() (model.FeedConfig, error) {
	cfg, err := s.feedConfigRepo.GetFeedConfig()
	if errors.Is(err, apperrors.ErrFeedConfigNotFound) {
		return model.FeedConfig{AutoRefreshEnabled: false}, nil
	}
	if err != nil {
		return model.FeedConfig{}, err
	}

	if cfg.APIToken != "" {
		token, err := s.decrypt(cfg.APIToken)
		if err != nil {
			return model.FeedConfig{}, err
		}
		cfg.APIToken = token
	}

	return cfg, nil
}

// APIToken returns the decrypted feed token, or empty when none is
// configured. Used as the feed client's token source; lookup failures are
// logged and treated as no token so a bad config never blocks a refresh.
func (s *FeedConfigService) APIToken() string {
	cfg, err := s.GetFeedConfig()
	if err != nil {
		s.log.Warn().Err(err).Msg("Could not load feed token")
		return ""
	}
	return cfg.APIToken
}

// UpdateFeedConfig applies a partial update to the feed configuration,
// encrypting a newly supplied token before storage.
func (s *FeedConfigService) UpdateFeedConfig(req request.UpdateFeedConfigRequest) (model.FeedConfig, error) {
	current, err := s.GetFeedConfig()
	if err != nil {
		return model.FeedConfig{}, err
	}

	if current.ID == "" {
		current.ID = uuid.New().String()
	}
	if req.APIToken != nil {
		current.APIToken = *req.APIToken
	}
	if req.AutoRefreshEnabled != nil {
		current.AutoRefreshEnabled = *req.AutoRefreshEnabled
	}

	stored := current
	if stored.APIToken != "" {
		encrypted, err := s.encrypt(stored.APIToken)
		if err != nil {
			return model.FeedConfig{}, err
		}
		stored.APIToken = encrypted
	}

	if err := s.feedConfigRepo.UpsertFeedConfig(&stored); err != nil {
		return model.FeedConfig{}, err
	}

	s.log.Info().Bool("autoRefresh", current.AutoRefreshEnabled).Msg("Updated feed config")

	return current, nil
}

func (s *FeedConfigService) encrypt(token string) (string, error) {
	if s.key == nil {
		return "", fmt.Errorf("feed token storage requires FERNET_KEY to be set")
	}

	encrypted, err := fernet.EncryptAndSign([]byte(token), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt feed token: %w", err)
	}

	return string(encrypted), nil
}

func (s *FeedConfigService) decrypt(stored string) (string, error) {
	if s.key == nil {
		return "", fmt.Errorf("stored feed token but FERNET_KEY is not set")
	}

	token := fernet.VerifyAndDecrypt([]byte(stored), tokenTTL, []*fernet.Key{s.key})
	if token == nil {
		return "", fmt.Errorf("failed to decrypt feed token")
	}

	return string(token), nil
}
