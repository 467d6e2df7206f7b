package auth

import (
	"time"

	"github.com/ougirez/mapwizard/internal/pkg/constants"
	"github.com/ougirez/mapwizard/internal/pkg/utils"
)

type Config struct {
	Secret string
	TTL    time.Duration
}

// Service issues the tokens that scope a client to one wizard session.
type Service struct {
	cfg Config
}

func NewAuthService(cfg Config) *Service {
	return &Service{cfg: cfg}
}

func (svc *Service) TTL() time.Duration {
	return svc.cfg.TTL
}

func (svc *Service) IssueSessionToken(sessionID string) (string, error) {
	return utils.GenerateSessionToken(sessionID, svc.cfg.Secret, svc.cfg.TTL)
}

// VerifySessionToken checks raw and that it was issued for sessionID.
func (svc *Service) VerifySessionToken(raw string, sessionID string) error {
	if raw == "" {
		return constants.ErrMissingSessionToken
	}

	token, err := utils.ParseSessionToken(raw, svc.cfg.Secret)
	if err != nil {
		return err
	}
	if token.SessionID != sessionID {
		return constants.ErrUnauthorized
	}
	return nil
}
