package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"spaceshare-backend/internal/domain"
	"spaceshare-backend/internal/logger"
	"spaceshare-backend/internal/security"
)

type authService struct {
	tokens          security.TokenManager
	ownerSecretHash []byte
}

func NewAuthService(tokens security.TokenManager, ownerSecretHash string) AuthService {
	return &authService{
		tokens:          tokens,
		ownerSecretHash: []byte(ownerSecretHash),
	}
}

// ExchangeOwnerSecret mints an owner token when the presented secret
// matches the configured bcrypt hash.
func (s *authService) ExchangeOwnerSecret(ctx context.Context, ownerID string, secret string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.ownerSecretHash, []byte(secret)); err != nil {
		logger.Warn("Owner secret rejected", "owner_id", ownerID)
		return "", domain.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(domain.ParticipantID(ownerID), domain.RoleOwner)
	if err != nil {
		return "", fmt.Errorf("generate owner token: %w", err)
	}
	logger.Info("Owner token issued", "owner_id", ownerID)
	return token, nil
}

// IssueParticipantToken lets the owner mint a token for a participant;
// identity provisioning lives with the marketplace operator.
func (s *authService) IssueParticipantToken(ctx context.Context, caller domain.Caller, id domain.ParticipantID) (string, error) {
	if !caller.IsOwner() {
		return "", domain.ErrUnauthorized
	}
	if id.IsZero() {
		return "", domain.ErrInvalidParameter
	}

	token, err := s.tokens.GenerateToken(id, domain.RoleParticipant)
	if err != nil {
		return "", fmt.Errorf("generate participant token: %w", err)
	}
	logger.Info("Participant token issued", "participant", id, "by", caller.ID)
	return token, nil
}
