package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"spaceshare-backend/internal/domain"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// CallerClaims carries the authenticated participant identity and role
// the engine authorizes against.
type CallerClaims struct {
	ParticipantID string      `json:"participant_id"`
	Role          domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Caller converts the claims into the principal the engine operates as.
func (c *CallerClaims) Caller() domain.Caller {
	return domain.Caller{
		ID:   domain.ParticipantID(c.ParticipantID),
		Role: c.Role,
	}
}

type TokenManager interface {
	GenerateToken(id domain.ParticipantID, role domain.Role) (string, error)
	ValidateToken(tokenString string) (*CallerClaims, error)
}

type tokenManager struct {
	secret []byte
	expiry time.Duration
}

func NewTokenManager(secret string, expiry time.Duration) TokenManager {
	return &tokenManager{
		secret: []byte(secret),
		expiry: expiry,
	}
}

func (m *tokenManager) GenerateToken(id domain.ParticipantID, role domain.Role) (string, error) {
	claims := CallerClaims{
		ParticipantID: string(id),
		Role:          role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(id),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "spaceshare-auth",
			Audience:  jwt.ClaimStrings{"api-access"},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*CallerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CallerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*CallerClaims); ok && token.Valid {
		if claims.ParticipantID == "" && claims.Subject != "" {
			claims.ParticipantID = claims.Subject
		}
		if claims.Role != domain.RoleOwner && claims.Role != domain.RoleParticipant {
			return nil, ErrInvalidToken
		}
		return claims, nil
	}

	return nil, ErrInvalidToken
}
