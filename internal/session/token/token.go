// Package token validates the HS256 session tokens carried by the session
// cookies. The token asserts identity; session state (revocation, last
// activity) lives in the session store.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"talentgate/pkg/domain"
	"talentgate/pkg/platform/sentinel"
)

// Claims are the session token claims the gateway understands.
type Claims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id,omitempty"`
	Email     string `json:"email"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// Service signs and validates session tokens.
type Service struct {
	signingKey []byte
	issuer     string
}

func NewService(signingKey, issuer string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
	}
}

// Issue creates a signed session token. The gateway only issues tokens in
// tests and tooling; in production the auth provider issues them.
func (s *Service) Issue(userID string, role domain.Role, companyID, email, sessionID string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:    userID,
		Role:      string(role),
		CompanyID: companyID,
		Email:     email,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			ID:        uuid.NewString(),
		},
	})

	signed, err := t.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a session token string.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("session token: %w", sentinel.ErrExpired)
		}
		return nil, fmt.Errorf("parse session token: %w", err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid session token claims")
	}
	if !domain.Role(claims.Role).Valid() {
		return nil, fmt.Errorf("unknown role %q in session token", claims.Role)
	}
	return claims, nil
}
