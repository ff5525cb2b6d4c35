package service

import (
	"fmt"
	"time"

	"github.com/tmarins/onboarding-api/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// ============================================================
// JWT issue / verify
// ============================================================

// JWTClaims is the payload of an access token: the identity id (sub) and
// its role, plus the standard time claims.
type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 access token for the identity. The expiry is
// the configured TTL; tokens signed under a rotated secret no longer verify.
func (s *AuthService) IssueToken(identityID string, role domain.Role) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identityID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			Issuer:    "onboarding-api",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken parses and validates a bearer token, returning the identity
// it proves. Signature mismatches and expiry both fail the same way.
func (s *AuthService) VerifyToken(tokenString string) (*domain.AuthUser, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "invalid or expired token"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "invalid token"}
	}
	if claims.Subject == "" || !domain.ValidRole(claims.Role) {
		return nil, &domain.ErrUnauthorized{Message: "invalid token claims"}
	}

	return &domain.AuthUser{ID: claims.Subject, Role: domain.Role(claims.Role)}, nil
}
