package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"pairchat/domain"
	"pairchat/errors"
)

// IdentityClaims defines the data stored inside the JWT. The full identity
// travels in the token so the realtime path never needs a store lookup to
// resolve who is connected.
type IdentityClaims struct {
	UserID      string `json:"user_id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	jwt.RegisteredClaims
}

// Identity rebuilds the authenticated principal carried by the claims.
func (c *IdentityClaims) Identity() domain.Identity {
	return domain.Identity{
		ID:          c.UserID,
		Username:    c.Username,
		DisplayName: c.DisplayName,
	}
}

// TokenManager issues and validates signed session tokens. The signing
// secret is injected from configuration, never hardcoded.
type TokenManager struct {
	secret   []byte
	duration time.Duration
}

func NewTokenManager(secret string, duration time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), duration: duration}
}

// Generate creates a signed HS256 JWT for the given identity.
func (m *TokenManager) Generate(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := &IdentityClaims{
		UserID:      identity.ID,
		Username:    identity.Username,
		DisplayName: identity.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(m.duration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "pairchat",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Validate parses and verifies the signature and expiration of a token
// string. Any failure maps to ErrInvalidToken so callers can treat every
// malformed, expired, or forged credential uniformly.
func (m *TokenManager) Validate(tokenString string) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, errors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, errors.ErrInvalidToken
	}
	return claims, nil
}
