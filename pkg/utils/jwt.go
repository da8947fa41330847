package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenDuration is how long an access token stays valid.
const TokenDuration = 24 * time.Hour

// Claims is the JWT payload handed to the web and mobile clients.
type Claims struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Role              string `json:"role"`
	PreferredLanguage string `json:"preferredLanguage,omitempty"`
	jwt.RegisteredClaims
}

// GenerateToken signs a 1-day HS256 token for the given user identity.
func GenerateToken(secret, id, name, email, role, preferredLanguage string) (string, error) {
	now := time.Now()
	claims := &Claims{
		ID:                id,
		Name:              name,
		Email:             email,
		Role:              role,
		PreferredLanguage: preferredLanguage,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates a token string and returns its claims.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
