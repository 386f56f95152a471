package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasPermission(name string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Permissions {
		if p == name {
			return true
		}
	}
	return false
}

// NewAccessToken signs claims with HS256. Subject, issuer, timestamps and a
// fresh token id are always overwritten.
func NewAccessToken(secret, issuer string, ttl time.Duration, claims Claims) (string, error) {
	if secret == "" {
		return "", errors.New("missing_jwt_secret")
	}
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   claims.UserID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, issuer, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Remaining is how long the token stays valid after now.
func (c *Claims) Remaining(now time.Time) time.Duration {
	if c == nil || c.ExpiresAt == nil {
		return 0
	}
	left := c.ExpiresAt.Time.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}
