// utils/token.go
package utils

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload of an access token: subject (user id),
// email, issued-at and expiry.
type TokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// IssueToken signs an HS256 access token for the given identity.
// Validity defaults to 7 days, overridable via JWT_EXPIRES_DAYS.
func IssueToken(userID, email string) (string, error) {
	days := envInt("JWT_EXPIRES_DAYS", 7)
	return issueTokenWithTTL(userID, email, time.Duration(days)*24*time.Hour)
}

func issueTokenWithTTL(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

// VerifyToken parses and validates a signed token. It fails on a bad
// signature, a non-HMAC signing method, or an elapsed expiry.
func VerifyToken(tokenString string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
