package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager issues signed JWTs for authenticated users.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager creates a manager with the provided secret and lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate issues a signed JWT for email. The exp claim is in epoch
// milliseconds.
func (t *TokenManager) Generate(email string) (string, error) {
	claims := jwt.MapClaims{
		"email": email,
		"exp":   t.now().Add(t.ttl).UnixMilli(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// ExpiresIn reports the token lifetime in whole seconds.
func (t *TokenManager) ExpiresIn() int64 {
	return int64(t.ttl / time.Second)
}
