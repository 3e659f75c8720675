package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// lifetime of issued tokens
const TokenTTL = 7 * 24 * time.Hour

// context keys set by the middleware
const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
)

// represents JWT claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// issues and verifies HS256 tokens with a shared secret
type Authenticator struct {
	secret []byte
	now    func() time.Time
}
