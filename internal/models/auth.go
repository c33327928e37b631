package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds the credentials typed into the login form.
type LoginRequest struct {
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required"`
	IP        string `json:"-" form:"-"`
	UserAgent string `json:"-" form:"-"`
}

// BackendLogin is the normalised answer of the backend login endpoint.
type BackendLogin struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// Session is the server-side record behind a session cookie. It holds the backend bearer
// token and must never be sent to the browser.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token"`
	User      UserProfile `json:"user"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Expired reports whether the session lifetime has elapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return s == nil || (!s.ExpiresAt.IsZero() && now.After(s.ExpiresAt))
}

// LoginResult is returned after a successful login.
type LoginResult struct {
	Session   *Session
	Cookie    string
	ExpiresAt time.Time
}

// SessionClaims is the payload of the signed session cookie.
type SessionClaims struct {
	SessionID string      `json:"sid"`
	User      UserProfile `json:"user"`
	jwt.RegisteredClaims
}
