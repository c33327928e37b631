package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visa-admin/internal/gateway"
	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
	"github.com/noah-isme/visa-admin/pkg/logger"
	"github.com/noah-isme/visa-admin/pkg/response"
)

// ContextSessionKey is the gin context key storing the resolved session.
const ContextSessionKey = "currentSession"

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// SessionResolver turns a cookie value into a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, cookie string) (*models.Session, error)
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// SessionGate admits only requests carrying a valid cookie whose stored session still
// exists. Pages are redirected to the login form; API calls get 401.
func SessionGate(resolver SessionResolver, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, _ := c.Cookie(cookie.Name)
		session, err := resolver.Resolve(c.Request.Context(), value)
		if err != nil {
			if value != "" {
				ClearSessionCookie(c, cookie)
			}
			if WantsJSON(c) {
				response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, appErrors.FromError(err).Message))
			} else {
				RedirectToLogin(c)
			}
			c.Abort()
			return
		}

		c.Set(ContextSessionKey, session)
		c.Set(logger.ContextActorKey, session.User.Email)
		c.Request = c.Request.WithContext(gateway.WithSession(c.Request.Context(), session.ID))
		c.Next()
	}
}

// RedirectIfAuthenticated sends visitors with a live session from the login page home.
func RedirectIfAuthenticated(resolver SessionResolver, cookie CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if value, err := c.Cookie(cookie.Name); err == nil && value != "" {
			if _, err := resolver.Resolve(c.Request.Context(), value); err == nil {
				c.Redirect(http.StatusSeeOther, "/")
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// CurrentSession returns the session set by SessionGate.
func CurrentSession(c *gin.Context) *models.Session {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*models.Session)
	return session
}

// SetSessionCookie writes the signed session cookie. It is HttpOnly so page scripts never
// see it.
func SetSessionCookie(c *gin.Context, cookie CookieConfig, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, value, maxAge, "/", "", cookie.Secure, true)
}

// ClearSessionCookie expires the session cookie in the browser.
func ClearSessionCookie(c *gin.Context, cookie CookieConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, "", -1, "/", "", cookie.Secure, true)
}

// RedirectToLogin sends the browser to the login page, remembering a safe return path.
func RedirectToLogin(c *gin.Context) {
	target := LoginPath
	if c.Request.Method == http.MethodGet && c.Request.URL.Path != "/" && c.Request.URL.Path != LoginPath {
		target += "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
	}
	c.Redirect(http.StatusSeeOther, target)
}

// WantsJSON reports whether the caller is the page script rather than the browser.
func WantsJSON(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}
