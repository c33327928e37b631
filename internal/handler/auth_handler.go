package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/visa-admin/internal/middleware"
	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/internal/view"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error)
	Logout(ctx context.Context, cookie string) error
}

// AuthHandler serves the login form and session lifecycle.
type AuthHandler struct {
	service authService
	cookie  middleware.CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie middleware.CookieConfig) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// LoginPage renders the login form.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	renderPage(c, http.StatusOK, view.LoginTemplate, view.LoginPage{
		Base: baseView(c, "Sign in", ""),
		Next: safeNext(c.Query("next")),
	})
}

// Login authenticates the submitted credentials, sets the session cookie and redirects.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.loginFailed(c, req.Email, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "email and password are required"))
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.IP = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.loginFailed(c, req.Email, err)
		return
	}

	middleware.SetSessionCookie(c, h.cookie, result.Cookie, result.ExpiresAt)
	target := safeNext(c.PostForm("next"))
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusSeeOther, target)
}

// Logout ends the session and returns to the login form.
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie, _ := c.Cookie(h.cookie.Name)
	if err := h.service.Logout(c.Request.Context(), cookie); err != nil {
		_ = c.Error(err)
	}
	middleware.ClearSessionCookie(c, h.cookie)
	c.Redirect(http.StatusSeeOther, middleware.LoginPath)
}

func (h *AuthHandler) loginFailed(c *gin.Context, email string, err error) {
	appErr := appErrors.FromError(err)
	renderPage(c, appErr.Status, view.LoginTemplate, view.LoginPage{
		Base:  baseView(c, "Sign in", ""),
		Email: email,
		Next:  safeNext(c.PostForm("next")),
		Error: appErr.Message,
	})
}

// safeNext accepts only same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}
