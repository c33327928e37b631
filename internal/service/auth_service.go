package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type authGateway interface {
	Login(ctx context.Context, email, password string) (*models.BackendLogin, error)
}

// SessionStore persists the server side of a session.
type SessionStore interface {
	Save(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthConfig defines how session cookies are signed and how long sessions live.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// AuthService logs staff in against the backend and resolves session cookies.
type AuthService struct {
	gateway   authGateway
	sessions  SessionStore
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(gateway authGateway, sessions SessionStore, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if config.TTL <= 0 {
		config.TTL = 12 * time.Hour
	}
	return &AuthService{gateway: gateway, sessions: sessions, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login exchanges credentials for a backend token, stores it in a new session and returns
// the signed cookie value identifying that session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "email and password are required")
	}

	login, err := s.gateway.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, appErrors.ErrInvalidCredentials) {
			s.logger.Info("login rejected", zap.String("email", req.Email), zap.String("ip", req.IP))
		}
		return nil, err
	}

	now := s.now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		Token:     login.Token,
		User:      login.User,
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.TTL),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store session")
	}

	cookie, err := s.sign(session)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign session")
	}

	s.logger.Info("staff logged in", zap.String("user_id", session.User.ID), zap.String("email", session.User.Email), zap.String("ip", req.IP))
	return &models.LoginResult{Session: session, Cookie: cookie, ExpiresAt: session.ExpiresAt}, nil
}

// Logout erases the stored session behind cookie. An invalid cookie is not an error.
func (s *AuthService) Logout(ctx context.Context, cookie string) error {
	claims, err := s.ValidateCookie(cookie)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.SessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to end session")
	}
	s.logger.Info("staff logged out", zap.String("user_id", claims.User.ID))
	return nil
}

// ValidateCookie checks the signature and expiry of a session cookie.
func (s *AuthService) ValidateCookie(cookie string) (*models.SessionClaims, error) {
	if cookie == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing session")
	}
	token, err := jwt.ParseWithClaims(cookie, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session")
	}
	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid session claims")
	}
	return claims, nil
}

// Resolve returns the live session behind cookie. A valid cookie whose stored session was
// evicted, for example after the backend rejected its token, is unauthorized.
func (s *AuthService) Resolve(ctx context.Context, cookie string) (*models.Session, error) {
	claims, err := s.ValidateCookie(cookie)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, appErrors.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired, please log in again")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	if session.Expired(s.now()) {
		_ = s.sessions.Delete(ctx, session.ID)
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired, please log in again")
	}
	return session, nil
}

func (s *AuthService) sign(session *models.Session) (string, error) {
	claims := models.SessionClaims{
		SessionID: session.ID,
		User:      session.User,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   session.User.ID,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}
