// Package gateway is the single HTTP client the dashboard uses to reach the visa
// processing backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
	"github.com/noah-isme/visa-admin/pkg/middleware/requestid"
)

// SessionStore is the persisted session state the hooks read tokens from and evict on 401.
type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// CallObserver receives one observation per backend round trip.
type CallObserver interface {
	ObserveBackendCall(module, operation string, status int, duration time.Duration)
}

// Config holds the fixed base address and request timeout.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client wraps a resty client with token injection and 401 eviction hooks.
type Client struct {
	http     *resty.Client
	sessions SessionStore
	metrics  CallObserver
	logger   *zap.Logger
}

type sessionKey struct{}

// WithSession marks ctx as belonging to a dashboard session; outgoing calls made with it
// carry that session's bearer token.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey{}, sessionID)
}

// SessionID returns the session id attached by WithSession.
func SessionID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// New builds a gateway client.
func New(cfg Config, sessions SessionStore, metrics CallObserver, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{sessions: sessions, metrics: metrics, logger: logger}
	c.http = resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		OnBeforeRequest(c.attachToken).
		OnAfterResponse(c.evictOnUnauthorized)
	return c
}

// attachToken sets the bearer token of the calling session, or strips any stale header.
func (c *Client) attachToken(_ *resty.Client, r *resty.Request) error {
	r.Header.Del("Authorization")
	r.Token = ""

	ctx := r.Context()
	if reqID := requestid.FromContext(ctx); reqID != "" {
		r.SetHeader(requestid.HeaderKey, reqID)
	}

	sid := SessionID(ctx)
	if sid == "" || c.sessions == nil {
		return nil
	}
	session, err := c.sessions.Get(ctx, sid)
	if err != nil {
		if !errors.Is(err, appErrors.ErrSessionNotFound) {
			c.logger.Warn("session lookup failed", zap.Error(err))
		}
		return nil
	}
	if session != nil && session.Token != "" {
		r.SetAuthToken(session.Token)
	}
	return nil
}

// evictOnUnauthorized erases the stored session when the backend rejects its token.
// Every other response passes through untouched.
func (c *Client) evictOnUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if resp.StatusCode() != http.StatusUnauthorized || c.sessions == nil {
		return nil
	}
	ctx := resp.Request.Context()
	sid := SessionID(ctx)
	if sid == "" {
		return nil
	}
	if err := c.sessions.Delete(ctx, sid); err != nil {
		c.logger.Warn("failed to evict rejected session", zap.Error(err))
		return nil
	}
	c.logger.Info("backend rejected session token, session evicted", zap.String("path", resp.Request.URL))
	return nil
}

// call executes one request and maps transport and status failures to typed errors.
func (c *Client) call(ctx context.Context, module, operation, method, path string, body interface{}) ([]byte, error) {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	if c.metrics != nil {
		c.metrics.ObserveBackendCall(module, operation, status, time.Since(start))
	}
	if err != nil {
		c.logger.Warn("backend call failed", zap.String("operation", operation), zap.String("path", path), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrBackendUnavailable.Code, appErrors.ErrBackendUnavailable.Status, appErrors.ErrBackendUnavailable.Message)
	}

	switch {
	case status == http.StatusUnauthorized:
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired, please log in again")
	case status == http.StatusNotFound:
		return nil, appErrors.Clone(appErrors.ErrNotFound, backendMessage(resp.Body(), "not found"))
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return nil, appErrors.Clone(appErrors.ErrValidation, backendMessage(resp.Body(), "request rejected by backend"))
	case status >= http.StatusBadRequest && status < http.StatusInternalServerError:
		return nil, appErrors.Clone(appErrors.ErrBackend, backendMessage(resp.Body(), fmt.Sprintf("backend rejected request (%d)", status)))
	case status >= http.StatusInternalServerError:
		c.logger.Warn("backend error", zap.String("operation", operation), zap.Int("status", status))
		return nil, appErrors.Clone(appErrors.ErrBackend, fmt.Sprintf("backend request failed (%d)", status))
	}
	return resp.Body(), nil
}

// unwrap strips the {data: ...} envelope for modules that use one. It returns nil for an
// empty or null payload.
func unwrap(style models.EnvelopeStyle, body []byte) ([]byte, error) {
	body = bytes.TrimSpace(body)
	if style == models.EnvelopeData && len(body) > 0 {
		var env struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("decode envelope: %w", err)
		}
		body = bytes.TrimSpace(env.Data)
	}
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	return body, nil
}

func backendMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return fallback
}

func decodeError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrBackend.Code, appErrors.ErrBackend.Status, "unexpected backend response")
}
