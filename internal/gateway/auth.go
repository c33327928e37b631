package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string              `json:"token"`
	User  *models.UserProfile `json:"user"`
	Data  *struct {
		Token string              `json:"token"`
		User  *models.UserProfile `json:"user"`
	} `json:"data"`
}

// Login exchanges credentials for a backend token. It is called without a session in ctx.
func (c *Client) Login(ctx context.Context, email, password string) (*models.BackendLogin, error) {
	body, err := c.call(ctx, "auth", "login", http.MethodPost, "/auth/login", loginPayload{Email: email, Password: password})
	if err != nil {
		if errors.Is(err, appErrors.ErrUnauthorized) || errors.Is(err, appErrors.ErrValidation) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, decodeError(err)
	}
	out := &models.BackendLogin{Token: resp.Token}
	if resp.User != nil {
		out.User = *resp.User
	}
	if out.Token == "" && resp.Data != nil {
		out.Token = resp.Data.Token
		if resp.Data.User != nil {
			out.User = *resp.Data.User
		}
	}
	if out.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrBackend, "login response carried no token")
	}
	if out.User.Email == "" {
		out.User.Email = email
	}
	return out, nil
}
