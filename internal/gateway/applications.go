package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

// ListApplications fetches the whole collection of a module.
func (c *Client) ListApplications(ctx context.Context, m models.Module) ([]models.VisaApplication, error) {
	body, err := c.call(ctx, m.Name, "list", http.MethodGet, "/"+m.ListPath, nil)
	if err != nil {
		return nil, err
	}
	payload, err := unwrap(m.Envelope, body)
	if err != nil {
		return nil, decodeError(err)
	}
	if payload == nil {
		return []models.VisaApplication{}, nil
	}
	var apps []models.VisaApplication
	if err := json.Unmarshal(payload, &apps); err != nil {
		return nil, decodeError(err)
	}
	for _, app := range apps {
		c.warnMalformed(m, app)
	}
	return apps, nil
}

// GetApplication fetches one record. An empty body is reported as not found.
func (c *Client) GetApplication(ctx context.Context, m models.Module, id string) (*models.VisaApplication, error) {
	body, err := c.call(ctx, m.Name, "detail", http.MethodGet, appPath(m, id), nil)
	if err != nil {
		return nil, err
	}
	payload, err := unwrap(m.Envelope, body)
	if err != nil {
		return nil, decodeError(err)
	}
	if payload == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	var app models.VisaApplication
	if err := json.Unmarshal(payload, &app); err != nil {
		return nil, decodeError(err)
	}
	if app.ID == "" {
		app.ID = id
	}
	c.warnMalformed(m, app)
	return &app, nil
}

func (c *Client) warnMalformed(m models.Module, app models.VisaApplication) {
	if app.Price.Malformed == "" {
		return
	}
	c.logger.Warn("unparseable price treated as zero",
		zap.String("module", m.Name),
		zap.String("application_id", app.ID),
		zap.String("price", app.Price.Malformed))
}

// UpdateStatus writes a new status using the module's own field name.
func (c *Client) UpdateStatus(ctx context.Context, m models.Module, id string, status models.ApplicationStatus) error {
	_, err := c.call(ctx, m.Name, "status", http.MethodPut, appPath(m, id), map[string]string{m.StatusField: string(status)})
	return err
}

// SendReminder triggers a reminder email of the given type.
func (c *Client) SendReminder(ctx context.Context, m models.Module, id string, t models.ReminderType) error {
	path := fmt.Sprintf("/%s/mail/%s-reminder/%s", m.Name, t, url.PathEscape(id))
	_, err := c.call(ctx, m.Name, "reminder", http.MethodPost, path, nil)
	return err
}

// SaveGovRef creates or replaces government reference details.
func (c *Client) SaveGovRef(ctx context.Context, m models.Module, req models.GovRefRequest) error {
	_, err := c.call(ctx, m.Name, "govref_save", http.MethodPost, fmt.Sprintf("/%s/gov-ref/create", m.Name), req)
	return err
}

// GetGovRef reads the reference details of the addressed applicant.
func (c *Client) GetGovRef(ctx context.Context, m models.Module, target models.GovRefTarget) (*models.GovRefDetails, error) {
	body, err := c.call(ctx, m.Name, "govref_get", http.MethodGet, govRefPath(m, target), nil)
	if err != nil {
		return nil, err
	}
	payload, err := unwrap(m.Envelope, body)
	if err != nil {
		return nil, decodeError(err)
	}
	if payload == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no government reference recorded")
	}
	var details models.GovRefDetails
	if err := json.Unmarshal(payload, &details); err != nil {
		return nil, decodeError(err)
	}
	return &details, nil
}

// DeleteGovRef removes the reference details of the addressed applicant.
func (c *Client) DeleteGovRef(ctx context.Context, m models.Module, target models.GovRefTarget) error {
	_, err := c.call(ctx, m.Name, "govref_delete", http.MethodDelete, govRefPath(m, target), nil)
	return err
}

func appPath(m models.Module, id string) string {
	return fmt.Sprintf("/%s/%s", m.Name, url.PathEscape(id))
}

func govRefPath(m models.Module, target models.GovRefTarget) string {
	path := fmt.Sprintf("/%s/gov-ref/%s/%s", m.Name, url.PathEscape(target.ApplicationID), target.ApplicantType)
	if target.ApplicantType == models.ApplicantAdditional && target.Index != nil {
		path += "/" + strconv.Itoa(*target.Index)
	}
	return path
}
