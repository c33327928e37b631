package service

import (
	"context"
	"sync"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type fakeGateway struct {
	mu sync.Mutex

	apps       map[string][]models.VisaApplication
	listErr    map[string]error
	listCalls  int
	statusErr  error
	statuses   []models.ApplicationStatus
	reminders  []models.ReminderType
	reminderFn func(ctx context.Context) error
	govRefs    []models.GovRefRequest
	deleted    []models.GovRefTarget
	login      *models.BackendLogin
	loginErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{apps: map[string][]models.VisaApplication{}, listErr: map[string]error{}}
}

func (f *fakeGateway) ListApplications(_ context.Context, m models.Module) ([]models.VisaApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if err := f.listErr[m.Name]; err != nil {
		return nil, err
	}
	return append([]models.VisaApplication(nil), f.apps[m.Name]...), nil
}

func (f *fakeGateway) GetApplication(_ context.Context, m models.Module, id string) (*models.VisaApplication, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, app := range f.apps[m.Name] {
		if app.ID == id {
			app := app
			return &app, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
}

func (f *fakeGateway) UpdateStatus(_ context.Context, _ models.Module, _ string, status models.ApplicationStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return f.statusErr
	}
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeGateway) SendReminder(ctx context.Context, _ models.Module, _ string, t models.ReminderType) error {
	f.mu.Lock()
	fn := f.reminderFn
	f.reminders = append(f.reminders, t)
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (f *fakeGateway) SaveGovRef(_ context.Context, m models.Module, req models.GovRefRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.govRefs = append(f.govRefs, req)
	details := &models.GovRefDetails{ReferenceNumber: req.ReferenceNumber, ReferenceEmail: req.ReferenceEmail, Comment: req.Comment}
	for i := range f.apps[m.Name] {
		app := &f.apps[m.Name][i]
		if app.ID != req.ApplicationID {
			continue
		}
		if req.ApplicantType == models.ApplicantMain {
			app.GovRefDetails = details
		} else if req.ApplicantIndex != nil && *req.ApplicantIndex < len(app.AdditionalApplicants) {
			app.AdditionalApplicants[*req.ApplicantIndex].GovRefDetails = details
		}
	}
	return nil
}

func (f *fakeGateway) GetGovRef(_ context.Context, _ models.Module, _ models.GovRefTarget) (*models.GovRefDetails, error) {
	return &models.GovRefDetails{ReferenceNumber: "GOV-1"}, nil
}

func (f *fakeGateway) DeleteGovRef(_ context.Context, _ models.Module, target models.GovRefTarget) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, target)
	return nil
}

func (f *fakeGateway) Login(_ context.Context, _, _ string) (*models.BackendLogin, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.login, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	created []models.StatusTransition
}

func (f *fakeAuditRepo) CreateStatusTransition(_ context.Context, t *models.StatusTransition) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, *t)
	return nil
}

func (f *fakeAuditRepo) ListStatusTransitions(_ context.Context, module, applicationID string, _ int) ([]models.StatusTransition, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.StatusTransition
	for i := len(f.created) - 1; i >= 0; i-- {
		t := f.created[i]
		if t.Module == module && t.ApplicationID == applicationID {
			out = append(out, t)
		}
	}
	return out, nil
}
