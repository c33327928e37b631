package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/grid"
	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type applicationGateway interface {
	ListApplications(ctx context.Context, m models.Module) ([]models.VisaApplication, error)
	GetApplication(ctx context.Context, m models.Module, id string) (*models.VisaApplication, error)
	UpdateStatus(ctx context.Context, m models.Module, id string, status models.ApplicationStatus) error
	SendReminder(ctx context.Context, m models.Module, id string, t models.ReminderType) error
	SaveGovRef(ctx context.Context, m models.Module, req models.GovRefRequest) error
	GetGovRef(ctx context.Context, m models.Module, target models.GovRefTarget) (*models.GovRefDetails, error)
	DeleteGovRef(ctx context.Context, m models.Module, target models.GovRefTarget) error
}

// Actor identifies the staff member and request behind a mutation.
type Actor struct {
	SessionID string
	UserID    string
	Email     string
	RequestID string
}

// ApplicationList is one rendered page of a module's list view.
type ApplicationList struct {
	Module models.Module
	Page   grid.Page[models.VisaApplication]
}

// ApplicationService implements the list and detail views of every module.
type ApplicationService struct {
	gateway   applicationGateway
	cache     *CacheService
	audit     *AuditService
	guard     *ReminderGuard
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	table     *grid.Table[models.VisaApplication]
}

// NewApplicationService constructs the service. cache, audit and metrics may be nil.
func NewApplicationService(gateway applicationGateway, cache *CacheService, audit *AuditService, guard *ReminderGuard, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, pageSize int) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if guard == nil {
		guard = NewReminderGuard()
	}
	if audit == nil {
		audit = NewAuditService(nil, logger)
	}
	return &ApplicationService{
		gateway:   gateway,
		cache:     cache,
		audit:     audit,
		guard:     guard,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		table:     NewApplicationTable(pageSize),
	}
}

// Table exposes the column model used by list pages and exports.
func (s *ApplicationService) Table() *grid.Table[models.VisaApplication] {
	return s.table
}

// Module resolves a module name from the URL.
func (s *ApplicationService) Module(name string) (models.Module, error) {
	m, ok := models.LookupModule(name)
	if !ok {
		return models.Module{}, appErrors.Clone(appErrors.ErrNotFound, "unknown module")
	}
	return m, nil
}

// Collection returns the full application collection of a module, served from cache when fresh.
func (s *ApplicationService) Collection(ctx context.Context, m models.Module) ([]models.VisaApplication, error) {
	var apps []models.VisaApplication
	if s.cache.Get(ctx, collectionKey(m.Name), &apps) {
		return apps, nil
	}
	apps, err := s.gateway.ListApplications(ctx, m)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, collectionKey(m.Name), apps)
	return apps, nil
}

// List applies the table query to a module's collection.
func (s *ApplicationService) List(ctx context.Context, module string, q grid.Query) (*ApplicationList, error) {
	m, err := s.Module(module)
	if err != nil {
		return nil, err
	}
	apps, err := s.Collection(ctx, m)
	if err != nil {
		return nil, err
	}
	return &ApplicationList{Module: m, Page: s.table.Apply(apps, q)}, nil
}

// Filtered returns every application matching q in display order, unpaginated.
func (s *ApplicationService) Filtered(ctx context.Context, module string, q grid.Query) (models.Module, []models.VisaApplication, error) {
	m, err := s.Module(module)
	if err != nil {
		return models.Module{}, nil, err
	}
	apps, err := s.Collection(ctx, m)
	if err != nil {
		return models.Module{}, nil, err
	}
	return m, s.table.Filtered(apps, q), nil
}

// Detail fetches one record fresh from the backend together with its dashboard history.
func (s *ApplicationService) Detail(ctx context.Context, module, id string, actor Actor) (*models.ApplicationDetail, error) {
	m, err := s.Module(module)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
	}
	app, err := s.gateway.GetApplication(ctx, m, id)
	if err != nil {
		return nil, err
	}
	return &models.ApplicationDetail{
		Module:      m,
		Application: app,
		History:     s.audit.History(ctx, m.Name, id),
		Sending:     s.guard.InFlight(ReminderKey(actor.SessionID, m.Name, id)),
	}, nil
}

// ChangeStatus asks the backend to move an application to a new status. Every transition
// between selectable statuses is permitted. On failure the result carries the status the
// page must revert to.
func (s *ApplicationService) ChangeStatus(ctx context.Context, module, id string, req models.StatusChangeRequest, actor Actor) (*models.StatusChangeResult, error) {
	m, err := s.Module(module)
	if err != nil {
		return nil, err
	}
	previous := models.ApplicationStatus(strings.TrimSpace(req.PreviousStatus))
	reverted := &models.StatusChangeResult{Status: previous, Previous: previous}

	if err := s.validator.Struct(req); err != nil {
		return reverted, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status is required")
	}
	next, ok := models.ParseApplicationStatus(req.Status)
	if !ok {
		return reverted, appErrors.Clone(appErrors.ErrValidation, "unknown status")
	}

	err = s.gateway.UpdateStatus(ctx, m, id, next)
	s.metrics.RecordTransition(m.Name, string(next), err)
	if err != nil {
		s.logger.Warn("status change failed",
			zap.String("module", m.Name),
			zap.String("application_id", id),
			zap.String("to", string(next)),
			zap.Error(err))
		return reverted, err
	}

	s.audit.RecordTransition(ctx, models.StatusTransition{
		Module:        m.Name,
		ApplicationID: id,
		FromStatus:    previous,
		ToStatus:      next,
		ActorID:       actor.UserID,
		ActorEmail:    actor.Email,
		RequestID:     actor.RequestID,
		CreatedAt:     time.Now().UTC(),
	})
	s.cache.InvalidateModule(ctx, m.Name)
	return &models.StatusChangeResult{Status: next, Previous: previous, Applied: true}, nil
}

// SendReminder triggers one reminder email. While a send for the same record is pending in
// the same session, further sends are refused.
func (s *ApplicationService) SendReminder(ctx context.Context, module, id string, t models.ReminderType, actor Actor) error {
	m, err := s.Module(module)
	if err != nil {
		return err
	}
	if !m.SupportsReminder(t) {
		return appErrors.Clone(appErrors.ErrUnsupported, "reminder type not available for "+m.Title)
	}
	release, ok := s.guard.Acquire(ReminderKey(actor.SessionID, m.Name, id), t)
	if !ok {
		return appErrors.ErrReminderInFlight
	}
	defer release()

	err = s.gateway.SendReminder(ctx, m, id, t)
	s.metrics.RecordReminder(m.Name, string(t), err)
	if err != nil {
		s.logger.Warn("reminder failed", zap.String("module", m.Name), zap.String("application_id", id), zap.String("type", string(t)), zap.Error(err))
		return err
	}
	s.logger.Info("reminder sent", zap.String("module", m.Name), zap.String("application_id", id), zap.String("type", string(t)), zap.String("actor", actor.Email))
	return nil
}

// SaveGovRef stores government reference details for the main or an additional applicant.
func (s *ApplicationService) SaveGovRef(ctx context.Context, module string, req models.GovRefRequest) error {
	m, err := s.govRefModule(module)
	if err != nil {
		return err
	}
	req.ReferenceNumber = strings.TrimSpace(req.ReferenceNumber)
	req.ReferenceEmail = strings.TrimSpace(req.ReferenceEmail)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, govRefValidationMessage(err))
	}
	if req.ApplicantType == models.ApplicantAdditional && req.ApplicantIndex == nil {
		return appErrors.Clone(appErrors.ErrValidation, "applicant index is required for additional applicants")
	}
	if req.ApplicantType == models.ApplicantMain {
		req.ApplicantIndex = nil
	}
	if err := s.gateway.SaveGovRef(ctx, m, req); err != nil {
		return err
	}
	s.cache.InvalidateModule(ctx, m.Name)
	return nil
}

// GetGovRef reads the government reference details of one applicant.
func (s *ApplicationService) GetGovRef(ctx context.Context, module string, target models.GovRefTarget) (*models.GovRefDetails, error) {
	m, err := s.govRefModule(module)
	if err != nil {
		return nil, err
	}
	if err := validateGovRefTarget(target); err != nil {
		return nil, err
	}
	return s.gateway.GetGovRef(ctx, m, target)
}

// DeleteGovRef removes the government reference details of one applicant.
func (s *ApplicationService) DeleteGovRef(ctx context.Context, module string, target models.GovRefTarget) error {
	m, err := s.govRefModule(module)
	if err != nil {
		return err
	}
	if err := validateGovRefTarget(target); err != nil {
		return err
	}
	if err := s.gateway.DeleteGovRef(ctx, m, target); err != nil {
		return err
	}
	s.cache.InvalidateModule(ctx, m.Name)
	return nil
}

func (s *ApplicationService) govRefModule(module string) (models.Module, error) {
	m, err := s.Module(module)
	if err != nil {
		return m, err
	}
	if !m.GovRef {
		return m, appErrors.Clone(appErrors.ErrUnsupported, "government references are not tracked for "+m.Title)
	}
	return m, nil
}

func validateGovRefTarget(target models.GovRefTarget) error {
	switch target.ApplicantType {
	case models.ApplicantMain:
		return nil
	case models.ApplicantAdditional:
		if target.Index == nil || *target.Index < 0 {
			return appErrors.Clone(appErrors.ErrValidation, "applicant index is required for additional applicants")
		}
		return nil
	default:
		return appErrors.Clone(appErrors.ErrValidation, "applicant type must be main or additional")
	}
}

func govRefValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid government reference"
	}
	switch verrs[0].Field() {
	case "ReferenceNumber":
		return "reference number is required"
	case "ReferenceEmail":
		return "reference email is invalid"
	case "Comment":
		return "comment is too long"
	case "ApplicantType":
		return "applicant type must be main or additional"
	default:
		return "invalid government reference"
	}
}
