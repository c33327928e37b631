package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/models"
	"github.com/noah-isme/visa-admin/pkg/jobs"
)

const jobTypeStatusTransition = "status_transition"

type auditRepository interface {
	CreateStatusTransition(ctx context.Context, t *models.StatusTransition) error
	ListStatusTransitions(ctx context.Context, module, applicationID string, limit int) ([]models.StatusTransition, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// AuditService records every status change. Each change is logged; when a repository is
// configured it is also persisted, asynchronously if a queue is attached.
type AuditService struct {
	repo   auditRepository
	queue  jobEnqueuer
	logger *zap.Logger
}

// NewAuditService constructs the service. repo may be nil.
func NewAuditService(repo auditRepository, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// UseQueue routes persistence through q. Handle must be the queue's handler.
func (s *AuditService) UseQueue(q jobEnqueuer) {
	s.queue = q
}

// Persistent reports whether transitions are stored beyond the log.
func (s *AuditService) Persistent() bool {
	return s != nil && s.repo != nil
}

// RecordTransition logs t and schedules it for persistence. It never fails the caller.
func (s *AuditService) RecordTransition(ctx context.Context, t models.StatusTransition) {
	s.logger.Info("application status changed",
		zap.String("module", t.Module),
		zap.String("application_id", t.ApplicationID),
		zap.String("from", string(t.FromStatus)),
		zap.String("to", string(t.ToStatus)),
		zap.String("actor", t.ActorEmail),
		zap.String("request_id", t.RequestID),
	)
	if s.repo == nil {
		return
	}
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{ID: t.RequestID, Type: jobTypeStatusTransition, Payload: t})
		if err == nil {
			return
		}
		s.logger.Warn("audit queue rejected transition, writing inline", zap.Error(err))
	}
	if err := s.repo.CreateStatusTransition(ctx, &t); err != nil {
		s.logger.Error("failed to persist status transition", zap.String("application_id", t.ApplicationID), zap.Error(err))
	}
}

// Handle is the queue handler persisting one transition.
func (s *AuditService) Handle(ctx context.Context, job jobs.Job) error {
	t, ok := job.Payload.(models.StatusTransition)
	if !ok {
		return fmt.Errorf("unexpected audit payload %T", job.Payload)
	}
	return s.repo.CreateStatusTransition(ctx, &t)
}

// History returns the recorded transitions of an application, newest first. Failures are
// logged and yield an empty history.
func (s *AuditService) History(ctx context.Context, module, applicationID string) []models.StatusTransition {
	if s.repo == nil {
		return nil
	}
	list, err := s.repo.ListStatusTransitions(ctx, module, applicationID, 20)
	if err != nil {
		s.logger.Warn("failed to load status history", zap.String("application_id", applicationID), zap.Error(err))
		return nil
	}
	return list
}
