package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/visa-admin/internal/models"
)

// AuditRepository persists status transitions made through the dashboard.
type AuditRepository struct {
	db *sqlx.DB
}

// NewAuditRepository constructs the repository.
func NewAuditRepository(db *sqlx.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateStatusTransition inserts one transition row.
func (r *AuditRepository) CreateStatusTransition(ctx context.Context, t *models.StatusTransition) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO status_transitions
	(id, module, application_id, from_status, to_status, actor_id, actor_email, request_id, created_at)
	VALUES (:id, :module, :application_id, :from_status, :to_status, :actor_id, :actor_email, :request_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("create status transition: %w", err)
	}
	return nil
}

// ListStatusTransitions returns the latest transitions of one application, newest first.
func (r *AuditRepository) ListStatusTransitions(ctx context.Context, module, applicationID string, limit int) ([]models.StatusTransition, error) {
	if limit <= 0 {
		limit = 20
	}
	const query = `SELECT id, module, application_id, from_status, to_status, actor_id, actor_email, request_id, created_at
	FROM status_transitions WHERE module = $1 AND application_id = $2
	ORDER BY created_at DESC LIMIT $3`
	var out []models.StatusTransition
	if err := r.db.SelectContext(ctx, &out, query, module, applicationID, limit); err != nil {
		return nil, fmt.Errorf("list status transitions: %w", err)
	}
	return out, nil
}
