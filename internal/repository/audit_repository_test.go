package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/visa-admin/internal/models"
)

func newAuditRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAuditRepositoryCreateStatusTransition(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO status_transitions")).
		WithArgs(sqlmock.AnyArg(), "india", "app-1", "submitted", "on hold", "u1", "ops@example.com", "req-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	transition := &models.StatusTransition{
		Module:        "india",
		ApplicationID: "app-1",
		FromStatus:    models.StatusSubmitted,
		ToStatus:      models.StatusOnHold,
		ActorID:       "u1",
		ActorEmail:    "ops@example.com",
		RequestID:     "req-1",
	}
	require.NoError(t, repo.CreateStatusTransition(context.Background(), transition))
	assert.NotEmpty(t, transition.ID)
	assert.False(t, transition.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditRepositoryListStatusTransitions(t *testing.T) {
	db, mock, cleanup := newAuditRepoMock(t)
	defer cleanup()

	repo := NewAuditRepository(db)
	rows := sqlmock.NewRows([]string{"id", "module", "application_id", "from_status", "to_status", "actor_id", "actor_email", "request_id", "created_at"}).
		AddRow("t2", "kenya", "k1", "on hold", "visa granted", "u1", "ops@example.com", "req-2", time.Now()).
		AddRow("t1", "kenya", "k1", "submitted", "on hold", "u1", "ops@example.com", "req-1", time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM status_transitions WHERE module = $1")).
		WithArgs("kenya", "k1", 20).
		WillReturnRows(rows)

	list, err := repo.ListStatusTransitions(context.Background(), "kenya", "k1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.StatusVisaGranted, list[0].ToStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}
