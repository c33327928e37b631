package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSessionRepositoryRoundTripAndExpiry(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	session := &models.Session{
		ID:        "sid-1",
		Token:     "backend-token",
		User:      models.UserProfile{ID: "u1", Email: "ops@example.com"},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, session))
	assert.True(t, mr.Exists("session:sid-1"))

	got, err := repo.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "backend-token", got.Token)
	assert.Equal(t, "ops@example.com", got.User.Email)

	mr.FastForward(2 * time.Hour)
	_, err = repo.Get(ctx, "sid-1")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}

func TestSessionRepositoryDelete(t *testing.T) {
	_, client := newRedis(t)
	repo := NewSessionRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Session{ID: "sid-2", Token: "t", ExpiresAt: time.Now().Add(time.Minute)}))
	require.NoError(t, repo.Delete(ctx, "sid-2"))
	require.NoError(t, repo.Delete(ctx, "sid-2"))

	_, err := repo.Get(ctx, "sid-2")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
}

func TestMemorySessionRepositoryExpiry(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Session{ID: "m1", Token: "t", ExpiresAt: now.Add(time.Hour)}))
	got, err := repo.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Token)

	now = now.Add(2 * time.Hour)
	_, err = repo.Get(ctx, "m1")
	assert.True(t, errors.Is(err, appErrors.ErrSessionNotFound))
	assert.NotContains(t, repo.sessions, "m1")
}

func TestMemorySessionRepositorySaveSweepsExpired(t *testing.T) {
	repo := NewMemorySessionRepository()
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, &models.Session{ID: "old", Token: "t", ExpiresAt: now.Add(time.Minute)}))
	require.NoError(t, repo.Save(ctx, &models.Session{ID: "long", Token: "t", ExpiresAt: now.Add(24 * time.Hour)}))

	now = now.Add(time.Hour)
	require.NoError(t, repo.Save(ctx, &models.Session{ID: "new", Token: "t", ExpiresAt: now.Add(time.Hour)}))

	assert.NotContains(t, repo.sessions, "old")
	assert.Contains(t, repo.sessions, "long")
	assert.Contains(t, repo.sessions, "new")
}
