package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinesphere/cinesphere-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenInMemory(nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newSession(id string, userID int64, ttl time.Duration) *domain.Session {
	now := time.Now()
	return &domain.Session{ID: id, UserID: userID, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestCreateAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("sess-1", 7, time.Hour)))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.UserID)
	assert.Equal(t, "sess-1", got.ID)
}

func TestGet_Missing(t *testing.T) {
	_, err := newTestStore(t).Get(context.Background(), "sess-nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCreate_AlreadyExpired(t *testing.T) {
	err := newTestStore(t).Create(context.Background(), newSession("sess-old", 1, -time.Minute))
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestGet_ExpiresWithTTL(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("sess-short", 1, 1500*time.Millisecond)))

	require.Eventually(t, func() bool {
		_, err := s.Get(ctx, "sess-short")
		return err != nil
	}, 5*time.Second, 100*time.Millisecond)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("sess-1", 7, time.Hour)))
	require.NoError(t, s.Create(ctx, newSession("sess-2", 7, time.Hour)))

	n, err := s.CountForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.Delete(ctx, "sess-1"))

	_, err = s.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	n, err = s.CountForUser(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// Deleting twice is fine.
	assert.NoError(t, s.Delete(ctx, "sess-1"))
}

func TestCountForUser_Isolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newSession("sess-a", 1, time.Hour)))
	require.NoError(t, s.Create(ctx, newSession("sess-b", 11, time.Hour)))

	n, err := s.CountForUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOpen_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir, nil)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, newSession("sess-1", 3, time.Hour)))
	require.NoError(t, s.Close())

	s2, err := Open(dir, nil)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.UserID)
}

func TestCollectGarbage_NothingToRewrite(t *testing.T) {
	s, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.CollectGarbage()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCollectGarbage_InMemory(t *testing.T) {
	s := newTestStore(t)

	n, err := s.CollectGarbage()
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
