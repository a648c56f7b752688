package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, ttl), mr
}

func TestStoreEstablishAndResolve(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	principal := &domain.Principal{
		ID:       "user-1",
		AuthType: domain.AuthTypeLocal,
		Username: "johndoe",
		Email:    "john@example.com",
	}

	id, err := store.Establish(ctx, principal)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	resolved, err := store.Resolve(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "user-1", resolved.ID)
	assert.Equal(t, "johndoe", resolved.Username)
	assert.Equal(t, domain.AuthTypeLocal, resolved.AuthType)
}

func TestStoreResolveUnknownSession(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)

	_, err := store.Resolve(context.Background(), "no-such-session")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStoreResolveExpiredSession(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	id, err := store.Establish(ctx, &domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Resolve(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStoreResolveRefreshesExpiry(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	id, err := store.Establish(ctx, &domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	mr.FastForward(45 * time.Second)
	_, err = store.Resolve(ctx, id)
	require.NoError(t, err)

	mr.FastForward(45 * time.Second)
	_, err = store.Resolve(ctx, id)
	assert.NoError(t, err, "resolve must slide the expiry forward")
}

func TestStoreDestroy(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	id, err := store.Establish(ctx, &domain.Principal{ID: "user-1"})
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, id))

	_, err = store.Resolve(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.NoError(t, store.Destroy(ctx, id), "destroying twice is a no-op")
}
