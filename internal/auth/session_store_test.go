package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soporteit/support-desk/internal/domain"
)

func testSession(id string, ttl time.Duration) domain.Session {
	now := time.Now()
	return domain.Session{ID: id, UserID: 1, Username: "admin", Role: domain.RoleAdmin, CreatedAt: now, ExpiresAt: now.Add(ttl)}
}

func TestMemorySessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore()

	require.NoError(t, store.Save(ctx, testSession("a", time.Hour)))
	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Username)

	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreExpiresAbsolutely(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore().(*memorySessionStore)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, testSession("a", time.Hour)))
	// reads do not extend the lifetime
	_, err := store.Get(ctx, "a")
	require.NoError(t, err)

	store.now = func() time.Time { return now.Add(61 * time.Minute) }
	_, err = store.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemorySessionStoreSweepsOnSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemorySessionStore().(*memorySessionStore)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Save(ctx, testSession("old", time.Minute)))
	require.NoError(t, store.Save(ctx, testSession("kept", time.Hour)))

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	require.NoError(t, store.Save(ctx, testSession("new", time.Hour)))

	store.mu.Lock()
	_, oldPresent := store.sessions["old"]
	live := len(store.sessions)
	store.mu.Unlock()
	assert.False(t, oldPresent)
	assert.Equal(t, 2, live)
}

func TestRedisSessionStore(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379", DB: 15})
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	store := NewRedisSessionStore(client)
	session := testSession("redis-test-session", time.Minute)
	require.NoError(t, store.Save(ctx, session))

	ttl, err := client.TTL(ctx, sessionKeyPrefix+session.ID).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	got, err := store.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.Role, got.Role)

	require.NoError(t, store.Delete(ctx, session.ID))
	_, err = store.Get(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
