package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestThrottle(t *testing.T, max int, window time.Duration) (*LoginThrottle, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginThrottle(client, max, window), mr
}

func TestLoginThrottle_BlocksAfterMaxAttempts(t *testing.T) {
	th, _ := newTestThrottle(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		blocked, err := th.Blocked(ctx, "alice")
		require.NoError(t, err)
		assert.False(t, blocked, "attempt %d", i)
		require.NoError(t, th.RecordFailure(ctx, "alice"))
	}

	blocked, err := th.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, blocked)

	other, err := th.Blocked(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, other, "counters are per username")
}

func TestLoginThrottle_WindowExpires(t *testing.T) {
	th, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, th.RecordFailure(ctx, "alice"))
	assert.Equal(t, time.Minute, mr.TTL("login_failures:alice"))

	// Later failures must not extend the window.
	mr.FastForward(30 * time.Second)
	require.NoError(t, th.RecordFailure(ctx, "alice"))
	assert.Equal(t, 30*time.Second, mr.TTL("login_failures:alice"))

	mr.FastForward(31 * time.Second)
	blocked, err := th.Blocked(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestLoginThrottle_Reset(t *testing.T) {
	th, mr := newTestThrottle(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, th.RecordFailure(ctx, "alice"))
	require.NoError(t, th.Reset(ctx, "alice"))
	assert.False(t, mr.Exists("login_failures:alice"))
}

func TestLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	assert.EqualValues(t, defaultMaxAttempts, th.maxAttempts)
	assert.Equal(t, defaultWindow, th.window)
}

func TestLoginThrottle_RedisDown(t *testing.T) {
	th, mr := newTestThrottle(t, 1, time.Minute)
	mr.Close()

	_, err := th.Blocked(context.Background(), "alice")
	assert.Error(t, err)
	assert.Error(t, th.RecordFailure(context.Background(), "alice"))
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 200 * time.Millisecond})
	assert.Error(t, err)
}
