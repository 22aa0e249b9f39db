package redisstate_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstate "github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/infra/state/redis"
)

func newStateStore(t *testing.T) *redisstate.RedisStateStore {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return redisstate.NewRedisStateStore(client, "test:")
}

func TestOAuthState_ConsumeOnce(t *testing.T) {
	store := newStateStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveOAuthState(ctx, "state-abc"))

	ok, err := store.ConsumeOAuthState(ctx, "state-abc")
	require.NoError(t, err)
	assert.True(t, ok)

	// Second consume fails: the token is single use.
	ok, err = store.ConsumeOAuthState(ctx, "state-abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOAuthState_UnknownStateRejected(t *testing.T) {
	store := newStateStore(t)

	ok, err := store.ConsumeOAuthState(context.Background(), "never-saved")
	require.NoError(t, err)
	assert.False(t, ok)
}
