package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewService(client)
}

func TestRedisCache_SetGet(t *testing.T) {
	_, svc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", map[string]string{"html": "<p>hi</p>"}, TTLShort))

	var got map[string]string
	require.NoError(t, svc.Get(ctx, "k", &got))
	assert.Equal(t, "<p>hi</p>", got["html"])
}

func TestRedisCache_GetMiss(t *testing.T) {
	_, svc := setupRedis(t)

	var got string
	err := svc.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisCache_DeleteMissingKeyIsNoop(t *testing.T) {
	mr, svc := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, svc.Delete(ctx, "a", "never-set"))
	require.NoError(t, svc.Delete(ctx, "a"))

	assert.False(t, mr.Exists("a"))
}

func TestRedisCache_Exists(t *testing.T) {
	mr, svc := setupRedis(t)
	ctx := context.Background()

	ok, err := svc.Exists(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, svc.Set(ctx, "x", 1, time.Minute))
	ok, err = svc.Exists(ctx, "x")
	require.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Minute)
	ok, err = svc.Exists(ctx, "x")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_NilClient(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.Error(t, svc.Ping(ctx))
	assert.NoError(t, svc.Set(ctx, "k", 1, TTLDefault))
	assert.NoError(t, svc.Delete(ctx, "k"))

	var v int
	assert.ErrorIs(t, svc.Get(ctx, "k", &v), ErrMiss)
}
