package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ahmet872/amazon-review-sales-predictor/core"
)

// 需要本地 Redis：REDIS_ADDR=localhost:6379 go test ./store/...
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	s, err := NewRedisStore(addr, 15)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "test:key", []byte("v"), 60))
	v, err := s.Get(ctx, "test:key")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	require.NoError(t, s.Delete(ctx, "test:key"))
	_, err = s.Get(ctx, "test:key")
	assert.True(t, core.IsStoreNotFound(err))

	require.NoError(t, s.Delete(ctx, "test:z"))
	require.NoError(t, s.ZAdd(ctx, "test:z", 1, "a"))
	require.NoError(t, s.ZAdd(ctx, "test:z", 2, "b"))
	members, err := s.ZRange(ctx, "test:z", 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, members)
}

func TestNewRedisStore_Unavailable(t *testing.T) {
	_, err := NewRedisStore("127.0.0.1:1", 0)
	require.Error(t, err)
	assert.Equal(t, core.ErrorCodeUnavailable, core.GetDomainError(err).Code)
}
