package artisan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache(16, time.Minute)

	v, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	v, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, []byte("1"), v)

	require.NoError(t, c.Delete(ctx, "a"))
	v, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache(16, time.Minute)

	require.NoError(t, c.Set(ctx, "query:users:1", []byte("a"), 0))
	require.NoError(t, c.Set(ctx, "query:users:2", []byte("b"), 0))
	require.NoError(t, c.Set(ctx, "query:posts:1", []byte("c"), 0))

	require.NoError(t, c.DeletePrefix(ctx, "query:users:"))
	v, _ := c.Get(ctx, "query:users:1")
	require.Nil(t, v)
	v, _ = c.Get(ctx, "query:users:2")
	require.Nil(t, v)
	v, _ = c.Get(ctx, "query:posts:1")
	require.Equal(t, []byte("c"), v)
}

func TestMemoryCache_Clear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewMemoryCache(16, time.Minute)

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, c.Clear(ctx))
	v, _ := c.Get(ctx, "a")
	require.Nil(t, v)
	v, _ = c.Get(ctx, "b")
	require.Nil(t, v)
}
