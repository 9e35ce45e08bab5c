package redislock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLockers(t *testing.T) (*miniredis.Miniredis, *Locker, *Locker) {
	t.Helper()
	mr := miniredis.RunT(t)

	a := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	b := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})
	return mr, a, b
}

func TestOnlyOneHolder(t *testing.T) {
	_, a, b := newLockers(t)
	ctx := context.Background()

	ok, err := a.TryAcquire(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = b.TryAcquire(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReleaseOnlyByOwner(t *testing.T) {
	mr, a, b := newLockers(t)
	ctx := context.Background()

	_, err := a.TryAcquire(ctx, "sweep", time.Minute)
	require.NoError(t, err)

	require.NoError(t, b.Release(ctx, "sweep"))
	assert.True(t, mr.Exists("sweep"))

	require.NoError(t, a.Release(ctx, "sweep"))
	assert.False(t, mr.Exists("sweep"))
}

func TestLockExpires(t *testing.T) {
	mr, a, b := newLockers(t)
	ctx := context.Background()

	_, err := a.TryAcquire(ctx, "sweep", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	ok, err := b.TryAcquire(ctx, "sweep", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNewFromURL(t *testing.T) {
	_, err := NewFromURL("::not a url")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	l, err := NewFromURL("redis://" + mr.Addr())
	require.NoError(t, err)
	defer l.Close()

	ok, err := l.TryAcquire(context.Background(), "k", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
