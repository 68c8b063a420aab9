package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/parley/pkg/adapters/redis"
)

func TestLocker_AcquireAndRelease(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "parley:session:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "alice", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("parley:session:lock:alice"))

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("parley:session:lock:alice"))
}

func TestLocker_ContendedLockWaits(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "parley:session:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "alice", 5*time.Second)
	require.NoError(t, err)

	// A second acquisition must block until the holder releases.
	acquired := make(chan struct{})
	go func() {
		unlock2, err := locker.Lock(ctx, "alice", 5*time.Second)
		assert.NoError(t, err)
		close(acquired)
		_ = unlock2(ctx)
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while the first was held")
	case <-time.After(250 * time.Millisecond):
	}

	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(2 * time.Second):
		t.Fatal("second lock never acquired after release")
	}
}

func TestLocker_ContextCancellation(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	locker := redis.NewLocker(client, "parley:session:")

	unlock, err := locker.Lock(context.Background(), "alice", 5*time.Second)
	require.NoError(t, err)
	defer func() { _ = unlock(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, "alice", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
