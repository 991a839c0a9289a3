package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// fakeClock is advanced by hand in expiry tests
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func TestInMemoryIdempotencyStore_MarkProcessed(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	clock := newFakeClock()
	store.now = clock.Now
	ctx := context.Background()

	t.Run("claims a new key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "payment:checkout:1001", time.Hour)
		require.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("rejects a claimed key", func(t *testing.T) {
		isNew, err := store.MarkProcessed(ctx, "payment:checkout:1001", time.Hour)
		require.NoError(t, err)
		assert.False(t, isNew)
	})

	t.Run("reclaims after expiry", func(t *testing.T) {
		_, err := store.MarkProcessed(ctx, "payment:checkout:1002", time.Minute)
		require.NoError(t, err)
		clock.Advance(time.Minute)

		isNew, err := store.MarkProcessed(ctx, "payment:checkout:1002", time.Minute)
		require.NoError(t, err)
		assert.True(t, isNew)
	})
}

func TestInMemoryIdempotencyStore_IsProcessedAndRelease(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	clock := newFakeClock()
	store.now = clock.Now
	ctx := context.Background()

	processed, err := store.IsProcessed(ctx, "unknown")
	require.NoError(t, err)
	assert.False(t, processed)

	_, _ = store.MarkProcessed(ctx, "payment:webhook:TX1:completed", time.Hour)
	processed, _ = store.IsProcessed(ctx, "payment:webhook:TX1:completed")
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, "payment:webhook:TX1:completed"))
	processed, _ = store.IsProcessed(ctx, "payment:webhook:TX1:completed")
	assert.False(t, processed)

	isNew, _ := store.MarkProcessed(ctx, "payment:webhook:TX1:completed", time.Hour)
	assert.True(t, isNew, "released key can be claimed again")

	clock.Advance(time.Hour)
	processed, _ = store.IsProcessed(ctx, "payment:webhook:TX1:completed")
	assert.False(t, processed, "expired claim is not processed")
}

func TestInMemoryIdempotencyStore_Sweep(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	clock := newFakeClock()
	store.now = clock.Now
	ctx := context.Background()

	_, _ = store.MarkProcessed(ctx, "short-1", time.Second)
	_, _ = store.MarkProcessed(ctx, "short-2", time.Second)
	_, _ = store.MarkProcessed(ctx, "long", time.Hour)
	assert.Equal(t, 3, store.Size())

	clock.Advance(2 * time.Second)
	store.sweep()

	assert.Equal(t, 1, store.Size())
	processed, _ := store.IsProcessed(ctx, "long")
	assert.True(t, processed)
}

func TestInMemoryIdempotencyStore_ConcurrentClaims(t *testing.T) {
	store := NewInMemoryIdempotencyStore()
	defer store.Close()
	ctx := context.Background()

	const workers = 100
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fresh int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			isNew, err := store.MarkProcessed(ctx, "payment:checkout:42", time.Hour)
			if err == nil && isNew {
				mu.Lock()
				fresh++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fresh, "exactly one caller wins the claim")
}

func TestInMemoryIdempotencyStore_CloseStopsSweeper(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := NewInMemoryIdempotencyStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
