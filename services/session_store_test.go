package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct {
	hits int
}

func newCounterStore(t *testing.T, ttl time.Duration, capacity int) *SessionStore[*counter] {
	t.Helper()
	store, err := NewSessionStore(ttl, capacity, func() *counter { return &counter{} })
	require.NoError(t, err)
	t.Cleanup(store.Close)
	return store
}

func TestSessionStoreCreatesOnce(t *testing.T) {
	store := newCounterStore(t, time.Hour, 0)
	ctx := context.Background()

	first, created, err := store.Load(ctx, "a")
	require.NoError(t, err)
	require.True(t, created)
	first.hits++

	again, created, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, again)
	assert.Equal(t, 1, again.hits)
}

func TestSessionStoreSeparatesSessions(t *testing.T) {
	store := newCounterStore(t, time.Hour, 0)
	ctx := context.Background()

	a, _, _ := store.Load(ctx, "a")
	b, created, err := store.Load(ctx, "b")

	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, a, b)
}

func TestSessionStoreDelete(t *testing.T) {
	store := newCounterStore(t, time.Hour, 0)
	ctx := context.Background()

	first, _, _ := store.Load(ctx, "a")
	require.NoError(t, store.Delete(ctx, "a"))

	second, created, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, first, second)
}

func TestSessionStoreExpires(t *testing.T) {
	store := newCounterStore(t, 50*time.Millisecond, 0)
	ctx := context.Background()

	first, _, _ := store.Load(ctx, "a")

	require.Eventually(t, func() bool {
		_, err := store.cache.Get(ctx, "a")
		return err != nil
	}, 3*time.Second, 20*time.Millisecond)

	second, created, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotSame(t, first, second)
}

func TestSessionStoreDefaults(t *testing.T) {
	store := newCounterStore(t, 0, 0)
	assert.Equal(t, DefaultSessionTTL, store.ttl)
	assert.Equal(t, DefaultSessionCapacity, store.capacity)
}

func TestSessionStoreKeepsLiveSessionsUnderLoad(t *testing.T) {
	store := newCounterStore(t, time.Hour, 100)
	ctx := context.Background()

	kept, _, err := store.Load(ctx, "kept")
	require.NoError(t, err)
	kept.hits = 7

	full := 0
	for i := 0; i < 1000; i++ {
		if _, _, err := store.Load(ctx, fmt.Sprintf("other-%d", i)); err != nil {
			require.ErrorIs(t, err, ErrSessionStoreFull)
			full++
		}
	}
	assert.Equal(t, 1000-99, full)

	again, created, err := store.Load(ctx, "kept")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, kept, again)
	assert.Equal(t, 7, again.hits)
}

func TestSessionStoreCapacityBoundary(t *testing.T) {
	store := newCounterStore(t, time.Hour, 2)
	ctx := context.Background()

	_, _, err := store.Load(ctx, "a")
	require.NoError(t, err)
	_, _, err = store.Load(ctx, "b")
	require.NoError(t, err)

	_, _, err = store.Load(ctx, "c")
	assert.ErrorIs(t, err, ErrSessionStoreFull)

	// existing sessions keep working while full
	_, created, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, created)

	require.NoError(t, store.Delete(ctx, "b"))
	_, created, err = store.Load(ctx, "c")
	require.NoError(t, err)
	assert.True(t, created)
}

func TestSessionStoreFreesExpiredSlots(t *testing.T) {
	store := newCounterStore(t, 50*time.Millisecond, 1)
	ctx := context.Background()

	_, _, err := store.Load(ctx, "a")
	require.NoError(t, err)
	_, _, err = store.Load(ctx, "b")
	require.ErrorIs(t, err, ErrSessionStoreFull)

	time.Sleep(80 * time.Millisecond)

	_, created, err := store.Load(ctx, "b")
	require.NoError(t, err)
	assert.True(t, created)
}
